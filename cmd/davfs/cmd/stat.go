package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func NewStatCmd(c *Context) *cobra.Command {
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "stat <path>",
		Short: "Show entry metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ent, err := openEntry(ctx, c.Base, args[0])
			if err != nil {
				return fmt.Errorf("open entry failed, err:%w", err)
			}
			md, err := ent.GetMetadata()
			if err != nil {
				return fmt.Errorf("read metadata failed, err:%w", err)
			}
			kind := "file"
			if ent.IsDirectory() {
				kind = "directory"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:  %s\n", ent.Name())
			fmt.Fprintf(out, "url:   %s\n", ent.FullPath())
			fmt.Fprintf(out, "type:  %s\n", kind)
			fmt.Fprintf(out, "size:  %s (%d)\n", humanize.IBytes(uint64(md.Size)), md.Size)
			fmt.Fprintf(out, "mtime: %s\n", md.ModificationTime.Local().Format(time.DateTime))
			fmt.Fprintf(out, "etag:  %s\n", md.ETag)
			return nil
		},
	}
	return subc
}

func init() {
	register(NewStatCmd)
}
