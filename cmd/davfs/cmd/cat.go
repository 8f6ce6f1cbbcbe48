package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func NewCatCmd(c *Context) *cobra.Command {
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "cat <file>",
		Short: "Print file content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := c.Base.GetFile(ctx, args[0], nil)
			if err != nil {
				return fmt.Errorf("open file failed, err:%w", err)
			}
			blob, err := f.File(ctx)
			if err != nil {
				return fmt.Errorf("read file failed, err:%w", err)
			}
			if _, err := cmd.OutOrStdout().Write(blob.Data); err != nil {
				return fmt.Errorf("write output failed, err:%w", err)
			}
			return nil
		},
	}
	return subc
}

func init() {
	register(NewCatCmd)
}
