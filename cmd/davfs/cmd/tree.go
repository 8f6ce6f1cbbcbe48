package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xxxsen/davfs/entry"
)

func NewTreeCmd(c *Context) *cobra.Command {
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "tree [dir]",
		Short: "Print a directory tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := openDirectory(ctx, c.Base, args)
			if err != nil {
				return fmt.Errorf("open directory failed, err:%w", err)
			}
			return printTree(ctx, cmd.OutOrStdout(), dir)
		},
	}
	return subc
}

func treeDepth(root *entry.DirectoryEntry, ent entry.IEntry) int {
	rel := strings.TrimPrefix(strings.TrimSuffix(ent.FullPath(), "/"), root.FullPath())
	return strings.Count(rel, "/")
}

func printTree(ctx context.Context, w io.Writer, dir *entry.DirectoryEntry) error {
	fmt.Fprintln(w, dir.FullPath())
	return entry.Walk(ctx, dir, func(ctx context.Context, ent entry.IEntry) error {
		name := ent.Name()
		if ent.IsDirectory() {
			name += "/"
		}
		fmt.Fprintf(w, "%s|-- %s\n", strings.Repeat("    ", treeDepth(dir, ent)), name)
		return nil
	})
}

func init() {
	register(NewTreeCmd)
}
