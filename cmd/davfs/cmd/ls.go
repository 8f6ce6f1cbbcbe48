package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func NewLsCmd(c *Context) *cobra.Command {
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "ls [dir]",
		Short: "List a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := openDirectory(ctx, c.Base, args)
			if err != nil {
				return fmt.Errorf("open directory failed, err:%w", err)
			}
			ents, err := dir.CreateReader().ReadEntries(ctx)
			if err != nil {
				return fmt.Errorf("read directory failed, err:%w", err)
			}
			printEntries(cmd.OutOrStdout(), ents)
			return nil
		},
	}
	return subc
}

func init() {
	register(NewLsCmd)
}
