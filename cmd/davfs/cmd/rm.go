package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/davfs/entry"
	"go.uber.org/zap"
)

type rmArgs struct {
	recursive bool
}

func NewRmCmd(c *Context) *cobra.Command {
	args := &rmArgs{}
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "rm <path>",
		Short: "Remove a file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, params []string) error {
			return onRunRm(ctx, c, params[0], args)
		},
	}
	subc.PersistentFlags().BoolVarP(&args.recursive, "recursive", "r", false, "remove directory with all its children")
	return subc
}

func onRunRm(ctx context.Context, c *Context, p string, args *rmArgs) error {
	ent, err := openEntry(ctx, c.Base, p)
	if err != nil {
		return fmt.Errorf("open entry failed, err:%w", err)
	}
	if d, ok := ent.(*entry.DirectoryEntry); ok && args.recursive {
		err = d.RemoveRecursively(ctx)
	} else {
		err = ent.Remove(ctx)
	}
	if err != nil {
		return fmt.Errorf("remove entry failed, err:%w", err)
	}
	logutil.GetLogger(ctx).Info("remove entry succ", zap.String("url", ent.FullPath()))
	return nil
}

func init() {
	register(NewRmCmd)
}
