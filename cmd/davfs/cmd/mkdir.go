package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/davfs/entry"
	"go.uber.org/zap"
)

type mkdirArgs struct {
	exclusive bool
}

func NewMkdirCmd(c *Context) *cobra.Command {
	args := &mkdirArgs{}
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "mkdir <dir>",
		Short: "Create a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, params []string) error {
			d, err := c.Base.GetDirectory(ctx, params[0], &entry.Flags{Create: true, Exclusive: args.exclusive})
			if err != nil {
				return fmt.Errorf("create directory failed, err:%w", err)
			}
			logutil.GetLogger(ctx).Info("create directory succ", zap.String("url", d.FullPath()))
			return nil
		},
	}
	subc.PersistentFlags().BoolVarP(&args.exclusive, "exclusive", "e", false, "fail when the directory exists")
	return subc
}

func init() {
	register(NewMkdirCmd)
}
