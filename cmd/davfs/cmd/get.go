package cmd

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/davfs/utils"
	"go.uber.org/zap"
)

type getArgs struct {
	output string
}

func NewGetCmd(c *Context) *cobra.Command {
	args := &getArgs{}
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "get <file>",
		Short: "Download a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, params []string) error {
			return onRunGet(ctx, c, params[0], args)
		},
	}
	subc.PersistentFlags().StringVarP(&args.output, "output", "o", "", "local file to save, default to the remote name")
	return subc
}

func onRunGet(ctx context.Context, c *Context, p string, args *getArgs) error {
	start := time.Now()
	f, err := c.Base.GetFile(ctx, p, nil)
	if err != nil {
		return fmt.Errorf("open file failed, err:%w", err)
	}
	blob, err := f.File(ctx)
	if err != nil {
		return fmt.Errorf("read file failed, err:%w", err)
	}
	dst := args.output
	if len(dst) == 0 {
		dst = f.Name()
	}
	if err := utils.SafeSaveIOToFile(dst, bytes.NewReader(blob.Data)); err != nil {
		return fmt.Errorf("save file failed, err:%w", err)
	}
	logutil.GetLogger(ctx).Info("download file succ",
		zap.String("url", f.FullPath()),
		zap.String("dst", dst),
		zap.String("size", humanize.IBytes(uint64(blob.Size))),
		zap.Duration("cost", time.Since(start)),
	)
	return nil
}

func init() {
	register(NewGetCmd)
}
