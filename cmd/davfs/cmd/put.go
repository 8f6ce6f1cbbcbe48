package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/davfs/entry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type putArgs struct {
	dir string
}

func NewPutCmd(c *Context) *cobra.Command {
	args := &putArgs{}
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "put <local...>",
		Short: "Upload local files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			return onRunPut(ctx, c, files, args)
		},
	}
	subc.PersistentFlags().StringVarP(&args.dir, "dir", "d", "", "remote directory, created when missing")
	return subc
}

func onRunPut(ctx context.Context, c *Context, files []string, args *putArgs) error {
	dir := c.Base
	if len(args.dir) > 0 {
		d, err := c.Base.GetDirectory(ctx, args.dir, &entry.Flags{Create: true})
		if err != nil {
			return fmt.Errorf("open remote directory failed, err:%w", err)
		}
		dir = d
	}
	thread := c.Config.Thread
	if thread < 1 {
		thread = 1
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(thread)
	for _, file := range files {
		eg.Go(func() error {
			return uploadFile(ctx, dir, file)
		})
	}
	return eg.Wait()
}

func uploadFile(ctx context.Context, dir *entry.DirectoryEntry, file string) error {
	start := time.Now()
	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read local file failed, file:%s, err:%w", file, err)
	}
	f, err := dir.GetFile(ctx, filepath.Base(file), &entry.Flags{Create: true})
	if err != nil {
		return fmt.Errorf("open remote file failed, file:%s, err:%w", file, err)
	}
	if err := f.CreateWriter().Write(ctx, raw); err != nil {
		return fmt.Errorf("upload file failed, file:%s, err:%w", file, err)
	}
	cost := time.Since(start)
	speed := float64(len(raw)) / max(cost.Seconds(), 0.001)
	logutil.GetLogger(ctx).Info("upload file succ",
		zap.String("file", file),
		zap.String("url", f.FullPath()),
		zap.String("size", humanize.IBytes(uint64(len(raw)))),
		zap.String("speed", humanize.IBytes(uint64(speed))+"/s"),
		zap.Duration("cost", cost),
	)
	return nil
}

func init() {
	register(NewPutCmd)
}
