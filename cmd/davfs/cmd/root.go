package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/davfs/cmd/davfs/config"
	"github.com/xxxsen/davfs/entry"
	"github.com/xxxsen/davfs/transport"
)

const (
	defaultConfigFileEnv = "DAVFS_CONFIG"
)

var cmds []CreateFunc

type Context struct {
	FS     *entry.FileSystem
	Base   *entry.DirectoryEntry
	Config *config.Config
}

type CreateFunc func(ctx *Context) *cobra.Command

func register(cr CreateFunc) {
	cmds = append(cmds, cr)
}

func loadConfig(cfgs []string) (*config.Config, error) {
	var err error
	for _, cfg := range cfgs {
		if len(cfg) == 0 {
			continue
		}
		var c *config.Config
		c, err = config.Parse(cfg)
		if err != nil {
			continue
		}
		return c, nil
	}
	if err == nil {
		err = fmt.Errorf("no config file specified")
	}
	return nil, fmt.Errorf("no valid config file found, last err:%w", err)
}

func buildTransport(c *config.Config) (transport.ITransport, error) {
	opts := []transport.Option{
		transport.WithHttpClient(&http.Client{Timeout: time.Duration(c.Timeout) * time.Second}),
		transport.WithAuth(c.AccessKey, c.SecretKey),
		transport.WithRetry(c.Retry, time.Second),
	}
	if len(c.ContentCache.Kind) > 0 {
		cc, err := transport.NewContentCache(c.ContentCache.Kind, c.ContentCache.Size, time.Duration(c.ContentCache.TTL)*time.Second)
		if err != nil {
			return nil, fmt.Errorf("init content cache failed, err:%w", err)
		}
		opts = append(opts, transport.WithContentCache(cc))
	}
	return transport.New(opts...)
}

func initContext(ctx *Context, cfgs []string) error {
	c, err := loadConfig(cfgs)
	if err != nil {
		return err
	}
	ctx.Config = c
	logger.Init("", c.LogLevel, 0, 0, 0, true)
	tr, err := buildTransport(c)
	if err != nil {
		return err
	}
	ctx.FS = entry.NewFileSystem(tr)
	base, err := ctx.FS.Root().GetDirectory(context.Background(), c.Endpoint, nil)
	if err != nil {
		return fmt.Errorf("open endpoint failed, endpoint:%s, err:%w", c.Endpoint, err)
	}
	ctx.Base = base
	return nil
}

func NewRoot() *cobra.Command {
	var configFile string
	ctx := &Context{}
	var rootCmd = &cobra.Command{
		Use:          "davfs",
		Short:        "WebDAV filesystem CLI tool",
		SilenceUsage: true,
	}
	for _, cr := range cmds {
		rootCmd.AddCommand(cr(ctx))
	}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		envConfigFile, _ := os.LookupEnv(defaultConfigFileEnv)
		return initContext(ctx, []string{configFile, "/etc/davfs/davfs_config.json", envConfigFile})
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file")
	return rootCmd
}
