package transport

import (
	"net/http"
	"time"

	"github.com/xxxsen/davfs/cacheapi"
)

type config struct {
	Client        *http.Client
	AccessKey     string
	SecretKey     string
	RetryTimes    int
	RetryInterval time.Duration
	ContentCache  cacheapi.ICache[uint64, *CachedContent]
}

type Option func(*config)

func WithHttpClient(cli *http.Client) Option {
	return func(c *config) {
		c.Client = cli
	}
}

func WithAuth(ak string, sk string) Option {
	return func(c *config) {
		c.AccessKey = ak
		c.SecretKey = sk
	}
}

// WithRetry retries idempotent requests (GET, HEAD, PROPFIND) when no
// response was obtained. times is the total number of attempts, 1 disables
// retrying.
func WithRetry(times int, interval time.Duration) Option {
	return func(c *config) {
		c.RetryTimes = times
		c.RetryInterval = interval
	}
}

func WithContentCache(cc cacheapi.ICache[uint64, *CachedContent]) Option {
	return func(c *config) {
		c.ContentCache = cc
	}
}
