package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type ContentCacheConfig struct {
	Kind string `json:"kind"` // lru or ristretto, empty disables the cache
	Size int64  `json:"size"`
	TTL  int64  `json:"ttl"` // seconds
}

type Config struct {
	Endpoint     string             `json:"endpoint"`
	AccessKey    string             `json:"access_key"`
	SecretKey    string             `json:"secret_key"`
	LogLevel     string             `json:"log_level"`
	Timeout      int64              `json:"timeout"`
	Retry        int                `json:"retry"` // total attempts for GET/HEAD/PROPFIND
	Thread       int                `json:"thread"`
	ContentCache ContentCacheConfig `json:"content_cache"`
}

func Parse(f string) (*Config, error) {
	raw, err := os.ReadFile(f)
	if err != nil {
		return nil, fmt.Errorf("read file:%w", err)
	}
	c := &Config{
		LogLevel: "info",
		Timeout:  60,
		Retry:    3,
		Thread:   4,
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("unmarshal file:%w", err)
	}
	if len(c.Endpoint) == 0 {
		return nil, fmt.Errorf("no endpoint found")
	}
	return c, nil
}
