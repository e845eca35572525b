package redis

import (
	"taskpal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	tests := []struct {
		name            string
		setup           func(cfg *config.Config)
		wantAddr        string
		wantDialTimeout time.Duration
	}{
		{
			name: "configured timeout",
			setup: func(cfg *config.Config) {
				cfg.Cache.Redis.Primary.Host = "redis"
				cfg.Cache.Redis.Primary.Port = "6380"
				cfg.Cache.Redis.DialTimeoutSeconds = 2
			},
			wantAddr:        "redis:6380",
			wantDialTimeout: 2 * time.Second,
		},
		{
			name: "missing timeout falls back",
			setup: func(cfg *config.Config) {
				cfg.Cache.Redis.Primary.Host = "localhost"
				cfg.Cache.Redis.Primary.Port = "6379"
			},
			wantAddr:        "localhost:6379",
			wantDialTimeout: 5 * time.Second,
		},
		{
			name: "ipv6 host is bracketed",
			setup: func(cfg *config.Config) {
				cfg.Cache.Redis.Primary.Host = "::1"
				cfg.Cache.Redis.Primary.Port = "6379"
			},
			wantAddr:        "[::1]:6379",
			wantDialTimeout: 5 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			tt.setup(cfg)

			opts := options(cfg)

			assert.Equal(t, tt.wantAddr, opts.Addr)
			assert.Equal(t, tt.wantDialTimeout, opts.DialTimeout)
		})
	}
}
