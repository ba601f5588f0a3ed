package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/keyframe/pkg/adapters/file"
	"github.com/aretw0/keyframe/pkg/adapters/loam"
	"github.com/aretw0/keyframe/pkg/adapters/redis"
	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/aretw0/keyframe/pkg/ports"
	"github.com/spf13/cobra"
)

const (
	backendFile  = "file"
	backendLoam  = "loam"
	backendRedis = "redis"
)

// backendConfig mirrors the persistent backend flags.
type backendConfig struct {
	Kind        string
	Dir         string
	RedisAddr   string
	RedisPrefix string
}

func backendFromFlags(cmd *cobra.Command) backendConfig {
	var c backendConfig
	c.Kind, _ = cmd.Flags().GetString("backend")
	c.Dir, _ = cmd.Flags().GetString("dir")
	c.RedisAddr, _ = cmd.Flags().GetString("redis-addr")
	c.RedisPrefix, _ = cmd.Flags().GetString("redis-prefix")
	return c
}

func (c backendConfig) redisStore() *redis.Store {
	var opts []redis.Option
	if c.RedisPrefix != "" {
		opts = append(opts, redis.WithPrefix(c.RedisPrefix))
	}
	return redis.New(c.RedisAddr, opts...)
}

// open returns the loader for the configured backend and a close func.
func (c backendConfig) open() (ports.DefinitionLoader, func() error, error) {
	noop := func() error { return nil }
	switch c.Kind {
	case backendFile, "":
		return file.New(c.Dir), noop, nil
	case backendLoam:
		l, err := loam.Open(c.Dir)
		if err != nil {
			return nil, nil, err
		}
		return l, noop, nil
	case backendRedis:
		s := c.redisStore()
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q (want file, loam or redis)", c.Kind)
}

// loadDefinition reads arg as a definition file when it names one, and
// otherwise loads it by name from the configured backend.
func (c backendConfig) loadDefinition(ctx context.Context, arg string) (*domain.AnimatorData, error) {
	if fi, err := os.Stat(arg); err == nil && !fi.IsDir() {
		return file.LoadFile(arg)
	}

	loader, closeFn, err := c.open()
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return loader.Load(ctx, arg)
}
