// Package credential holds the stores backing session.CredentialStore.
package credential

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/session"
)

var (
	_ session.CredentialStore = (*FileStore)(nil)
	_ session.CredentialStore = (*InmemStore)(nil)
	_ session.CredentialStore = (*RedisStore)(nil)
)

// Open returns the store selected by conf.CredentialStore, and a func releasing it.
func Open(ctx context.Context, conf *core.Config) (session.CredentialStore, func() error, error) {
	noop := func() error { return nil }

	switch conf.CredentialStore {
	case "", "file":
		return NewFileStore(conf.CredentialPath), noop, nil
	case "memory":
		return NewInmemStore(), noop, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: conf.RedisAddr, DB: conf.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, errors.Wrapf(err, "connecting to redis at %s", conf.RedisAddr)
		}
		return NewRedisStore(rdb, conf.RedisKey), rdb.Close, nil
	}
	return nil, nil, errors.Errorf("unknown credential store %q", conf.CredentialStore)
}
