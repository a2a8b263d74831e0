// Package database is the key-value persistence port behind session state
// (token, user, cart, wishlist).
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNotFound = errors.New("key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context, key string) error
	Close(ctx context.Context) error
}

// Expirer is implemented by stores whose keys can expire. Expire returns
// ErrNotFound for a missing key.
type Expirer interface {
	SetTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// Sweeper is implemented by stores that reclaim expired keys only when
// asked. Redis and MongoDB expire keys on their own.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

type Namespaced struct {
	store  Store
	prefix string
	ttl    time.Duration
}

// Namespace scopes every key of store under prefix.
func Namespace(store Store, prefix string) *Namespaced {
	return &Namespaced{store: store, prefix: strings.TrimSuffix(prefix, ":") + ":"}
}

// WithTTL returns a copy whose writes expire after ttl when the store
// supports it.
func (n *Namespaced) WithTTL(ttl time.Duration) *Namespaced {
	cp := *n
	cp.ttl = ttl
	return &cp
}

// Refresh extends the TTL of keys. Missing keys are skipped.
func (n *Namespaced) Refresh(ctx context.Context, keys ...string) error {
	e, ok := n.store.(Expirer)
	if !ok || n.ttl <= 0 {
		return nil
	}
	for _, key := range keys {
		err := e.Expire(ctx, n.prefix+key, n.ttl)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}

func (n *Namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.store.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key string, value []byte) error {
	if e, ok := n.store.(Expirer); ok && n.ttl > 0 {
		return e.SetTTL(ctx, n.prefix+key, value, n.ttl)
	}
	return n.store.Set(ctx, n.prefix+key, value)
}

func (n *Namespaced) Clear(ctx context.Context, key string) error {
	return n.store.Clear(ctx, n.prefix+key)
}

// Close is a no-op; the parent store owns the connection.
func (n *Namespaced) Close(context.Context) error {
	return nil
}

type Driver string

const (
	DriverMemory Driver = "memory"
	DriverMongo  Driver = "mongo"
	DriverSQLite Driver = "sqlite"
	DriverRedis  Driver = "redis"
)

type Options struct {
	Driver        Driver
	MongoURI      string
	MongoDatabase string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
}

// Open connects the store selected by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverMongo:
		s, err := ConnectMongo(ctx, opts.MongoURI, opts.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverSQLite:
		s, err := OpenSQLite(ctx, opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverRedis:
		s, err := ConnectRedis(ctx, opts.RedisAddr, opts.RedisPassword)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
