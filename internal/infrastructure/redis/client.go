// Package redis backend del libro de stock y lock distribuido sobre Redis (go-redis v9 + redislock).
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger/pkg/config"
)

// NewClient abre el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// keys construye las claves bajo un prefijo común.
type keys struct{ prefix string }

func (k keys) product(id string) string      { return k.prefix + ":product:" + id }
func (k keys) products() string              { return k.prefix + ":products" }
func (k keys) sku(sku string) string         { return k.prefix + ":product:sku:" + sku }
func (k keys) movement(id string) string     { return k.prefix + ":movement:" + id }
func (k keys) movementsAll() string          { return k.prefix + ":movements:all" }
func (k keys) movementsOf(pid string) string { return k.prefix + ":movements:product:" + pid }
func (k keys) movementSeq() string           { return k.prefix + ":movement:seq" }
func (k keys) openings(pid string) string    { return k.prefix + ":opening:" + pid }
func (k keys) activity(id string) string     { return k.prefix + ":activity:" + id }
func (k keys) activities(cat string) string  { return k.prefix + ":activities:" + nonEmpty(cat, "all") }
func (k keys) productLock(pid string) string { return k.prefix + ":lock:product:" + pid }
func (k keys) lockHolder(pid string) string  { return k.prefix + ":lock:holder:" + pid }

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
