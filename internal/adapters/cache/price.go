// Package cache guarda en Redis el precio spot del subyacente para no consultar
// Binance en cada ciclo de refresco.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/polyladder/internal/ports"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL    = 15 * time.Second
	defaultPrefix = "ladder:spot"
)

// PriceCache decora un ports.PriceProvider con una cache en Redis.
// Si Redis falla se degrada al provider interno: la cache nunca rompe un cálculo.
type PriceCache struct {
	inner  ports.PriceProvider
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewPriceCache construye la cache. addr es obligatorio; ttl <= 0 usa 15s.
func NewPriceCache(inner ports.PriceProvider, addr, password string, db int, ttl time.Duration) (*PriceCache, error) {
	if inner == nil {
		return nil, fmt.Errorf("cache.NewPriceCache: inner provider is required")
	}
	if addr == "" {
		return nil, fmt.Errorf("cache.NewPriceCache: redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return newPriceCache(inner, client, ttl), nil
}

func newPriceCache(inner ports.PriceProvider, client *redis.Client, ttl time.Duration) *PriceCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &PriceCache{inner: inner, client: client, ttl: ttl, prefix: defaultPrefix}
}

func (c *PriceCache) key(asset string) string {
	return fmt.Sprintf("%s:%s", c.prefix, strings.ToUpper(strings.TrimSpace(asset)))
}

// SpotPrice devuelve el precio cacheado o, en un miss, el del provider interno,
// que se guarda con el TTL configurado.
func (c *PriceCache) SpotPrice(ctx context.Context, asset string) (float64, error) {
	key := c.key(asset)

	raw, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if v, perr := strconv.ParseFloat(raw, 64); perr == nil && v > 0 {
			slog.Debug("spot price cache hit", "asset", asset, "price", v)
			return v, nil
		}
		slog.Warn("spot price cache entry invalid, ignoring", "key", key, "value", raw)
	case err == redis.Nil:
	default:
		slog.Warn("redis get failed, using provider", "key", key, "err", err)
	}

	price, err := c.inner.SpotPrice(ctx, asset)
	if err != nil {
		return 0, err
	}

	if err := c.client.Set(ctx, key, strconv.FormatFloat(price, 'f', -1, 64), c.ttl).Err(); err != nil {
		slog.Warn("redis set failed", "key", key, "err", err)
	}
	return price, nil
}

// Close cierra la conexión con Redis.
func (c *PriceCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
