package redis

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"jotter/internal/platform/config"
)

type poolMetrics struct {
	totalConns prometheus.Gauge
	idleConns  prometheus.Gauge
	timeouts   prometheus.Gauge
}

func newPoolMetrics(reg prometheus.Registerer) *poolMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &poolMetrics{
		totalConns: f.NewGauge(prometheus.GaugeOpts{
			Name: "jotter_redis_pool_total_conns",
			Help: "Number of total connections in the pool",
		}),
		idleConns: f.NewGauge(prometheus.GaugeOpts{
			Name: "jotter_redis_pool_idle_conns",
			Help: "Number of idle connections in the pool",
		}),
		timeouts: f.NewGauge(prometheus.GaugeOpts{
			Name: "jotter_redis_pool_timeouts",
			Help: "Cumulative pool wait timeouts reported by the client",
		}),
	}
}

// Client wraps the go-redis client used by the redis storage adapter.
type Client struct {
	*redis.Client
	metrics *poolMetrics
}

// New parses cfg.URL, applies pool overrides and pings.
func New(ctx context.Context, cfg config.RedisConfig, reg prometheus.Registerer) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("redis url is empty")
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client, metrics: newPoolMetrics(reg)}, nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// RecordPoolStats copies the current pool statistics into the gauges.
func (c *Client) RecordPoolStats() {
	stats := c.PoolStats()
	c.metrics.totalConns.Set(float64(stats.TotalConns))
	c.metrics.idleConns.Set(float64(stats.IdleConns))
	c.metrics.timeouts.Set(float64(stats.Timeouts))
}
