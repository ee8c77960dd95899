package database

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/ananyabshetty/SQL-Detective-Game/internal/config"
	"github.com/go-redis/redis/v8"
)

// InitRedis opens the client backing the session progress cache. The pool is
// sized for many short GET/SET round-trips on the query hot path.
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     50,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
