// Package netmgr is the network manager collaborator: a consumer of
// the unbounded stream of decoded ADP messages the App Manager isn't
// itself responsible for. This gives it one concrete body: a
// Redis-backed sink, reusing the publish/hash-write idioms this stack
// already uses elsewhere for state fan-out.
package netmgr

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ChannelADPEvents is where decoded ADP messages (everything the
	// App Manager doesn't keep for itself or the LBP handler) are
	// published as they arrive.
	ChannelADPEvents = "g3.adp.events"
	// KeyLastEvent mirrors the most recent event into a hash for
	// point-in-time inspection.
	KeyLastEvent = "g3:adp:last"
	// KeyConfig holds the coordinator/join role and related config.
	KeyConfig = "g3:config"
	// CommandList is BRPop'd for operator-issued commands (e.g.
	// forced reinitialization).
	CommandList = "scooter:g3-adapter"
)

// Client wraps a Redis connection with the publish/write operations
// the App Manager's network-manager sink needs.
type Client struct {
	rdb *redis.Client
	ctx context.Context
}

// New connects to addr and verifies the connection with a PING.
func New(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}
	return &Client{rdb: rdb, ctx: ctx}, nil
}

// PublishEvent publishes a human-readable summary of an ADP message
// and mirrors it into KeyLastEvent.
func (c *Client) PublishEvent(summary string) error {
	pipe := c.rdb.Pipeline()
	pipe.HSet(c.ctx, KeyLastEvent, "summary", summary, "ts", time.Now().Unix())
	pipe.Publish(c.ctx, ChannelADPEvents, summary)
	_, err := pipe.Exec(c.ctx)
	if err != nil {
		log.Printf("netmgr: failed to publish event: %v", err)
	}
	return err
}

// parseCoordinatorFlag interprets the "coordinator" field stored in
// KeyConfig. Anything other than "1"/"true" is treated as "join".
func parseCoordinatorFlag(val string) bool {
	return val == "1" || val == "true"
}

// IsCoordinator reads the adapter's configured role from Redis,
// defaulting to false (join an existing network) if unset.
func (c *Client) IsCoordinator() bool {
	val, err := c.rdb.HGet(c.ctx, KeyConfig, "coordinator").Result()
	if err != nil {
		return false
	}
	return parseCoordinatorFlag(val)
}

// parseBRPopResult extracts the popped value from a BRPOP result,
// which echoes back the list key alongside the value.
func parseBRPopResult(result []string) (string, error) {
	if len(result) != 2 {
		return "", fmt.Errorf("unexpected BRPOP result: %v", result)
	}
	return result[1], nil
}

// WaitCommand blocks up to timeout for an operator command pushed
// onto CommandList. A "", nil result means the wait timed out.
func (c *Client) WaitCommand(timeout time.Duration) (string, error) {
	result, err := c.rdb.BRPop(c.ctx, timeout, CommandList).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return parseBRPopResult(result)
}

// Close closes the underlying Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
