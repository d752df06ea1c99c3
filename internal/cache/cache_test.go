package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func unreachable() *Client {
	return Wrap(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	}))
}

func TestNilClientIsAMiss(t *testing.T) {
	var c *Client
	ctx := context.Background()

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Close())
	assert.ErrorIs(t, c.Ping(ctx), ErrUnavailable)

	_, err = c.GetStrict(ctx, "k")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestUnreachableRedisFailsSafe(t *testing.T) {
	c := unreachable()
	defer c.Close()
	ctx := context.Background()

	got, err := c.Get(ctx, "agencies")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Set(ctx, "agencies", []byte("[]"), time.Minute))

	var dst []string
	assert.False(t, c.GetJSON(ctx, "agencies", &dst))
	assert.NoError(t, c.SetJSON(ctx, "agencies", []string{"Lyon"}, time.Minute))
}

func TestUnreachableRedisStrictReportsError(t *testing.T) {
	c := unreachable()
	defer c.Close()
	ctx := context.Background()

	_, err := c.GetStrict(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, c.SetStrict(ctx, "k", []byte("v"), time.Minute))
	assert.Error(t, c.DeleteStrict(ctx, "k"))
}

func TestSetJSONRejectsUnencodable(t *testing.T) {
	var c *Client
	err := c.SetJSON(context.Background(), "k", make(chan int), time.Minute)
	assert.Error(t, err)
}
