package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	commonerrors "x360-agent/internal/common/errors"
)

func TestRedisSource_LoadsSnapshot(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	payload := `[{"id":"TKT-9","customer":"Initech","title":"VPN flapping","status":"Open","priority":"Medium","createdDate":"2026-03-01","dueDate":"2026-03-10","source":"ServiceNow","assignee":"NetOps"}]`
	assert.NoError(t, mr.Set("x360:tickets", payload))

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	src := NewRedisSource(client, "x360:tickets")
	tickets, err := src.Load(context.Background())

	assert.NoError(t, err)
	assert.Len(t, tickets, 1)
	assert.Equal(t, "TKT-9", tickets[0].ID)
	assert.Equal(t, "NetOps", tickets[0].Assignee)
}

func TestRedisSource_MissingKey(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	src := NewRedisSource(client, "x360:tickets")
	_, err = src.Load(context.Background())

	assert.ErrorIs(t, err, redis.Nil)
}

func TestRedisSource_TransportError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("x360:tickets").SetErr(assert.AnError)

	src := NewRedisSource(client, "x360:tickets")
	_, err := src.Load(context.Background())

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSource_MalformedSnapshot(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	assert.NoError(t, mr.Set("x360:tickets", "not json"))

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	src := NewRedisSource(client, "x360:tickets")
	_, err = src.Load(context.Background())

	stdErr, ok := err.(*commonerrors.StandardError)
	assert.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeStoreDecodeFailed, stdErr.Code)
}
