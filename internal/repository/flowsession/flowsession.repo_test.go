package flowsession

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jengamart/internal/checkout"
)

// redisStub mirrors the redis client's contract: a missing key comes back as
// ("", nil), not as an error.
type redisStub struct {
	values map[string]string
}

func newRedisStub() *redisStub {
	return &redisStub{values: map[string]string{}}
}

func (r *redisStub) Close() error { return nil }
func (r *redisStub) Ping() error  { return nil }

func (r *redisStub) Set(key string, value any, _ time.Duration) error {
	r.values[key] = value.(string)
	return nil
}

func (r *redisStub) Get(key string) (string, error) {
	return r.values[key], nil
}

func (r *redisStub) Del(key string) error {
	delete(r.values, key)
	return nil
}

func (r *redisStub) Expire(string, time.Duration) error { return nil }

func TestStore_FindMissingFlowIsNotFound(t *testing.T) {
	store := NewStore(newRedisStub())

	_, err := store.Find("chk_unknown")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SaveFindRoundTrip(t *testing.T) {
	store := NewStore(newRedisStub())
	flow := checkout.NewFlow("chk_rt", []checkout.CartLine{
		{ProductID: 7, Name: "Iron Sheet", UnitPrice: 1000, Qty: 2},
	}, time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))

	require.NoError(t, store.Save(flow))
	found, err := store.Find("chk_rt")

	require.NoError(t, err)
	assert.Equal(t, flow.ID, found.ID)
	assert.Equal(t, flow.Stage, found.Stage)
	assert.Equal(t, flow.Cart, found.Cart)
}

func TestStore_FindAfterDeleteIsNotFound(t *testing.T) {
	stub := newRedisStub()
	store := NewStore(stub)
	flow := checkout.NewFlow("chk_del", nil, time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))

	require.NoError(t, store.Save(flow))
	require.NoError(t, store.Delete("chk_del"))

	_, err := store.Find("chk_del")
	assert.ErrorIs(t, err, ErrNotFound)
}
