package flowsession

import (
	"errors"
	"fmt"
	"time"

	"jengamart/internal/checkout"
	"jengamart/internal/pkg/helper"
	"jengamart/internal/pkg/redis"
)

// ErrNotFound is returned when no flow exists under the given ID, either
// because it never existed or because its session TTL lapsed.
var ErrNotFound = errors.New("checkout flow not found")

// Flows persist in redis for a shopping session; long enough to survive
// page reloads, short enough that abandoned carts clean themselves up.
const sessionTTL = 24 * time.Hour

type IStore interface {
	Save(flow *checkout.Flow) error
	Find(flowID string) (*checkout.Flow, error)
	Delete(flowID string) error
}

type Store struct {
	redis redis.IRedis
}

func NewStore(redis redis.IRedis) IStore {
	return &Store{redis: redis}
}

func key(flowID string) string {
	return fmt.Sprintf("checkout:flow:%s", flowID)
}

func (s *Store) Save(flow *checkout.Flow) error {
	payload, err := helper.JSONToString(flow)
	if err != nil {
		return fmt.Errorf("failed to encode flow: %w", err)
	}
	return s.redis.Set(key(flow.ID), payload, sessionTTL)
}

func (s *Store) Find(flowID string) (*checkout.Flow, error) {
	payload, err := s.redis.Get(key(flowID))
	if err != nil {
		if errors.Is(err, redis.NilType) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// The client reports a missing key as an empty payload, not an error.
	if payload == "" {
		return nil, ErrNotFound
	}

	flow, err := helper.StringToStruct[checkout.Flow](payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode flow: %w", err)
	}
	return flow, nil
}

func (s *Store) Delete(flowID string) error {
	return s.redis.Del(key(flowID))
}
