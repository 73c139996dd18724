package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Sessions stores each user's current organization selection. The selection
// is ephemeral request/session state, never part of the persisted schema, so
// Redis with a TTL is the right home for it.
type Sessions struct {
	client *redis.Client
	ttl    time.Duration
}

func New(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Sessions, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &Sessions{client: client, ttl: ttl}, nil
}

func (s *Sessions) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("redis.Sessions.Close: %w", err)
	}
	return nil
}

// OrganizationKey returns the Redis key holding a user's current organization.
func OrganizationKey(userID uuid.UUID) string {
	return fmt.Sprintf("session:org:%s", userID)
}

// GetOrganization returns the user's current organization id, if one is set.
func (s *Sessions) GetOrganization(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error) {
	val, err := s.client.Get(ctx, OrganizationKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("redis.Sessions.GetOrganization: %w", err)
	}

	orgID, err := uuid.Parse(val)
	if err != nil {
		// A corrupt value is treated as unset rather than an error; the next
		// Set overwrites it.
		return uuid.Nil, false, nil
	}

	return orgID, true, nil
}

// SetOrganization stores the user's current organization with the session TTL.
func (s *Sessions) SetOrganization(ctx context.Context, userID, orgID uuid.UUID) error {
	err := s.client.Set(ctx, OrganizationKey(userID), orgID.String(), s.ttl).Err()
	if err != nil {
		return fmt.Errorf("redis.Sessions.SetOrganization: %w", err)
	}
	return nil
}

// ClearOrganization removes the user's current organization selection.
func (s *Sessions) ClearOrganization(ctx context.Context, userID uuid.UUID) error {
	err := s.client.Del(ctx, OrganizationKey(userID)).Err()
	if err != nil {
		return fmt.Errorf("redis.Sessions.ClearOrganization: %w", err)
	}
	return nil
}
