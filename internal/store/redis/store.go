package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/glitchdraft/draftsync/internal/domain"
	"github.com/glitchdraft/draftsync/internal/syncconfig"
)

// Store is the local write-through mirror of remote state: per-
// conversation draft lists, per-site UI positions, and the sync config.
// Every value is a full-key JSON replace, so concurrent flows can at
// worst lose a write, never corrupt one. Entries have no TTL; they live
// until overwritten or removed.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// GetDraftList returns the mirrored list for a conversation. The second
// return is false on a cache miss.
func (s *Store) GetDraftList(ctx context.Context, conversationID string) (domain.DraftList, bool, error) {
	data, err := s.client.Get(ctx, DraftKey(conversationID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get draft mirror: %w", err)
	}

	var list domain.DraftList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal draft mirror: %w", err)
	}
	return list, true, nil
}

// SetDraftList replaces the mirrored list for a conversation.
func (s *Store) SetDraftList(ctx context.Context, conversationID string, list domain.DraftList) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal draft mirror: %w", err)
	}
	if err := s.client.Set(ctx, DraftKey(conversationID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set draft mirror: %w", err)
	}
	return nil
}

// RemoveDraftList drops a conversation's mirror.
func (s *Store) RemoveDraftList(ctx context.Context, conversationID string) error {
	if err := s.client.Del(ctx, DraftKey(conversationID)).Err(); err != nil {
		return fmt.Errorf("failed to remove draft mirror: %w", err)
	}
	return nil
}

// GetPositions returns the mirrored position set for a site.
func (s *Store) GetPositions(ctx context.Context, site string) (*domain.UIPositionSet, bool, error) {
	data, err := s.client.Get(ctx, PositionKey(site)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get position mirror: %w", err)
	}

	var set domain.UIPositionSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal position mirror: %w", err)
	}
	return &set, true, nil
}

// SetPositions replaces the mirrored position set for a site.
func (s *Store) SetPositions(ctx context.Context, site string, set *domain.UIPositionSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal position mirror: %w", err)
	}
	if err := s.client.Set(ctx, PositionKey(site), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set position mirror: %w", err)
	}
	return nil
}

// GetSyncConfig returns the mirrored remote-store config.
func (s *Store) GetSyncConfig(ctx context.Context) (*syncconfig.Config, bool, error) {
	data, err := s.client.Get(ctx, KeySyncConfig).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get sync config mirror: %w", err)
	}

	var cfg syncconfig.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal sync config mirror: %w", err)
	}
	return &cfg, true, nil
}

// SetSyncConfig mirrors the last good remote-store config.
func (s *Store) SetSyncConfig(ctx context.Context, cfg *syncconfig.Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal sync config mirror: %w", err)
	}
	if err := s.client.Set(ctx, KeySyncConfig, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set sync config mirror: %w", err)
	}
	return nil
}
