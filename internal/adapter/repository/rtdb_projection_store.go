package repository

import (
	"context"
	"encoding/json"

	"firebase.google.com/go/v4/db"

	"usedmarket/internal/domain/repository"
	"usedmarket/pkg/errors"
	"usedmarket/pkg/logger"
)

type rtdbProjectionStore struct {
	client *db.Client
}

// NewRTDBProjectionStore returns a ProjectionStore backed by Firebase
// Realtime Database. The multi-path Update on the root ref is the store's
// atomic multi-write primitive.
func NewRTDBProjectionStore(client *db.Client) repository.ProjectionStore {
	return &rtdbProjectionStore{
		client: client,
	}
}

func (s *rtdbProjectionStore) Get(ctx context.Context, path string, dest interface{}) error {
	// A read of an absent node succeeds with null, so the raw payload is
	// inspected before unmarshaling into dest.
	var raw json.RawMessage
	if err := s.client.NewRef(path).Get(ctx, &raw); err != nil {
		logger.Error("rtdb get failed for %s: %v", path, err)
		return errors.Internal("Failed to read from store", err)
	}

	if len(raw) == 0 || string(raw) == "null" {
		return errors.NotFound(path, nil)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return errors.Internal("Failed to decode store data", err)
	}

	return nil
}

func (s *rtdbProjectionStore) Set(ctx context.Context, path string, value interface{}) error {
	if err := s.client.NewRef(path).Set(ctx, value); err != nil {
		logger.Error("rtdb set failed for %s: %v", path, err)
		return errors.Internal("Failed to write to store", err)
	}
	return nil
}

func (s *rtdbProjectionStore) Delete(ctx context.Context, path string) error {
	if err := s.client.NewRef(path).Delete(ctx); err != nil {
		logger.Error("rtdb delete failed for %s: %v", path, err)
		return errors.Internal("Failed to delete from store", err)
	}
	return nil
}

func (s *rtdbProjectionStore) ApplyMulti(ctx context.Context, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	if err := s.client.NewRef("/").Update(ctx, updates); err != nil {
		logger.Error("rtdb multi-path update failed (%d paths): %v", len(updates), err)
		return errors.Internal("Multi-path write rejected by store", err)
	}
	return nil
}

func (s *rtdbProjectionStore) Push(ctx context.Context, path string, value interface{}) (string, error) {
	ref, err := s.client.NewRef(path).Push(ctx, value)
	if err != nil {
		logger.Error("rtdb push failed for %s: %v", path, err)
		return "", errors.Internal("Failed to append to store", err)
	}
	return ref.Key, nil
}
