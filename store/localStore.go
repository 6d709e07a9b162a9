package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/mmdatafocus/devitrack/models"
)

// FallbackKey addresses the JSON list of all offline records.
const FallbackKey = "devitrack_deviations_offline_fallback"

// LocalStore keeps the whole record list as one JSON value in a KV.
type LocalStore struct {
	kv  KV
	key string
}

func NewLocalStore(kv KV) *LocalStore {
	return &LocalStore{kv: kv, key: FallbackKey}
}

func (s *LocalStore) Backend() string { return BackendLocal }

// load returns the list in insertion order, skipping null entries.
func (s *LocalStore) load(ctx context.Context) ([]*models.Deviation, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrMiss) {
			return []*models.Deviation{}, nil
		}
		return nil, fmt.Errorf("read fallback list: %w", err)
	}
	if len(raw) == 0 {
		return []*models.Deviation{}, nil
	}
	var list []*models.Deviation
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode fallback list: %w", err)
	}
	kept := make([]*models.Deviation, 0, len(list))
	for _, d := range list {
		if d != nil {
			kept = append(kept, d)
		}
	}
	return kept, nil
}

func (s *LocalStore) write(ctx context.Context, list []*models.Deviation) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode fallback list: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("write fallback list: %w", err)
	}
	return nil
}

// List returns records newest first. Records with equal timestamps keep their stored order.
func (s *LocalStore) List(ctx context.Context) ([]*models.Deviation, error) {
	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(list)
	return list, nil
}

func (s *LocalStore) Save(ctx context.Context, d *models.Deviation) error {
	if d == nil {
		return errors.New("nil deviation")
	}
	unlock, err := s.kv.Lock(ctx, s.key)
	if err != nil {
		return err
	}
	defer unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	return s.write(ctx, append(list, d))
}

// Delete removes the record with id. Unknown ids are a no-op.
func (s *LocalStore) Delete(ctx context.Context, id string) error {
	unlock, err := s.kv.Lock(ctx, s.key)
	if err != nil {
		return err
	}
	defer unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := list[:0]
	for _, d := range list {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(list) {
		return nil
	}
	return s.write(ctx, kept)
}

func sortNewestFirst(list []*models.Deviation) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
