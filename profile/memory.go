package profile

import (
	"context"
	"fmt"

	"mealcompanion"
)

// MemoryStore serves profiles from memory.
type MemoryStore struct {
	profiles map[string]mealcompanion.Profile
}

func NewMemoryStore(profiles ...mealcompanion.Profile) *MemoryStore {
	s := &MemoryStore{profiles: make(map[string]mealcompanion.Profile, len(profiles))}
	for _, p := range profiles {
		s.profiles[p.ID] = p
	}
	return s
}

func (s *MemoryStore) Lookup(ctx context.Context, userID string) (mealcompanion.Profile, error) {
	id, err := NormalizeUserID(userID)
	if err != nil {
		return mealcompanion.Profile{}, err
	}
	p, ok := s.profiles[id]
	if !ok {
		return mealcompanion.Profile{}, fmt.Errorf("user id %q: %w", id, ErrNotFound)
	}
	return p, nil
}
