package store

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu   sync.RWMutex
	runs []Run
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(context.Context) error {
	return nil
}

func cloneRun(r Run) Run {
	r.Dice = slices.Clone(r.Dice)
	r.Words = maps.Clone(r.Words)
	return r
}

func (s *MemoryStore) SaveRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.runs {
		if s.runs[i].ID == run.ID {
			s.runs[i] = cloneRun(run)
			return nil
		}
	}
	s.runs = append(s.runs, cloneRun(run))
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.runs {
		if r.ID == id {
			return cloneRun(r), true, nil
		}
	}
	return Run{}, false, nil
}

func (s *MemoryStore) BestRun(_ context.Context, variant string) (Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *Run
	for i := range s.runs {
		r := &s.runs[i]
		if r.Variant != variant {
			continue
		}
		if best == nil || r.Score > best.Score ||
			(r.Score == best.Score && r.CreatedAt.Before(best.CreatedAt)) {
			best = r
		}
	}
	if best == nil {
		return Run{}, false, nil
	}
	return cloneRun(*best), true, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Run, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, cloneRun(r))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
