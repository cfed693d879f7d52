package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/roshan-abady/churnscope/pkg/domain/interfaces"
	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/roshan-abady/churnscope/pkg/domain/types"
)

// Memory implements Repository with in-memory storage
type Memory struct {
	mu   sync.RWMutex
	runs map[types.RunID]*model.AnalysisRun
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{
		runs: make(map[types.RunID]*model.AnalysisRun),
	}
}

// PutRun stores an analysis run in memory
func (m *Memory) PutRun(ctx context.Context, run *model.AnalysisRun) error {
	if run == nil {
		return goerr.New("run is nil")
	}
	if run.ID == "" {
		return goerr.New("run ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Store a copy to prevent external modification
	runCopy := *run
	m.runs[run.ID] = &runCopy

	return nil
}

// GetRun retrieves a run by ID
func (m *Memory) GetRun(ctx context.Context, id types.RunID) (*model.AnalysisRun, error) {
	if id == "" {
		return nil, goerr.New("run ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	run, exists := m.runs[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrRunNotFound, "no such run", goerr.V("id", id))
	}

	runCopy := *run
	return &runCopy, nil
}

// ListRuns lists runs ordered newest first
func (m *Memory) ListRuns(ctx context.Context, limit int) ([]*model.AnalysisRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runs := make([]*model.AnalysisRun, 0, len(m.runs))
	for _, run := range m.runs {
		runCopy := *run
		runs = append(runs, &runCopy)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}

	return runs, nil
}

// Close is a no-op for the memory repository
func (m *Memory) Close() error {
	return nil
}
