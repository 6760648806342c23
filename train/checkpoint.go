package train

import (
	"context"
	"errors"
	"sync"
)

// ErrNoCheckpoint is returned by Load before the first Save.
var ErrNoCheckpoint = errors.New("train: no checkpoint saved")

// Checkpointer keeps the most recent snapshot handed to it.
type Checkpointer interface {
	Save(ctx context.Context, epoch int, snapshot []byte) error
	Load(ctx context.Context) (epoch int, snapshot []byte, err error)
}

// MemoryCheckpointer is an in-process Checkpointer. It is safe for
// concurrent use.
type MemoryCheckpointer struct {
	mu       sync.Mutex
	epoch    int
	snapshot []byte
	saves    int
}

var _ Checkpointer = (*MemoryCheckpointer)(nil)

// Save stores a copy of snapshot.
func (m *MemoryCheckpointer) Save(_ context.Context, epoch int, snapshot []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.epoch = epoch
	m.snapshot = append([]byte(nil), snapshot...)
	m.saves++

	return nil
}

// Load returns a copy of the last saved snapshot.
func (m *MemoryCheckpointer) Load(_ context.Context) (int, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saves == 0 {
		return 0, nil, ErrNoCheckpoint
	}

	return m.epoch, append([]byte(nil), m.snapshot...), nil
}

// Saves returns how many times Save was called.
func (m *MemoryCheckpointer) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
