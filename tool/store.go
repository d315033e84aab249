package tool

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InvocationRecord is one persisted tool invocation.
type InvocationRecord struct {
	ID         string    `json:"id"`
	Tool       string    `json:"tool"`
	Extension  string    `json:"extension,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
}

// Store abstracts invocation history persistence for CLI (SQLite) and
// test (memory) modes.
type Store interface {
	Append(ctx context.Context, record InvocationRecord) error
	// List returns the most recent records, newest first. A limit <= 0
	// returns everything.
	List(ctx context.Context, limit int) ([]InvocationRecord, error)
	Close() error
}

// Recorder adapts a Store to the Observer interface, stamping each
// observation with an ID and timestamp. Persistence failures are logged
// and swallowed: history is advisory and must never fail an invocation.
type Recorder struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder creates a Recorder writing to store. A nil logger uses
// slog.Default().
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ObserveInvoke persists one observation as an InvocationRecord.
func (r *Recorder) ObserveInvoke(observation InvokeObservation) {
	if r == nil || r.store == nil {
		return
	}

	record := InvocationRecord{
		ID:         uuid.NewString(),
		Tool:       observation.Tool,
		Extension:  observation.Extension,
		StartedAt:  r.now().Add(-time.Duration(observation.DurationMS) * time.Millisecond),
		DurationMS: observation.DurationMS,
		Success:    observation.Success,
		Error:      observation.ErrorKind,
	}
	if err := r.store.Append(context.Background(), record); err != nil {
		r.logger.Warn("failed to record tool invocation",
			"tool", observation.Tool,
			"error", err)
	}
}

var _ Observer = (*Recorder)(nil)

// MemoryStore is an in-memory invocation store for tests and ephemeral
// runs. It keeps at most cap records, discarding the oldest.
type MemoryStore struct {
	mu      sync.Mutex
	records []InvocationRecord
	cap     int
}

const defaultMemoryStoreCap = 1024

// NewMemoryStore creates a bounded in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cap: defaultMemoryStoreCap}
}

// Append stores one record.
func (s *MemoryStore) Append(ctx context.Context, record InvocationRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	if len(s.records) > s.cap {
		s.records = s.records[len(s.records)-s.cap:]
	}
	return nil
}

// List returns records newest first.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]InvocationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]InvocationRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, s.records[i])
	}
	return out, nil
}

// Close is a no-op for memory stores.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
