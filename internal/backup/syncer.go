package backup

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Status is the state of the most recent sync attempt.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusInProgress Status = "in-progress"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// DefaultResetDelay is how long success or error is shown before the
// status returns to idle.
const DefaultResetDelay = 3 * time.Second

// ErrSyncInProgress is returned when Sync is called during another sync.
var ErrSyncInProgress = errors.New("backup: sync already in progress")

// Syncer runs one backup attempt at a time. Local persistence always runs
// first and its outcome never blocks the network attempt. There is no
// retry.
type Syncer struct {
	mu         sync.Mutex
	status     Status
	lastErr    error
	lastAt     time.Time
	gen        uint64 // bumped per attempt so stale reset timers are ignored
	resetDelay time.Duration
	log        zerolog.Logger
}

// NewSyncer returns an idle Syncer. A non-positive resetDelay uses
// DefaultResetDelay.
func NewSyncer(resetDelay time.Duration, log zerolog.Logger) *Syncer {
	if resetDelay <= 0 {
		resetDelay = DefaultResetDelay
	}
	return &Syncer{
		status:     StatusIdle,
		resetDelay: resetDelay,
		log:        log.With().Str("component", "backup").Logger(),
	}
}

// Status returns the current status.
func (s *Syncer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LastError returns the error from the most recent attempt, if any.
func (s *Syncer) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// LastAttempt returns when the most recent attempt finished.
func (s *Syncer) LastAttempt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAt
}

// ResetDelay returns how long a final status is held.
func (s *Syncer) ResetDelay() time.Duration {
	return s.resetDelay
}

// Sync persists locally via persist, then sends payload to sink once.
// The returned error is the sink's; a persist failure is only logged.
func (s *Syncer) Sync(ctx context.Context, persist func() error, sink Sink, payload []byte) error {
	s.mu.Lock()
	if s.status == StatusInProgress {
		s.mu.Unlock()
		return ErrSyncInProgress
	}
	s.status = StatusInProgress
	s.lastErr = nil
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if persist != nil {
		if err := persist(); err != nil {
			s.log.Error().Err(err).Msg("local persist before sync failed")
		}
	}

	var err error
	if sink == nil {
		err = ErrNoSink
	} else {
		err = sink.Send(ctx, payload)
	}

	s.mu.Lock()
	s.lastAt = time.Now()
	s.lastErr = err
	if err != nil {
		s.status = StatusError
	} else {
		s.status = StatusSuccess
	}
	s.mu.Unlock()

	level := zerolog.InfoLevel
	if err != nil {
		level = zerolog.WarnLevel
	}
	ev := s.log.WithLevel(level).Err(err)
	if sink != nil {
		ev = ev.Str("sink", sink.Name())
	}
	ev.Int("bytes", len(payload)).Msg("backup sync finished")

	time.AfterFunc(s.resetDelay, func() { s.reset(gen) })
	return err
}

func (s *Syncer) reset(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen && s.status != StatusInProgress {
		s.status = StatusIdle
	}
}
