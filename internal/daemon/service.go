// Package daemon provides the local read-only ledger API served by
// `khata serve`.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/khata/internal/export"
	"github.com/theirongolddev/khata/internal/model"
	"github.com/theirongolddev/khata/internal/pipeline"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Loader reads the current ledger state.
type Loader interface {
	Load() model.Snapshot
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func() model.Snapshot

// Load calls f.
func (f LoaderFunc) Load() model.Snapshot { return f() }

// Config controls the daemon runtime behavior.
type Config struct {
	Loader       Loader
	DataDir      string
	Rate         decimal.Decimal // primary units per secondary unit
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Now          func() time.Time
	Logger       zerolog.Logger
}

// Totals is a compact ledger state for status/event payloads.
type Totals struct {
	At             time.Time       `json:"at"`
	Transactions   int             `json:"transactions"`
	Goals          int             `json:"goals"`
	Liabilities    int             `json:"liabilities"`
	Balance        decimal.Decimal `json:"balance"`
	Income         decimal.Decimal `json:"income"`
	Expense        decimal.Decimal `json:"expense"`
	MonthlyExpense decimal.Decimal `json:"monthly_expense"`
	GoalProgress   int             `json:"goal_progress"`
	DebtProgress   int             `json:"debt_progress"`
}

// Delta captures totals deltas between polls.
type Delta struct {
	Transactions int             `json:"transactions"`
	Goals        int             `json:"goals"`
	Liabilities  int             `json:"liabilities"`
	Income       decimal.Decimal `json:"income"`
	Expense      decimal.Decimal `json:"expense"`
	GoalProgress int             `json:"goal_progress"`
	DebtProgress int             `json:"debt_progress"`
}

func (d Delta) isZero() bool {
	return d.Transactions == 0 &&
		d.Goals == 0 &&
		d.Liabilities == 0 &&
		d.Income.IsZero() &&
		d.Expense.IsZero() &&
		d.GoalProgress == 0 &&
		d.DebtProgress == 0
}

// Event is emitted whenever the ledger changes between polls.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Totals    Totals    `json:"totals"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DataDir         string    `json:"data_dir"`
	Totals          Totals    `json:"totals"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// SummaryResponse is served at /v1/summary.
type SummaryResponse struct {
	At         time.Time             `json:"at"`
	Summary    model.Summary         `json:"summary"`
	InPrimary  model.Summary         `json:"in_primary"`
	Attainment model.Attainment      `json:"attainment"`
	Categories []model.CategoryTotal `json:"categories"`
	Months     []model.MonthTotal    `json:"months"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	log zerolog.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	hasTotals   bool
	totals      Totals
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < time.Second {
		cfg.Interval = 5 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Loader == nil {
		cfg.Loader = LoaderFunc(func() model.Snapshot { return model.Snapshot{} })
	}

	return &Service{
		cfg:       cfg,
		log:       cfg.Logger.With().Str("component", "daemon").Logger(),
		startedAt: cfg.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/summary", s.handleSummary)
	mux.HandleFunc("GET /v1/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial totals so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce() {
	now := s.cfg.Now()
	totals := totalsFromSnapshot(s.cfg.Loader.Load(), now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.totals
	prevExists := s.hasTotals

	s.hasTotals = true
	s.totals = totals
	s.lastPollAt = now
	s.pollCount++

	if !prevExists {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: "snapshot", Timestamp: now, Totals: totals}
		publish = true
	} else if delta := diffTotals(prev, totals); !delta.isZero() {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: "ledger_delta", Timestamp: now, Totals: totals, Delta: delta}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.log.Debug().Int64("event", ev.ID).Str("type", ev.Type).Msg("ledger changed")
		s.publishEvent(ev)
	}
}

func totalsFromSnapshot(snap model.Snapshot, at time.Time) Totals {
	sum := pipeline.Summarize(snap.Transactions, at)
	att := pipeline.Attainment(sum, snap.Goals, snap.Liabilities)
	return Totals{
		At:             at,
		Transactions:   len(snap.Transactions),
		Goals:          len(snap.Goals),
		Liabilities:    len(snap.Liabilities),
		Balance:        sum.TotalBalance,
		Income:         sum.TotalIncome,
		Expense:        sum.TotalExpense,
		MonthlyExpense: sum.MonthlyExpense,
		GoalProgress:   att.GoalProgress,
		DebtProgress:   att.DebtProgress,
	}
}

func diffTotals(prev, curr Totals) Delta {
	return Delta{
		Transactions: curr.Transactions - prev.Transactions,
		Goals:        curr.Goals - prev.Goals,
		Liabilities:  curr.Liabilities - prev.Liabilities,
		Income:       curr.Income.Sub(prev.Income),
		Expense:      curr.Expense.Sub(prev.Expense),
		GoalProgress: curr.GoalProgress - prev.GoalProgress,
		DebtProgress: curr.DebtProgress - prev.DebtProgress,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) currentStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DataDir:         s.cfg.DataDir,
		Totals:          s.totals,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.currentStatus())
}

// handleSummary reloads the ledger so answers never lag behind the poll.
func (s *Service) handleSummary(w http.ResponseWriter, _ *http.Request) {
	now := s.cfg.Now()
	snap := s.cfg.Loader.Load()
	sum := pipeline.Summarize(snap.Transactions, now)

	writeJSON(w, SummaryResponse{
		At:         now,
		Summary:    sum,
		InPrimary:  pipeline.SummarizeInPrimary(snap.Transactions, now, s.cfg.Rate),
		Attainment: pipeline.Attainment(sum, snap.Goals, snap.Liabilities),
		Categories: pipeline.CategoryBreakdown(snap.Transactions),
		Months:     pipeline.AggregateMonths(snap.Transactions, now, 6),
	})
}

func (s *Service) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, export.NewPayload(s.cfg.Loader.Load(), s.cfg.Now()))
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current totals immediately.
	writeSSE(w, Event{
		Type:      "snapshot",
		Timestamp: s.cfg.Now(),
		Totals:    s.currentStatus().Totals,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
