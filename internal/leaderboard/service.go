package leaderboard

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Result is the outcome of a successful submission.
type Result struct {
	Success     bool `json:"success"`
	ScoresCount int  `json:"scoresCount"`
}

// Submitter is what a game host needs from the leaderboard.
type Submitter interface {
	Submit(ctx context.Context, name string, score int) (Result, error)
	Top(ctx context.Context, n int) []Entry
}

// Service applies the leaderboard rules on top of a Store.
type Service struct {
	store  Store
	logger *log.Logger
	now    func() time.Time

	mu       sync.Mutex // Serialises read-modify-write submissions
	onChange []func([]Entry)
}

// NewService creates a service over store. A nil store behaves like NullStore.
func NewService(store Store, logger *log.Logger) *Service {
	if store == nil {
		store = NullStore{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// OnChange registers fn to receive the new top entries after every submission.
// fn runs on the submitting goroutine.
func (s *Service) OnChange(fn func(top []Entry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Top returns the n best entries, one per player. Store failures yield an empty list.
func (s *Service) Top(ctx context.Context, n int) []Entry {
	entries, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("Failed to load scores", "error", err)
		return []Entry{}
	}
	entries, _ = mergePlayers(entries)
	return top(entries, n)
}

// Submit records score for name, keeping each player's best score and the
// MaxStored best overall. A failure to read or write the store is logged and
// does not fail the submission. When the board cannot be read the score is
// dropped rather than written over a board that was never seen.
func (s *Service) Submit(ctx context.Context, name string, score int) (Result, error) {
	if strings.TrimSpace(name) == "" {
		return Result{}, ErrNameRequired
	}

	s.mu.Lock()
	entries, err := s.store.Load(ctx)
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("Failed to load scores, score not saved", "name", strings.TrimSpace(name), "score", score, "error", err)
		return Result{Success: true, ScoresCount: 1}, nil
	}

	entries, merged := mergePlayers(entries)
	entries, changed := upsert(entries, name, score, s.now().UnixMilli())
	changed = changed || merged
	sortEntries(entries)
	if len(entries) > MaxStored {
		entries = entries[:MaxStored]
	}

	if changed {
		if err := s.store.Save(ctx, entries); err != nil {
			s.logger.Error("Failed to save scores", "error", err)
		} else {
			s.logger.Info("Score recorded", "name", strings.TrimSpace(name), "score", score, "count", len(entries))
		}
	}
	listeners := s.onChange
	s.mu.Unlock()

	board := top(entries, DefaultTop)
	for _, fn := range listeners {
		fn(board)
	}
	return Result{Success: true, ScoresCount: len(entries)}, nil
}

// SubmitFloat validates a raw numeric score before submitting it.
func (s *Service) SubmitFloat(ctx context.Context, name string, score float64) (Result, error) {
	if math.IsNaN(score) || score > math.MaxInt32 || score < math.MinInt32 {
		return Result{}, ErrInvalidScore
	}
	return s.Submit(ctx, name, int(score))
}
