package srs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

// ErrNotFound is returned by Store.Get when no record exists for the
// (learner, word) pair. "Not yet tracked" is a normal state: RecordOutcome
// converts it into a fresh insertion rather than failing.
var ErrNotFound = errors.New("review record not found")

// Store is the durable home of review records.
type Store interface {
	Get(ctx context.Context, userID int64, wordID string) (*model.ReviewRecord, error)
	Upsert(ctx context.Context, rec *model.ReviewRecord) error
	Delete(ctx context.Context, userID int64, wordID string) error
	DueBefore(ctx context.Context, userID int64, asOf time.Time) ([]model.ReviewItem, error)
	WordIDs(ctx context.Context, userID int64) (map[string]bool, error)
}

// PlanCache mirrors ledger mutations into the cached daily plan so that a
// missed card resurfaces today and a mastered one never reappears. All cache
// calls are best-effort; the ledger is the source of truth.
type PlanCache interface {
	AddReview(ctx context.Context, userID int64, day time.Time, item model.ReviewItem) error
	RemoveWord(ctx context.Context, userID int64, day time.Time, wordID string) error
}

// Ledger owns the spaced-repetition state machine for every (learner, word)
// pair. It performs no internal retries: write failures surface to the caller
// as typed results and retry policy lives in the calling layer.
type Ledger struct {
	store Store
	cache PlanCache
	now   func() time.Time
}

func NewLedger(store Store, cache PlanCache) *Ledger {
	return &Ledger{store: store, cache: cache, now: time.Now}
}

// WithClock overrides the time source. Tests only.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// RecordOutcome applies one answered flashcard to the ledger. A word with no
// existing record is treated as a first-time miss and inserted fresh; an
// existing record advances through the SM-2 step. An incorrect answer also
// re-injects the word into today's cached plan.
func (l *Ledger) RecordOutcome(ctx context.Context, userID int64, word model.Word, correct bool) (*model.ReviewRecord, error) {
	rec, err := l.store.Get(ctx, userID, word.ID)
	if errors.Is(err, ErrNotFound) {
		return l.InsertNew(ctx, userID, word)
	}
	if err != nil {
		return nil, fmt.Errorf("load review record: %w", err)
	}

	now := l.now()
	state := Advance(State{
		Interval:    rec.Interval,
		EaseFactor:  rec.EaseFactor,
		Repetitions: rec.Repetitions,
	}, correct)

	rec.Interval = state.Interval
	rec.EaseFactor = state.EaseFactor
	rec.Repetitions = state.Repetitions
	rec.LastReviewed = now
	// Midnight-based so that interval 0 is already due when fetched with
	// asOf = now.
	rec.NextReviewDate = startOfDay(now).AddDate(0, 0, state.Interval)

	if err := l.store.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist review record: %w", err)
	}

	if !correct && l.cache != nil {
		item := model.ReviewItem{Record: *rec, Word: word}
		if err := l.cache.AddReview(ctx, userID, now, item); err != nil {
			log.Printf("plan cache re-inject failed for user %d word %s: %v", userID, word.ID, err)
		}
	}
	return rec, nil
}

// InsertNew creates (or overwrites) a record that is due immediately, so a
// freshly missed word is reviewable the same day. Idempotent.
func (l *Ledger) InsertNew(ctx context.Context, userID int64, word model.Word) (*model.ReviewRecord, error) {
	now := l.now()
	state := NewState()
	rec := &model.ReviewRecord{
		UserID:         userID,
		WordID:         word.ID,
		Interval:       state.Interval,
		EaseFactor:     state.EaseFactor,
		Repetitions:    state.Repetitions,
		LastReviewed:   now,
		NextReviewDate: now,
	}
	if err := l.store.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist review record: %w", err)
	}

	if l.cache != nil {
		item := model.ReviewItem{Record: *rec, Word: word}
		if err := l.cache.AddReview(ctx, userID, now, item); err != nil {
			log.Printf("plan cache add failed for user %d word %s: %v", userID, word.ID, err)
		}
	}
	return rec, nil
}

// RemoveMastered deletes the record and evicts the word from today's cached
// plan. The ledger delete commits first; cache eviction is best-effort
// cleanup, and the plan generator filters stale cache entries on read anyway.
// Removing an absent record is a no-op.
func (l *Ledger) RemoveMastered(ctx context.Context, userID int64, wordID string) error {
	if err := l.store.Delete(ctx, userID, wordID); err != nil {
		return fmt.Errorf("delete review record: %w", err)
	}
	if l.cache != nil {
		if err := l.cache.RemoveWord(ctx, userID, l.now(), wordID); err != nil {
			log.Printf("plan cache eviction failed for user %d word %s: %v", userID, wordID, err)
		}
	}
	return nil
}

// FetchDue returns all records due on or before asOf, oldest-due first,
// joined with catalog content. An empty result is valid.
func (l *Ledger) FetchDue(ctx context.Context, userID int64, asOf time.Time) ([]model.ReviewItem, error) {
	return l.store.DueBefore(ctx, userID, asOf)
}

// TrackedWordIDs returns the set of word IDs present in the learner's ledger.
func (l *Ledger) TrackedWordIDs(ctx context.Context, userID int64) (map[string]bool, error) {
	return l.store.WordIDs(ctx, userID)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
