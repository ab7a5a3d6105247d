package srs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

type fakeStore struct {
	records map[string]*model.ReviewRecord
	getErr  error
	putErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*model.ReviewRecord)}
}

func (f *fakeStore) Get(_ context.Context, _ int64, wordID string) (*model.ReviewRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	rec, ok := f.records[wordID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeStore) Upsert(_ context.Context, rec *model.ReviewRecord) error {
	if f.putErr != nil {
		return f.putErr
	}
	cp := *rec
	f.records[rec.WordID] = &cp
	return nil
}

func (f *fakeStore) Delete(_ context.Context, _ int64, wordID string) error {
	delete(f.records, wordID)
	return nil
}

func (f *fakeStore) DueBefore(_ context.Context, _ int64, asOf time.Time) ([]model.ReviewItem, error) {
	var items []model.ReviewItem
	for _, rec := range f.records {
		if !rec.NextReviewDate.After(asOf) {
			items = append(items, model.ReviewItem{Record: *rec})
		}
	}
	return items, nil
}

func (f *fakeStore) WordIDs(_ context.Context, _ int64) (map[string]bool, error) {
	ids := make(map[string]bool, len(f.records))
	for id := range f.records {
		ids[id] = true
	}
	return ids, nil
}

type fakeCache struct {
	added   []string
	removed []string
	err     error
}

func (f *fakeCache) AddReview(_ context.Context, _ int64, _ time.Time, item model.ReviewItem) error {
	if f.err != nil {
		return f.err
	}
	f.added = append(f.added, item.Word.ID)
	return nil
}

func (f *fakeCache) RemoveWord(_ context.Context, _ int64, _ time.Time, wordID string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, wordID)
	return nil
}

func fixedClock() time.Time {
	return time.Date(2026, 5, 18, 10, 30, 0, 0, time.UTC)
}

func TestRecordOutcomeInsertsUnknownWord(t *testing.T) {
	store := newFakeStore()
	cache := &fakeCache{}
	ledger := NewLedger(store, cache).WithClock(fixedClock)

	word := model.Word{ID: "w1", Word: "perilous"}
	rec, err := ledger.RecordOutcome(context.Background(), 7, word, false)
	require.NoError(t, err)

	assert.Equal(t, 1, rec.Interval)
	assert.Equal(t, 2.5, rec.EaseFactor)
	assert.Equal(t, 0, rec.Repetitions)
	assert.Equal(t, fixedClock(), rec.NextReviewDate, "fresh record is due immediately")
	assert.Equal(t, []string{"w1"}, cache.added)
}

func TestRecordOutcomeAdvancesExisting(t *testing.T) {
	store := newFakeStore()
	store.records["w1"] = &model.ReviewRecord{
		UserID: 7, WordID: "w1",
		Interval: 1, EaseFactor: 2.6, Repetitions: 1,
	}
	ledger := NewLedger(store, nil).WithClock(fixedClock)

	rec, err := ledger.RecordOutcome(context.Background(), 7, model.Word{ID: "w1"}, true)
	require.NoError(t, err)

	assert.Equal(t, 6, rec.Interval)
	assert.Equal(t, 2, rec.Repetitions)

	wantDue := time.Date(2026, 5, 24, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, wantDue, rec.NextReviewDate, "due date counts from midnight")
}

func TestRecordOutcomeIncorrectDueToday(t *testing.T) {
	store := newFakeStore()
	store.records["w1"] = &model.ReviewRecord{
		UserID: 7, WordID: "w1",
		Interval: 17, EaseFactor: 2.8, Repetitions: 3,
	}
	cache := &fakeCache{}
	ledger := NewLedger(store, cache).WithClock(fixedClock)

	rec, err := ledger.RecordOutcome(context.Background(), 7, model.Word{ID: "w1"}, false)
	require.NoError(t, err)

	assert.Equal(t, 0, rec.Interval)
	assert.Equal(t, time.Date(2026, 5, 18, 0, 0, 0, 0, time.UTC), rec.NextReviewDate)

	// Must already be due when fetched with asOf = now.
	due, err := ledger.FetchDue(context.Background(), 7, fixedClock())
	require.NoError(t, err)
	assert.Len(t, due, 1)

	assert.Equal(t, []string{"w1"}, cache.added, "missed word re-enters today's plan")
}

func TestRecordOutcomeCorrectNotReinjected(t *testing.T) {
	store := newFakeStore()
	store.records["w1"] = &model.ReviewRecord{
		UserID: 7, WordID: "w1",
		Interval: 1, EaseFactor: 2.5, Repetitions: 1,
	}
	cache := &fakeCache{}
	ledger := NewLedger(store, cache).WithClock(fixedClock)

	_, err := ledger.RecordOutcome(context.Background(), 7, model.Word{ID: "w1"}, true)
	require.NoError(t, err)

	assert.Empty(t, cache.added)
}

func TestRecordOutcomeStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	ledger := NewLedger(store, nil)

	_, err := ledger.RecordOutcome(context.Background(), 7, model.Word{ID: "w1"}, true)
	assert.Error(t, err)
}

func TestRecordOutcomeCacheFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	cache := &fakeCache{err: errors.New("redis down")}
	ledger := NewLedger(store, cache).WithClock(fixedClock)

	rec, err := ledger.RecordOutcome(context.Background(), 7, model.Word{ID: "w1"}, false)
	require.NoError(t, err)
	assert.NotNil(t, rec)
	assert.Contains(t, store.records, "w1", "ledger write survives a cache failure")
}

func TestInsertNewIsIdempotent(t *testing.T) {
	store := newFakeStore()
	ledger := NewLedger(store, nil).WithClock(fixedClock)

	word := model.Word{ID: "w1"}
	first, err := ledger.InsertNew(context.Background(), 7, word)
	require.NoError(t, err)
	second, err := ledger.InsertNew(context.Background(), 7, word)
	require.NoError(t, err)

	assert.Equal(t, first.Interval, second.Interval)
	assert.Len(t, store.records, 1)
}

func TestRemoveMastered(t *testing.T) {
	store := newFakeStore()
	store.records["w1"] = &model.ReviewRecord{UserID: 7, WordID: "w1"}
	cache := &fakeCache{}
	ledger := NewLedger(store, cache).WithClock(fixedClock)

	require.NoError(t, ledger.RemoveMastered(context.Background(), 7, "w1"))
	assert.NotContains(t, store.records, "w1")
	assert.Equal(t, []string{"w1"}, cache.removed)

	// Removing an absent record is a no-op.
	require.NoError(t, ledger.RemoveMastered(context.Background(), 7, "w1"))
}

func TestRemoveMasteredCacheFailure(t *testing.T) {
	// Ledger delete commits even when cache eviction fails; the generator
	// filters stale cache entries on read.
	store := newFakeStore()
	store.records["w1"] = &model.ReviewRecord{UserID: 7, WordID: "w1"}
	cache := &fakeCache{err: errors.New("redis down")}
	ledger := NewLedger(store, cache).WithClock(fixedClock)

	require.NoError(t, ledger.RemoveMastered(context.Background(), 7, "w1"))
	assert.NotContains(t, store.records, "w1")
}
