package planner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

type fakeProfiles struct {
	user *model.User
	err  error
}

func (f *fakeProfiles) Get(context.Context, int64) (*model.User, error) {
	return f.user, f.err
}

type fakeGoals struct {
	master []model.GoalMaster
	err    error
}

func (f *fakeGoals) List(context.Context) ([]model.GoalMaster, error) {
	return f.master, f.err
}

type fakeCatalog struct {
	byLevel map[int][]model.Word
	err     error
}

func (f *fakeCatalog) WordsAtLevels(_ context.Context, _ string, levels []int) ([]model.Word, error) {
	if f.err != nil {
		return nil, f.err
	}
	var words []model.Word
	for _, lv := range levels {
		words = append(words, f.byLevel[lv]...)
	}
	return words, nil
}

type fakeLedger struct {
	due        []model.ReviewItem
	tracked    map[string]bool
	dueErr     error
	trackedErr error
}

func (f *fakeLedger) FetchDue(context.Context, int64, time.Time) ([]model.ReviewItem, error) {
	return f.due, f.dueErr
}

func (f *fakeLedger) TrackedWordIDs(context.Context, int64) (map[string]bool, error) {
	if f.trackedErr != nil {
		return nil, f.trackedErr
	}
	if f.tracked == nil {
		return map[string]bool{}, nil
	}
	return f.tracked, nil
}

type fakePlans struct {
	cached *model.DailyPlan
	puts   int
}

func (f *fakePlans) Get(context.Context, int64, time.Time) (*model.DailyPlan, error) {
	return f.cached, nil
}

func (f *fakePlans) Put(_ context.Context, _ int64, _ time.Time, plan *model.DailyPlan) error {
	f.cached = plan
	f.puts++
	return nil
}

func levelWords(level, n int) []model.Word {
	words := make([]model.Word, n)
	for i := range words {
		words[i] = model.Word{ID: fmt.Sprintf("L%d-%d", level, i), Level: level}
	}
	return words
}

func studentWithGoal(level int, current int, targetDate string) *model.User {
	return &model.User{
		ID:                7,
		Level:             level,
		CurrentVocabulary: current,
		Goal: model.Goal{
			Targets:    []model.GoalTarget{{GoalID: "eiken_pre2"}},
			TargetDate: targetDate,
			IsSet:      true,
		},
	}
}

func testGenerator(profiles Profiles, goals Goals, catalog Catalog, ledger Ledger, plans PlanStore) *Generator {
	g := NewGenerator(profiles, goals, catalog, ledger, plans, "target1900")
	return g.WithClock(func() time.Time {
		return time.Date(2026, 5, 18, 9, 0, 0, 0, time.UTC)
	})
}

func TestGenerateProfileUnavailable(t *testing.T) {
	g := testGenerator(
		&fakeProfiles{err: errors.New("no rows")},
		&fakeGoals{}, &fakeCatalog{}, &fakeLedger{}, nil,
	)

	_, err := g.Generate(context.Background(), 7)
	assert.ErrorIs(t, err, ErrProfileUnavailable)
}

func TestGenerateWithoutGoal(t *testing.T) {
	due := []model.ReviewItem{{Word: model.Word{ID: "w1"}}}
	plans := &fakePlans{}
	g := testGenerator(
		&fakeProfiles{user: &model.User{ID: 7, Level: 3}},
		&fakeGoals{master: testMaster},
		&fakeCatalog{byLevel: map[int][]model.Word{3: levelWords(3, 50)}},
		&fakeLedger{due: due},
		plans,
	)

	plan, err := g.Generate(context.Background(), 7)
	require.NoError(t, err)

	assert.Empty(t, plan.NewWords, "no deadline means no new-word pacing")
	assert.Len(t, plan.ReviewWords, 1, "due reviews still surface without a goal")
	assert.Equal(t, 1, plans.puts)
}

func TestGenerateQuotaAndPoolExclusion(t *testing.T) {
	// 1500 words to close in 30 days = 50/day by deadline, but the
	// 30-minute budget with no due reviews caps at 30.
	catalog := &fakeCatalog{byLevel: map[int][]model.Word{
		4: levelWords(4, 100),
		5: levelWords(5, 100),
	}}
	tracked := map[string]bool{"L4-0": true, "L4-1": true}
	g := testGenerator(
		&fakeProfiles{user: studentWithGoal(4, 2100, "2026-06-17")},
		&fakeGoals{master: testMaster},
		catalog,
		&fakeLedger{tracked: tracked},
		nil,
	)

	plan, err := g.Generate(context.Background(), 7)
	require.NoError(t, err)

	assert.Len(t, plan.NewWords, 30)
	for _, w := range plan.NewWords {
		assert.False(t, tracked[w.ID], "ledger words are not new")
		assert.Contains(t, []int{4, 5}, w.Level)
	}
}

func TestGenerateReviewsSqueezeOutNewWords(t *testing.T) {
	due := make([]model.ReviewItem, 120)
	for i := range due {
		due[i] = model.ReviewItem{Word: model.Word{ID: fmt.Sprintf("due-%d", i)}}
	}
	g := testGenerator(
		&fakeProfiles{user: studentWithGoal(4, 2100, "2026-06-17")},
		&fakeGoals{master: testMaster},
		&fakeCatalog{byLevel: map[int][]model.Word{4: levelWords(4, 100)}},
		&fakeLedger{due: due},
		nil,
	)

	plan, err := g.Generate(context.Background(), 7)
	require.NoError(t, err)

	assert.Empty(t, plan.NewWords, "120 due reviews exhaust the daily budget")
}

func TestGenerateSupplementary(t *testing.T) {
	// eiken_pre2 tops out at level 4; supplementary items come from level 3.
	catalog := &fakeCatalog{byLevel: map[int][]model.Word{
		3: levelWords(3, 40),
		4: levelWords(4, 100),
		5: levelWords(5, 100),
	}}
	g := testGenerator(
		&fakeProfiles{user: studentWithGoal(4, 2100, "2026-06-17")},
		&fakeGoals{master: testMaster},
		catalog,
		&fakeLedger{tracked: map[string]bool{"L3-0": true}},
		nil,
	)

	plan, err := g.Generate(context.Background(), 7)
	require.NoError(t, err)

	supplementary := 0
	for _, item := range plan.ReviewWords {
		if item.Record.ID == 0 {
			supplementary++
			assert.Equal(t, 3, item.Word.Level)
			assert.NotEqual(t, "L3-0", item.Word.ID, "tracked words are excluded")
		}
	}
	assert.Equal(t, SupplementaryQuota, supplementary)
}

func TestGenerateDegradedReads(t *testing.T) {
	// Sub-query failures degrade to empty sets instead of failing the plan.
	g := testGenerator(
		&fakeProfiles{user: studentWithGoal(4, 2100, "2026-06-17")},
		&fakeGoals{err: errors.New("timeout")},
		&fakeCatalog{err: errors.New("timeout")},
		&fakeLedger{dueErr: errors.New("timeout"), trackedErr: errors.New("timeout")},
		nil,
	)

	plan, err := g.Generate(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, plan.NewWords)
	assert.Empty(t, plan.ReviewWords)
}

func TestGenerateCacheHitRefreshesReviews(t *testing.T) {
	// The cached plan still lists w-gone, mastered since the cache was
	// written, and a supplementary item that never entered the ledger.
	cached := &model.DailyPlan{
		Date:     "2026-05-18",
		NewWords: []model.Word{{ID: "n1"}},
		ReviewWords: []model.ReviewItem{
			{Record: model.ReviewRecord{ID: 1}, Word: model.Word{ID: "w-gone"}},
			{Record: model.ReviewRecord{ID: 2}, Word: model.Word{ID: "w-due"}},
			{Word: model.Word{ID: "w-supp"}},
		},
	}
	plans := &fakePlans{cached: cached}
	ledger := &fakeLedger{
		due:     []model.ReviewItem{{Record: model.ReviewRecord{ID: 2}, Word: model.Word{ID: "w-due"}}},
		tracked: map[string]bool{"w-due": true},
	}
	g := testGenerator(
		&fakeProfiles{user: studentWithGoal(4, 2100, "2026-06-17")},
		&fakeGoals{master: testMaster},
		&fakeCatalog{},
		ledger,
		plans,
	)

	plan, err := g.Generate(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, []model.Word{{ID: "n1"}}, plan.NewWords, "cached new words are kept")
	assert.False(t, plan.ContainsReview("w-gone"), "mastered words never resurface from cache")
	assert.True(t, plan.ContainsReview("w-due"))
	assert.True(t, plan.ContainsReview("w-supp"), "supplementary items survive the refresh")
}
