package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

// ErrProfileUnavailable means the learner's own profile could not be read.
// This is the only fatal condition in plan generation; every other sub-query
// degrades to an empty contribution.
var ErrProfileUnavailable = errors.New("learner profile unavailable")

// SupplementaryQuota caps the low-stakes reinforcement items appended to the
// review set from one level below the learner's highest goal target.
const SupplementaryQuota = 10

// Profiles reads learner profiles.
type Profiles interface {
	Get(ctx context.Context, userID int64) (*model.User, error)
}

// Goals reads the goal master catalog.
type Goals interface {
	List(ctx context.Context) ([]model.GoalMaster, error)
}

// Catalog is read-only access to vocabulary items, partitioned by textbook.
type Catalog interface {
	WordsAtLevels(ctx context.Context, textbook string, levels []int) ([]model.Word, error)
}

// Ledger is the read side of the review ledger. The generator never mutates
// it; outcomes flow back through the srs package.
type Ledger interface {
	FetchDue(ctx context.Context, userID int64, asOf time.Time) ([]model.ReviewItem, error)
	TrackedWordIDs(ctx context.Context, userID int64) (map[string]bool, error)
}

// PlanStore caches generated plans per learner per calendar day.
type PlanStore interface {
	Get(ctx context.Context, userID int64, day time.Time) (*model.DailyPlan, error)
	Put(ctx context.Context, userID int64, day time.Time, plan *model.DailyPlan) error
}

// Generator produces the day's task list: a bounded, deadline-aware set of
// new items plus the full due-review set.
type Generator struct {
	profiles Profiles
	goals    Goals
	catalog  Catalog
	ledger   Ledger
	plans    PlanStore
	textbook string
	budget   Budget
	now      func() time.Time
}

func NewGenerator(profiles Profiles, goals Goals, catalog Catalog, ledger Ledger, plans PlanStore, textbook string) *Generator {
	return &Generator{
		profiles: profiles,
		goals:    goals,
		catalog:  catalog,
		ledger:   ledger,
		plans:    plans,
		textbook: textbook,
		budget:   DefaultBudget(),
		now:      time.Now,
	}
}

// WithBudget overrides the daily time budget.
func (g *Generator) WithBudget(b Budget) *Generator {
	g.budget = b
	return g
}

// WithClock overrides the time source. Tests only.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds (or re-reads) today's plan for the learner.
//
// A cached plan is served with its review set refreshed from the ledger, so
// records mastered since the cache was written never resurface. Without a
// goal deadline no new words are introduced, but due reviews still come back;
// pacing only gates new-word introduction.
func (g *Generator) Generate(ctx context.Context, userID int64) (*model.DailyPlan, error) {
	profile, err := g.profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}

	now := g.now()

	if g.plans != nil {
		if cached, err := g.plans.Get(ctx, userID, now); err == nil && cached != nil {
			g.refreshReviews(ctx, userID, now, cached)
			return cached, nil
		}
	}

	// Independent reads, issued concurrently and joined.
	var (
		master  []model.GoalMaster
		due     []model.ReviewItem
		tracked map[string]bool
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		if master, err = g.goals.List(egCtx); err != nil {
			log.Printf("goal master read failed for user %d: %v", userID, err)
			master = nil
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		if due, err = g.ledger.FetchDue(egCtx, userID, now); err != nil {
			log.Printf("due review read failed for user %d: %v", userID, err)
			due = nil
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		if tracked, err = g.ledger.TrackedWordIDs(egCtx, userID); err != nil {
			log.Printf("ledger id read failed for user %d: %v", userID, err)
			tracked = map[string]bool{}
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan := &model.DailyPlan{
		Date:        now.Format("2006-01-02"),
		NewWords:    []model.Word{},
		ReviewWords: due,
	}
	if plan.ReviewWords == nil {
		plan.ReviewWords = []model.ReviewItem{}
	}

	deadline, hasGoal := profile.Deadline()
	if !hasGoal {
		g.putCache(ctx, userID, now, plan)
		return plan, nil
	}

	needed := NeededWords(TargetVocabulary(profile.Goal.Targets, master), profile.CurrentVocabulary)
	quota := NewWordQuota(needed, deadline, now, len(plan.ReviewWords), g.budget)

	if quota > 0 {
		plan.NewWords = g.pickNewWords(ctx, profile, tracked, quota)
	}

	g.appendSupplementary(ctx, profile, master, tracked, plan)

	g.putCache(ctx, userID, now, plan)
	return plan, nil
}

// pickNewWords samples the candidate pool: items at the learner's current
// level and the next level up, excluding anything already in the ledger.
// Widening to two levels prevents starvation when a level is sparse.
func (g *Generator) pickNewWords(ctx context.Context, profile *model.User, tracked map[string]bool, quota int) []model.Word {
	level := profile.Level
	if level < model.MinLevel {
		level = model.MinLevel
	}
	levels := []int{level}
	if level < model.MaxLevel {
		levels = append(levels, level+1)
	}

	pool, err := g.catalog.WordsAtLevels(ctx, g.textbook, levels)
	if err != nil {
		log.Printf("catalog pool read failed for user %d: %v", profile.ID, err)
		return []model.Word{}
	}

	candidates := make([]model.Word, 0, len(pool))
	for _, w := range pool {
		if !tracked[w.ID] {
			candidates = append(candidates, w)
		}
	}

	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > quota {
		candidates = candidates[:quota]
	}
	return candidates
}

// appendSupplementary adds up to SupplementaryQuota items one level below the
// learner's highest goal target: soon-to-be-foundational vocabulary offered
// as low-stakes reinforcement. Deduplicated against the due set by item
// identity; degrades to nothing on any read failure.
func (g *Generator) appendSupplementary(ctx context.Context, profile *model.User, master []model.GoalMaster, tracked map[string]bool, plan *model.DailyPlan) {
	level := HighestGoalLevel(profile.Goal.Targets, master) - 1
	if level < model.MinLevel {
		return
	}

	words, err := g.catalog.WordsAtLevels(ctx, g.textbook, []int{level})
	if err != nil {
		log.Printf("supplementary read failed for user %d: %v", profile.ID, err)
		return
	}

	added := 0
	for _, w := range words {
		if added >= SupplementaryQuota {
			break
		}
		if tracked[w.ID] || plan.ContainsReview(w.ID) || plan.ContainsNewWord(w.ID) {
			continue
		}
		plan.ReviewWords = append(plan.ReviewWords, model.ReviewItem{Word: w})
		added++
	}
}

// refreshReviews replaces a cached plan's review set with the live due set.
// A stale cache entry for an already-deleted ledger record is never trusted.
func (g *Generator) refreshReviews(ctx context.Context, userID int64, now time.Time, plan *model.DailyPlan) {
	due, err := g.ledger.FetchDue(ctx, userID, now)
	if err != nil {
		log.Printf("due refresh failed for user %d: %v", userID, err)
		return
	}
	tracked, err := g.ledger.TrackedWordIDs(ctx, userID)
	if err != nil {
		log.Printf("ledger id refresh failed for user %d: %v", userID, err)
		return
	}

	// Keep cached supplementary items (no ledger record) unless they were
	// since added to the ledger; those are covered by the due set.
	refreshed := make([]model.ReviewItem, 0, len(due))
	refreshed = append(refreshed, due...)
	seen := make(map[string]bool, len(due))
	for _, item := range due {
		seen[item.Word.ID] = true
	}
	for _, item := range plan.ReviewWords {
		if item.Record.ID == 0 && !tracked[item.Word.ID] && !seen[item.Word.ID] {
			refreshed = append(refreshed, item)
		}
	}
	plan.ReviewWords = refreshed
}

func (g *Generator) putCache(ctx context.Context, userID int64, day time.Time, plan *model.DailyPlan) {
	if g.plans == nil {
		return
	}
	if err := g.plans.Put(ctx, userID, day, plan); err != nil {
		log.Printf("plan cache write failed for user %d: %v", userID, err)
	}
}
