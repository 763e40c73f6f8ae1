// Package seed fills the database with a synthetic but plausible dataset:
// users with profiles, questions, answers, tags and likes.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"askme/internal/corpus"
	"askme/internal/middleware"
	"askme/internal/models"
	"askme/internal/observability"
)

// ErrStorageFailure wraps any error returned by the Store.
var ErrStorageFailure = errors.New("storage failure")

// maxUsernameDraws bounds redraws when a generated username repeats.
const maxUsernameDraws = 16

// freshLikerDraws is how many random users are tried before scanning.
const freshLikerDraws = 8

// Seeder runs a Plan against a Store. It is not safe for concurrent use.
type Seeder struct {
	store    Store
	provider corpus.Provider
	opts     SeedOptions
	rng      Sampler
	plan     Plan
	logger   *slog.Logger
}

// NewSeeder wires a seeder with the default plan.
func NewSeeder(store Store, provider corpus.Provider, opts SeedOptions, rng Sampler) *Seeder {
	if rng == nil {
		rng = NewSampler(0)
	}
	return &Seeder{
		store:    store,
		provider: provider,
		opts:     opts,
		rng:      rng,
		plan:     DefaultPlan(),
		logger:   middleware.Logger,
	}
}

// WithPlan replaces the step plan. Run validates it before writing anything.
func (s *Seeder) WithPlan(p Plan) *Seeder {
	s.plan = p
	return s
}

// run holds the state of a single Run call.
type run struct {
	*Seeder
	factory   *Factory
	quotas    Quotas
	report    *Report
	users     []*models.User
	questions []*models.Question
	usernames map[string]struct{}
}

// Run generates the dataset. Steps already committed stay when a later step fails.
func (s *Seeder) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	quotas := s.opts.Quotas.Scaled()
	report := &Report{DryRun: s.opts.DryRun, Quotas: quotas}

	if err := s.plan.Validate(); err != nil {
		return nil, err
	}

	c, err := corpus.Fetch(ctx, s.provider, s.opts.CorpusParagraphs, s.opts.CorpusNames)
	if err != nil {
		return nil, err
	}

	if s.opts.Clean {
		if err := s.store.Truncate(ctx); err != nil {
			return nil, fmt.Errorf("%w: truncate: %w", ErrStorageFailure, err)
		}
		s.logger.InfoContext(ctx, "seed tables truncated")
	}

	r := &run{
		Seeder:    s,
		factory:   NewFactory(c, s.rng, s.opts.Text, s.opts.FastHash),
		quotas:    quotas,
		report:    report,
		usernames: make(map[string]struct{}),
	}

	for _, step := range s.plan {
		if err := r.checkParents(step); err != nil {
			return report, err
		}
		if err := r.runStep(ctx, step.Kind); err != nil {
			return report, err
		}
	}

	report.Duration = time.Since(start)
	s.logger.InfoContext(ctx, "seed finished",
		slog.Int("users", report.Created.Users),
		slog.Int("questions", report.Created.Questions),
		slog.Int("answers", report.Created.Answers),
		slog.Int("tags", report.Created.Tags),
		slog.Int("likes", report.Created.Likes),
		slog.Duration("elapsed", report.Duration),
	)
	return report, nil
}

func (r *run) quota(k Kind) int {
	switch k {
	case KindUsers:
		return r.quotas.Users
	case KindQuestions:
		return r.quotas.Questions
	case KindAnswers:
		return r.quotas.Answers
	case KindTags:
		return r.quotas.Tags
	case KindLikes:
		return r.quotas.Likes
	}
	return 0
}

func (r *run) produced(k Kind) int {
	switch k {
	case KindUsers:
		return len(r.users)
	case KindQuestions:
		return len(r.questions)
	}
	return 0
}

func (r *run) checkParents(step Step) error {
	if r.quota(step.Kind) <= 0 {
		return nil
	}
	for _, req := range step.Requires {
		if r.produced(req) == 0 {
			return fmt.Errorf("%w: %d %s need %s but none were seeded", ErrDependencyViolation, r.quota(step.Kind), step.Kind, req)
		}
	}
	return nil
}

func (r *run) runStep(ctx context.Context, kind Kind) error {
	quota := r.quota(kind)
	ctx, span := observability.GetTraceLayer().TraceSeedStep(ctx, string(kind), quota)
	defer span.End()

	start := time.Now()
	var (
		n, batches int
		err        error
	)
	switch kind {
	case KindUsers:
		n, err = r.seedUsers(ctx, quota)
	case KindQuestions:
		n, err = r.seedQuestions(ctx, quota)
	case KindAnswers:
		n, batches, err = r.seedAnswers(ctx, quota)
	case KindTags:
		n, batches, err = r.seedTags(ctx, quota)
	case KindLikes:
		n, batches, err = r.seedLikes(ctx, quota)
	}
	elapsed := time.Since(start)

	if err != nil {
		observability.RecordErrorInContext(ctx, err)
		r.logger.ErrorContext(ctx, "seed step failed",
			slog.String("kind", string(kind)),
			slog.Int("quota", quota),
			slog.String("error", err.Error()),
		)
		return err
	}

	observability.RecordSeedStep(string(kind), n, elapsed)
	r.report.Steps = append(r.report.Steps, StepReport{
		Kind:    kind,
		Records: n,
		Batches: batches,
		Elapsed: elapsed.Round(time.Millisecond).String(),
	})
	r.logger.InfoContext(ctx, "seed step complete",
		slog.String("kind", string(kind)),
		slog.Int("quota", quota),
		slog.Int("records", n),
		slog.Int("batches", batches),
		slog.Duration("elapsed", elapsed),
	)
	return nil
}

func storageErr(kind Kind, err error) error {
	return fmt.Errorf("%w: insert %s: %w", ErrStorageFailure, kind, err)
}

func (r *run) seedUsers(ctx context.Context, quota int) (int, error) {
	if quota <= 0 {
		return 0, nil
	}
	existing, err := r.store.Count(ctx, &models.User{})
	if err != nil {
		return 0, fmt.Errorf("%w: count users: %w", ErrStorageFailure, err)
	}

	r.users = make([]*models.User, 0, quota)
	for i := 0; i < quota; i++ {
		u, err := r.uniqueUser(int(existing) + i)
		if err != nil {
			return len(r.users), err
		}
		if err := r.store.InsertOne(ctx, u); err != nil {
			return len(r.users), storageErr(KindUsers, err)
		}
		r.users = append(r.users, u)
	}
	r.report.Created.Users = len(r.users)

	start := time.Now()
	profiles := make([]*models.Profile, 0, len(r.users))
	for _, u := range r.users {
		profiles = append(profiles, r.factory.MakeProfile(u))
	}
	if err := r.store.InsertMany(ctx, profiles); err != nil {
		return len(r.users), storageErr(KindProfiles, err)
	}
	r.report.Created.Profiles = len(profiles)
	observability.RecordSeedStep(string(KindProfiles), len(profiles), time.Since(start))
	return len(r.users), nil
}

func (r *run) uniqueUser(index int) (*models.User, error) {
	for attempt := 0; attempt < maxUsernameDraws; attempt++ {
		u, err := r.factory.MakeUser(index)
		if err != nil {
			return nil, err
		}
		if _, dup := r.usernames[u.Username]; dup {
			continue
		}
		r.usernames[u.Username] = struct{}{}
		return u, nil
	}
	return nil, fmt.Errorf("%w: no unique username for index %d after %d draws", ErrQuotaExhausted, index, maxUsernameDraws)
}

func (r *run) randomUser() *models.User {
	return r.users[r.rng.Intn(len(r.users))]
}

func (r *run) seedQuestions(ctx context.Context, quota int) (int, error) {
	if quota <= 0 {
		return 0, nil
	}
	questions := make([]*models.Question, 0, quota)
	for i := 0; i < quota; i++ {
		questions = append(questions, r.factory.MakeQuestion(r.randomUser()))
	}
	if err := r.store.InsertMany(ctx, questions); err != nil {
		return 0, storageErr(KindQuestions, err)
	}
	r.questions = questions
	r.report.Created.Questions = len(questions)
	return len(questions), nil
}

func (r *run) allocate(total, maxBatch int) ([]Batch, error) {
	return Allocate(total, maxBatch, len(r.questions), r.rng, r.opts.MaxIterations)
}

func (r *run) seedAnswers(ctx context.Context, quota int) (int, int, error) {
	batches, err := r.allocate(quota, r.opts.Limits.MaxAnswers)
	if err != nil || len(batches) == 0 {
		return 0, len(batches), err
	}
	answers := make([]*models.Answer, 0, Sum(batches))
	for _, b := range batches {
		q := r.questions[b.Parent]
		for k := 0; k < b.Size; k++ {
			answers = append(answers, r.factory.MakeAnswer(r.randomUser(), q))
		}
	}
	if err := r.store.InsertMany(ctx, answers); err != nil {
		return 0, len(batches), storageErr(KindAnswers, err)
	}
	r.report.Created.Answers = len(answers)
	return len(answers), len(batches), nil
}

func (r *run) seedTags(ctx context.Context, quota int) (int, int, error) {
	batches, err := r.allocate(quota, r.opts.Limits.MaxTags)
	if err != nil || len(batches) == 0 {
		return 0, len(batches), err
	}
	tags := make([]*models.Tag, 0, Sum(batches))
	for _, b := range batches {
		q := r.questions[b.Parent]
		for k := 0; k < b.Size; k++ {
			tags = append(tags, r.factory.MakeTag(q))
		}
	}
	if err := r.store.InsertMany(ctx, tags); err != nil {
		return 0, len(batches), storageErr(KindTags, err)
	}
	r.report.Created.Tags = len(tags)
	return len(tags), len(batches), nil
}

func (r *run) seedLikes(ctx context.Context, quota int) (int, int, error) {
	batches, err := r.allocate(quota, r.opts.Limits.MaxLikes)
	if err != nil || len(batches) == 0 {
		return 0, len(batches), err
	}

	// liked[question index] holds the user indexes that already liked it
	liked := make(map[int]map[int]struct{})
	likes := make([]*models.Like, 0, Sum(batches))
	for _, b := range batches {
		q := r.questions[b.Parent]
		taken := liked[b.Parent]
		if taken == nil {
			taken = make(map[int]struct{})
			liked[b.Parent] = taken
		}
		for k := 0; k < b.Size; k++ {
			ui, ok := r.pickLiker(taken)
			if !ok {
				break
			}
			likes = append(likes, r.factory.MakeLike(r.users[ui], q))
		}
	}
	if err := r.store.InsertMany(ctx, likes); err != nil {
		return 0, len(batches), storageErr(KindLikes, err)
	}
	r.report.Created.Likes = len(likes)
	return len(likes), len(batches), nil
}

// pickLiker returns a user index for a like. Unless duplicates are allowed the
// index is one not yet in taken, and it is added to taken.
func (r *run) pickLiker(taken map[int]struct{}) (int, bool) {
	if r.opts.AllowDuplicateLikes {
		return r.rng.Intn(len(r.users)), true
	}
	if len(taken) >= len(r.users) {
		return 0, false
	}
	for attempt := 0; attempt < freshLikerDraws; attempt++ {
		i := r.rng.Intn(len(r.users))
		if _, ok := taken[i]; !ok {
			taken[i] = struct{}{}
			return i, true
		}
	}
	for i := range r.users {
		if _, ok := taken[i]; !ok {
			taken[i] = struct{}{}
			return i, true
		}
	}
	return 0, false
}
