package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"quiz_engine/internal/model"
	"quiz_engine/internal/repository"
	"quiz_engine/internal/util"
	"quiz_engine/pkg/logger"
	"quiz_engine/pkg/monitoring"

	"go.uber.org/zap"
)

// SampledQuestion is a drawn question whose Options are in display order.
type SampledQuestion struct {
	model.Question
}

func (q SampledQuestion) OptionIDs() []uint {
	ids := make([]uint, 0, len(q.Options))
	for _, o := range q.Options {
		ids = append(ids, o.ID)
	}
	return ids
}

// Sampler draws stratified random question sets from the bank. Every call
// produces a fresh draw.
type Sampler struct {
	QuestionRepo *repository.QuestionRepository

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a PCG source. A zero seed picks a time-based one.
func NewSource(seed uint64) rand.Source {
	if seed == 0 {
		now := uint64(time.Now().UnixNano())
		return rand.NewPCG(now, now>>1|1)
	}
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

func NewSampler(questionRepo *repository.QuestionRepository, src rand.Source) *Sampler {
	return &Sampler{
		QuestionRepo: questionRepo,
		rng:          rand.New(src),
	}
}

// Sample draws up to m.Count(d) distinct eligible questions for every
// difficulty d. A thin bucket yields what it has.
func (s *Sampler) Sample(ctx context.Context, m model.DifficultyMatrix) ([]SampledQuestion, error) {
	if err := util.ValidateStruct(m); err != nil {
		return nil, err
	}
	repo := s.QuestionRepo.WithContext(ctx)

	var chosen []uint
	for _, d := range model.Difficulties {
		want := m.Count(d)
		if want == 0 {
			continue
		}
		ids, err := repo.EligibleIDs(d, util.MinOptions)
		if err != nil {
			return nil, fmt.Errorf("sample %s questions: %w", d, err)
		}
		if len(ids) < want {
			logger.Log.Warn("not enough eligible questions",
				zap.Stringer("difficulty", d),
				zap.Int("requested", want),
				zap.Int("available", len(ids)))
			monitoring.SamplerShortfall.WithLabelValues(d.String()).Add(float64(want - len(ids)))
		}
		chosen = append(chosen, s.draw(ids, want)...)
	}
	return s.load(ctx, chosen)
}

// SampleAny draws n eligible questions regardless of difficulty.
func (s *Sampler) SampleAny(ctx context.Context, n int) ([]SampledQuestion, error) {
	if n < 0 {
		return nil, util.NewValidationError("count", "must be at least 0")
	}
	if n == 0 {
		return []SampledQuestion{}, nil
	}
	ids, err := s.QuestionRepo.WithContext(ctx).EligibleIDs(0, util.MinOptions)
	if err != nil {
		return nil, fmt.Errorf("sample questions: %w", err)
	}
	if len(ids) < n {
		logger.Log.Warn("not enough eligible questions",
			zap.Int("requested", n),
			zap.Int("available", len(ids)))
		monitoring.SamplerShortfall.WithLabelValues("any").Add(float64(n - len(ids)))
	}
	return s.load(ctx, s.draw(ids, n))
}

// SampleQuiz draws with the quiz's matrix, or TotalQuestions from the
// whole bank when the quiz has none.
func (s *Sampler) SampleQuiz(ctx context.Context, quiz *model.Quiz) ([]SampledQuestion, error) {
	m := quiz.Matrix()
	if m.IsZero() {
		return s.SampleAny(ctx, quiz.TotalQuestions)
	}
	return s.Sample(ctx, m)
}

// draw picks min(n, len(ids)) distinct ids uniformly at random.
func (s *Sampler) draw(ids []uint, n int) []uint {
	if n > len(ids) {
		n = len(ids)
	}
	s.mu.Lock()
	perm := s.rng.Perm(len(ids))
	s.mu.Unlock()

	out := make([]uint, 0, n)
	for _, i := range perm[:n] {
		out = append(out, ids[i])
	}
	return out
}

func (s *Sampler) load(ctx context.Context, ids []uint) ([]SampledQuestion, error) {
	if len(ids) == 0 {
		return []SampledQuestion{}, nil
	}
	questions, err := s.QuestionRepo.WithContext(ctx).FindWithOptions(ids)
	if err != nil {
		return nil, fmt.Errorf("load sampled questions: %w", err)
	}
	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	out := make([]SampledQuestion, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			// deleted between the eligibility query and the load
			continue
		}
		out = append(out, SampledQuestion{Question: q})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	for i := range out {
		opts := out[i].Options
		s.rng.Shuffle(len(opts), func(a, b int) { opts[a], opts[b] = opts[b], opts[a] })
	}
	return out, nil
}
