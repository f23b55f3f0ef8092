package services

import (
	"context"
	"time"

	"questionbank/models"
	"questionbank/monitoring"

	"go.uber.org/zap"
)

type QuestionService struct {
	store     QuestionStore
	cache     QueryCache
	publisher Publisher
	log       *zap.Logger
	now       func() time.Time
}

// NewQuestionService wires the store with the optional cache and feed
// publisher; pass nil for either to disable it.
func NewQuestionService(store QuestionStore, cache QueryCache, publisher Publisher, log *zap.Logger) *QuestionService {
	return &QuestionService{
		store:     store,
		cache:     cache,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// SaveQuestions validates the whole batch and persists it with one bulk
// insert. Nothing reaches the store unless every question is valid.
func (s *QuestionService) SaveQuestions(ctx context.Context, inputs []models.QuestionInput) ([]models.Question, error) {
	const op = "save questions"

	if len(inputs) == 0 {
		return nil, &Error{Kind: ErrClientInput, Op: op, Err: ErrNoQuestions}
	}

	if err := models.ValidateBatch(inputs); err != nil {
		return nil, &Error{Kind: ErrValidation, Op: op, Err: err}
	}

	createdAt := s.now().UTC().Truncate(time.Millisecond)
	questions := make([]models.Question, len(inputs))
	for i := range inputs {
		questions[i] = inputs[i].ToQuestion(createdAt)
	}

	saved, err := s.store.InsertMany(ctx, questions)
	if err != nil {
		return nil, wrapError(ErrConnectivity, op, err)
	}

	monitoring.QuestionsIngested.Add(float64(len(saved)))
	s.log.Info("Saved questions", zap.Int("count", len(saved)))

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn("Failed to invalidate question cache", zap.Error(err))
		}
	}
	if s.publisher != nil {
		s.publisher.PublishQuestions(saved)
	}

	return saved, nil
}

// ListQuestions returns up to MaxQueryResults records matching filter,
// newest first.
func (s *QuestionService) ListQuestions(ctx context.Context, filter QuestionFilter) ([]models.Question, error) {
	var cacheKey string
	if s.cache != nil {
		key, cached, hit, err := s.cache.Lookup(ctx, filter)
		switch {
		case err != nil:
			s.log.Warn("Question cache lookup failed", zap.Error(err))
			monitoring.CacheLookups.WithLabelValues("error").Inc()
		case hit:
			monitoring.CacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			monitoring.CacheLookups.WithLabelValues("miss").Inc()
		}
		cacheKey = key
	}

	questions, err := s.store.Find(ctx, filter, MaxQueryResults)
	if err != nil {
		return nil, wrapError(ErrConnectivity, "list questions", err)
	}

	if cacheKey != "" {
		if err := s.cache.Store(ctx, cacheKey, questions); err != nil {
			s.log.Warn("Failed to cache questions", zap.Error(err))
		}
	}

	return questions, nil
}

// Ping reports whether the store is reachable.
func (s *QuestionService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
