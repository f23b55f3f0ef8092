package services

import (
	"context"
	"net/url"

	"questionbank/models"
)

// MaxQueryResults caps every query regardless of how many records match.
const MaxQueryResults = 100

// QuestionFilter holds optional equality filters. Empty fields are ignored;
// set fields are combined with AND.
type QuestionFilter struct {
	Subject  string
	Chapter  string
	Topic    string
	ExamType string
}

func (f QuestionFilter) IsEmpty() bool {
	return f == QuestionFilter{}
}

// Key is a stable encoding of the filter, used for cache keys.
func (f QuestionFilter) Key() string {
	values := url.Values{}
	if f.Subject != "" {
		values.Set("subject", f.Subject)
	}
	if f.Chapter != "" {
		values.Set("chapter", f.Chapter)
	}
	if f.Topic != "" {
		values.Set("topic", f.Topic)
	}
	if f.ExamType != "" {
		values.Set("examType", f.ExamType)
	}
	if len(values) == 0 {
		return "all"
	}
	return values.Encode()
}

// QuestionStore persists question records. Implementations assign IDs on
// insert and return records newest first from Find.
type QuestionStore interface {
	InsertMany(ctx context.Context, questions []models.Question) ([]models.Question, error)
	Find(ctx context.Context, filter QuestionFilter, limit int) ([]models.Question, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
