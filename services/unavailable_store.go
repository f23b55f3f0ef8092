package services

import (
	"context"

	"questionbank/models"
)

// UnavailableStore stands in when no store could be set up at boot. Every
// operation fails with the boot error, so requests fail individually while
// the process keeps serving.
type UnavailableStore struct {
	err error
}

func NewUnavailableStore(err error) *UnavailableStore {
	return &UnavailableStore{err: err}
}

func (s *UnavailableStore) InsertMany(ctx context.Context, questions []models.Question) ([]models.Question, error) {
	return nil, s.err
}

func (s *UnavailableStore) Find(ctx context.Context, filter QuestionFilter, limit int) ([]models.Question, error) {
	return nil, s.err
}

func (s *UnavailableStore) Ping(ctx context.Context) error {
	return s.err
}

func (s *UnavailableStore) Close(ctx context.Context) error {
	return nil
}
