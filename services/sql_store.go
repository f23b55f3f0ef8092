package services

import (
	"context"

	"questionbank/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormQuestionStore keeps questions in a relational "questions" table, with
// options serialized as JSON. Used for the postgres and sqlite drivers.
type GormQuestionStore struct {
	db *gorm.DB
}

func NewGormQuestionStore(db *gorm.DB) *GormQuestionStore {
	return &GormQuestionStore{db: db}
}

func (s *GormQuestionStore) AutoMigrate() error {
	return s.db.AutoMigrate(&models.Question{})
}

// InsertMany writes the batch inside one transaction, so either every
// record is stored or none is.
func (s *GormQuestionStore) InsertMany(ctx context.Context, questions []models.Question) ([]models.Question, error) {
	rows := make([]models.Question, len(questions))
	for i, q := range questions {
		q.ID = uuid.NewString()
		rows[i] = q
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, &Error{Kind: ErrConnectivity, Op: "sql insert questions", Err: err}
	}
	return rows, nil
}

func (s *GormQuestionStore) Find(ctx context.Context, filter QuestionFilter, limit int) ([]models.Question, error) {
	query := s.db.WithContext(ctx).Model(&models.Question{})
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.Chapter != "" {
		query = query.Where("chapter = ?", filter.Chapter)
	}
	if filter.Topic != "" {
		query = query.Where("topic = ?", filter.Topic)
	}
	if filter.ExamType != "" {
		query = query.Where("exam_type = ?", filter.ExamType)
	}

	questions := make([]models.Question, 0)
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		return nil, &Error{Kind: ErrConnectivity, Op: "sql find questions", Err: err}
	}

	for i := range questions {
		questions[i].CreatedAt = questions[i].CreatedAt.UTC()
	}
	return questions, nil
}

func (s *GormQuestionStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return &Error{Kind: ErrConnectivity, Op: "sql ping", Err: err}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return &Error{Kind: ErrConnectivity, Op: "sql ping", Err: err}
	}
	return nil
}

func (s *GormQuestionStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
