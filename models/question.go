package models

import (
	"time"
)

// Question is a persisted multiple-choice question. CorrectOption holds the
// index of the right entry in Options as text ("0", "1", ...) and is never
// checked against Options.
type Question struct {
	ID            string    `json:"_id" gorm:"primaryKey;size:36"`
	Question      string    `json:"question" gorm:"not null"`
	Options       []string  `json:"options" gorm:"serializer:json;type:text;not null"`
	CorrectOption string    `json:"correctOption" gorm:"not null"`
	Explanation   string    `json:"explanation,omitempty"`
	Subject       string    `json:"subject,omitempty" gorm:"index:idx_questions_subject_chapter,priority:1"`
	Chapter       string    `json:"chapter,omitempty" gorm:"index:idx_questions_subject_chapter,priority:2"`
	Topic         string    `json:"topic,omitempty"`
	ExamType      string    `json:"examType,omitempty"`
	CreatedAt     time.Time `json:"createdAt" gorm:"not null;index"`
}
