package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"questionbank/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestGormStore(t *testing.T) *GormQuestionStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "questions.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	store := NewGormQuestionStore(db)
	if err := store.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { store.Close(context.Background()) })
	return store
}

func sampleQuestion(text, subject, chapter string, createdAt time.Time) models.Question {
	return models.Question{
		Question:      text,
		Options:       []string{"a", "b", "c", "d"},
		CorrectOption: "1",
		Subject:       subject,
		Chapter:       chapter,
		CreatedAt:     createdAt,
	}
}

func TestGormStoreInsertAssignsDistinctIDs(t *testing.T) {
	store := newTestGormStore(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	q := sampleQuestion("What is 2+2?", "Math", "", now)

	saved, err := store.InsertMany(context.Background(), []models.Question{q, q})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("saved %d, want 2", len(saved))
	}
	if saved[0].ID == "" || saved[0].ID == saved[1].ID {
		t.Fatalf("ids = %q, %q; want distinct non-empty", saved[0].ID, saved[1].ID)
	}

	found, err := store.Find(context.Background(), QuestionFilter{}, MaxQueryResults)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("found %d, want 2 records for identical content", len(found))
	}
	if got := found[0].Options; len(got) != 4 || got[3] != "d" {
		t.Errorf("options round trip = %v", got)
	}
	if !found[0].CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", found[0].CreatedAt, now)
	}
}

func TestGormStoreFindNewestFirst(t *testing.T) {
	store := newTestGormStore(t)
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	for i, text := range []string{"first", "second", "third"} {
		q := sampleQuestion(text, "Physics", "", base.Add(time.Duration(i)*time.Minute))
		if _, err := store.InsertMany(context.Background(), []models.Question{q}); err != nil {
			t.Fatalf("insert %s: %v", text, err)
		}
	}

	found, err := store.Find(context.Background(), QuestionFilter{}, MaxQueryResults)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	want := []string{"third", "second", "first"}
	if len(found) != len(want) {
		t.Fatalf("found %d, want %d", len(found), len(want))
	}
	for i := range want {
		if found[i].Question != want[i] {
			t.Errorf("found[%d] = %q, want %q", i, found[i].Question, want[i])
		}
	}
}

func TestGormStoreFindFilters(t *testing.T) {
	store := newTestGormStore(t)
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	batch := []models.Question{
		sampleQuestion("p1", "Physics", "Optics", now),
		sampleQuestion("p2", "Physics", "Waves", now.Add(time.Second)),
		sampleQuestion("c1", "Chemistry", "Optics", now.Add(2*time.Second)),
	}
	if _, err := store.InsertMany(context.Background(), batch); err != nil {
		t.Fatalf("insert: %v", err)
	}

	tests := []struct {
		name   string
		filter QuestionFilter
		want   []string
	}{
		{"subject", QuestionFilter{Subject: "Physics"}, []string{"p2", "p1"}},
		{"chapter", QuestionFilter{Chapter: "Optics"}, []string{"c1", "p1"}},
		{"subject and chapter", QuestionFilter{Subject: "Physics", Chapter: "Optics"}, []string{"p1"}},
		{"no match", QuestionFilter{Subject: "Biology"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := store.Find(context.Background(), tt.filter, MaxQueryResults)
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if found == nil {
				t.Fatal("find should return an empty slice, not nil")
			}
			if len(found) != len(tt.want) {
				t.Fatalf("found %d, want %d", len(found), len(tt.want))
			}
			for i := range tt.want {
				if found[i].Question != tt.want[i] {
					t.Errorf("found[%d] = %q, want %q", i, found[i].Question, tt.want[i])
				}
			}
		})
	}
}

func TestGormStoreFindCapsResults(t *testing.T) {
	store := newTestGormStore(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	batch := make([]models.Question, 150)
	for i := range batch {
		batch[i] = sampleQuestion(fmt.Sprintf("q%d", i), "Math", "", base.Add(time.Duration(i)*time.Second))
	}
	if _, err := store.InsertMany(context.Background(), batch); err != nil {
		t.Fatalf("insert: %v", err)
	}

	found, err := store.Find(context.Background(), QuestionFilter{}, MaxQueryResults)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found) != MaxQueryResults {
		t.Fatalf("found %d, want %d", len(found), MaxQueryResults)
	}
	if found[0].Question != "q149" {
		t.Errorf("first = %q, want newest q149", found[0].Question)
	}
	if found[MaxQueryResults-1].Question != "q50" {
		t.Errorf("last = %q, want q50", found[MaxQueryResults-1].Question)
	}
}

func TestGormStorePing(t *testing.T) {
	store := newTestGormStore(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
