package services

import (
	"context"
	"fmt"
	"time"

	"questionbank/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const QuestionCollection = "questions"

type questionDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	Question      string             `bson:"question"`
	Options       []string           `bson:"options"`
	CorrectOption string             `bson:"correctOption"`
	Explanation   string             `bson:"explanation,omitempty"`
	Subject       string             `bson:"subject,omitempty"`
	Chapter       string             `bson:"chapter,omitempty"`
	Topic         string             `bson:"topic,omitempty"`
	ExamType      string             `bson:"examType,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

func newQuestionDocument(q models.Question) questionDocument {
	return questionDocument{
		ID:            primitive.NewObjectID(),
		Question:      q.Question,
		Options:       q.Options,
		CorrectOption: q.CorrectOption,
		Explanation:   q.Explanation,
		Subject:       q.Subject,
		Chapter:       q.Chapter,
		Topic:         q.Topic,
		ExamType:      q.ExamType,
		CreatedAt:     q.CreatedAt,
	}
}

func (d questionDocument) toModel() models.Question {
	return models.Question{
		ID:            d.ID.Hex(),
		Question:      d.Question,
		Options:       d.Options,
		CorrectOption: d.CorrectOption,
		Explanation:   d.Explanation,
		Subject:       d.Subject,
		Chapter:       d.Chapter,
		Topic:         d.Topic,
		ExamType:      d.ExamType,
		CreatedAt:     d.CreatedAt.UTC(),
	}
}

// MongoQuestionStore keeps questions in a single MongoDB collection.
type MongoQuestionStore struct {
	coll *mongo.Collection
}

func NewMongoQuestionStore(coll *mongo.Collection) *MongoQuestionStore {
	return &MongoQuestionStore{coll: coll}
}

// EnsureIndexes creates the indexes backing the newest-first listing and
// the subject/chapter filter.
func (s *MongoQuestionStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "subject", Value: 1}, {Key: "chapter", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create question indexes: %w", err)
	}
	return nil
}

// InsertMany writes the batch with one ordered insert. If the server rejects
// a document mid-batch the documents before it stay written.
func (s *MongoQuestionStore) InsertMany(ctx context.Context, questions []models.Question) ([]models.Question, error) {
	docs := make([]interface{}, len(questions))
	saved := make([]models.Question, len(questions))
	for i, q := range questions {
		doc := newQuestionDocument(q)
		docs[i] = doc
		saved[i] = doc.toModel()
	}

	if _, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, &Error{Kind: ErrConnectivity, Op: "mongo insert questions", Err: err}
	}
	return saved, nil
}

func (s *MongoQuestionStore) Find(ctx context.Context, filter QuestionFilter, limit int) ([]models.Question, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.coll.Find(ctx, mongoFilter(filter), opts)
	if err != nil {
		return nil, &Error{Kind: ErrConnectivity, Op: "mongo find questions", Err: err}
	}

	var docs []questionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, &Error{Kind: ErrConnectivity, Op: "mongo decode questions", Err: err}
	}

	questions := make([]models.Question, len(docs))
	for i, doc := range docs {
		questions[i] = doc.toModel()
	}
	return questions, nil
}

func (s *MongoQuestionStore) Ping(ctx context.Context) error {
	if err := s.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return &Error{Kind: ErrConnectivity, Op: "mongo ping", Err: err}
	}
	return nil
}

func (s *MongoQuestionStore) Close(ctx context.Context) error {
	return s.coll.Database().Client().Disconnect(ctx)
}

func mongoFilter(f QuestionFilter) bson.D {
	filter := bson.D{}
	if f.Subject != "" {
		filter = append(filter, bson.E{Key: "subject", Value: f.Subject})
	}
	if f.Chapter != "" {
		filter = append(filter, bson.E{Key: "chapter", Value: f.Chapter})
	}
	if f.Topic != "" {
		filter = append(filter, bson.E{Key: "topic", Value: f.Topic})
	}
	if f.ExamType != "" {
		filter = append(filter, bson.E{Key: "examType", Value: f.ExamType})
	}
	return filter
}
