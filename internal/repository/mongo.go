package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/justsurfingit/devjobs/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const vacanciesCollection = "vacantes"

// MongoStore keeps each vacancy as one document with its candidates
// embedded in the candidatos array.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(vacanciesCollection)}
}

// EnsureIndexes creates the unique url index and the text index used by
// Search.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "url", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "autor", Value: 1}}},
		{
			Keys: bson.D{
				{Key: "titulo", Value: "text"},
				{Key: "empresa", Value: "text"},
				{Key: "ubicacion", Value: "text"},
				{Key: "descripcion", Value: "text"},
				{Key: "skills", Value: "text"},
			},
			Options: options.Index().SetDefaultLanguage("spanish"),
		},
	})
	if err != nil {
		return fmt.Errorf("create vacancy indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Create(ctx context.Context, vacancy *models.Vacancy) error {
	if vacancy.Candidatos == nil {
		vacancy.Candidatos = []models.Candidate{}
	}
	now := time.Now().UTC()
	vacancy.CreatedAt = now
	vacancy.UpdatedAt = now
	if _, err := s.coll.InsertOne(ctx, vacancy); err != nil {
		return fmt.Errorf("insert vacancy %q: %w", vacancy.URL, err)
	}
	return nil
}

func (s *MongoStore) URLExists(ctx context.Context, url string) (bool, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"url": url}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count vacancies by url: %w", err)
	}
	return count > 0, nil
}

func (s *MongoStore) FindByURL(ctx context.Context, url string) (*models.Vacancy, error) {
	return s.findOne(ctx, bson.M{"url": url}, options.FindOne().SetProjection(withoutCandidates()))
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.Vacancy, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore) Update(ctx context.Context, url string, fields models.VacancyFields) (*models.Vacancy, error) {
	update := bson.M{"$set": bson.M{
		"titulo":      fields.Titulo,
		"empresa":     fields.Empresa,
		"ubicacion":   fields.Ubicacion,
		"salario":     fields.Salario,
		"contrato":    fields.Contrato,
		"descripcion": fields.Descripcion,
		"skills":      fields.Skills,
		"updated_at":  time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutCandidates())
	var vacancy models.Vacancy
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"url": url}, update, opts).Decode(&vacancy)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update vacancy %q: %w", url, err)
	}
	return &vacancy, nil
}

func (s *MongoStore) Delete(ctx context.Context, id, autor string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id, "autor": autor})
	if err != nil {
		return fmt.Errorf("delete vacancy %q: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendCandidate uses $push so concurrent submissions never overwrite each
// other.
func (s *MongoStore) AppendCandidate(ctx context.Context, url string, candidate models.Candidate) error {
	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = time.Now().UTC()
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"url": url}, bson.M{"$push": bson.M{"candidatos": candidate}})
	if err != nil {
		return fmt.Errorf("append candidate to %q: %w", url, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Search(ctx context.Context, query string) ([]models.Vacancy, error) {
	score := bson.M{"$meta": "textScore"}
	opts := options.Find().
		SetProjection(bson.M{"candidatos": 0, "score": score}).
		SetSort(bson.D{{Key: "score", Value: score}})
	return s.find(ctx, bson.M{"$text": bson.M{"$search": query}}, opts)
}

func (s *MongoStore) List(ctx context.Context) ([]models.Vacancy, error) {
	opts := options.Find().
		SetProjection(withoutCandidates()).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.find(ctx, bson.M{}, opts)
}

func (s *MongoStore) ListByAuthor(ctx context.Context, autor string) ([]models.Vacancy, error) {
	opts := options.Find().
		SetProjection(withoutCandidates()).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.find(ctx, bson.M{"autor": autor}, opts)
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.Vacancy, error) {
	var vacancy models.Vacancy
	err := s.coll.FindOne(ctx, filter, opts...).Decode(&vacancy)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find vacancy: %w", err)
	}
	return &vacancy, nil
}

func (s *MongoStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Vacancy, error) {
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find vacancies: %w", err)
	}
	vacancies := []models.Vacancy{}
	if err := cursor.All(ctx, &vacancies); err != nil {
		return nil, fmt.Errorf("decode vacancies: %w", err)
	}
	return vacancies, nil
}

func withoutCandidates() bson.M {
	return bson.M{"candidatos": 0}
}
