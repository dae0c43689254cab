package authors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const collection = "authors"

type authorDocument struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Name        string        `bson:"name"`
	Bio         string        `bson:"bio,omitempty"`
	BirthDate   *time.Time    `bson:"birthDate,omitempty"`
	Nationality string        `bson:"nationality,omitempty"`
	Website     string        `bson:"website,omitempty"`
}

// MongoRepository persists authors in the document store.
type MongoRepository struct {
	authors *mongo.Collection
}

// NewMongoRepository wires a repository over the given database.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{authors: db.Collection(collection)}
}

// List returns all stored authors.
func (r *MongoRepository) List(ctx context.Context) ([]Author, error) {
	cursor, err := r.authors.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find authors: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []authorDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode authors: %w", err)
	}

	authors := make([]Author, 0, len(docs))
	for _, doc := range docs {
		authors = append(authors, doc.toAuthor())
	}
	return authors, nil
}

// Get returns an author by id.
func (r *MongoRepository) Get(ctx context.Context, id string) (Author, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return Author{}, ErrInvalidID
	}

	var doc authorDocument
	if err := r.authors.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Author{}, ErrNotFound
		}
		return Author{}, fmt.Errorf("find author: %w", err)
	}
	return doc.toAuthor(), nil
}

// Create stores a new author and returns its id.
func (r *MongoRepository) Create(ctx context.Context, input AuthorInput) (string, error) {
	doc := authorDocument{
		ID:          bson.NewObjectID(),
		Name:        input.Name,
		Bio:         input.Bio,
		BirthDate:   input.BirthDate,
		Nationality: input.Nationality,
		Website:     input.Website,
	}

	if _, err := r.authors.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert author: %w", err)
	}
	return doc.ID.Hex(), nil
}

// Replace overwrites an existing author document in full.
func (r *MongoRepository) Replace(ctx context.Context, id string, input AuthorInput) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	doc := authorDocument{
		ID:          objectID,
		Name:        input.Name,
		Bio:         input.Bio,
		BirthDate:   input.BirthDate,
		Nationality: input.Nationality,
		Website:     input.Website,
	}

	result, err := r.authors.ReplaceOne(ctx, bson.M{"_id": objectID}, doc)
	if err != nil {
		return fmt.Errorf("replace author: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an author by id.
func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	result, err := r.authors.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("delete author: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d authorDocument) toAuthor() Author {
	return Author{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Bio:         d.Bio,
		BirthDate:   d.BirthDate,
		Nationality: d.Nationality,
		Website:     d.Website,
	}
}
