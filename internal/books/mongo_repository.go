package books

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const collection = "books"

type bookDocument struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	Title         string        `bson:"title"`
	AuthorID      string        `bson:"authorId"`
	ISBN          string        `bson:"isbn"`
	PublishedDate time.Time     `bson:"publishedDate"`
	Pages         int           `bson:"pages"`
	Genre         string        `bson:"genre"`
	Summary       string        `bson:"summary,omitempty"`
	Rating        float64       `bson:"rating"`
}

// MongoRepository persists books in the document store.
type MongoRepository struct {
	books *mongo.Collection
}

// NewMongoRepository wires a repository over the given database.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{books: db.Collection(collection)}
}

// List returns all stored books.
func (r *MongoRepository) List(ctx context.Context) ([]Book, error) {
	cursor, err := r.books.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bookDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}

	books := make([]Book, 0, len(docs))
	for _, doc := range docs {
		books = append(books, doc.toBook())
	}
	return books, nil
}

// Get returns a book by id.
func (r *MongoRepository) Get(ctx context.Context, id string) (Book, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return Book{}, ErrInvalidID
	}

	var doc bookDocument
	if err := r.books.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("find book: %w", err)
	}
	return doc.toBook(), nil
}

// Create stores a new book and returns its id.
func (r *MongoRepository) Create(ctx context.Context, input BookInput) (string, error) {
	doc := documentFromInput(bson.NewObjectID(), input)

	if _, err := r.books.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert book: %w", err)
	}
	return doc.ID.Hex(), nil
}

// Replace overwrites an existing book document in full.
func (r *MongoRepository) Replace(ctx context.Context, id string, input BookInput) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	result, err := r.books.ReplaceOne(ctx, bson.M{"_id": objectID}, documentFromInput(objectID, input))
	if err != nil {
		return fmt.Errorf("replace book: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a book by id.
func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	result, err := r.books.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func documentFromInput(id bson.ObjectID, input BookInput) bookDocument {
	return bookDocument{
		ID:            id,
		Title:         input.Title,
		AuthorID:      input.AuthorID,
		ISBN:          input.ISBN,
		PublishedDate: input.PublishedDate,
		Pages:         input.Pages,
		Genre:         input.Genre,
		Summary:       input.Summary,
		Rating:        input.Rating,
	}
}

func (d bookDocument) toBook() Book {
	return Book{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		AuthorID:      d.AuthorID,
		ISBN:          d.ISBN,
		PublishedDate: d.PublishedDate,
		Pages:         d.Pages,
		Genre:         d.Genre,
		Summary:       d.Summary,
		Rating:        d.Rating,
	}
}
