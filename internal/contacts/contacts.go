// Package contacts serves the legacy read-only contacts collection. The write
// API for contacts was removed upstream; only listing and lookup remain.
package contacts

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ErrNotFound is returned when a contact cannot be located.
var ErrNotFound = errors.New("contact not found")

// ErrInvalidID is returned when an id cannot be a valid document id.
var ErrInvalidID = errors.New("invalid id")

// Contact is a legacy contact document.
type Contact struct {
	ID            string `json:"id"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Email         string `json:"email,omitempty"`
	FavoriteColor string `json:"favoriteColor,omitempty"`
	Birthday      string `json:"birthday,omitempty"`
}

// Repository defines read access to the contacts collection.
type Repository interface {
	List(ctx context.Context) ([]Contact, error)
	Get(ctx context.Context, id string) (Contact, error)
}

type contactDocument struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	FirstName     string        `bson:"firstName,omitempty"`
	LastName      string        `bson:"lastName,omitempty"`
	Email         string        `bson:"email,omitempty"`
	FavoriteColor string        `bson:"favoriteColor,omitempty"`
	Birthday      string        `bson:"birthday,omitempty"`
}

// MongoRepository reads contacts from the document store.
type MongoRepository struct {
	contacts *mongo.Collection
}

// NewMongoRepository wires a repository over the given database.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{contacts: db.Collection("contacts")}
}

// List returns all stored contacts.
func (r *MongoRepository) List(ctx context.Context) ([]Contact, error) {
	cursor, err := r.contacts.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find contacts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []contactDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}

	contacts := make([]Contact, 0, len(docs))
	for _, doc := range docs {
		contacts = append(contacts, doc.toContact())
	}
	return contacts, nil
}

// Get returns a contact by id.
func (r *MongoRepository) Get(ctx context.Context, id string) (Contact, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return Contact{}, ErrInvalidID
	}

	var doc contactDocument
	if err := r.contacts.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Contact{}, ErrNotFound
		}
		return Contact{}, fmt.Errorf("find contact: %w", err)
	}
	return doc.toContact(), nil
}

func (d contactDocument) toContact() Contact {
	return Contact{
		ID:            d.ID.Hex(),
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Email:         d.Email,
		FavoriteColor: d.FavoriteColor,
		Birthday:      d.Birthday,
	}
}

// InMemoryRepository serves contacts from process memory for the memory data store.
type InMemoryRepository struct {
	mu   sync.RWMutex
	data []Contact
}

// NewInMemoryRepository constructs a repository seeded with the given contacts.
func NewInMemoryRepository(initial []Contact) *InMemoryRepository {
	return &InMemoryRepository{data: initial}
}

// List returns all stored contacts.
func (r *InMemoryRepository) List(_ context.Context) ([]Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Contact, len(r.data))
	copy(out, r.data)
	return out, nil
}

// Get returns a contact by id.
func (r *InMemoryRepository) Get(_ context.Context, id string) (Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, contact := range r.data {
		if contact.ID == id {
			return contact, nil
		}
	}
	return Contact{}, ErrNotFound
}
