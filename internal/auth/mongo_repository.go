package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	usersCollection    = "users"
	sessionsCollection = "sessions"
)

type userDocument struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	ProviderID   string        `bson:"provider_id,omitempty"`
	Email        string        `bson:"email,omitempty"`
	PasswordHash string        `bson:"password_hash,omitempty"`
	DisplayName  string        `bson:"display_name,omitempty"`
	CreatedAt    time.Time     `bson:"created_at"`
}

type sessionDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	TokenHash string    `bson:"token_hash"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
	UserAgent string    `bson:"user_agent,omitempty"`
	IPAddress string    `bson:"ip_address,omitempty"`
}

// MongoRepository persists users and sessions in the document store.
type MongoRepository struct {
	users    *mongo.Collection
	sessions *mongo.Collection
}

// NewMongoRepository wires a repository over the given database.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		users:    db.Collection(usersCollection),
		sessions: db.Collection(sessionsCollection),
	}
}

// EnsureIndexes creates the uniqueness indexes the auth flows rely on:
// concurrent inserts for one provider id or email must leave one winner.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "provider_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	_, err = r.sessions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token_hash", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create session indexes: %w", err)
	}
	return nil
}

// FindUserByProviderID returns the user owning the provider identity, or nil.
func (r *MongoRepository) FindUserByProviderID(ctx context.Context, providerID string) (*User, error) {
	return r.findUser(ctx, bson.M{"provider_id": providerID})
}

// FindUserByEmail returns the user registered with the email, or nil.
func (r *MongoRepository) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.findUser(ctx, bson.M{"email": email})
}

// FindUserByID returns the user with the internal id. An id that is not a
// valid document id cannot match anything and resolves to nil.
func (r *MongoRepository) FindUserByID(ctx context.Context, id string) (*User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findUser(ctx, bson.M{"_id": objectID})
}

func (r *MongoRepository) findUser(ctx context.Context, filter bson.M) (*User, error) {
	var doc userDocument
	err := r.users.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	user := doc.toUser()
	return &user, nil
}

// CreateUser inserts the user, assigning a document id. A uniqueness
// violation surfaces as ErrDuplicateUser.
func (r *MongoRepository) CreateUser(ctx context.Context, user User) (User, error) {
	doc := userDocument{
		ID:           bson.NewObjectID(),
		ProviderID:   user.ProviderID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		DisplayName:  user.DisplayName,
		CreatedAt:    user.CreatedAt,
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return User{}, ErrDuplicateUser
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	return doc.toUser(), nil
}

// CreateSession stores a session together with its token hash.
func (r *MongoRepository) CreateSession(ctx context.Context, session Session, tokenHash string) error {
	doc := sessionDocument{
		ID:        session.ID.String(),
		UserID:    session.UserID,
		TokenHash: tokenHash,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		UserAgent: session.UserAgent,
		IPAddress: session.IPAddress,
	}

	if _, err := r.sessions.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// FindSessionByTokenHash returns the session and its user, or nils.
func (r *MongoRepository) FindSessionByTokenHash(ctx context.Context, tokenHash string) (*Session, *User, error) {
	var doc sessionDocument
	err := r.sessions.FindOne(ctx, bson.M{"token_hash": tokenHash}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("find session: %w", err)
	}

	sessionID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("parse session id: %w", err)
	}

	session := Session{
		ID:        sessionID,
		UserID:    doc.UserID,
		ExpiresAt: doc.ExpiresAt,
		CreatedAt: doc.CreatedAt,
		UserAgent: doc.UserAgent,
		IPAddress: doc.IPAddress,
	}

	user, err := r.FindUserByID(ctx, doc.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, nil
	}

	return &session, user, nil
}

// DeleteSession removes a session by id.
func (r *MongoRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if _, err := r.sessions.DeleteOne(ctx, bson.M{"_id": id.String()}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all sessions past their expiry.
func (r *MongoRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := r.sessions.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": time.Now()}})
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return result.DeletedCount, nil
}

func (d userDocument) toUser() User {
	return User{
		ID:           d.ID.Hex(),
		ProviderID:   d.ProviderID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		DisplayName:  d.DisplayName,
		CreatedAt:    d.CreatedAt,
	}
}
