package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"profile_server/core/domain"
	"profile_server/core/port/out"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionUsers    = "users"
	collectionCounters = "counters"
	usersCounterID     = "users"
)

// UserAdapter implements out.UserRepository using MongoDB. Integer ids come
// from a counter document incremented atomically on every insert.
type UserAdapter struct {
	users    *mongo.Collection
	counters *mongo.Collection
}

// NewUserAdapter creates a new MongoDB user adapter.
func NewUserAdapter(db *mongo.Database) *UserAdapter {
	return &UserAdapter{
		users:    db.Collection(collectionUsers),
		counters: db.Collection(collectionCounters),
	}
}

// EnsureIndexes creates necessary indexes for the collection.
func (a *UserAdapter) EnsureIndexes(ctx context.Context) error {
	_, err := a.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "birth_date", Value: 1}},
	})
	return err
}

// userDocument represents the MongoDB document structure.
type userDocument struct {
	ID          int64     `bson:"_id"`
	Email       string    `bson:"email"`
	FirstName   string    `bson:"first_name"`
	LastName    string    `bson:"last_name"`
	BirthDate   time.Time `bson:"birth_date"`
	Address     string    `bson:"address,omitempty"`
	PhoneNumber string    `bson:"phone_number,omitempty"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toDocument(u *domain.User) userDocument {
	return userDocument{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		BirthDate:   u.BirthDate.UTC(),
		Address:     u.Address,
		PhoneNumber: u.PhoneNumber,
		UpdatedAt:   time.Now().UTC(),
	}
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:          d.ID,
		Email:       d.Email,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		BirthDate:   d.BirthDate.UTC(),
		Address:     d.Address,
		PhoneNumber: d.PhoneNumber,
	}
}

func (a *UserAdapter) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := a.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": usersCounterID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return counter.Seq, nil
}

// Save inserts a new user or replaces an existing one.
func (a *UserAdapter) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}

	doc := toDocument(user)
	if doc.ID == 0 {
		id, err := a.nextID(ctx)
		if err != nil {
			return nil, err
		}
		doc.ID = id
		if _, err := a.users.InsertOne(ctx, doc); err != nil {
			return nil, fmt.Errorf("insert user: %w", err)
		}
		return doc.toDomain(), nil
	}

	res, err := a.users.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return nil, fmt.Errorf("replace user %d: %w", doc.ID, err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}
	return doc.toDomain(), nil
}

// FindByID gets a user by id.
func (a *UserAdapter) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var doc userDocument
	err := a.users.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return doc.toDomain(), nil
}

// FindAll lists users ordered by id.
func (a *UserAdapter) FindAll(ctx context.Context) ([]*domain.User, error) {
	return a.find(ctx, bson.M{})
}

// FindByBirthDateBetween lists users born inside the inclusive range.
func (a *UserAdapter) FindByBirthDateBetween(ctx context.Context, r domain.BirthDateRange) ([]*domain.User, error) {
	return a.find(ctx, bson.M{"birth_date": bson.M{
		"$gte": r.From.UTC(),
		"$lte": r.To.UTC(),
	}})
}

func (a *UserAdapter) find(ctx context.Context, filter bson.M) ([]*domain.User, error) {
	cursor, err := a.users.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

// DeleteByID removes a user; an unknown id is not an error.
func (a *UserAdapter) DeleteByID(ctx context.Context, id int64) error {
	if _, err := a.users.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

var _ out.UserRepository = (*UserAdapter)(nil)
