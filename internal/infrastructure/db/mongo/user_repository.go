package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medrec/medical-records-api/internal/core/domain"
)

const usersCollection = "users"

// UserRepository is the mongo-backed credential store.
type UserRepository struct {
	db     *mongo.Database
	client *mongo.Client
	coll   *mongo.Collection
}

func NewUserRepository(client *mongo.Client, db *mongo.Database) *UserRepository {
	return &UserRepository{db: db, client: client, coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique username index that backs the registration
// conflict contract. Call once at startup.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure username index: %w", err)
	}
	return nil
}

type mongoUser struct {
	ID           int64  `bson:"_id"`
	Username     string `bson:"username"`
	PasswordHash string `bson:"password_hash"`
	Role         string `bson:"role"`
	PatientID    *int64 `bson:"patient_id,omitempty"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		PatientID:    u.PatientID,
		CreatedAt:    u.CreatedAt.Unix(),
		UpdatedAt:    u.UpdatedAt.Unix(),
	}
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID,
		Username:     mu.Username,
		PasswordHash: mu.PasswordHash,
		Role:         mu.Role,
		PatientID:    mu.PatientID,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64, includePatient bool) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}

	user := mu.toDomain()
	if includePatient && user.PatientID != nil {
		var mp mongoPatient
		err := r.db.Collection(patientsCollection).FindOne(ctx, bson.M{"_id": *user.PatientID}).Decode(&mp)
		if err != nil && err != mongo.ErrNoDocuments {
			return nil, fmt.Errorf("find linked patient: %w", err)
		}
		if err == nil {
			user.Patient = mp.toDomain()
		}
	}
	return user, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	id, err := nextID(ctx, r.db, usersCollection)
	if err != nil {
		return nil, err
	}

	doc := toMongoUser(user)
	doc.ID = id
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = id
	return &created, nil
}

// CreateUserWithPatient inserts the patient row and the user row that owns it
// inside one session transaction. The patient must be visible to the user
// insert, and neither row survives the other's failure.
func (r *UserRepository) CreateUserWithPatient(ctx context.Context, user *domain.User, patient *domain.Patient) (*domain.User, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		patientID, err := nextID(sc, r.db, patientsCollection)
		if err != nil {
			return nil, err
		}
		pdoc := toMongoPatient(patient)
		pdoc.ID = patientID
		if _, err := r.db.Collection(patientsCollection).InsertOne(sc, pdoc); err != nil {
			return nil, fmt.Errorf("insert patient: %w", err)
		}

		userID, err := nextID(sc, r.db, usersCollection)
		if err != nil {
			return nil, err
		}
		udoc := toMongoUser(user)
		udoc.ID = userID
		udoc.PatientID = &patientID
		if _, err := r.coll.InsertOne(sc, udoc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrUserExists
			}
			return nil, fmt.Errorf("insert user: %w", err)
		}

		created := *user
		created.ID = userID
		created.PatientID = &patientID
		return &created, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.User), nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
