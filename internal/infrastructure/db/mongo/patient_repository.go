package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medrec/medical-records-api/internal/core/domain"
)

const patientsCollection = "patients"

// PatientRepository is the mongo-backed patient store.
type PatientRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewPatientRepository(db *mongo.Database) *PatientRepository {
	return &PatientRepository{db: db, coll: db.Collection(patientsCollection)}
}

type mongoPatient struct {
	ID          int64  `bson:"_id"`
	Name        string `bson:"name"`
	Age         int    `bson:"age"`
	Address     string `bson:"address"`
	PhoneNumber string `bson:"phone_number"`
}

func toMongoPatient(p *domain.Patient) mongoPatient {
	return mongoPatient{
		ID:          p.ID,
		Name:        p.Name,
		Age:         p.Age,
		Address:     p.Address,
		PhoneNumber: p.PhoneNumber,
	}
}

func (mp mongoPatient) toDomain() *domain.Patient {
	return &domain.Patient{
		ID:          mp.ID,
		Name:        mp.Name,
		Age:         mp.Age,
		Address:     mp.Address,
		PhoneNumber: mp.PhoneNumber,
	}
}

func (r *PatientRepository) List(ctx context.Context) ([]domain.Patient, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer cursor.Close(ctx)

	patients := make([]domain.Patient, 0)
	for cursor.Next(ctx) {
		var mp mongoPatient
		if err := cursor.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode patient: %w", err)
		}
		patients = append(patients, *mp.toDomain())
	}
	return patients, cursor.Err()
}

func (r *PatientRepository) FindByID(ctx context.Context, id int64) (*domain.Patient, error) {
	var mp mongoPatient
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PatientRepository) Create(ctx context.Context, patient *domain.Patient) (*domain.Patient, error) {
	id, err := nextID(ctx, r.db, patientsCollection)
	if err != nil {
		return nil, err
	}

	doc := toMongoPatient(patient)
	doc.ID = id
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert patient: %w", err)
	}

	created := *patient
	created.ID = id
	return &created, nil
}

func (r *PatientRepository) Update(ctx context.Context, patient *domain.Patient) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": patient.ID}, toMongoPatient(patient))
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}

func (r *PatientRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}
