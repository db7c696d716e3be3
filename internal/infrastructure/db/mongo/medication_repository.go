package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medrec/medical-records-api/internal/core/domain"
)

const medicationsCollection = "medications"

// MedicationRepository is the mongo-backed medication store. All lookups are
// scoped by patient id so a record can never leak across patients.
type MedicationRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewMedicationRepository(db *mongo.Database) *MedicationRepository {
	return &MedicationRepository{db: db, coll: db.Collection(medicationsCollection)}
}

type mongoMedication struct {
	ID        int64  `bson:"_id"`
	PatientID int64  `bson:"patient_id"`
	Name      string `bson:"name"`
	Dosage    string `bson:"dosage"`
	Frequency string `bson:"frequency"`
	Duration  string `bson:"duration"`
	CreatedAt int64  `bson:"created_at"`
}

func (mm mongoMedication) toDomain() *domain.Medication {
	return &domain.Medication{
		ID:        mm.ID,
		PatientID: mm.PatientID,
		Name:      mm.Name,
		Dosage:    mm.Dosage,
		Frequency: mm.Frequency,
		Duration:  mm.Duration,
		CreatedAt: unixToTime(mm.CreatedAt),
	}
}

func (r *MedicationRepository) ListByPatient(ctx context.Context, patientID int64) ([]domain.Medication, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"patient_id": patientID})
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	defer cursor.Close(ctx)

	meds := make([]domain.Medication, 0)
	for cursor.Next(ctx) {
		var mm mongoMedication
		if err := cursor.Decode(&mm); err != nil {
			return nil, fmt.Errorf("decode medication: %w", err)
		}
		meds = append(meds, *mm.toDomain())
	}
	return meds, cursor.Err()
}

func (r *MedicationRepository) FindByID(ctx context.Context, patientID, id int64) (*domain.Medication, error) {
	var mm mongoMedication
	if err := r.coll.FindOne(ctx, bson.M{"_id": id, "patient_id": patientID}).Decode(&mm); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find medication: %w", err)
	}
	return mm.toDomain(), nil
}

func (r *MedicationRepository) Create(ctx context.Context, m *domain.Medication) (*domain.Medication, error) {
	id, err := nextID(ctx, r.db, medicationsCollection)
	if err != nil {
		return nil, err
	}

	doc := mongoMedication{
		ID:        id,
		PatientID: m.PatientID,
		Name:      m.Name,
		Dosage:    m.Dosage,
		Frequency: m.Frequency,
		Duration:  m.Duration,
		CreatedAt: m.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert medication: %w", err)
	}

	created := *m
	created.ID = id
	return &created, nil
}

func (r *MedicationRepository) Update(ctx context.Context, m *domain.Medication) error {
	update := bson.M{"$set": bson.M{
		"name":      m.Name,
		"dosage":    m.Dosage,
		"frequency": m.Frequency,
		"duration":  m.Duration,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": m.ID, "patient_id": m.PatientID}, update)
	if err != nil {
		return fmt.Errorf("update medication: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *MedicationRepository) Delete(ctx context.Context, patientID, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "patient_id": patientID})
	if err != nil {
		return fmt.Errorf("delete medication: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
