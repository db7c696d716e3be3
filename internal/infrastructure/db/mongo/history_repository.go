package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medrec/medical-records-api/internal/core/domain"
)

const historiesCollection = "medical_histories"

// HistoryRepository is the mongo-backed medical-history store.
type HistoryRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewHistoryRepository(db *mongo.Database) *HistoryRepository {
	return &HistoryRepository{db: db, coll: db.Collection(historiesCollection)}
}

type mongoHistory struct {
	ID                int64  `bson:"_id"`
	PatientID         int64  `bson:"patient_id"`
	MedicalConditions string `bson:"medical_conditions"`
	Allergies         string `bson:"allergies"`
	Surgeries         string `bson:"surgeries"`
	Treatments        string `bson:"treatments"`
	CreatedAt         int64  `bson:"created_at"`
}

func (mh mongoHistory) toDomain() *domain.MedicalHistory {
	return &domain.MedicalHistory{
		ID:                mh.ID,
		PatientID:         mh.PatientID,
		MedicalConditions: mh.MedicalConditions,
		Allergies:         mh.Allergies,
		Surgeries:         mh.Surgeries,
		Treatments:        mh.Treatments,
		CreatedAt:         unixToTime(mh.CreatedAt),
	}
}

func (r *HistoryRepository) ListByPatient(ctx context.Context, patientID int64) ([]domain.MedicalHistory, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"patient_id": patientID})
	if err != nil {
		return nil, fmt.Errorf("list medical histories: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]domain.MedicalHistory, 0)
	for cursor.Next(ctx) {
		var mh mongoHistory
		if err := cursor.Decode(&mh); err != nil {
			return nil, fmt.Errorf("decode medical history: %w", err)
		}
		entries = append(entries, *mh.toDomain())
	}
	return entries, cursor.Err()
}

func (r *HistoryRepository) FindByID(ctx context.Context, patientID, id int64) (*domain.MedicalHistory, error) {
	var mh mongoHistory
	if err := r.coll.FindOne(ctx, bson.M{"_id": id, "patient_id": patientID}).Decode(&mh); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find medical history: %w", err)
	}
	return mh.toDomain(), nil
}

func (r *HistoryRepository) Create(ctx context.Context, h *domain.MedicalHistory) (*domain.MedicalHistory, error) {
	id, err := nextID(ctx, r.db, historiesCollection)
	if err != nil {
		return nil, err
	}

	doc := mongoHistory{
		ID:                id,
		PatientID:         h.PatientID,
		MedicalConditions: h.MedicalConditions,
		Allergies:         h.Allergies,
		Surgeries:         h.Surgeries,
		Treatments:        h.Treatments,
		CreatedAt:         h.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert medical history: %w", err)
	}

	created := *h
	created.ID = id
	return &created, nil
}

func (r *HistoryRepository) Update(ctx context.Context, h *domain.MedicalHistory) error {
	update := bson.M{"$set": bson.M{
		"medical_conditions": h.MedicalConditions,
		"allergies":          h.Allergies,
		"surgeries":          h.Surgeries,
		"treatments":         h.Treatments,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": h.ID, "patient_id": h.PatientID}, update)
	if err != nil {
		return fmt.Errorf("update medical history: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *HistoryRepository) Delete(ctx context.Context, patientID, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "patient_id": patientID})
	if err != nil {
		return fmt.Errorf("delete medical history: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
