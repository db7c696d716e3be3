package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medrec/medical-records-api/internal/core/domain"
)

const diagnosticsCollection = "diagnostic_test_results"

// DiagnosticRepository is the mongo-backed test-result store.
type DiagnosticRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewDiagnosticRepository(db *mongo.Database) *DiagnosticRepository {
	return &DiagnosticRepository{db: db, coll: db.Collection(diagnosticsCollection)}
}

type mongoDiagnostic struct {
	ID              int64  `bson:"_id"`
	PatientID       int64  `bson:"patient_id"`
	Title           string `bson:"title"`
	Result          string `bson:"result"`
	NextAppointment string `bson:"next_appointment,omitempty"`
	CreatedAt       int64  `bson:"created_at"`
	UpdatedAt       int64  `bson:"updated_at"`
}

func (md mongoDiagnostic) toDomain() *domain.DiagnosticTestResult {
	return &domain.DiagnosticTestResult{
		ID:              md.ID,
		PatientID:       md.PatientID,
		Title:           md.Title,
		Result:          md.Result,
		NextAppointment: md.NextAppointment,
		CreatedAt:       unixToTime(md.CreatedAt),
		UpdatedAt:       unixToTime(md.UpdatedAt),
	}
}

func (r *DiagnosticRepository) ListByPatient(ctx context.Context, patientID int64) ([]domain.DiagnosticTestResult, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"patient_id": patientID})
	if err != nil {
		return nil, fmt.Errorf("list test results: %w", err)
	}
	defer cursor.Close(ctx)

	results := make([]domain.DiagnosticTestResult, 0)
	for cursor.Next(ctx) {
		var md mongoDiagnostic
		if err := cursor.Decode(&md); err != nil {
			return nil, fmt.Errorf("decode test result: %w", err)
		}
		results = append(results, *md.toDomain())
	}
	return results, cursor.Err()
}

func (r *DiagnosticRepository) FindByID(ctx context.Context, patientID, id int64) (*domain.DiagnosticTestResult, error) {
	var md mongoDiagnostic
	if err := r.coll.FindOne(ctx, bson.M{"_id": id, "patient_id": patientID}).Decode(&md); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find test result: %w", err)
	}
	return md.toDomain(), nil
}

func (r *DiagnosticRepository) Create(ctx context.Context, d *domain.DiagnosticTestResult) (*domain.DiagnosticTestResult, error) {
	id, err := nextID(ctx, r.db, diagnosticsCollection)
	if err != nil {
		return nil, err
	}

	doc := mongoDiagnostic{
		ID:              id,
		PatientID:       d.PatientID,
		Title:           d.Title,
		Result:          d.Result,
		NextAppointment: d.NextAppointment,
		CreatedAt:       d.CreatedAt.Unix(),
		UpdatedAt:       d.UpdatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert test result: %w", err)
	}

	created := *d
	created.ID = id
	return &created, nil
}

func (r *DiagnosticRepository) Update(ctx context.Context, d *domain.DiagnosticTestResult) error {
	update := bson.M{"$set": bson.M{
		"title":            d.Title,
		"result":           d.Result,
		"next_appointment": d.NextAppointment,
		"updated_at":       d.UpdatedAt.Unix(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": d.ID, "patient_id": d.PatientID}, update)
	if err != nil {
		return fmt.Errorf("update test result: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *DiagnosticRepository) Delete(ctx context.Context, patientID, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "patient_id": patientID})
	if err != nil {
		return fmt.Errorf("delete test result: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
