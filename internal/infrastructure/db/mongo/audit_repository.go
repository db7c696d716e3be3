package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medrec/medical-records-api/internal/core/ports"
)

const auditCollection = "audit_events"

// AuditRepository persists audit events to mongo.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

func (r *AuditRepository) Record(ctx context.Context, event ports.AuditEvent) error {
	doc := bson.M{
		"actor":      event.Actor,
		"action":     event.Action,
		"occurred":   event.Occurred,
		"patient_id": event.PatientID,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
