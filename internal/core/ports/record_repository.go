package ports

import (
	"context"

	"github.com/medrec/medical-records-api/internal/core/domain"
)

// PatientRepository persists patient demographic records.
type PatientRepository interface {
	List(ctx context.Context) ([]domain.Patient, error)
	FindByID(ctx context.Context, id int64) (*domain.Patient, error)
	Create(ctx context.Context, patient *domain.Patient) (*domain.Patient, error)
	Update(ctx context.Context, patient *domain.Patient) error
	Delete(ctx context.Context, id int64) error
}

// MedicationRepository persists medications scoped to a patient.
type MedicationRepository interface {
	ListByPatient(ctx context.Context, patientID int64) ([]domain.Medication, error)
	FindByID(ctx context.Context, patientID, id int64) (*domain.Medication, error)
	Create(ctx context.Context, m *domain.Medication) (*domain.Medication, error)
	Update(ctx context.Context, m *domain.Medication) error
	Delete(ctx context.Context, patientID, id int64) error
}

// MedicalHistoryRepository persists medical-history entries scoped to a patient.
type MedicalHistoryRepository interface {
	ListByPatient(ctx context.Context, patientID int64) ([]domain.MedicalHistory, error)
	FindByID(ctx context.Context, patientID, id int64) (*domain.MedicalHistory, error)
	Create(ctx context.Context, h *domain.MedicalHistory) (*domain.MedicalHistory, error)
	Update(ctx context.Context, h *domain.MedicalHistory) error
	Delete(ctx context.Context, patientID, id int64) error
}

// DiagnosticRepository persists diagnostic test results scoped to a patient.
type DiagnosticRepository interface {
	ListByPatient(ctx context.Context, patientID int64) ([]domain.DiagnosticTestResult, error)
	FindByID(ctx context.Context, patientID, id int64) (*domain.DiagnosticTestResult, error)
	Create(ctx context.Context, r *domain.DiagnosticTestResult) (*domain.DiagnosticTestResult, error)
	Update(ctx context.Context, r *domain.DiagnosticTestResult) error
	Delete(ctx context.Context, patientID, id int64) error
}
