package ports

import (
	"context"

	"github.com/medrec/medical-records-api/internal/core/domain"
)

// CreatePatientInput carries the fields for a new patient record.
type CreatePatientInput struct {
	Name        string
	Age         int
	Address     string
	PhoneNumber string
}

// UpdatePatientInput carries a partial patient update; nil fields are untouched.
type UpdatePatientInput struct {
	Name        *string
	Age         *int
	Address     *string
	PhoneNumber *string
}

// CreateMedicationInput carries the fields for a new medication entry.
type CreateMedicationInput struct {
	Name      string
	Dosage    string
	Frequency string
	Duration  string
}

// UpdateMedicationInput carries a partial medication update.
type UpdateMedicationInput struct {
	Name      *string
	Dosage    *string
	Frequency *string
	Duration  *string
}

// CreateMedicalHistoryInput carries the fields for a new history entry.
type CreateMedicalHistoryInput struct {
	MedicalConditions string
	Allergies         string
	Surgeries         string
	Treatments        string
}

// UpdateMedicalHistoryInput carries a partial history update.
type UpdateMedicalHistoryInput struct {
	MedicalConditions *string
	Allergies         *string
	Surgeries         *string
	Treatments        *string
}

// CreateDiagnosticInput carries the fields for a new test result.
type CreateDiagnosticInput struct {
	Title           string
	Result          string
	NextAppointment string
}

// UpdateDiagnosticInput carries a partial test-result update.
type UpdateDiagnosticInput struct {
	Title           *string
	Result          *string
	NextAppointment *string
}

// RecordService orchestrates patient records and their sub-resources.
type RecordService interface {
	ListPatients(ctx context.Context) ([]domain.Patient, error)
	CreatePatient(ctx context.Context, input CreatePatientInput) (*domain.Patient, error)
	GetPatient(ctx context.Context, id int64) (*domain.Patient, error)
	UpdatePatient(ctx context.Context, id int64, input UpdatePatientInput) (*domain.Patient, error)
	DeletePatient(ctx context.Context, id int64) error

	ListMedications(ctx context.Context, patientID int64) ([]domain.Medication, error)
	CreateMedication(ctx context.Context, patientID int64, input CreateMedicationInput) (*domain.Medication, error)
	GetMedication(ctx context.Context, patientID, id int64) (*domain.Medication, error)
	UpdateMedication(ctx context.Context, patientID, id int64, input UpdateMedicationInput) (*domain.Medication, error)
	DeleteMedication(ctx context.Context, patientID, id int64) error

	ListMedicalHistory(ctx context.Context, patientID int64) ([]domain.MedicalHistory, error)
	CreateMedicalHistory(ctx context.Context, patientID int64, input CreateMedicalHistoryInput) (*domain.MedicalHistory, error)
	GetMedicalHistory(ctx context.Context, patientID, id int64) (*domain.MedicalHistory, error)
	UpdateMedicalHistory(ctx context.Context, patientID, id int64, input UpdateMedicalHistoryInput) (*domain.MedicalHistory, error)
	DeleteMedicalHistory(ctx context.Context, patientID, id int64) error

	ListDiagnostics(ctx context.Context, patientID int64) ([]domain.DiagnosticTestResult, error)
	CreateDiagnostic(ctx context.Context, patientID int64, input CreateDiagnosticInput) (*domain.DiagnosticTestResult, error)
	GetDiagnostic(ctx context.Context, patientID, id int64) (*domain.DiagnosticTestResult, error)
	UpdateDiagnostic(ctx context.Context, patientID, id int64, input UpdateDiagnosticInput) (*domain.DiagnosticTestResult, error)
	DeleteDiagnostic(ctx context.Context, patientID, id int64) error
}
