package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/medrec/medical-records-api/internal/core/domain"
	"github.com/medrec/medical-records-api/internal/core/ports"
)

// RecordService implements CRUD over patients and their sub-resources.
type RecordService struct {
	patients    ports.PatientRepository
	medications ports.MedicationRepository
	histories   ports.MedicalHistoryRepository
	diagnostics ports.DiagnosticRepository
	logger      zerolog.Logger
}

func NewRecordService(
	patients ports.PatientRepository,
	medications ports.MedicationRepository,
	histories ports.MedicalHistoryRepository,
	diagnostics ports.DiagnosticRepository,
	logger zerolog.Logger,
) *RecordService {
	return &RecordService{
		patients:    patients,
		medications: medications,
		histories:   histories,
		diagnostics: diagnostics,
		logger:      logger,
	}
}

// --- Patients ---

func (s *RecordService) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	return s.patients.List(ctx)
}

func (s *RecordService) CreatePatient(ctx context.Context, input ports.CreatePatientInput) (*domain.Patient, error) {
	created, err := s.patients.Create(ctx, &domain.Patient{
		Name:        input.Name,
		Age:         input.Age,
		Address:     input.Address,
		PhoneNumber: input.PhoneNumber,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("patient_id", created.ID).Msg("patient created")
	return created, nil
}

func (s *RecordService) GetPatient(ctx context.Context, id int64) (*domain.Patient, error) {
	return s.patients.FindByID(ctx, id)
}

func (s *RecordService) UpdatePatient(ctx context.Context, id int64, input ports.UpdatePatientInput) (*domain.Patient, error) {
	patient, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		patient.Name = *input.Name
	}
	if input.Age != nil {
		patient.Age = *input.Age
	}
	if input.Address != nil {
		patient.Address = *input.Address
	}
	if input.PhoneNumber != nil {
		patient.PhoneNumber = *input.PhoneNumber
	}
	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *RecordService) DeletePatient(ctx context.Context, id int64) error {
	return s.patients.Delete(ctx, id)
}

// --- Medications ---

func (s *RecordService) ListMedications(ctx context.Context, patientID int64) ([]domain.Medication, error) {
	return s.medications.ListByPatient(ctx, patientID)
}

func (s *RecordService) CreateMedication(ctx context.Context, patientID int64, input ports.CreateMedicationInput) (*domain.Medication, error) {
	if _, err := s.patients.FindByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.medications.Create(ctx, &domain.Medication{
		PatientID: patientID,
		Name:      input.Name,
		Dosage:    input.Dosage,
		Frequency: input.Frequency,
		Duration:  input.Duration,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *RecordService) GetMedication(ctx context.Context, patientID, id int64) (*domain.Medication, error) {
	return s.medications.FindByID(ctx, patientID, id)
}

func (s *RecordService) UpdateMedication(ctx context.Context, patientID, id int64, input ports.UpdateMedicationInput) (*domain.Medication, error) {
	m, err := s.medications.FindByID(ctx, patientID, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		m.Name = *input.Name
	}
	if input.Dosage != nil {
		m.Dosage = *input.Dosage
	}
	if input.Frequency != nil {
		m.Frequency = *input.Frequency
	}
	if input.Duration != nil {
		m.Duration = *input.Duration
	}
	if err := s.medications.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *RecordService) DeleteMedication(ctx context.Context, patientID, id int64) error {
	return s.medications.Delete(ctx, patientID, id)
}

// --- Medical history ---

func (s *RecordService) ListMedicalHistory(ctx context.Context, patientID int64) ([]domain.MedicalHistory, error) {
	return s.histories.ListByPatient(ctx, patientID)
}

func (s *RecordService) CreateMedicalHistory(ctx context.Context, patientID int64, input ports.CreateMedicalHistoryInput) (*domain.MedicalHistory, error) {
	if _, err := s.patients.FindByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.histories.Create(ctx, &domain.MedicalHistory{
		PatientID:         patientID,
		MedicalConditions: input.MedicalConditions,
		Allergies:         input.Allergies,
		Surgeries:         input.Surgeries,
		Treatments:        input.Treatments,
		CreatedAt:         time.Now().UTC(),
	})
}

func (s *RecordService) GetMedicalHistory(ctx context.Context, patientID, id int64) (*domain.MedicalHistory, error) {
	return s.histories.FindByID(ctx, patientID, id)
}

func (s *RecordService) UpdateMedicalHistory(ctx context.Context, patientID, id int64, input ports.UpdateMedicalHistoryInput) (*domain.MedicalHistory, error) {
	h, err := s.histories.FindByID(ctx, patientID, id)
	if err != nil {
		return nil, err
	}
	if input.MedicalConditions != nil {
		h.MedicalConditions = *input.MedicalConditions
	}
	if input.Allergies != nil {
		h.Allergies = *input.Allergies
	}
	if input.Surgeries != nil {
		h.Surgeries = *input.Surgeries
	}
	if input.Treatments != nil {
		h.Treatments = *input.Treatments
	}
	if err := s.histories.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *RecordService) DeleteMedicalHistory(ctx context.Context, patientID, id int64) error {
	return s.histories.Delete(ctx, patientID, id)
}

// --- Diagnostic test results ---

func (s *RecordService) ListDiagnostics(ctx context.Context, patientID int64) ([]domain.DiagnosticTestResult, error) {
	return s.diagnostics.ListByPatient(ctx, patientID)
}

func (s *RecordService) CreateDiagnostic(ctx context.Context, patientID int64, input ports.CreateDiagnosticInput) (*domain.DiagnosticTestResult, error) {
	if _, err := s.patients.FindByID(ctx, patientID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return s.diagnostics.Create(ctx, &domain.DiagnosticTestResult{
		PatientID:       patientID,
		Title:           input.Title,
		Result:          input.Result,
		NextAppointment: input.NextAppointment,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

func (s *RecordService) GetDiagnostic(ctx context.Context, patientID, id int64) (*domain.DiagnosticTestResult, error) {
	return s.diagnostics.FindByID(ctx, patientID, id)
}

func (s *RecordService) UpdateDiagnostic(ctx context.Context, patientID, id int64, input ports.UpdateDiagnosticInput) (*domain.DiagnosticTestResult, error) {
	r, err := s.diagnostics.FindByID(ctx, patientID, id)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		r.Title = *input.Title
	}
	if input.Result != nil {
		r.Result = *input.Result
	}
	if input.NextAppointment != nil {
		r.NextAppointment = *input.NextAppointment
	}
	r.UpdatedAt = time.Now().UTC()
	if err := s.diagnostics.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RecordService) DeleteDiagnostic(ctx context.Context, patientID, id int64) error {
	return s.diagnostics.Delete(ctx, patientID, id)
}
