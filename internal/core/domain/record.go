package domain

import (
	"errors"
	"time"
)

var ErrRecordNotFound = errors.New("record not found")

// Medication is a prescription entry scoped to a patient.
type Medication struct {
	ID        int64     `json:"id"`
	PatientID int64     `json:"patientId"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Frequency string    `json:"frequency"`
	Duration  string    `json:"duration"`
	CreatedAt time.Time `json:"createdAt"`
}

// MedicalHistory captures a patient's background: conditions, allergies,
// past surgeries and treatments.
type MedicalHistory struct {
	ID                int64     `json:"id"`
	PatientID         int64     `json:"patientId"`
	MedicalConditions string    `json:"medicalConditions"`
	Allergies         string    `json:"allergies"`
	Surgeries         string    `json:"surgeries"`
	Treatments        string    `json:"treatments"`
	CreatedAt         time.Time `json:"createdAt"`
}

// DiagnosticTestResult is a single test outcome with an optional follow-up.
type DiagnosticTestResult struct {
	ID              int64     `json:"id"`
	PatientID       int64     `json:"patientId"`
	Title           string    `json:"title"`
	Result          string    `json:"result"`
	NextAppointment string    `json:"nextAppointment,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
