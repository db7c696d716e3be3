package ports

import "context"

// LLMClient is the narrow contract to the language-model backend.
type LLMClient interface {
	GenerateSchedule(ctx context.Context, medications string) (string, error)
	ExplainTestResult(ctx context.Context, title, result string) (string, error)
}

// ScheduleItem is one slot of a structured daily medication schedule.
type ScheduleItem struct {
	TimeOfDay string   `json:"time_of_day"`
	Medicines []string `json:"medicines"`
}

// ScheduleResult carries either a structured schedule or the raw model text
// when the output could not be parsed.
type ScheduleResult struct {
	Items []ScheduleItem
	Raw   string
}

// ExplainService produces patient-friendly explanations from clinical data.
type ExplainService interface {
	MedicationSchedule(ctx context.Context, patientID int64) (*ScheduleResult, error)
	ExplainTestResult(ctx context.Context, patientID, resultID int64) (string, error)
}
