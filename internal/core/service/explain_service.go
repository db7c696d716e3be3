package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/medrec/medical-records-api/internal/core/domain"
	"github.com/medrec/medical-records-api/internal/core/ports"
)

// ExplainService turns clinical data into patient-friendly text via the LLM
// backend. It never mutates stored records.
type ExplainService struct {
	llm         ports.LLMClient
	medications ports.MedicationRepository
	diagnostics ports.DiagnosticRepository
	logger      zerolog.Logger
}

func NewExplainService(llm ports.LLMClient, medications ports.MedicationRepository, diagnostics ports.DiagnosticRepository, logger zerolog.Logger) *ExplainService {
	return &ExplainService{llm: llm, medications: medications, diagnostics: diagnostics, logger: logger}
}

// MedicationSchedule builds a structured daily schedule from the patient's
// current medications. When the model output is not valid JSON the raw text is
// returned instead of failing the request.
func (s *ExplainService) MedicationSchedule(ctx context.Context, patientID int64) (*ports.ScheduleResult, error) {
	meds, err := s.medications.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(meds) == 0 {
		return &ports.ScheduleResult{Items: []ports.ScheduleItem{}}, nil
	}

	var b strings.Builder
	for _, m := range meds {
		fmt.Fprintf(&b, "%s, dosage %s, frequency %s, duration %s. ", m.Name, m.Dosage, m.Frequency, m.Duration)
	}

	text, err := s.llm.GenerateSchedule(ctx, b.String())
	if err != nil {
		return nil, err
	}

	var items []ports.ScheduleItem
	if jsonErr := json.Unmarshal([]byte(extractJSON(text)), &items); jsonErr != nil {
		s.logger.Warn().Int64("patient_id", patientID).Msg("schedule output not parseable, returning raw text")
		return &ports.ScheduleResult{Raw: text}, nil
	}
	return &ports.ScheduleResult{Items: items}, nil
}

// ExplainTestResult produces a plain-English explanation of one test result.
func (s *ExplainService) ExplainTestResult(ctx context.Context, patientID, resultID int64) (string, error) {
	result, err := s.diagnostics.FindByID(ctx, patientID, resultID)
	if err != nil {
		return "", err
	}
	if result.Result == "" {
		return "", domain.ErrRecordNotFound
	}
	return s.llm.ExplainTestResult(ctx, result.Title, result.Result)
}

// extractJSON trims markdown code fences the model sometimes wraps around its
// JSON output.
func extractJSON(text string) string {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
