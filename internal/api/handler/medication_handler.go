package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medrec/medical-records-api/internal/api/metrics"
	"github.com/medrec/medical-records-api/internal/core/ports"
)

// MedicationHandler handles medication sub-resources of a patient.
type MedicationHandler struct {
	records ports.RecordService
	explain ports.ExplainService
}

func NewMedicationHandler(records ports.RecordService, explain ports.ExplainService) *MedicationHandler {
	return &MedicationHandler{records: records, explain: explain}
}

type createMedicationRequest struct {
	Name      string `json:"name" validate:"required"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

type patchMedicationRequest struct {
	Name      *string `json:"name"`
	Dosage    *string `json:"dosage"`
	Frequency *string `json:"frequency"`
	Duration  *string `json:"duration"`
}

type scheduleResponse struct {
	Schedule any `json:"schedule"`
}

// List returns a patient's medications.
//
// @Summary      List medications
// @Tags         medications
// @Produce      json
// @Param        patientId  path     int  true  "Patient ID"
// @Success      200        {array}  domain.Medication
// @Security     BearerAuth
// @Router       /patients/{patientId}/medications [get]
func (h *MedicationHandler) List(c echo.Context) error {
	patientID, err := pathID(c, "patientId")
	if err != nil {
		return err
	}
	meds, err := h.records.ListMedications(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meds)
}

// Create adds a medication to a patient.
//
// @Summary      Create a medication
// @Tags         medications
// @Accept       json
// @Produce      json
// @Param        patientId  path      int                      true  "Patient ID"
// @Param        body       body      createMedicationRequest  true  "Medication"
// @Success      201        {object}  domain.Medication
// @Failure      404        {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{patientId}/medications [post]
func (h *MedicationHandler) Create(c echo.Context) error {
	patientID, err := pathID(c, "patientId")
	if err != nil {
		return err
	}

	var req createMedicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	med, err := h.records.CreateMedication(c.Request().Context(), patientID, ports.CreateMedicationInput{
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		Duration:  req.Duration,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, med)
}

// Schedule returns an LLM-generated daily schedule for a patient's medications.
//
// @Summary      Medication schedule
// @Tags         medications
// @Produce      json
// @Param        patientId  path      int  true  "Patient ID"
// @Success      200        {object}  scheduleResponse
// @Security     BearerAuth
// @Router       /patients/{patientId}/medications/schedule [get]
func (h *MedicationHandler) Schedule(c echo.Context) error {
	if h.explain == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "schedule service unavailable")
	}
	patientID, err := pathID(c, "patientId")
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := h.explain.MedicationSchedule(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	metrics.LLMRequestDuration.WithLabelValues("schedule").Observe(time.Since(start).Seconds())

	if result.Raw != "" {
		return c.JSON(http.StatusOK, scheduleResponse{Schedule: result.Raw})
	}
	return c.JSON(http.StatusOK, scheduleResponse{Schedule: result.Items})
}

// Get returns one medication.
//
// @Summary      Get a medication
// @Tags         medications
// @Produce      json
// @Param        patientId  path      int  true  "Patient ID"
// @Param        id         path      int  true  "Medication ID"
// @Success      200        {object}  domain.Medication
// @Failure      404        {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{patientId}/medications/{id} [get]
func (h *MedicationHandler) Get(c echo.Context) error {
	patientID, err := pathID(c, "patientId")
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	med, err := h.records.GetMedication(c.Request().Context(), patientID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, med)
}

// Patch applies a partial update to a medication.
//
// @Summary      Update a medication
// @Tags         medications
// @Accept       json
// @Produce      json
// @Param        patientId  path      int                     true  "Patient ID"
// @Param        id         path      int                     true  "Medication ID"
// @Param        body       body      patchMedicationRequest  true  "Fields to update"
// @Success      200        {object}  domain.Medication
// @Failure      404        {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{patientId}/medications/{id} [patch]
func (h *MedicationHandler) Patch(c echo.Context) error {
	patientID, err := pathID(c, "patientId")
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req patchMedicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	med, err := h.records.UpdateMedication(c.Request().Context(), patientID, id, ports.UpdateMedicationInput{
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		Duration:  req.Duration,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, med)
}

// Delete removes a medication.
//
// @Summary      Delete a medication
// @Tags         medications
// @Param        patientId  path  int  true  "Patient ID"
// @Param        id         path  int  true  "Medication ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{patientId}/medications/{id} [delete]
func (h *MedicationHandler) Delete(c echo.Context) error {
	patientID, err := pathID(c, "patientId")
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.records.DeleteMedication(c.Request().Context(), patientID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
