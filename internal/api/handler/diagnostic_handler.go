package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medrec/medical-records-api/internal/api/metrics"
	"github.com/medrec/medical-records-api/internal/core/ports"
)

// DiagnosticHandler handles diagnostic-test-result sub-resources of a patient.
type DiagnosticHandler struct {
	records ports.RecordService
	explain ports.ExplainService
}

func NewDiagnosticHandler(records ports.RecordService, explain ports.ExplainService) *DiagnosticHandler {
	return &DiagnosticHandler{records: records, explain: explain}
}

type createDiagnosticRequest struct {
	Title           string `json:"title" validate:"required"`
	Result          string `json:"result"`
	NextAppointment string `json:"nextAppointment"`
}

type patchDiagnosticRequest struct {
	Title           *string `json:"title"`
	Result          *string `json:"result"`
	NextAppointment *string `json:"nextAppointment"`
}

type explanationResponse struct {
	Explanation string `json:"explanation"`
}

// List returns a patient's diagnostic test results.
//
// @Summary      List diagnostic test results
// @Tags         diagnostic-test-results
// @Produce      json
// @Param        patientId  path     int  true  "Patient ID"
// @Success      200        {array}  domain.DiagnosticTestResult
// @Security     BearerAuth
// @Router       /patients/{patientId}/diagnostic-test-results [get]
func (h *DiagnosticHandler) List(c echo.Context) error {
	patientID, err := pathID(c, "patientId")
	if err != nil {
		return err
	}
	results, err := h.records.ListDiagnostics(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}

// Create adds a diagnostic test result to a patient.
//
// @Summary      Create a diagnostic test result
// @Tags         diagnostic-test-results
// @Accept       json
// @Produce      json
// @Param        patientId  path      int                      true  "Patient ID"
// @Param        body       body      createDiagnosticRequest  true  "Test result"
// @Success      201        {object}  domain.DiagnosticTestResult
// @Failure      404        {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{patientId}/diagnostic-test-results [post]
func (h *DiagnosticHandler) Create(c echo.Context) error {
	patientID, err := pathID(c, "patientId")
	if err != nil {
		return err
	}

	var req createDiagnosticRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.records.CreateDiagnostic(c.Request().Context(), patientID, ports.CreateDiagnosticInput{
		Title:           req.Title,
		Result:          req.Result,
		NextAppointment: req.NextAppointment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

// Get returns one diagnostic test result.
//
// @Summary      Get a diagnostic test result
// @Tags         diagnostic-test-results
// @Produce      json
// @Param        patientId  path      int  true  "Patient ID"
// @Param        id         path      int  true  "Result ID"
// @Success      200        {object}  domain.DiagnosticTestResult
// @Failure      404        {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{patientId}/diagnostic-test-results/{id} [get]
func (h *DiagnosticHandler) Get(c echo.Context) error {
	patientID, err := pathID(c, "patientId")
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	result, err := h.records.GetDiagnostic(c.Request().Context(), patientID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Explanation returns a patient-friendly explanation of one test result.
//
// @Summary      Explain a diagnostic test result
// @Tags         diagnostic-test-results
// @Produce      json
// @Param        patientId  path      int  true  "Patient ID"
// @Param        id         path      int  true  "Result ID"
// @Success      200        {object}  explanationResponse
// @Failure      404        {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{patientId}/diagnostic-test-results/{id}/explanation [get]
func (h *DiagnosticHandler) Explanation(c echo.Context) error {
	if h.explain == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "explanation service unavailable")
	}
	patientID, err := pathID(c, "patientId")
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	start := time.Now()
	text, err := h.explain.ExplainTestResult(c.Request().Context(), patientID, id)
	if err != nil {
		return err
	}
	metrics.LLMRequestDuration.WithLabelValues("explanation").Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, explanationResponse{Explanation: text})
}

// Patch applies a partial update to a diagnostic test result.
//
// @Summary      Update a diagnostic test result
// @Tags         diagnostic-test-results
// @Accept       json
// @Produce      json
// @Param        patientId  path      int                     true  "Patient ID"
// @Param        id         path      int                     true  "Result ID"
// @Param        body       body      patchDiagnosticRequest  true  "Fields to update"
// @Success      200        {object}  domain.DiagnosticTestResult
// @Failure      404        {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{patientId}/diagnostic-test-results/{id} [patch]
func (h *DiagnosticHandler) Patch(c echo.Context) error {
	patientID, err := pathID(c, "patientId")
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req patchDiagnosticRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.records.UpdateDiagnostic(c.Request().Context(), patientID, id, ports.UpdateDiagnosticInput{
		Title:           req.Title,
		Result:          req.Result,
		NextAppointment: req.NextAppointment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Delete removes a diagnostic test result.
//
// @Summary      Delete a diagnostic test result
// @Tags         diagnostic-test-results
// @Param        patientId  path  int  true  "Patient ID"
// @Param        id         path  int  true  "Result ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{patientId}/diagnostic-test-results/{id} [delete]
func (h *DiagnosticHandler) Delete(c echo.Context) error {
	patientID, err := pathID(c, "patientId")
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.records.DeleteDiagnostic(c.Request().Context(), patientID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
