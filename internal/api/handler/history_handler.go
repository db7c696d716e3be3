package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medrec/medical-records-api/internal/core/ports"
)

// HistoryHandler handles medical-history sub-resources of a patient.
type HistoryHandler struct {
	records ports.RecordService
}

func NewHistoryHandler(records ports.RecordService) *HistoryHandler {
	return &HistoryHandler{records: records}
}

type createHistoryRequest struct {
	MedicalConditions string `json:"medicalConditions"`
	Allergies         string `json:"allergies"`
	Surgeries         string `json:"surgeries"`
	Treatments        string `json:"treatments"`
}

type patchHistoryRequest struct {
	MedicalConditions *string `json:"medicalConditions"`
	Allergies         *string `json:"allergies"`
	Surgeries         *string `json:"surgeries"`
	Treatments        *string `json:"treatments"`
}

// List returns a patient's medical-history entries.
//
// @Summary      List medical history
// @Tags         medical-history
// @Produce      json
// @Param        patientId  path     int  true  "Patient ID"
// @Success      200        {array}  domain.MedicalHistory
// @Security     BearerAuth
// @Router       /patients/{patientId}/medical-history [get]
func (h *HistoryHandler) List(c echo.Context) error {
	patientID, err := pathID(c, "patientId")
	if err != nil {
		return err
	}
	entries, err := h.records.ListMedicalHistory(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// Create adds a medical-history entry to a patient.
//
// @Summary      Create a medical-history entry
// @Tags         medical-history
// @Accept       json
// @Produce      json
// @Param        patientId  path      int                   true  "Patient ID"
// @Param        body       body      createHistoryRequest  true  "History entry"
// @Success      201        {object}  domain.MedicalHistory
// @Failure      404        {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{patientId}/medical-history [post]
func (h *HistoryHandler) Create(c echo.Context) error {
	patientID, err := pathID(c, "patientId")
	if err != nil {
		return err
	}

	var req createHistoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	entry, err := h.records.CreateMedicalHistory(c.Request().Context(), patientID, ports.CreateMedicalHistoryInput{
		MedicalConditions: req.MedicalConditions,
		Allergies:         req.Allergies,
		Surgeries:         req.Surgeries,
		Treatments:        req.Treatments,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}

// Get returns one medical-history entry.
//
// @Summary      Get a medical-history entry
// @Tags         medical-history
// @Produce      json
// @Param        patientId  path      int  true  "Patient ID"
// @Param        id         path      int  true  "Entry ID"
// @Success      200        {object}  domain.MedicalHistory
// @Failure      404        {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{patientId}/medical-history/{id} [get]
func (h *HistoryHandler) Get(c echo.Context) error {
	patientID, err := pathID(c, "patientId")
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	entry, err := h.records.GetMedicalHistory(c.Request().Context(), patientID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

// Patch applies a partial update to a medical-history entry.
//
// @Summary      Update a medical-history entry
// @Tags         medical-history
// @Accept       json
// @Produce      json
// @Param        patientId  path      int                  true  "Patient ID"
// @Param        id         path      int                  true  "Entry ID"
// @Param        body       body      patchHistoryRequest  true  "Fields to update"
// @Success      200        {object}  domain.MedicalHistory
// @Failure      404        {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{patientId}/medical-history/{id} [patch]
func (h *HistoryHandler) Patch(c echo.Context) error {
	patientID, err := pathID(c, "patientId")
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req patchHistoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	entry, err := h.records.UpdateMedicalHistory(c.Request().Context(), patientID, id, ports.UpdateMedicalHistoryInput{
		MedicalConditions: req.MedicalConditions,
		Allergies:         req.Allergies,
		Surgeries:         req.Surgeries,
		Treatments:        req.Treatments,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

// Delete removes a medical-history entry.
//
// @Summary      Delete a medical-history entry
// @Tags         medical-history
// @Param        patientId  path  int  true  "Patient ID"
// @Param        id         path  int  true  "Entry ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{patientId}/medical-history/{id} [delete]
func (h *HistoryHandler) Delete(c echo.Context) error {
	patientID, err := pathID(c, "patientId")
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.records.DeleteMedicalHistory(c.Request().Context(), patientID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
