package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medrec/medical-records-api/internal/core/ports"
)

// PatientHandler handles HTTP requests for patient records.
type PatientHandler struct {
	records ports.RecordService
}

func NewPatientHandler(records ports.RecordService) *PatientHandler {
	return &PatientHandler{records: records}
}

type createPatientRequest struct {
	Name        string `json:"name" validate:"required"`
	Age         int    `json:"age" validate:"gte=0,lte=150"`
	Address     string `json:"address" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

type patchPatientRequest struct {
	Name        *string `json:"name"`
	Age         *int    `json:"age" validate:"omitempty,gte=0,lte=150"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phoneNumber"`
}

// List returns all patients.
//
// @Summary      List patients
// @Tags         patients
// @Produce      json
// @Success      200  {array}  domain.Patient
// @Security     BearerAuth
// @Router       /patients [get]
func (h *PatientHandler) List(c echo.Context) error {
	patients, err := h.records.ListPatients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

// Create registers a patient record without a user account.
//
// @Summary      Create a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        body  body      createPatientRequest  true  "Patient demographics"
// @Success      201   {object}  domain.Patient
// @Failure      422   {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients [post]
func (h *PatientHandler) Create(c echo.Context) error {
	var req createPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	patient, err := h.records.CreatePatient(c.Request().Context(), ports.CreatePatientInput{
		Name:        req.Name,
		Age:         req.Age,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, patient)
}

// Get returns one patient record.
//
// @Summary      Get a patient
// @Tags         patients
// @Produce      json
// @Param        patientId  path      int  true  "Patient ID"
// @Success      200        {object}  domain.Patient
// @Failure      404        {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{patientId} [get]
func (h *PatientHandler) Get(c echo.Context) error {
	id, err := pathID(c, "patientId")
	if err != nil {
		return err
	}
	patient, err := h.records.GetPatient(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patient)
}

// Patch applies a partial update to a patient record.
//
// @Summary      Update a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        patientId  path      int                  true  "Patient ID"
// @Param        body       body      patchPatientRequest  true  "Fields to update"
// @Success      200        {object}  domain.Patient
// @Failure      404        {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{patientId} [patch]
func (h *PatientHandler) Patch(c echo.Context) error {
	id, err := pathID(c, "patientId")
	if err != nil {
		return err
	}

	var req patchPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	patient, err := h.records.UpdatePatient(c.Request().Context(), id, ports.UpdatePatientInput{
		Name:        req.Name,
		Age:         req.Age,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patient)
}

// Delete removes a patient record.
//
// @Summary      Delete a patient
// @Tags         patients
// @Param        patientId  path  int  true  "Patient ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /patients/{patientId} [delete]
func (h *PatientHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "patientId")
	if err != nil {
		return err
	}
	if err := h.records.DeletePatient(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
