package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homecare/nursing-api/internal/core/domain"
	"github.com/homecare/nursing-api/internal/core/ports"
)

// PatientHandler serves the client-owned patient records.
type PatientHandler struct {
	service ports.PatientService
}

func NewPatientHandler(service ports.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

type createPatientRequest struct {
	Name      string `json:"name"       validate:"required,max=200"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Notes     string `json:"notes"      validate:"max=2000"`
}

type patientResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	BirthDate string    `json:"birth_date,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toPatientResponse(p *domain.Patient) patientResponse {
	out := patientResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
	if !p.BirthDate.IsZero() {
		out.BirthDate = p.BirthDate.Format(time.DateOnly)
	}
	return out
}

// Create handles POST /v1/patients.
//
// @Summary      Register a patient under the calling client
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPatientRequest  true  "Patient details"
// @Success      201   {object}  patientResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/patients [post]
func (h *PatientHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createPatientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	patient, err := h.service.Create(c.Request().Context(), p, ports.CreatePatientInput{
		Name:      req.Name,
		BirthDate: req.BirthDate,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toPatientResponse(patient))
}

// List handles GET /v1/patients.
//
// @Summary      List the calling client's patients
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[patientResponse]
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/patients [get]
func (h *PatientHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	patients, err := h.service.List(c.Request().Context(), p)
	if err != nil {
		return err
	}

	items := make([]patientResponse, 0, len(patients))
	for _, patient := range patients {
		items = append(items, toPatientResponse(patient))
	}
	return c.JSON(http.StatusOK, newListResponse(items))
}
