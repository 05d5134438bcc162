package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homecare/nursing-api/internal/api/metrics"
	"github.com/homecare/nursing-api/internal/core/domain"
	"github.com/homecare/nursing-api/internal/core/ports"
)

// HeaderIdempotencyKey lets a client retry a create without duplicating it.
const HeaderIdempotencyKey = "Idempotency-Key"

// ServiceRequestHandler exposes the service request lifecycle over HTTP.
type ServiceRequestHandler struct {
	service ports.LifecycleService
}

func NewServiceRequestHandler(service ports.LifecycleService) *ServiceRequestHandler {
	return &ServiceRequestHandler{service: service}
}

// Create handles POST /v1/service-requests.
//
// @Summary      Request a nurse for one or more of the caller's patients
// @Tags         service-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                       false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createServiceRequestRequest  true   "Service request"
// @Success      201              {object}  serviceRequestResponse
// @Success      200              {object}  serviceRequestResponse  "replayed idempotent create"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /v1/service-requests [post]
func (h *ServiceRequestHandler) Create(c echo.Context) (err error) {
	start := time.Now()
	defer func() { observe(domain.TransitionCreate, start, err) }()

	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createServiceRequestRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Create(c.Request().Context(), p, ports.CreateServiceRequestInput{
		NurseID:        req.NurseID,
		PatientIDs:     req.PatientIDs,
		Details:        req.Details,
		ScheduledDate:  req.ScheduledDate,
		Rate:           req.Rate,
		IdempotencyKey: strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey)),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	return c.JSON(status, toServiceRequestResponse(res.ServiceRequest))
}

// List handles GET /v1/service-requests.
//
// @Summary      List the caller's service requests
// @Description  Clients see the requests they created, nurses the requests addressed to them.
// @Tags         service-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[serviceRequestResponse]
// @Failure      401  {object}  errorResponse
// @Router       /v1/service-requests [get]
func (h *ServiceRequestHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	requests, err := h.service.ListMine(c.Request().Context(), p)
	if err != nil {
		return err
	}

	items := make([]serviceRequestResponse, 0, len(requests))
	for _, sr := range requests {
		items = append(items, toServiceRequestResponse(sr))
	}
	return c.JSON(http.StatusOK, newListResponse(items))
}

// Get handles GET /v1/service-requests/:id.
//
// @Summary      Get a service request
// @Tags         service-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Service request id"
// @Success      200  {object}  serviceRequestResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/service-requests/{id} [get]
func (h *ServiceRequestHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	sr, err := h.service.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toServiceRequestResponse(sr))
}

// History handles GET /v1/service-requests/:id/history.
//
// @Summary      Audit trail of a service request
// @Tags         service-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Service request id"
// @Success      200  {object}  listResponse[lifecycleEventResponse]
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/service-requests/{id}/history [get]
func (h *ServiceRequestHandler) History(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	events, err := h.service.History(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(toLifecycleEventResponses(events)))
}

// UpdateStatus handles PATCH /v1/service-requests/:id/status.
//
// @Summary      Accept or reject a pending request
// @Tags         service-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Service request id"
// @Param        body  body      respondRequest  true  "Target status"
// @Success      200   {object}  serviceRequestResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/service-requests/{id}/status [patch]
func (h *ServiceRequestHandler) UpdateStatus(c echo.Context) (err error) {
	transition := domain.TransitionAccept
	start := time.Now()
	defer func() { observe(transition, start, err) }()

	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req respondRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	target := domain.RequestState(req.Status)
	if target == domain.StateRejected {
		transition = domain.TransitionReject
	}

	sr, err := h.service.Respond(c.Request().Context(), p, c.Param("id"), target)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toServiceRequestResponse(sr))
}

// CollectPayment handles POST /v1/service-requests/:id/payment.
//
// @Summary      Collect payment for an accepted request
// @Description  Funds are held until the nurse completes the service.
// @Tags         service-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Service request id"
// @Success      200  {object}  paymentResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/service-requests/{id}/payment [post]
func (h *ServiceRequestHandler) CollectPayment(c echo.Context) (err error) {
	start := time.Now()
	defer func() { observe(domain.TransitionCollectPayment, start, err) }()

	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	res, err := h.service.CollectPayment(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.PaymentsCollectedAmount.Add(res.Transaction.Amount)

	return c.JSON(http.StatusOK, toPaymentResponse(res))
}

// Complete handles POST /v1/service-requests/:id/complete.
//
// @Summary      Mark an accepted request as completed and release payment
// @Tags         service-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true   "Service request id"
// @Param        body  body      completeRequest  false  "Service notes"
// @Success      200   {object}  serviceRequestResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/service-requests/{id}/complete [post]
func (h *ServiceRequestHandler) Complete(c echo.Context) (err error) {
	start := time.Now()
	defer func() { observe(domain.TransitionComplete, start, err) }()

	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req completeRequest
	if c.Request().ContentLength != 0 {
		if err = bindAndValidate(c, &req); err != nil {
			return err
		}
	}

	sr, err := h.service.Complete(c.Request().Context(), p, c.Param("id"), req.ServiceNotes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toServiceRequestResponse(sr))
}

// FileReport handles PUT /v1/service-requests/:id/report.
//
// @Summary      File the nurse's report for a completed request
// @Description  A later report replaces the earlier one.
// @Tags         service-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Service request id"
// @Param        body  body      reportRequest  true  "Report"
// @Success      200   {object}  serviceRequestResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/service-requests/{id}/report [put]
func (h *ServiceRequestHandler) FileReport(c echo.Context) (err error) {
	start := time.Now()
	defer func() { observe(domain.TransitionFileReport, start, err) }()

	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req reportRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	sr, err := h.service.FileReport(c.Request().Context(), p, c.Param("id"), ports.ReportInput{
		Observations:    req.Observations,
		Recommendations: req.Recommendations,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toServiceRequestResponse(sr))
}

func observe(t domain.Transition, start time.Time, err error) {
	metrics.TransitionDuration.WithLabelValues(string(t)).Observe(time.Since(start).Seconds())
	metrics.TransitionsTotal.WithLabelValues(string(t), outcome(err)).Inc()
}

// outcome buckets err into a low-cardinality metric label.
func outcome(err error) string {
	var he *echo.HTTPError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &he):
		return "rejected"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalid):
		return "invalid"
	default:
		return "error"
	}
}
