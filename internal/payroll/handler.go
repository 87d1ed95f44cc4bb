package payroll

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/employee"
	"github.com/frahmantamala/payroll-management/internal/transport"
)

// PayslipRenderer turns an approved record into a PDF document.
type PayslipRenderer interface {
	Render(w *bytes.Buffer, record *Record, emp *employee.Employee) error
}

type ServiceAPI interface {
	ProcessBatch(dto ProcessPayrollDTO, actor *internal.Actor) ([]*Record, error)
	Approve(id int64, actor *internal.Actor) (*Record, error)
	Reject(id int64, dto RejectPayrollDTO, actor *internal.Actor) (*Record, error)
	Get(id int64, actor *internal.Actor) (*Record, error)
	List(query ListQuery, actor *internal.Actor) (*ListResult, error)
	YearlySummary(year int, actor *internal.Actor) ([]*MonthlySummary, error)
	ForPayslip(id int64, actor *internal.Actor) (*Record, *employee.Employee, error)
}

type Handler struct {
	*transport.BaseHandler
	service  ServiceAPI
	renderer PayslipRenderer
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, renderer PayslipRenderer) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		service:     service,
		renderer:    renderer,
	}
}

// List godoc
// @Summary List payroll records
// @Description Paged payroll records with aggregate totals over the filtered set
// @Tags payroll
// @Produce json
// @Param month query int false "Period month (1-12)"
// @Param year query int false "Period year"
// @Param department query string false "Department filter"
// @Param status query string false "Status filter (pending, approved, rejected)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} ListResult
// @Router /api/v1/payroll [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	query := ListQuery{
		Month:      queryInt(r, "month"),
		Year:       queryInt(r, "year"),
		Department: r.URL.Query().Get("department"),
		Status:     r.URL.Query().Get("status"),
		SortBy:     r.URL.Query().Get("sort_by"),
		Order:      r.URL.Query().Get("order"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	}

	result, err := h.service.List(query, actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// Get godoc
// @Summary Get a payroll record
// @Tags payroll
// @Produce json
// @Param id path int true "Payroll ID"
// @Success 200 {object} Record
// @Router /api/v1/payroll/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid payroll id")
		return
	}

	record, err := h.service.Get(id, actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, record)
}

// Process godoc
// @Summary Run payroll for a period
// @Description Computes and stores pending payroll records for the period
// @Tags payroll
// @Accept json
// @Produce json
// @Param request body ProcessPayrollDTO true "Period and optional employee set"
// @Success 201 {object} map[string]interface{}
// @Router /api/v1/payroll/process [post]
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dto ProcessPayrollDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("failed to decode process request", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	records, err := h.service.ProcessBatch(dto, actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":      "payroll processed",
		"month":        dto.Month,
		"year":         dto.Year,
		"record_count": len(records),
		"data":         records,
	})
}

// Approve godoc
// @Summary Approve a pending payroll record
// @Tags payroll
// @Produce json
// @Param id path int true "Payroll ID"
// @Success 200 {object} Record
// @Router /api/v1/payroll/{id}/approve [post]
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid payroll id")
		return
	}

	record, err := h.service.Approve(id, actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, record)
}

// Reject godoc
// @Summary Reject a pending payroll record
// @Tags payroll
// @Accept json
// @Produce json
// @Param id path int true "Payroll ID"
// @Param request body RejectPayrollDTO true "Rejection reason"
// @Success 200 {object} Record
// @Router /api/v1/payroll/{id}/reject [post]
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid payroll id")
		return
	}

	var dto RejectPayrollDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("failed to decode reject request", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.service.Reject(id, dto, actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, record)
}

// Payslip godoc
// @Summary Download a payslip PDF
// @Tags payroll
// @Produce application/pdf
// @Param id path int true "Payroll ID"
// @Success 200 {file} binary
// @Router /api/v1/payroll/{id}/payslip [get]
func (h *Handler) Payslip(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid payroll id")
		return
	}

	record, emp, err := h.service.ForPayslip(id, actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, record, emp); err != nil {
		h.Logger.Error("failed to render payslip", "error", err, "payroll_id", id)
		h.WriteError(w, http.StatusInternalServerError, "failed to render payslip")
		return
	}

	filename := fmt.Sprintf("payslip-%d-%02d-%d.pdf", record.Year, record.Month, record.EmployeeID)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("failed to write payslip response", "error", err)
	}
}

// Summary godoc
// @Summary Yearly payroll summary grouped by month
// @Tags payroll
// @Produce json
// @Param year path int true "Year"
// @Success 200 {array} MonthlySummary
// @Router /api/v1/payroll/summary/{year} [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid year")
		return
	}

	summaries, err := h.service.YearlySummary(year, actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"year": year,
		"data": summaries,
	})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func queryInt(r *http.Request, name string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return value
}
