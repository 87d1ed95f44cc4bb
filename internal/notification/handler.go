package notification

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	repo Repository
}

func NewHandler(baseHandler *transport.BaseHandler, repo Repository) *Handler {
	return &Handler{BaseHandler: baseHandler, repo: repo}
}

// List godoc
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Success 200 {array} Notification
// @Router /api/v1/notifications [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor.EmployeeID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.repo.GetByEmployee(actor.EmployeeID, unreadOnly)
	if err != nil {
		h.Logger.Error("failed to list notifications", "error", err, "employee_id", actor.EmployeeID)
		h.WriteError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": notifications})
}

// MarkRead godoc
// @Summary Mark one of the caller's notifications as read
// @Tags notifications
// @Param id path int true "Notification ID"
// @Success 204
// @Router /api/v1/notifications/{id}/read [patch]
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor.EmployeeID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.repo.MarkRead(id, actor.EmployeeID); err != nil {
		h.Logger.Error("failed to mark notification read", "error", err, "notification_id", id)
		h.WriteError(w, http.StatusInternalServerError, "failed to update notification")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
