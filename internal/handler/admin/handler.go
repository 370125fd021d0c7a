package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/neuroscan/clinic-api/internal/middleware"
	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/internal/service/directory"
	"github.com/neuroscan/clinic-api/internal/service/prediction"
	"github.com/neuroscan/clinic-api/internal/service/report"
	"github.com/neuroscan/clinic-api/internal/service/scheduling"
	"github.com/neuroscan/clinic-api/pkg/errors"
	"github.com/neuroscan/clinic-api/pkg/httputil"
	"github.com/neuroscan/clinic-api/pkg/validator"
)

// Handler is the admin surface: doctor onboarding and approval, user
// management, and clinic-wide views.
type Handler struct {
	directory   *directory.Service
	scheduling  *scheduling.Service
	predictions *prediction.Service
	reports     *report.Service
}

func NewHandler(
	dir *directory.Service,
	sched *scheduling.Service,
	preds *prediction.Service,
	reports *report.Service,
) *Handler {
	return &Handler{
		directory:   dir,
		scheduling:  sched,
		predictions: preds,
		reports:     reports,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/doctors", h.CreateDoctor)
	r.POST("/doctors/:id/approve", h.ApproveDoctor)
	r.PUT("/doctors/:id/slots", h.SetDoctorSlots)
	r.GET("/users", h.ListUsers)
	r.DELETE("/users/:id", h.DeactivateUser)
	r.GET("/appointments", h.ListAppointments)
	r.GET("/appointments/pending", h.ListPendingAppointments)
	r.GET("/predictions", h.ListPredictions)
	r.GET("/dashboard", h.Dashboard)
}

// CreateDoctor registers a doctor account and approves it in the same
// step, unlike self-registered doctors who wait for approval.
func (h *Handler) CreateDoctor(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, validator.BindError(err))
		return
	}
	req.Role = model.RoleDoctor

	user, err := h.directory.CreateUser(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.directory.ApproveDoctor(c.Request.Context(), user.ID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	user.Doctor.ApprovedByAdmin = true

	httputil.RespondWithCreated(c, user)
}

func (h *Handler) ApproveDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("id", "invalid doctor id"))
		return
	}

	if err := h.directory.ApproveDoctor(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"approved": true})
}

// SetDoctorSlots replaces a doctor's configured slots wholesale.
func (h *Handler) SetDoctorSlots(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("id", "invalid doctor id"))
		return
	}

	var req model.UpdateTimeSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, validator.BindError(err))
		return
	}

	if err := h.directory.SetDoctorSlots(c.Request.Context(), id, req.TimeSlots); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"available_time_slots": req.TimeSlots})
}

// ListUsers filters by ?role=.
func (h *Handler) ListUsers(c *gin.Context) {
	role := model.Role(c.Query("role"))

	users, err := h.directory.ListByRole(c.Request.Context(), role)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, users)
}

func (h *Handler) DeactivateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("id", "invalid user id"))
		return
	}

	if err := h.directory.Deactivate(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deactivated": true})
}

func (h *Handler) ListAppointments(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	appointments, err := h.scheduling.ListAll(c.Request.Context(), actor)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

// ListPendingAppointments is the triage queue, newest first.
func (h *Handler) ListPendingAppointments(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	appointments, err := h.scheduling.ListPending(c.Request.Context(), actor)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) ListPredictions(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	preds, err := h.predictions.ListAll(c.Request.Context(), actor)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, preds)
}

func (h *Handler) Dashboard(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	dash, err := h.reports.AdminDashboard(c.Request.Context(), actor)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, dash)
}
