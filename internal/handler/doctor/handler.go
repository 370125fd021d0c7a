package doctor

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

// Handler is the doctor-facing surface: the schedule, appointment
// decisions, slot configuration, and the prediction review queue.
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
	r.GET("/appointments", h.ListAppointments)
	r.GET("/schedule", h.Schedule)
	r.POST("/appointments/:id/approve", h.statusHandler(model.AppointmentStatusApproved))
	r.POST("/appointments/:id/reject", h.statusHandler(model.AppointmentStatusRejected))
	r.POST("/appointments/:id/complete", h.statusHandler(model.AppointmentStatusCompleted))
	r.PUT("/slots", h.UpdateSlots)
	r.GET("/predictions", h.ListPredictions)
	r.POST("/predictions/:id/review", h.ReviewPrediction)
	r.GET("/dashboard", h.Dashboard)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	appointments, err := h.scheduling.ListForDoctor(c.Request.Context(), actor, actor.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

// Schedule is the live bookings for ?date=YYYY-MM-DD.
func (h *Handler) Schedule(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	appointments, err := h.scheduling.ScheduleForDate(c.Request.Context(), actor, actor.ID, c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) statusHandler(next model.AppointmentStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFromContext(c)

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			httputil.RespondWithError(c, errors.Validation("id", "invalid appointment id"))
			return
		}

		var req model.StatusChangeRequest
		if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
			httputil.RespondWithError(c, validator.BindError(err))
			return
		}

		apt, err := h.scheduling.SetStatus(c.Request.Context(), actor, id, next, req.Notes)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		httputil.RespondWithSuccess(c, apt)
	}
}

// UpdateSlots replaces the doctor's configured slot labels.
func (h *Handler) UpdateSlots(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	var req model.UpdateTimeSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, validator.BindError(err))
		return
	}

	if err := h.directory.SetDoctorSlots(c.Request.Context(), actor.ID, req.TimeSlots); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"available_time_slots": req.TimeSlots})
}

func (h *Handler) ListPredictions(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	preds, err := h.predictions.ListForDoctor(c.Request.Context(), actor, actor.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, preds)
}

func (h *Handler) ReviewPrediction(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("id", "invalid prediction id"))
		return
	}

	var req model.ReviewPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, validator.BindError(err))
		return
	}

	pred, err := h.predictions.Review(c.Request.Context(), actor, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, pred)
}

func (h *Handler) Dashboard(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	dash, err := h.reports.DoctorDashboard(c.Request.Context(), actor, actor.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, dash)
}
