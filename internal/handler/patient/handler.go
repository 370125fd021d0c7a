package patient

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

// Handler is the patient-facing surface: browsing doctors, booking, and
// scan predictions.
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
	r.GET("/doctors", h.ListDoctors)
	r.GET("/doctors/:id/slots", h.DoctorSlots)
	r.POST("/appointments", h.BookAppointment)
	r.GET("/appointments", h.ListAppointments)
	r.GET("/appointments/:id", h.GetAppointment)
	r.POST("/appointments/:id/cancel", h.CancelAppointment)
	r.POST("/predictions", h.CreatePrediction)
	r.GET("/predictions", h.ListPredictions)
	r.GET("/predictions/:id", h.GetPrediction)
	r.GET("/dashboard", h.Dashboard)
}

// ListDoctors is the bookable-doctor directory.
func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.directory.ListApprovedDoctors(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

// DoctorSlots returns the free slots for one doctor on ?date=YYYY-MM-DD.
func (h *Handler) DoctorSlots(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("id", "invalid doctor id"))
		return
	}

	slots, err := h.scheduling.AvailableSlots(c.Request.Context(), doctorID, c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"available_slots": slots})
}

func (h *Handler) BookAppointment(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, validator.BindError(err))
		return
	}

	apt, err := h.scheduling.Book(c.Request.Context(), actor.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, apt)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	appointments, err := h.scheduling.ListForPatient(c.Request.Context(), actor, actor.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("id", "invalid appointment id"))
		return
	}

	apt, err := h.scheduling.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
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

	apt, err := h.scheduling.SetStatus(c.Request.Context(), actor, id, model.AppointmentStatusCancelled, req.Notes)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) CreatePrediction(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	var req model.CreatePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, validator.BindError(err))
		return
	}

	pred, err := h.predictions.Create(c.Request.Context(), actor, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, pred)
}

func (h *Handler) ListPredictions(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	preds, err := h.predictions.ListForPatient(c.Request.Context(), actor, actor.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, preds)
}

func (h *Handler) GetPrediction(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("id", "invalid prediction id"))
		return
	}

	pred, err := h.predictions.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, pred)
}

func (h *Handler) Dashboard(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	dash, err := h.reports.PatientDashboard(c.Request.Context(), actor, actor.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, dash)
}
