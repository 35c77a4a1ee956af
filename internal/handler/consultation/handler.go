package consultation

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medassist/telemed-api/internal/middleware"
	"github.com/medassist/telemed-api/internal/model"
	consultationService "github.com/medassist/telemed-api/internal/service/consultation"
	"github.com/medassist/telemed-api/pkg/httputil"
)

type Handler struct {
	service *consultationService.Service
}

func NewHandler(service *consultationService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Book(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req model.BookConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	consultation, err := h.service.Book(c.Request.Context(), userID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.Created(c, consultation)
}

func (h *Handler) List(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	consultations, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, consultations)
}

func (h *Handler) Get(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid consultation ID")
		return
	}

	consultation, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, consultation)
}

func (h *Handler) Join(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid consultation ID")
		return
	}

	join, err := h.service.Join(c.Request.Context(), userID, id)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, join)
}

func (h *Handler) Complete(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid consultation ID")
		return
	}

	consultation, err := h.service.Complete(c.Request.Context(), userID, id)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, consultation)
}

func (h *Handler) Cancel(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid consultation ID")
		return
	}

	consultation, err := h.service.Cancel(c.Request.Context(), userID, id)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, consultation)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.service.ListActiveDoctors(c.Request.Context())
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, doctors)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	r.GET("/doctors", auth.Authenticate(), h.ListDoctors)

	consultations := r.Group("/consultations", auth.Authenticate())
	{
		consultations.POST("", h.Book)
		consultations.GET("", h.List)
		consultations.GET("/:id", h.Get)
		consultations.POST("/:id/join", h.Join)
		consultations.POST("/:id/complete", h.Complete)
		consultations.POST("/:id/cancel", h.Cancel)
	}
}
