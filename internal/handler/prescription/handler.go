package prescription

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medassist/telemed-api/internal/middleware"
	"github.com/medassist/telemed-api/internal/model"
	prescriptionService "github.com/medassist/telemed-api/internal/service/prescription"
	"github.com/medassist/telemed-api/pkg/httputil"
)

type Handler struct {
	service *prescriptionService.Service
}

func NewHandler(service *prescriptionService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	prescription, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.Created(c, prescription)
}

func (h *Handler) Get(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid prescription ID")
		return
	}

	prescription, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, prescription)
}

func (h *Handler) Update(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid prescription ID")
		return
	}

	var req model.UpdatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	prescription, err := h.service.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, prescription)
}

func (h *Handler) List(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	prescriptions, err := h.service.ListForPatient(c.Request.Context(), userID)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, prescriptions)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	prescriptions := r.Group("/prescriptions", auth.Authenticate())
	{
		prescriptions.POST("", h.Create)
		prescriptions.GET("", h.List)
		prescriptions.GET("/:id", h.Get)
		prescriptions.PUT("/:id", h.Update)
	}
}
