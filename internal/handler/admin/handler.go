package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medassist/telemed-api/internal/middleware"
	"github.com/medassist/telemed-api/internal/model"
	userService "github.com/medassist/telemed-api/internal/service/user"
	"github.com/medassist/telemed-api/pkg/httputil"
)

type Handler struct {
	userSvc *userService.Service
}

func NewHandler(userSvc *userService.Service) *Handler {
	return &Handler{userSvc: userSvc}
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, users)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid user ID")
		return
	}

	user, err := h.userSvc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid user ID")
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	user, err := h.userSvc.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, user)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.userSvc.ListDoctors(c.Request.Context())
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, doctors)
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	doctor, err := h.userSvc.CreateDoctor(c.Request.Context(), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, doctor)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid doctor ID")
		return
	}

	doctor, err := h.userSvc.GetDoctor(c.Request.Context(), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, doctor)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid doctor ID")
		return
	}

	var req model.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	doctor, err := h.userSvc.UpdateDoctor(c.Request.Context(), id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, doctor)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	admin := r.Group("/admin", auth.Authenticate(), auth.RequireAdmin())
	{
		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.GetUser)
		admin.PUT("/users/:id", h.UpdateUser)
		admin.GET("/doctors", h.ListDoctors)
		admin.POST("/doctors", h.CreateDoctor)
		admin.GET("/doctors/:id", h.GetDoctor)
		admin.PUT("/doctors/:id", h.UpdateDoctor)
	}
}
