package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/medassist/telemed-api/internal/middleware"
	"github.com/medassist/telemed-api/internal/model"
	authService "github.com/medassist/telemed-api/internal/service/auth"
	userService "github.com/medassist/telemed-api/internal/service/user"
	"github.com/medassist/telemed-api/pkg/httputil"
)

type Handler struct {
	authSvc *authService.Service
	userSvc *userService.Service
}

func NewHandler(authSvc *authService.Service, userSvc *userService.Service) *Handler {
	return &Handler{authSvc: authSvc, userSvc: userSvc}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	tokens, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.Created(c, tokens)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	tokens, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, tokens)
}

func (h *Handler) Me(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	httputil.OK(c, user)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	user, err := h.userSvc.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, user)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	routes := r.Group("/auth")
	{
		routes.POST("/register", h.Register)
		routes.POST("/login", h.Login)
		routes.GET("/me", auth.Authenticate(), h.Me)
		routes.PUT("/me", auth.Authenticate(), h.UpdateMe)
	}
}
