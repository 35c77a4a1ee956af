package symptom

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medassist/telemed-api/internal/middleware"
	"github.com/medassist/telemed-api/internal/model"
	symptomService "github.com/medassist/telemed-api/internal/service/symptom"
	"github.com/medassist/telemed-api/pkg/httputil"
)

type Handler struct {
	service *symptomService.Service
}

func NewHandler(service *symptomService.Service) *Handler {
	return &Handler{service: service}
}

// Check handles a symptom submission. Authenticated callers get the check
// and prediction persisted; anonymous callers get an ephemeral result.
func (h *Handler) Check(c *gin.Context) {
	var req model.SubmitCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	var userID *uuid.UUID
	if id, ok := middleware.CurrentUserID(c); ok {
		userID = &id
	}

	result, err := h.service.Submit(c.Request.Context(), userID, req.Features)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, result)
}

func (h *Handler) History(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	history, err := h.service.History(c.Request.Context(), userID, page, perPage)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	totalPages := history.Total / history.PerPage
	if history.Total%history.PerPage != 0 {
		totalPages++
	}
	httputil.OK(c, httputil.PaginatedData{
		Items: history.Entries,
		Pagination: httputil.Pagination{
			Page:      history.Page,
			PerPage:   history.PerPage,
			Total:     history.Total,
			TotalPage: totalPages,
		},
	})
}

func (h *Handler) GetCheck(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	checkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid symptom check ID")
		return
	}

	entry, err := h.service.GetCheck(c.Request.Context(), userID, checkID)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, entry)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	r.POST("/symptom-checker", auth.OptionalAuthenticate(), h.Check)
	r.GET("/history", auth.Authenticate(), h.History)
	r.GET("/symptom-checks/:id", auth.Authenticate(), h.GetCheck)
}
