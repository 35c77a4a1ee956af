package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medassist/telemed-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Pagination represents pagination metadata
type Pagination struct {
	Page      int `json:"page"`
	PerPage   int `json:"per_page"`
	Total     int `json:"total"`
	TotalPage int `json:"total_pages"`
}

// PaginatedData wraps paginated list payloads
type PaginatedData struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Status: "success", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Status: "success", Data: data})
}

// Error maps an error to its HTTP status; unknown errors become 500
// with a generic message so internals never leak.
func Error(c *gin.Context, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		c.JSON(appErr.StatusCode(), Response{Status: "error", Message: appErr.Message})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, Response{Status: "error", Message: "internal server error"})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Status: "error", Message: message})
}
