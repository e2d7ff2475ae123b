package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fahmidurshanto/custom-cms/internal/application/services"
	"github.com/fahmidurshanto/custom-cms/internal/interfaces/middleware"
	"github.com/fahmidurshanto/custom-cms/pkg/constants"
	apperrors "github.com/fahmidurshanto/custom-cms/pkg/errors"
)

// RespondAppError sends a standardised JSON error response using pkg/errors
func RespondAppError(c *gin.Context, err error) {
	code := apperrors.GetHTTPStatus(err)
	if code >= http.StatusInternalServerError {
		middleware.GetLogger(c).WithError(err).WithField(constants.LogFieldStatus, code).Error("request failed")
	}
	c.JSON(code, apperrors.ToResponse(err))
}

// RenderErrorPage paints the full-page error with a retry link.
func (h *ConsoleHandler) RenderErrorPage(c *gin.Context, err error, retryURL string) {
	code := apperrors.GetHTTPStatus(err)
	if code >= http.StatusInternalServerError {
		middleware.GetLogger(c).WithError(err).WithField(constants.LogFieldStatus, code).Error("request failed")
	}
	message := services.UserMessage(err)
	if apperrors.IsNotFound(err) {
		message = err.Error()
	}
	c.HTML(code, "error.html", page{
		Title:     http.StatusText(code),
		Entities:  h.console.Schemas(),
		Notices:   h.notices(c),
		RequestID: middleware.GetRequestID(c),
		Status:    code,
		Error:     message,
		RetryURL:  retryURL,
	})
}

// wantsJSON reports whether the caller asked for JSON instead of a page.
func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader(constants.HeaderAccept), constants.ContentTypeJSON)
}

// redirectToView finishes a POST with a redirect to the list view.
func redirectToView(c *gin.Context, entity string) {
	c.Redirect(http.StatusSeeOther, "/"+entity+"/view")
}
