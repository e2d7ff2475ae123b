package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fahmidurshanto/custom-cms/internal/application/services"
	"github.com/fahmidurshanto/custom-cms/internal/infrastructure/session"
	"github.com/fahmidurshanto/custom-cms/pkg/constants"
	"github.com/fahmidurshanto/custom-cms/pkg/utils"
)

// ContextKeyWorkspace is where Session stores the workspace.
const ContextKeyWorkspace = "workspace"

// Session resolves the browser's workspace from its cookie, issuing a new
// cookie when it is missing or malformed. The cookie only names view
// state; it grants nothing.
func Session(store *session.Store[*services.Workspace], cookieName string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || !utils.IsValidID(id) {
			id = utils.NewID()
		}
		if _, ok := store.Lookup(id); !ok {
			GetLogger(c).WithField(constants.LogFieldSessionID, id).Debug("Starting new workspace")
		}
		ws := store.Get(id)

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, id, int(ttl.Seconds()), "/", "", false, true)
		c.Set(constants.ContextKeySessionID, id)
		c.Set(ContextKeyWorkspace, ws)
		c.Next()
	}
}

// ResetSession drops the browser's workspace so the next request starts
// from a fresh one under the same cookie.
func ResetSession(store *session.Store[*services.Workspace]) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetString(constants.ContextKeySessionID); id != "" {
			store.Delete(id)
			GetLogger(c).WithField(constants.LogFieldSessionID, id).Info("Workspace reset")
		}
		c.Redirect(http.StatusSeeOther, "/")
	}
}

// GetWorkspace returns the workspace set by Session.
func GetWorkspace(c *gin.Context) *services.Workspace {
	if v, ok := c.Get(ContextKeyWorkspace); ok {
		if ws, ok := v.(*services.Workspace); ok {
			return ws
		}
	}
	return nil
}
