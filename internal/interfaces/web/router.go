package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/fahmidurshanto/custom-cms/internal/application/services"
	"github.com/fahmidurshanto/custom-cms/internal/config"
	"github.com/fahmidurshanto/custom-cms/internal/infrastructure/session"
	"github.com/fahmidurshanto/custom-cms/internal/interfaces/middleware"
)

// NewRouter wires the console routes. store holds the per-browser
// workspaces; it is created by the caller so tests can inspect it.
func NewRouter(cfg *config.Config, logger *logrus.Logger, console *services.Console, store *session.Store[*services.Workspace]) (*gin.Engine, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	static, err := staticFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to open static files: %w", err)
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxAttachmentBytes
	router.SetHTMLTemplate(tmpl)
	router.Use(middleware.WithLogger(logger, cfg.RequestIDHeader), middleware.Metrics())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"server":   "golang",
			"sessions": store.Len(),
		})
	})
	router.GET(cfg.MetricsPath, gin.WrapH(promhttp.Handler()))
	router.StaticFS("/static", http.FS(static))

	h := NewConsoleHandler(console, cfg.MaxAttachmentBytes)

	ui := router.Group("/", middleware.Session(store, cfg.SessionCookie, cfg.SessionTTL))
	{
		ui.GET("/", h.Index)
		ui.POST("/notifications/:id/dismiss", h.DismissNotification)
		ui.POST("/session/reset", middleware.ResetSession(store))
		ui.GET("/api/views/:entity", h.APIView)

		ui.GET("/:entity", h.Mount)
		ui.GET("/:entity/view", h.View)
		ui.GET("/:entity/new", h.New)
		ui.GET("/:entity/export", h.Export)
		ui.GET("/:entity/:id/edit", h.Edit)

		ui.POST("/:entity/search", h.Search)
		ui.POST("/:entity/page-size", h.PageSize)
		ui.POST("/:entity/form", h.Submit)
		ui.POST("/:entity/form/cancel", h.CancelForm)
		ui.POST("/:entity/:id/delete", h.RequestDelete)
		ui.POST("/:entity/delete/confirm", h.ConfirmDelete)
		ui.POST("/:entity/delete/cancel", h.CancelDelete)
		ui.POST("/:entity/delete/dismiss", h.DismissDelete)
	}

	return router, nil
}
