package web

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fahmidurshanto/custom-cms/internal/application/services"
	"github.com/fahmidurshanto/custom-cms/internal/interfaces/middleware"
	"github.com/fahmidurshanto/custom-cms/pkg/constants"
	apperrors "github.com/fahmidurshanto/custom-cms/pkg/errors"
	"github.com/fahmidurshanto/custom-cms/pkg/models"
)

// ConsoleHandler serves the entity list pages. Every handler works on the
// caller's workspace; pages are re-rendered from the list snapshot and only
// mount, submit and delete talk to the backend.
type ConsoleHandler struct {
	console  *services.Console
	maxBytes int64
}

func NewConsoleHandler(console *services.Console, maxAttachmentBytes int64) *ConsoleHandler {
	if maxAttachmentBytes <= 0 {
		maxAttachmentBytes = constants.DefaultMaxAttachmentBytes
	}
	return &ConsoleHandler{console: console, maxBytes: maxAttachmentBytes}
}

func (h *ConsoleHandler) notices(c *gin.Context) []services.Notification {
	ws := middleware.GetWorkspace(c)
	if ws == nil {
		return nil
	}
	return ws.Notifications().List()
}

// notify shows err as a dismissible notification.
func (h *ConsoleHandler) notify(c *gin.Context, err error) {
	if ws := middleware.GetWorkspace(c); ws != nil {
		ws.Notifications().Error(services.UserMessage(err))
	}
}

func (h *ConsoleHandler) page(c *gin.Context, title string) page {
	return page{
		Title:     title,
		Entities:  h.console.Schemas(),
		Notices:   h.notices(c),
		RequestID: middleware.GetRequestID(c),
	}
}

// fail answers err as JSON for API callers and as an error page otherwise.
func (h *ConsoleHandler) fail(c *gin.Context, err error, retryURL string) {
	if wantsJSON(c) {
		RespondAppError(c, err)
		return
	}
	h.RenderErrorPage(c, err, retryURL)
}

// list resolves the list manager of the :entity parameter. It answers the
// request itself when that fails.
func (h *ConsoleHandler) list(c *gin.Context) (*services.ListManager[models.Record], bool) {
	ws := middleware.GetWorkspace(c)
	if ws == nil {
		RespondAppError(c, apperrors.NewInternalError("session workspace missing", nil))
		return nil, false
	}
	m, err := ws.List(c.Param(constants.ParamEntity))
	if err != nil {
		h.fail(c, err, "/")
		return nil, false
	}
	return m, true
}

// ensureMounted loads the list when the workspace has no snapshot yet, for
// example after a restart dropped the session.
func (h *ConsoleHandler) ensureMounted(c *gin.Context, m *services.ListManager[models.Record]) bool {
	err := m.EnsureMounted(c.Request.Context())
	if err != nil && !errors.Is(err, services.ErrStaleResult) {
		h.fail(c, err, "/"+m.Schema().APIName)
		return false
	}
	return true
}

// referenceOptions turns the lookup collections into choices, by name.
func (h *ConsoleHandler) referenceOptions(snap services.ListSnapshot[models.Record]) map[string][]option {
	out := map[string][]option{}
	for name, lookup := range h.console.Lookups(snap) {
		opts := make([]option, 0, len(lookup.Names))
		for id, label := range lookup.Names {
			opts = append(opts, option{Value: id, Label: label})
		}
		sort.Slice(opts, func(i, j int) bool {
			if opts[i].Label == opts[j].Label {
				return opts[i].Value < opts[j].Value
			}
			return opts[i].Label < opts[j].Label
		})
		out[name] = opts
	}
	return out
}

func (h *ConsoleHandler) renderList(c *gin.Context, m *services.ListManager[models.Record], status int) {
	snap := m.Snapshot()
	view := h.console.TableView(m.Schema(), snap)
	if wantsJSON(c) {
		c.JSON(status, gin.H{
			"view":          view,
			"mounted":       snap.Mounted,
			"notifications": h.notices(c),
		})
		return
	}
	p := h.page(c, m.Schema().PluralLabel)
	p.Active = m.Schema().APIName
	p.Schema = m.Schema()
	p.View = &view
	p.Options = h.referenceOptions(snap)
	c.HTML(status, "list.html", p)
}

// done finishes a state-changing request: API callers get the view or the
// error, browsers are redirected to the list where notifications and the
// form state show what happened.
func (h *ConsoleHandler) done(c *gin.Context, m *services.ListManager[models.Record], err error) {
	if wantsJSON(c) {
		if err != nil && !errors.Is(err, services.ErrStaleResult) {
			RespondAppError(c, err)
			return
		}
		h.renderList(c, m, http.StatusOK)
		return
	}
	redirectToView(c, m.Schema().APIName)
}

// Index handles GET /
func (h *ConsoleHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.page(c, "Dashboard"))
}

// Mount handles GET /:entity. It always refetches; a failing list becomes
// a full-page error with a retry link.
func (h *ConsoleHandler) Mount(c *gin.Context) {
	m, ok := h.list(c)
	if !ok {
		return
	}
	if err := m.Mount(c.Request.Context()); err != nil && !errors.Is(err, services.ErrStaleResult) {
		h.fail(c, err, c.Request.URL.Path)
		return
	}
	h.renderList(c, m, http.StatusOK)
}

// View handles GET /:entity/view?page=N, re-rendering from the snapshot.
func (h *ConsoleHandler) View(c *gin.Context) {
	m, ok := h.list(c)
	if !ok || !h.ensureMounted(c, m) {
		return
	}
	if p := c.Query(constants.ParamPage); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			h.fail(c, apperrors.NewValidationError(constants.ParamPage, "page must be a number"), "/"+m.Schema().APIName+"/view")
			return
		}
		m.SetPage(n)
	}
	h.renderList(c, m, http.StatusOK)
}

// Search handles POST /:entity/search
func (h *ConsoleHandler) Search(c *gin.Context) {
	m, ok := h.list(c)
	if !ok {
		return
	}
	m.SetFilter(c.PostForm(constants.ParamQuery))
	h.done(c, m, nil)
}

// PageSize handles POST /:entity/page-size
func (h *ConsoleHandler) PageSize(c *gin.Context) {
	m, ok := h.list(c)
	if !ok {
		return
	}
	raw := c.PostForm(constants.ParamPageSize)
	n, err := strconv.Atoi(raw)
	if err == nil {
		err = m.SetPageSize(n)
	} else {
		err = apperrors.NewValidationError(constants.ParamPageSize, "page size must be a number")
	}
	if err != nil && !wantsJSON(c) {
		h.notify(c, err)
	}
	h.done(c, m, err)
}

// New handles GET /:entity/new
func (h *ConsoleHandler) New(c *gin.Context) {
	m, ok := h.list(c)
	if !ok || !h.ensureMounted(c, m) {
		return
	}
	m.OpenCreate()
	h.renderList(c, m, http.StatusOK)
}

// Edit handles GET /:entity/:id/edit
func (h *ConsoleHandler) Edit(c *gin.Context) {
	m, ok := h.list(c)
	if !ok || !h.ensureMounted(c, m) {
		return
	}
	if err := m.OpenEdit(c.Param(constants.ParamID)); err != nil {
		if !wantsJSON(c) {
			h.notify(c, err)
		}
		h.done(c, m, err)
		return
	}
	h.renderList(c, m, http.StatusOK)
}

// Submit handles POST /:entity/form. Rejected drafts are rendered in place
// with 422; every other outcome follows done.
func (h *ConsoleHandler) Submit(c *gin.Context) {
	m, ok := h.list(c)
	if !ok {
		return
	}
	input, err := h.formInput(c, m.Schema())
	if err != nil {
		h.fail(c, err, "/"+m.Schema().APIName+"/view")
		return
	}

	_, err = m.SubmitForm(c.Request.Context(), input)
	if apperrors.IsValidation(err) && !wantsJSON(c) {
		h.renderList(c, m, http.StatusUnprocessableEntity)
		return
	}
	h.done(c, m, err)
}

// CancelForm handles POST /:entity/form/cancel
func (h *ConsoleHandler) CancelForm(c *gin.Context) {
	m, ok := h.list(c)
	if !ok {
		return
	}
	m.CancelForm()
	h.done(c, m, nil)
}

// RequestDelete handles POST /:entity/:id/delete
func (h *ConsoleHandler) RequestDelete(c *gin.Context) {
	m, ok := h.list(c)
	if !ok {
		return
	}
	err := m.RequestDelete(c.Param(constants.ParamID))
	if err != nil && !wantsJSON(c) {
		h.notify(c, err)
	}
	h.done(c, m, err)
}

// ConfirmDelete handles POST /:entity/delete/confirm
func (h *ConsoleHandler) ConfirmDelete(c *gin.Context) {
	m, ok := h.list(c)
	if !ok {
		return
	}
	err := m.ConfirmDelete(c.Request.Context())
	// gateway failures were already notified by the list
	if apperrors.IsValidation(err) && !wantsJSON(c) {
		h.notify(c, err)
	}
	h.done(c, m, err)
}

// CancelDelete handles POST /:entity/delete/cancel
func (h *ConsoleHandler) CancelDelete(c *gin.Context) {
	m, ok := h.list(c)
	if !ok {
		return
	}
	h.done(c, m, m.CancelDelete())
}

// DismissDelete handles POST /:entity/delete/dismiss
func (h *ConsoleHandler) DismissDelete(c *gin.Context) {
	m, ok := h.list(c)
	if !ok {
		return
	}
	h.done(c, m, m.DismissDelete())
}

// DismissNotification handles POST /notifications/:id/dismiss
func (h *ConsoleHandler) DismissNotification(c *gin.Context) {
	ws := middleware.GetWorkspace(c)
	if ws == nil {
		RespondAppError(c, apperrors.NewInternalError("session workspace missing", nil))
		return
	}
	id := c.Param(constants.ParamID)
	found := ws.Notifications().Dismiss(id)
	if wantsJSON(c) {
		if !found {
			RespondAppError(c, apperrors.NewNotFoundError("notification", id))
			return
		}
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, localPath(c.PostForm("return")))
}

// APIView handles GET /api/views/:entity: the current table as JSON,
// without fetching.
func (h *ConsoleHandler) APIView(c *gin.Context) {
	m, ok := h.list(c)
	if !ok {
		return
	}
	snap := m.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"view":          h.console.TableView(m.Schema(), snap),
		"mounted":       snap.Mounted,
		"notifications": h.notices(c),
	})
}

// formInput reads the submitted values of schema fields and any chosen
// files. Files are read up to one byte past the limit so oversize uploads
// are still recognised.
func (h *ConsoleHandler) formInput(c *gin.Context, schema *models.EntitySchema) (services.FormInput, error) {
	input := services.FormInput{
		Values: map[string]string{},
		Files:  map[string]*models.Attachment{},
	}
	if strings.HasPrefix(c.ContentType(), constants.ContentTypeMultipart) {
		if err := c.Request.ParseMultipartForm(h.maxBytes); err != nil {
			return input, apperrors.NewValidationError("", "the form could not be read: "+err.Error())
		}
	} else if err := c.Request.ParseForm(); err != nil {
		return input, apperrors.NewValidationError("", "the form could not be read: "+err.Error())
	}

	for _, f := range schema.Fields {
		if f.IsFile() {
			fh, err := c.FormFile(f.APIName)
			if err != nil || fh.Filename == "" {
				continue
			}
			att, err := h.readAttachment(fh)
			if err != nil {
				return input, apperrors.NewValidationError(f.APIName, f.Label+" could not be read")
			}
			input.Files[f.APIName] = att
			continue
		}
		if v, ok := c.GetPostForm(f.APIName); ok {
			input.Values[f.APIName] = v
		}
	}
	return input, nil
}

func (h *ConsoleHandler) readAttachment(fh *multipart.FileHeader) (*models.Attachment, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		return nil, err
	}
	return &models.Attachment{
		Filename: fh.Filename,
		Size:     int64(len(data)),
		Data:     data,
	}, nil
}

// localPath keeps redirects on this site.
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}
