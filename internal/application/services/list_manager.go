package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fahmidurshanto/custom-cms/internal/domain/ports"
	"github.com/fahmidurshanto/custom-cms/pkg/constants"
	apperrors "github.com/fahmidurshanto/custom-cms/pkg/errors"
	"github.com/fahmidurshanto/custom-cms/pkg/models"
)

// ErrStaleResult marks a result that arrived after a newer mount of the
// same list and was therefore discarded.
var ErrStaleResult = errors.New("result belongs to a previous mount")

// ListSnapshot is a consistent copy of a list's state for rendering.
type ListSnapshot[T any] struct {
	Mounted    bool
	Generation uint64
	Visible    []T
	Filter     string
	Page       int
	PageCount  int
	PageSize   int
	Total      int
	Window     PageWindow
	Form       FormSnapshot
	Confirm    ConfirmSnapshot
	Lookups    map[string][]T
}

// ListManagerOptions configures a ListManager.
type ListManagerOptions[T any] struct {
	Schema             *models.EntitySchema
	Gateway            ports.CollectionGateway[T]
	Adapter            EntityAdapter[T]
	Lookups            map[string]ports.CollectionGateway[T]
	Validator          *FieldValidator
	Notifications      *Notifications
	PageSize           int
	MaxAttachmentBytes int64
	Logger             logrus.FieldLogger
}

// ListManager composes the controller, form and confirmation flow of one
// entity list over a remote collection. State is guarded by a mutex that
// is released during network calls, so concurrent mutations are allowed
// and the last completed refetch wins.
type ListManager[T any] struct {
	mu sync.Mutex

	schema     *models.EntitySchema
	gateway    ports.CollectionGateway[T]
	lookupGWs  map[string]ports.CollectionGateway[T]
	adapter    EntityAdapter[T]
	validator  *FieldValidator
	notices    *Notifications
	pageSize   int
	maxBytes   int64
	logger     logrus.FieldLogger
	controller *ListController[T]
	form       *MutationForm
	confirm    *ConfirmationFlow
	lookups    map[string][]T
	generation uint64
	mounted    bool
}

func NewListManager[T any](opts ListManagerOptions[T]) *ListManager[T] {
	if opts.Notifications == nil {
		opts.Notifications = NewNotifications()
	}
	if opts.Validator == nil {
		opts.Validator = NewFieldValidator(nil, nil)
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	m := &ListManager[T]{
		schema:    opts.Schema,
		gateway:   opts.Gateway,
		lookupGWs: opts.Lookups,
		adapter:   opts.Adapter,
		validator: opts.Validator,
		notices:   opts.Notifications,
		pageSize:  opts.PageSize,
		maxBytes:  opts.MaxAttachmentBytes,
		logger:    opts.Logger.WithField(constants.LogFieldEntity, opts.Schema.APIName),
	}
	m.resetLocked()
	return m
}

func (m *ListManager[T]) resetLocked() {
	m.controller = NewListController(m.pageSize, m.adapter.Fields)
	m.form = NewMutationForm(m.schema, m.validator, m.maxBytes)
	m.confirm = NewConfirmationFlow()
	m.lookups = map[string][]T{}
	m.mounted = false
}

// Schema returns the entity schema.
func (m *ListManager[T]) Schema() *models.EntitySchema {
	return m.schema
}

// Mount starts a fresh view: the state is reset, the collection and every
// lookup collection are fetched in parallel. A failing main list is
// returned; failing lookups only notify, leaving references unresolved.
// If a newer mount started meanwhile the result is dropped and
// ErrStaleResult returned.
func (m *ListManager[T]) Mount(ctx context.Context) error {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.resetLocked()
	m.mu.Unlock()

	var (
		g         errgroup.Group
		records   []T
		names     = make([]string, 0, len(m.lookupGWs))
		lookupRes = make([][]T, len(m.lookupGWs))
		lookupErr = make([]error, len(m.lookupGWs))
	)
	for name := range m.lookupGWs {
		names = append(names, name)
	}

	g.Go(func() error {
		var err error
		records, err = m.gateway.List(ctx)
		return err
	})
	for i, name := range names {
		i, gw := i, m.lookupGWs[name]
		g.Go(func() error {
			lookupRes[i], lookupErr[i] = gw.List(ctx)
			return nil
		})
	}
	err := g.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		m.logger.WithField("generation", gen).Debug("discarding stale mount result")
		return ErrStaleResult
	}
	if err != nil {
		m.logger.WithError(err).Warn("failed to load list")
		return err
	}

	m.controller.SetCollection(records)
	for i, name := range names {
		if lookupErr[i] != nil {
			m.logger.WithError(lookupErr[i]).WithField("lookup", name).Warn("failed to load lookup collection")
			m.notices.Error(fmt.Sprintf("Could not load %s: %s", name, UserMessage(lookupErr[i])))
			continue
		}
		m.lookups[name] = lookupRes[i]
	}
	m.mounted = true
	return nil
}

// EnsureMounted mounts the list unless it already holds a snapshot.
func (m *ListManager[T]) EnsureMounted(ctx context.Context) error {
	m.mu.Lock()
	mounted := m.mounted
	m.mu.Unlock()
	if mounted {
		return nil
	}
	return m.Mount(ctx)
}

func (m *ListManager[T]) SetFilter(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.controller.SetFilter(query)
}

func (m *ListManager[T]) SetPageSize(n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controller.SetPageSize(n)
}

func (m *ListManager[T]) SetPage(p int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.controller.SetPage(p)
}

// Filtered returns every record matching the current filter.
func (m *ListManager[T]) Filtered() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controller.Filtered()
}

// Collection returns the raw snapshot.
func (m *ListManager[T]) Collection() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controller.Collection()
}

func (m *ListManager[T]) findLocked(id string) (T, bool) {
	for _, rec := range m.controller.Collection() {
		if m.adapter.Key(rec) == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// OpenCreate opens an empty form.
func (m *ListManager[T]) OpenCreate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form.OpenCreate()
}

// OpenEdit opens the form seeded from the record with the given id.
func (m *ListManager[T]) OpenEdit(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.findLocked(id)
	if !ok {
		return apperrors.NewNotFoundError(m.schema.Label, id)
	}
	m.form.OpenEdit(id, m.adapter.Seed(rec))
	return nil
}

// CancelForm closes the form and drops the draft.
func (m *ListManager[T]) CancelForm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form.Close()
}

// SubmitForm validates the open draft and sends it. Validation failures
// never reach the gateway. On success the collection is replaced by a
// fresh list and the form closes; on failure the form and draft stay and
// the collection is untouched.
func (m *ListManager[T]) SubmitForm(ctx context.Context, input FormInput) (T, error) {
	var zero T

	m.mu.Lock()
	if !m.form.IsOpen() {
		m.mu.Unlock()
		return zero, apperrors.NewValidationError("", "form is not open")
	}
	// rejected attachments come back again from Validate, merged with
	// the schema errors
	if err := m.form.Apply(input); err != nil && !apperrors.IsValidation(err) {
		m.mu.Unlock()
		return zero, err
	}
	if err := m.form.Validate(); err != nil {
		m.mu.Unlock()
		return zero, err
	}
	draft := m.form.Draft().Clone()
	gen := m.generation
	m.mu.Unlock()

	var (
		saved T
		err   error
	)
	if draft.IsEdit() {
		saved, err = m.gateway.Update(ctx, draft.ID, draft)
	} else {
		saved, err = m.gateway.Create(ctx, draft)
	}
	if err != nil {
		m.logger.WithError(err).WithField("mode", draft.Mode).Warn("failed to save record")
		m.notices.Error(UserMessage(err))
		return zero, err
	}

	records, listErr := m.gateway.List(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	verb := "added"
	if draft.IsEdit() {
		verb = "updated"
	}
	if gen != m.generation {
		m.notices.Success(fmt.Sprintf("%s %s", m.schema.Label, verb))
		return saved, ErrStaleResult
	}

	// the write is committed, so the draft goes even when the refetch fails
	if current := m.form.Draft(); current != nil && current.Mode == draft.Mode && current.ID == draft.ID {
		m.form.Close()
	}
	if listErr != nil {
		m.logger.WithError(listErr).Warn("failed to refresh list after save")
		m.notices.Error(fmt.Sprintf("%s %s, but the list could not be refreshed: %s", m.schema.Label, verb, UserMessage(listErr)))
		return saved, listErr
	}
	m.controller.SetCollection(records)
	m.notices.Success(fmt.Sprintf("%s %s", m.schema.Label, verb))
	return saved, nil
}

// RequestDelete asks for confirmation before removing id, replacing any
// pending request.
func (m *ListManager[T]) RequestDelete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.findLocked(id)
	if !ok {
		return apperrors.NewNotFoundError(m.schema.Label, id)
	}
	return m.confirm.Request(id, m.adapter.Display(rec))
}

// ConfirmDelete removes the pending record and refetches. Any failure
// keeps the confirmation pending so the user can confirm again.
func (m *ListManager[T]) ConfirmDelete(ctx context.Context) error {
	m.mu.Lock()
	id, pending := m.confirm.Target()
	gen := m.generation
	m.mu.Unlock()
	if !pending {
		return apperrors.NewValidationError("", "nothing is awaiting confirmation")
	}

	var (
		records []T
		notice  string
	)
	err := m.gateway.Remove(ctx, id)
	if err != nil {
		notice = UserMessage(err)
	} else if records, err = m.gateway.List(ctx); err != nil {
		notice = fmt.Sprintf("%s deleted, but the list could not be refreshed: %s", m.schema.Label, UserMessage(err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		if err == nil {
			m.notices.Success(fmt.Sprintf("%s deleted successfully", m.schema.Label))
		}
		return ErrStaleResult
	}
	if err != nil {
		m.logger.WithError(err).WithField("id", id).Warn("failed to delete record")
		m.notices.Error(notice)
		_ = m.confirm.Fail(id, errors.New(notice))
		return err
	}
	m.controller.SetCollection(records)
	_ = m.confirm.Succeed(id)
	m.notices.Success(fmt.Sprintf("%s deleted successfully", m.schema.Label))
	return nil
}

// CancelDelete returns the flow to Idle without any network call.
func (m *ListManager[T]) CancelDelete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.confirm.Cancel()
}

// DismissDelete closes the prompt without choosing.
func (m *ListManager[T]) DismissDelete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.confirm.Dismiss()
}

// Snapshot copies everything a page needs.
func (m *ListManager[T]) Snapshot() ListSnapshot[T] {
	m.mu.Lock()
	defer m.mu.Unlock()

	lookups := make(map[string][]T, len(m.lookups))
	for k, v := range m.lookups {
		lookups[k] = v
	}
	return ListSnapshot[T]{
		Mounted:    m.mounted,
		Generation: m.generation,
		Visible:    m.controller.VisibleSlice(),
		Filter:     m.controller.Filter(),
		Page:       m.controller.Page(),
		PageCount:  m.controller.PageCount(),
		PageSize:   m.controller.PageSize(),
		Total:      m.controller.Total(),
		Window:     m.controller.Window(),
		Form:       m.form.Snapshot(),
		Confirm:    m.confirm.Snapshot(),
		Lookups:    lookups,
	}
}

// UserMessage is the text a notification shows for an error: the
// backend's own message when it sent one, a connectivity hint for
// transport failures and a generic fallback otherwise.
func UserMessage(err error) string {
	var se *apperrors.ServerError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	if apperrors.IsNetwork(err) {
		return "Could not reach the server. Check your connection and try again."
	}
	if apperrors.IsNotFound(err) {
		return "The record no longer exists"
	}
	if v := apperrors.AsValidation(err); v != nil {
		return v.Message
	}
	return "Operation failed"
}
