package services

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fahmidurshanto/custom-cms/internal/domain/ports"
	apperrors "github.com/fahmidurshanto/custom-cms/pkg/errors"
	"github.com/fahmidurshanto/custom-cms/pkg/models"
)

// Entity pairs a schema with the gateway of its remote resource.
type Entity struct {
	Schema  *models.EntitySchema
	Gateway ports.CollectionGateway[models.Record]
}

// ConsoleOptions are the process-wide list settings.
type ConsoleOptions struct {
	IDField            string
	PageSize           int
	MaxAttachmentBytes int64
	Validator          *FieldValidator
	Logger             logrus.FieldLogger
}

// Console holds the entity catalog shared by every workspace.
type Console struct {
	entities map[string]Entity
	order    []string
	opts     ConsoleOptions
}

func NewConsole(entities []Entity, opts ConsoleOptions) *Console {
	if opts.Validator == nil {
		opts.Validator = NewFieldValidator(nil, nil)
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	c := &Console{
		entities: make(map[string]Entity, len(entities)),
		opts:     opts,
	}
	for _, e := range entities {
		c.entities[e.Schema.APIName] = e
		c.order = append(c.order, e.Schema.APIName)
	}
	return c
}

// IDField is the canonical identifier field.
func (c *Console) IDField() string {
	return c.opts.IDField
}

// Schemas returns the schemas in catalog order.
func (c *Console) Schemas() []*models.EntitySchema {
	out := make([]*models.EntitySchema, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.entities[name].Schema)
	}
	return out
}

// Schema looks an entity up by API name.
func (c *Console) Schema(name string) (*models.EntitySchema, bool) {
	e, ok := c.entities[name]
	return e.Schema, ok
}

// Lookups indexes the lookup collections of a snapshot for rendering.
func (c *Console) Lookups(snap ListSnapshot[models.Record]) map[string]Lookup {
	out := make(map[string]Lookup, len(snap.Lookups))
	for name, records := range snap.Lookups {
		if e, ok := c.entities[name]; ok {
			out[name] = NewLookup(e.Schema, c.opts.IDField, records)
		}
	}
	return out
}

// TableView builds the rendered table of a snapshot.
func (c *Console) TableView(schema *models.EntitySchema, snap ListSnapshot[models.Record]) TableView {
	return BuildTableView(schema, c.opts.IDField, snap, c.Lookups(snap))
}

// NewWorkspace creates the view state of one browser session.
func (c *Console) NewWorkspace(id string) *Workspace {
	return &Workspace{
		id:      id,
		console: c,
		notices: NewNotifications(),
		lists:   map[string]*ListManager[models.Record]{},
		logger:  c.opts.Logger.WithField("session", id),
	}
}

// Workspace is one session's set of lists and its notifications.
type Workspace struct {
	id      string
	console *Console
	notices *Notifications
	logger  logrus.FieldLogger

	mu    sync.Mutex
	lists map[string]*ListManager[models.Record]
}

func (w *Workspace) ID() string {
	return w.id
}

func (w *Workspace) Notifications() *Notifications {
	return w.notices
}

// List returns the list manager of an entity, creating it on first use.
func (w *Workspace) List(entity string) (*ListManager[models.Record], error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if m, ok := w.lists[entity]; ok {
		return m, nil
	}
	e, ok := w.console.entities[entity]
	if !ok {
		return nil, apperrors.NewNotFoundError("entity", entity)
	}

	lookups := map[string]ports.CollectionGateway[models.Record]{}
	for _, ref := range e.Schema.References() {
		if target, ok := w.console.entities[ref]; ok {
			lookups[ref] = target.Gateway
		}
	}

	opts := w.console.opts
	m := NewListManager(ListManagerOptions[models.Record]{
		Schema:             e.Schema,
		Gateway:            e.Gateway,
		Adapter:            NewRecordAdapter(e.Schema, opts.IDField),
		Lookups:            lookups,
		Validator:          opts.Validator,
		Notifications:      w.notices,
		PageSize:           opts.PageSize,
		MaxAttachmentBytes: opts.MaxAttachmentBytes,
		Logger:             w.logger,
	})
	w.lists[entity] = m
	return m, nil
}
