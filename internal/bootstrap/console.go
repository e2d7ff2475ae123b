package bootstrap

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fahmidurshanto/custom-cms/internal/application/services"
	"github.com/fahmidurshanto/custom-cms/internal/config"
	"github.com/fahmidurshanto/custom-cms/internal/infrastructure/gateway"
	"github.com/fahmidurshanto/custom-cms/pkg/expression"
	"github.com/fahmidurshanto/custom-cms/pkg/models"
	"github.com/fahmidurshanto/custom-cms/pkg/validator"
)

// InitializeConsole loads and checks the entity catalog and binds every
// entity to a gateway on the configured backend. Catalog violations are
// fatal: a broken schema would only surface later as a confusing form.
func InitializeConsole(cfg *config.Config, logger logrus.FieldLogger) (*services.Console, error) {
	schemas, err := LoadSchemas()
	if err != nil {
		return nil, err
	}
	return NewConsole(cfg, schemas, logger)
}

// NewConsole builds a console over the given schemas.
func NewConsole(cfg *config.Config, schemas []*models.EntitySchema, logger logrus.FieldLogger) (*services.Console, error) {
	validators := validator.GetRegistry()
	rules := expression.NewEngine()

	if violations := CheckSchemas(schemas, validators, rules); len(violations) > 0 {
		lines := make([]string, len(violations))
		for i, v := range violations {
			logger.WithField("violation", v.String()).Error("entity catalog violation")
			lines[i] = v.String()
		}
		return nil, fmt.Errorf("entity catalog has %d violation(s): %s", len(violations), strings.Join(lines, "; "))
	}

	client := gateway.NewClient(cfg.APIBaseURL, cfg.HTTPClientTimeout, logger)
	client.RequestIDHeader = cfg.RequestIDHeader

	entities := make([]services.Entity, 0, len(schemas))
	for _, s := range schemas {
		entities = append(entities, services.Entity{
			Schema:  s,
			Gateway: gateway.NewRecordCollection(client, s.Resource, cfg.IDField, ListFields(s)...),
		})
		logger.WithField("entity", s.APIName).Debug("entity registered")
	}
	logger.WithField("count", len(entities)).Info("entity catalog loaded")

	return services.NewConsole(entities, services.ConsoleOptions{
		IDField:            cfg.IDField,
		PageSize:           cfg.DefaultPageSize,
		MaxAttachmentBytes: cfg.MaxAttachmentBytes,
		Validator:          services.NewFieldValidator(validators, rules),
		Logger:             logger,
	}), nil
}
