package bootstrap

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahmidurshanto/custom-cms/internal/config"
	"github.com/fahmidurshanto/custom-cms/pkg/expression"
	"github.com/fahmidurshanto/custom-cms/pkg/models"
	"github.com/fahmidurshanto/custom-cms/pkg/validator"
)

func TestEmbeddedCatalogIsConsistent(t *testing.T) {
	schemas, err := LoadSchemas()
	require.NoError(t, err)

	var names []string
	for _, s := range schemas {
		names = append(names, s.APIName)
	}
	assert.Equal(t, []string{"students", "vendors", "locations", "employees", "courses", "batches", "certifications", "e-marketing"}, names)

	violations := CheckSchemas(schemas, validator.GetRegistry(), expression.NewEngine())
	assert.Empty(t, violations)
}

func TestEmbeddedCatalogReferences(t *testing.T) {
	schemas, err := LoadSchemas()
	require.NoError(t, err)

	refs := map[string][]string{}
	for _, s := range schemas {
		if r := s.References(); len(r) > 0 {
			refs[s.APIName] = r
		}
	}
	assert.Equal(t, map[string][]string{
		"students":  {"vendors"},
		"employees": {"vendors"},
		"batches":   {"courses"},
	}, refs)
}

func TestEmployeeNoteAndPhotoRules(t *testing.T) {
	schemas, err := LoadSchemas()
	require.NoError(t, err)

	var employees *models.EntitySchema
	for _, s := range schemas {
		if s.APIName == "employees" {
			employees = s
		}
	}
	require.NotNil(t, employees)

	note, ok := employees.Field("note")
	require.True(t, ok)
	require.NotNil(t, note.MinLength)
	assert.Equal(t, 200, *note.MinLength)

	photo, ok := employees.Field("photo")
	require.True(t, ok)
	assert.True(t, photo.RequiredOnCreate)
	assert.False(t, photo.Required)
	assert.True(t, employees.HasAttachments())
}

func TestCheckSchemasReportsViolations(t *testing.T) {
	schemas, err := ParseSchemas([]byte(`[
		{"api_name": "a", "resource": "a/b", "name_field": "missing",
		 "fields": [
			{"api_name": "x", "type": "text"},
			{"api_name": "x", "type": "blob"},
			{"api_name": "r", "type": "reference", "reference_to": "nowhere"},
			{"api_name": "s", "type": "select"},
			{"api_name": "v", "type": "text", "validator": "nope"},
			{"api_name": "e", "type": "text", "rule": "LEN(value >= "}
		 ],
		 "list_columns": [{"field": "ghost"}]},
		{"api_name": "a", "resource": "a"}
	]`))
	require.NoError(t, err)

	var got []string
	for _, v := range CheckSchemas(schemas, validator.GetRegistry(), expression.NewEngine()) {
		got = append(got, v.String())
	}
	assert.Contains(t, got, "a: duplicate entity")
	assert.Contains(t, got, `a: resource "a/b" is not a single path segment`)
	assert.Contains(t, got, "a.missing: name field is not declared")
	assert.Contains(t, got, "a.x: duplicate field")
	assert.Contains(t, got, `a.x: unknown field type "blob"`)
	assert.Contains(t, got, `a.r: references unknown entity "nowhere"`)
	assert.Contains(t, got, "a.s: select field has no options")
	all := strings.Join(got, "\n")
	assert.Contains(t, all, `a.v: unknown validator "nope" (known: `)
	assert.Contains(t, all, "email")
	assert.Contains(t, all, "a.e: rule does not compile (functions: DAYS_BETWEEN, IS_TRUE, LEN")
	assert.Contains(t, got, "a.ghost: list column is not a declared field")
	assert.Len(t, got, 10)
}

func TestParseSchemasRejectsBadJSON(t *testing.T) {
	_, err := ParseSchemas([]byte(`{`))
	assert.Error(t, err)
}

func TestListFields(t *testing.T) {
	s := &models.EntitySchema{Fields: []models.FieldMetadata{
		{APIName: "name", Type: "text"},
		{APIName: "approvedBy", Type: "list"},
	}}
	assert.Equal(t, []string{"approvedBy"}, ListFields(s))
}

func TestInitializeConsole(t *testing.T) {
	cfg := &config.Config{
		APIBaseURL:         "http://backend.test",
		IDField:            "_id",
		DefaultPageSize:    20,
		MaxAttachmentBytes: 1 << 20,
		RequestIDHeader:    "X-Request-ID",
	}
	logger, _ := test.NewNullLogger()

	console, err := InitializeConsole(cfg, logger)
	require.NoError(t, err)
	assert.Len(t, console.Schemas(), 8)
	assert.Equal(t, "_id", console.IDField())

	ws := console.NewWorkspace("s1")
	m, err := ws.List("vendors")
	require.NoError(t, err)
	assert.Equal(t, 20, m.Snapshot().PageSize)
}

func TestNewConsoleFailsOnViolations(t *testing.T) {
	logger, hook := test.NewNullLogger()
	schemas := []*models.EntitySchema{{APIName: "a", Resource: "a", Fields: []models.FieldMetadata{{APIName: "x", Type: "blob"}}}}

	_, err := NewConsole(&config.Config{IDField: "_id"}, schemas, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 violation(s)")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "entity catalog violation", hook.LastEntry().Message)
}
