package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"

	"github.com/fahmidurshanto/custom-cms/internal/domain/ports"
	"github.com/fahmidurshanto/custom-cms/pkg/models"
)

type portsGateway = ports.CollectionGateway[models.Record]

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// MockGateway is a mock implementation of ports.CollectionGateway[models.Record]
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) List(ctx context.Context) ([]models.Record, error) {
	args := m.Called(ctx)
	recs, _ := args.Get(0).([]models.Record)
	return recs, args.Error(1)
}

func (m *MockGateway) Create(ctx context.Context, draft *models.Draft) (models.Record, error) {
	args := m.Called(ctx, draft)
	rec, _ := args.Get(0).(models.Record)
	return rec, args.Error(1)
}

func (m *MockGateway) Update(ctx context.Context, id string, draft *models.Draft) (models.Record, error) {
	args := m.Called(ctx, id, draft)
	rec, _ := args.Get(0).(models.Record)
	return rec, args.Error(1)
}

func (m *MockGateway) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func intPtr(n int) *int { return &n }

func vendorSchema() *models.EntitySchema {
	return &models.EntitySchema{
		APIName:     "vendors",
		Label:       "Vendor",
		PluralLabel: "Vendors",
		Resource:    "vendors",
		NameField:   "name",
		Fields: []models.FieldMetadata{
			{APIName: "name", Label: "Name", Type: "text", Required: true},
			{APIName: "email", Label: "Email", Type: "email", Required: true},
			{APIName: "published", Label: "Published", Type: "select", Options: []string{"Yes", "No"},
				Badge: map[string]string{"Yes": "success", "No": "muted"}, Display: map[string]string{"Yes": "Published", "No": "Draft"}},
			{APIName: "logo", Label: "Logo", Type: "image"},
		},
		ListColumns: []models.Column{
			{Field: "logo", Label: "Logo"},
			{Field: "name", Label: "Name"},
			{Field: "email", Label: "Email"},
			{Field: "published", Label: "Status"},
		},
	}
}

func employeeSchema() *models.EntitySchema {
	return &models.EntitySchema{
		APIName:     "employees",
		Label:       "Employee",
		PluralLabel: "Employees",
		Resource:    "employees",
		NameField:   "fullName",
		Fields: []models.FieldMetadata{
			{APIName: "fullName", Label: "Full Name", Type: "text", Required: true},
			{APIName: "vendor", Label: "Vendor", Type: "reference", ReferenceTo: "vendors", Required: true},
			{APIName: "joiningDate", Label: "Joining Date", Type: "date"},
			{APIName: "leavingDate", Label: "Leaving Date", Type: "date",
				Rule: "DAYS_BETWEEN(record.joiningDate, value) >= 0", RuleMessage: "Leaving Date must not be before Joining Date"},
			{APIName: "note", Label: "Note", Type: "textarea", Required: true, MinLength: intPtr(200)},
			{APIName: "photo", Label: "Photo", Type: "image", RequiredOnCreate: true},
		},
		ListColumns: []models.Column{
			{Field: "fullName", Label: "Name"},
			{Field: "vendor", Label: "Vendor"},
			{Field: "joiningDate", Label: "Joined"},
		},
	}
}

// vendors returns n vendor records v1..vn named "Vendor 1".."Vendor n".
func vendors(n int) []models.Record {
	out := make([]models.Record, n)
	for i := range out {
		out[i] = models.Record{
			"_id":       fmt.Sprintf("v%d", i+1),
			"name":      fmt.Sprintf("Vendor %d", i+1),
			"email":     fmt.Sprintf("ops%d@example.com", i+1),
			"published": "Yes",
		}
	}
	return out
}

func newTestManager(schema *models.EntitySchema, gw *MockGateway, lookups map[string]*MockGateway) (*ListManager[models.Record], *Notifications) {
	logger, _ := test.NewNullLogger()
	notices := NewNotifications()
	lk := map[string]portsGateway{}
	for name, g := range lookups {
		lk[name] = g
	}
	m := NewListManager(ListManagerOptions[models.Record]{
		Schema:        schema,
		Gateway:       gw,
		Adapter:       NewRecordAdapter(schema, "_id"),
		Lookups:       lk,
		Notifications: notices,
		PageSize:      10,
		Logger:        logger,
	})
	return m, notices
}

func longNote() string {
	return strings.Repeat("n", 200)
}

// pngBytes is a minimal PNG header, enough for MIME sniffing.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
