package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahmidurshanto/custom-cms/pkg/constants"
	"github.com/fahmidurshanto/custom-cms/pkg/models"
)

func TestBuildRows_CellKinds(t *testing.T) {
	records := []models.Record{
		{"_id": "v1", "name": "Acme", "email": "a@acme.test", "published": "Yes", "logo": "https://cdn.test/acme.png"},
		{"_id": "v2", "name": "Globex", "email": "g@globex.test", "published": "No"},
		{"_id": "v3", "name": "Initech", "published": "Later"},
	}

	rows := BuildRows(vendorSchema(), "_id", records, nil)
	require.Len(t, rows, 3)

	assert.Equal(t, "v1", rows[0].Key)
	assert.Equal(t, "Acme", rows[0].Title)
	assert.Equal(t, Cell{Kind: constants.CellImage, Text: "Logo", URL: "https://cdn.test/acme.png"}, rows[0].Cells[0])
	assert.Equal(t, Cell{Kind: constants.CellText, Text: "Acme"}, rows[0].Cells[1])
	assert.Equal(t, Cell{Kind: constants.CellBadge, Text: "Published", Tone: "success"}, rows[0].Cells[3])
	assert.Equal(t, Cell{Kind: constants.CellBadge, Text: "Draft", Tone: "muted"}, rows[1].Cells[3])
	assert.Equal(t, Cell{Kind: constants.CellBadge, Text: "Later", Tone: constants.BadgeMuted}, rows[2].Cells[3])
	assert.Equal(t, "", rows[2].Cells[2].Text)
}

func TestBuildRows_DatesAndReferences(t *testing.T) {
	records := []models.Record{
		{"_id": "e1", "fullName": "Ada", "vendor": "v1", "joiningDate": "2024-03-05T00:00:00.000Z"},
		{"_id": "e2", "fullName": "Bob", "vendor": "v9", "joiningDate": "not a date"},
	}
	lookups := map[string]Lookup{
		"vendors": NewLookup(vendorSchema(), "_id", vendors(2)),
	}

	rows := BuildRows(employeeSchema(), "_id", records, lookups)
	require.Len(t, rows, 2)

	assert.Equal(t, Cell{Kind: constants.CellReference, Text: "Vendor 1"}, rows[0].Cells[1])
	assert.Equal(t, Cell{Kind: constants.CellDate, Text: "2024-03-05"}, rows[0].Cells[2])
	assert.Equal(t, Cell{Kind: constants.CellReference, Text: "Unknown Vendor", Tone: constants.BadgeMuted}, rows[1].Cells[1])
	assert.Equal(t, "not a date", rows[1].Cells[2].Text)

	typed := BuildRows(employeeSchema(), "_id", []models.Record{
		{"_id": "e3", "joiningDate": time.Date(2023, 12, 1, 15, 0, 0, 0, time.UTC)},
	}, lookups)
	assert.Equal(t, Cell{Kind: constants.CellDate, Text: "2023-12-01"}, typed[0].Cells[2])
}

func TestBuildRows_MissingLookupFallsBackToLabel(t *testing.T) {
	rows := BuildRows(employeeSchema(), "_id", []models.Record{{"_id": "e1", "vendor": "v1"}}, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, "Unknown Vendor", rows[0].Cells[1].Text)
}

func TestNewLookup_NamelessRecordUsesID(t *testing.T) {
	l := NewLookup(vendorSchema(), "_id", []models.Record{{"_id": "v1"}})
	name, ok := l.Resolve("v1")
	assert.True(t, ok)
	assert.Equal(t, "v1", name)
}

func TestBuildTableView(t *testing.T) {
	m, _, _ := mountedVendors(t, vendors(23))
	m.SetPage(3)
	snap := m.Snapshot()

	tv := BuildTableView(vendorSchema(), "_id", snap, nil)
	assert.Equal(t, "vendors", tv.Entity)
	assert.Equal(t, "Vendors", tv.Plural)
	assert.Equal(t, []int{1, 2, 3}, tv.Pages)
	assert.Equal(t, 3, tv.Page)
	assert.True(t, tv.HasPrev())
	assert.False(t, tv.HasNext())
	assert.Equal(t, 2, tv.PrevPage())
	assert.Equal(t, "Showing 21 to 23 of 23 entries", tv.Summary)
	assert.Equal(t, constants.PageSizes, tv.PageSizes)
	require.Len(t, tv.Rows, 3)
	assert.Equal(t, []string{"v21", "v22", "v23"}, []string{tv.Rows[0].Key, tv.Rows[1].Key, tv.Rows[2].Key})

	// pure: same snapshot, same rows
	assert.Equal(t, tv, BuildTableView(vendorSchema(), "_id", snap, nil))
}
