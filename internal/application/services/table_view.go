package services

import (
	"github.com/fahmidurshanto/custom-cms/pkg/constants"
	"github.com/fahmidurshanto/custom-cms/pkg/models"
	"github.com/fahmidurshanto/custom-cms/pkg/utils"
)

// Cell is one rendered table cell.
type Cell struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
	Tone string `json:"tone,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Row is keyed by the record identifier, never by position.
type Row struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Cells []Cell `json:"cells"`
}

// Lookup resolves identifiers of one referenced entity to display names.
type Lookup struct {
	Label string
	Names map[string]string
}

// NewLookup indexes a lookup collection by identifier.
func NewLookup(schema *models.EntitySchema, idField string, records []models.Record) Lookup {
	names := make(map[string]string, len(records))
	for _, r := range records {
		name := r.GetString(schema.NameField)
		if name == "" {
			name = r.ID(idField)
		}
		names[r.ID(idField)] = name
	}
	return Lookup{Label: schema.Label, Names: names}
}

// Resolve returns the display name for id or "Unknown <Label>".
func (l Lookup) Resolve(id string) (string, bool) {
	if name, ok := l.Names[id]; ok {
		return name, true
	}
	return constants.UnknownReferencePrefix + l.Label, false
}

// TableView is everything the list template paints.
type TableView struct {
	Entity    string          `json:"entity"`
	Label     string          `json:"label"`
	Plural    string          `json:"plural"`
	Columns   []models.Column `json:"columns"`
	Rows      []Row           `json:"rows"`
	Filter    string          `json:"filter"`
	Page      int             `json:"page"`
	PageCount int             `json:"page_count"`
	PageSize  int             `json:"page_size"`
	PageSizes []int           `json:"page_sizes"`
	Pages     []int           `json:"pages"`
	Window    PageWindow      `json:"window"`
	Summary   string          `json:"summary"`
	Form      FormSnapshot    `json:"form"`
	Confirm   ConfirmSnapshot `json:"confirm"`
}

// HasPrev reports whether a previous page exists.
func (tv TableView) HasPrev() bool { return tv.Page > 1 }

// HasNext reports whether a next page exists.
func (tv TableView) HasNext() bool { return tv.Page < tv.PageCount }

// PrevPage is the page before the current one.
func (tv TableView) PrevPage() int { return tv.Page - 1 }

// NextPage is the page after the current one.
func (tv TableView) NextPage() int { return tv.Page + 1 }

// BuildTableView derives the table from a snapshot. It does not touch any
// state and gives the same rows for the same snapshot.
func BuildTableView(schema *models.EntitySchema, idField string, snap ListSnapshot[models.Record], lookups map[string]Lookup) TableView {
	pages := make([]int, snap.PageCount)
	for i := range pages {
		pages[i] = i + 1
	}
	return TableView{
		Entity:    schema.APIName,
		Label:     schema.Label,
		Plural:    schema.PluralLabel,
		Columns:   schema.ListColumns,
		Rows:      BuildRows(schema, idField, snap.Visible, lookups),
		Filter:    snap.Filter,
		Page:      snap.Page,
		PageCount: snap.PageCount,
		PageSize:  snap.PageSize,
		PageSizes: constants.PageSizes,
		Pages:     pages,
		Window:    snap.Window,
		Summary:   snap.Window.String(),
		Form:      snap.Form,
		Confirm:   snap.Confirm,
	}
}

// BuildRows renders records into rows of the schema's list columns.
func BuildRows(schema *models.EntitySchema, idField string, records []models.Record, lookups map[string]Lookup) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := Row{
			Key:   rec.ID(idField),
			Title: rec.GetString(schema.NameField),
			Cells: make([]Cell, 0, len(schema.ListColumns)),
		}
		for _, col := range schema.ListColumns {
			field, ok := schema.Field(col.Field)
			if !ok {
				field = models.FieldMetadata{APIName: col.Field, Type: constants.FieldTypeText}
			}
			row.Cells = append(row.Cells, buildCell(field, rec, lookups))
		}
		rows = append(rows, row)
	}
	return rows
}

func buildCell(field models.FieldMetadata, rec models.Record, lookups map[string]Lookup) Cell {
	value := utils.Stringify(rec[field.APIName])

	switch {
	case field.Type == constants.FieldTypeReference && value != "":
		lookup, ok := lookups[field.ReferenceTo]
		if !ok {
			lookup = Lookup{Label: field.Label}
		}
		name, found := lookup.Resolve(value)
		tone := ""
		if !found {
			tone = constants.BadgeMuted
		}
		return Cell{Kind: constants.CellReference, Text: name, Tone: tone}

	case field.Type == constants.FieldTypeImage:
		return Cell{Kind: constants.CellImage, Text: field.Label, URL: value}

	case len(field.Badge) > 0:
		text := value
		if display, ok := field.Display[value]; ok {
			text = display
		}
		tone, ok := field.Badge[value]
		if !ok {
			tone = constants.BadgeMuted
		}
		return Cell{Kind: constants.CellBadge, Text: text, Tone: tone}

	case field.Type == constants.FieldTypeDate:
		if t := rec.GetTime(field.APIName); !t.IsZero() {
			value = t.Format(constants.DateLayout)
		}
		return Cell{Kind: constants.CellDate, Text: value}
	}

	if display, ok := field.Display[value]; ok {
		value = display
	}
	return Cell{Kind: constants.CellText, Text: value}
}
