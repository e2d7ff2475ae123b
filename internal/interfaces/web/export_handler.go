package web

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fahmidurshanto/custom-cms/internal/application/services"
	"github.com/fahmidurshanto/custom-cms/internal/infrastructure/export"
	"github.com/fahmidurshanto/custom-cms/internal/interfaces/middleware"
	"github.com/fahmidurshanto/custom-cms/pkg/constants"
	apperrors "github.com/fahmidurshanto/custom-cms/pkg/errors"
	"github.com/fahmidurshanto/custom-cms/pkg/models"
	"github.com/fahmidurshanto/custom-cms/pkg/utils"
)

// Export handles GET /:entity/export: the filtered collection, every page,
// as an XLSX workbook. References are written as display names.
func (h *ConsoleHandler) Export(c *gin.Context) {
	m, ok := h.list(c)
	if !ok || !h.ensureMounted(c, m) {
		return
	}
	schema := m.Schema()
	sheet := buildSheet(schema, h.console.IDField(), m.Filtered(), h.console.Lookups(m.Snapshot()))

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, sheet); err != nil {
		h.fail(c, apperrors.NewInternalError("failed to build export", err), "/"+schema.APIName+"/view")
		return
	}
	middleware.GetLogger(c).WithField("rows", len(sheet.Rows)).Info("list exported")

	filename := fmt.Sprintf("%s-%s.xlsx", schema.APIName, time.Now().Format("20060102"))
	c.Header(constants.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, constants.ContentTypeXLSX, buf.Bytes())
}

func buildSheet(schema *models.EntitySchema, idField string, records []models.Record, lookups map[string]services.Lookup) export.Sheet {
	headers := []string{"ID"}
	for _, f := range schema.Fields {
		headers = append(headers, f.Label)
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := []string{rec.ID(idField)}
		for _, f := range schema.Fields {
			value := utils.Stringify(rec[f.APIName])
			if f.Type == constants.FieldTypeReference && value != "" {
				lookup, ok := lookups[f.ReferenceTo]
				if !ok {
					lookup = services.Lookup{Label: f.Label}
				}
				value, _ = lookup.Resolve(value)
			}
			row = append(row, value)
		}
		rows = append(rows, row)
	}
	return export.Sheet{Name: schema.PluralLabel, Headers: headers, Rows: rows}
}
