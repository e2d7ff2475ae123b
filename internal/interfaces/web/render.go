package web

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"

	"github.com/fahmidurshanto/custom-cms/internal/application/services"
	"github.com/fahmidurshanto/custom-cms/pkg/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// option is one choice of a select, radio or reference input.
type option struct {
	Value string
	Label string
}

// page is the data every template receives.
type page struct {
	Title     string
	Entities  []*models.EntitySchema
	Active    string
	Notices   []services.Notification
	RequestID string

	Schema  *models.EntitySchema
	View    *services.TableView
	Options map[string][]option

	Status   int
	Error    string
	RetryURL string
}

var templateFuncs = template.FuncMap{
	"value": func(d *models.Draft, field string) string {
		if d == nil {
			return ""
		}
		return d.Value(field)
	},
	"filename": func(d *models.Draft, field string) string {
		if d == nil {
			return ""
		}
		return d.Filename(field)
	},
	"lower": strings.ToLower,
	"fieldOptions": func(f models.FieldMetadata, refs map[string][]option) []option {
		if f.ReferenceTo != "" {
			return refs[f.ReferenceTo]
		}
		out := make([]option, 0, len(f.Options))
		for _, o := range f.Options {
			label := o
			if d, ok := f.Display[o]; ok {
				label = d
			}
			out = append(out, option{Value: o, Label: label})
		}
		return out
	},
}

// loadTemplates parses the embedded page templates.
func loadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

func staticFiles() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}
