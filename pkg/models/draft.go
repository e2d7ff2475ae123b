package models

// Form modes
const (
	ModeCreate = "create"
	ModeEdit   = "edit"
)

// Attachment is a file held in a draft until submit.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

// Draft is the uncommitted buffer behind an open form. It is never merged
// into a collection; the collection only changes through a refetch.
type Draft struct {
	Mode   string                 `json:"mode"`
	ID     string                 `json:"id,omitempty"`
	Values map[string]string      `json:"values"`
	Files  map[string]*Attachment `json:"files,omitempty"`
}

// NewCreateDraft returns an empty draft for the create form.
func NewCreateDraft() *Draft {
	return &Draft{
		Mode:   ModeCreate,
		Values: map[string]string{},
		Files:  map[string]*Attachment{},
	}
}

// IsEdit reports whether the draft targets an existing record.
func (d *Draft) IsEdit() bool {
	return d.Mode == ModeEdit
}

// HasFiles reports whether the draft carries at least one attachment.
func (d *Draft) HasFiles() bool {
	return len(d.Files) > 0
}

// Value returns the text value of a field.
func (d *Draft) Value(field string) string {
	return d.Values[field]
}

// Filename returns the name of the file attached to a field, if any.
func (d *Draft) Filename(field string) string {
	if a, ok := d.Files[field]; ok && a != nil {
		return a.Filename
	}
	return ""
}

// Clone copies the draft. Attachment bytes are shared, not copied.
func (d *Draft) Clone() *Draft {
	out := &Draft{
		Mode:   d.Mode,
		ID:     d.ID,
		Values: make(map[string]string, len(d.Values)),
		Files:  make(map[string]*Attachment, len(d.Files)),
	}
	for k, v := range d.Values {
		out.Values[k] = v
	}
	for k, v := range d.Files {
		out.Files[k] = v
	}
	return out
}
