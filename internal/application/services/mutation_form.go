package services

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/fahmidurshanto/custom-cms/pkg/constants"
	apperrors "github.com/fahmidurshanto/custom-cms/pkg/errors"
	"github.com/fahmidurshanto/custom-cms/pkg/models"
)

// FormInput is one submission of the form: text values plus any newly
// chosen files. Fields missing from Files keep the file already attached.
type FormInput struct {
	Values map[string]string
	Files  map[string]*models.Attachment
}

// FormSnapshot is the render-ready copy of a form.
type FormSnapshot struct {
	Open   bool              `json:"open"`
	Mode   string            `json:"mode,omitempty"`
	Draft  *models.Draft     `json:"draft,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// MutationForm owns the draft behind an open create or edit form.
type MutationForm struct {
	schema             *models.EntitySchema
	validator          *FieldValidator
	maxAttachmentBytes int64

	draft      *models.Draft
	errors     map[string]string
	attachErrs map[string]string
}

func NewMutationForm(schema *models.EntitySchema, validator *FieldValidator, maxAttachmentBytes int64) *MutationForm {
	if maxAttachmentBytes <= 0 {
		maxAttachmentBytes = constants.DefaultMaxAttachmentBytes
	}
	return &MutationForm{
		schema:             schema,
		validator:          validator,
		maxAttachmentBytes: maxAttachmentBytes,
	}
}

// OpenCreate opens the form with an empty draft.
func (f *MutationForm) OpenCreate() {
	f.draft = models.NewCreateDraft()
	f.errors, f.attachErrs = nil, nil
}

// OpenEdit opens the form seeded from a record, keeping its identifier so
// the update addresses the right resource.
func (f *MutationForm) OpenEdit(id string, seed map[string]string) {
	d := models.NewCreateDraft()
	d.Mode = models.ModeEdit
	d.ID = id
	for k, v := range seed {
		d.Values[k] = v
	}
	f.draft = d
	f.errors, f.attachErrs = nil, nil
}

// Close discards the draft.
func (f *MutationForm) Close() {
	f.draft = nil
	f.errors, f.attachErrs = nil, nil
}

func (f *MutationForm) IsOpen() bool {
	return f.draft != nil
}

// Draft returns the live draft, nil when closed.
func (f *MutationForm) Draft() *models.Draft {
	return f.draft
}

// Apply merges a submission into the draft. Text values of schema fields
// are replaced; files are checked before they are attached and rejected
// ones leave the previous attachment in place.
func (f *MutationForm) Apply(input FormInput) error {
	if f.draft == nil {
		return apperrors.NewValidationError("", "form is not open")
	}
	attachErrs := map[string]string{}

	for _, field := range f.schema.Fields {
		if field.IsFile() {
			if file, ok := input.Files[field.APIName]; ok && file != nil {
				if err := f.attach(field, file); err != nil {
					attachErrs[field.APIName] = err.Error()
				}
			}
			continue
		}
		if v, ok := input.Values[field.APIName]; ok {
			f.draft.Values[field.APIName] = v
		}
	}

	f.attachErrs = attachErrs
	if len(attachErrs) > 0 {
		return apperrors.NewFieldsValidationError(attachErrs)
	}
	return nil
}

func (f *MutationForm) attach(field models.FieldMetadata, file *models.Attachment) error {
	size := int64(len(file.Data))
	if size > f.maxAttachmentBytes {
		return fmt.Errorf("%s must be at most %d MB", field.Label, f.maxAttachmentBytes>>20)
	}
	if size == 0 {
		return fmt.Errorf("%s is empty", field.Label)
	}
	detected := mimetype.Detect(file.Data)
	if field.Type == constants.FieldTypeImage && !strings.HasPrefix(detected.String(), "image/") {
		return fmt.Errorf("%s must be an image, got %s", field.Label, detected.String())
	}
	f.draft.Files[field.APIName] = &models.Attachment{
		Filename:    file.Filename,
		ContentType: detected.String(),
		Size:        size,
		Data:        file.Data,
	}
	return nil
}

// Validate runs the schema checks and keeps the messages for rendering,
// together with any attachment rejected by the last Apply.
func (f *MutationForm) Validate() error {
	if f.draft == nil {
		return apperrors.NewValidationError("", "form is not open")
	}
	errs := f.validator.Validate(f.schema, f.draft)
	for k, v := range f.attachErrs {
		errs[k] = v
	}
	if len(errs) > 0 {
		f.errors = errs
		return apperrors.NewFieldsValidationError(errs)
	}
	f.errors = nil
	return nil
}

// Snapshot copies the form for rendering.
func (f *MutationForm) Snapshot() FormSnapshot {
	if f.draft == nil {
		return FormSnapshot{}
	}
	errs := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		errs[k] = v
	}
	return FormSnapshot{
		Open:   true,
		Mode:   f.draft.Mode,
		Draft:  f.draft.Clone(),
		Errors: errs,
	}
}
