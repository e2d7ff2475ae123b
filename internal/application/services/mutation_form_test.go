package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/fahmidurshanto/custom-cms/pkg/errors"
	"github.com/fahmidurshanto/custom-cms/pkg/models"
)

func newEmployeeForm(maxBytes int64) *MutationForm {
	return NewMutationForm(employeeSchema(), NewFieldValidator(nil, nil), maxBytes)
}

func TestMutationForm_ClosedByDefault(t *testing.T) {
	f := newEmployeeForm(0)
	assert.False(t, f.IsOpen())
	assert.Nil(t, f.Draft())
	assert.Equal(t, FormSnapshot{}, f.Snapshot())
	assert.True(t, apperrors.IsValidation(f.Apply(FormInput{})))
	assert.True(t, apperrors.IsValidation(f.Validate()))
}

func TestMutationForm_ApplyIgnoresUnknownFields(t *testing.T) {
	f := newEmployeeForm(0)
	f.OpenCreate()

	require.NoError(t, f.Apply(FormInput{Values: map[string]string{
		"fullName": "Ada",
		"_id":      "forged",
		"isAdmin":  "true",
	}}))
	assert.Equal(t, map[string]string{"fullName": "Ada"}, f.Draft().Values)
}

func TestMutationForm_EditSeedKeepsIdentifier(t *testing.T) {
	f := newEmployeeForm(0)
	f.OpenEdit("e7", map[string]string{"fullName": "Ada", "photo": "https://cdn.test/ada.png"})

	d := f.Draft()
	require.NotNil(t, d)
	assert.True(t, d.IsEdit())
	assert.Equal(t, "e7", d.ID)

	// the stored photo URL satisfies the file field on edit
	require.NoError(t, f.Apply(FormInput{Values: map[string]string{"vendor": "v1", "note": longNote()}}))
	assert.NoError(t, f.Validate())
}

func TestMutationForm_Attachments(t *testing.T) {
	tests := []struct {
		name    string
		file    *models.Attachment
		wantErr string
	}{
		{
			name: "png accepted",
			file: &models.Attachment{Filename: "a.png", Data: pngBytes},
		},
		{
			name:    "too large",
			file:    &models.Attachment{Filename: "big.png", Data: append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{0}, 2<<20)...)},
			wantErr: "Photo must be at most 1 MB",
		},
		{
			name:    "empty",
			file:    &models.Attachment{Filename: "zero.png"},
			wantErr: "Photo is empty",
		},
		{
			name:    "not an image",
			file:    &models.Attachment{Filename: "notes.png", Data: []byte("plain text pretending to be a picture")},
			wantErr: "Photo must be an image, got text/plain; charset=utf-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEmployeeForm(1 << 20)
			f.OpenCreate()

			err := f.Apply(FormInput{Files: map[string]*models.Attachment{"photo": tt.file}})
			if tt.wantErr == "" {
				require.NoError(t, err)
				require.NotNil(t, f.Draft().Files["photo"])
				assert.Equal(t, "image/png", f.Draft().Files["photo"].ContentType)
				assert.Equal(t, int64(len(pngBytes)), f.Draft().Files["photo"].Size)
				return
			}
			v := apperrors.AsValidation(err)
			require.NotNil(t, v)
			assert.Equal(t, tt.wantErr, v.Fields["photo"])
			assert.Nil(t, f.Draft().Files["photo"])
		})
	}
}

func TestMutationForm_RejectedFileKeepsPrevious(t *testing.T) {
	f := newEmployeeForm(0)
	f.OpenCreate()
	require.NoError(t, f.Apply(FormInput{Files: map[string]*models.Attachment{
		"photo": {Filename: "first.png", Data: pngBytes},
	}}))

	err := f.Apply(FormInput{Files: map[string]*models.Attachment{
		"photo": {Filename: "second.txt", Data: []byte("hello")},
	}})
	require.Error(t, err)
	assert.Equal(t, "first.png", f.Draft().Filename("photo"))

	// the rejection shows up next to the validation messages
	verr := apperrors.AsValidation(f.Validate())
	require.NotNil(t, verr)
	assert.Contains(t, verr.Fields["photo"], "must be an image")
	assert.Equal(t, "Full Name is required", verr.Fields["fullName"])
	assert.Equal(t, verr.Fields, f.Snapshot().Errors)
}

func TestMutationForm_CloseDropsDraft(t *testing.T) {
	f := newEmployeeForm(0)
	f.OpenCreate()
	require.NoError(t, f.Apply(FormInput{Values: map[string]string{"fullName": "Ada"}}))
	require.Error(t, f.Validate())

	f.Close()
	assert.False(t, f.IsOpen())

	f.OpenCreate()
	assert.Empty(t, f.Draft().Values)
	assert.Empty(t, f.Snapshot().Errors)
}

func TestMutationForm_SnapshotIsACopy(t *testing.T) {
	f := newEmployeeForm(0)
	f.OpenCreate()
	require.NoError(t, f.Apply(FormInput{Values: map[string]string{"fullName": "Ada"}}))

	snap := f.Snapshot()
	snap.Draft.Values["fullName"] = "changed"
	assert.Equal(t, "Ada", f.Draft().Values["fullName"])
}

func TestFieldValidator_Rules(t *testing.T) {
	fv := NewFieldValidator(nil, nil)
	schema := vendorSchema()

	tests := []struct {
		name   string
		values map[string]string
		want   map[string]string
	}{
		{
			name:   "valid",
			values: map[string]string{"name": "Acme", "email": "a@b.io", "published": "No"},
			want:   map[string]string{},
		},
		{
			name:   "whitespace is empty",
			values: map[string]string{"name": "   ", "email": "a@b.io"},
			want:   map[string]string{"name": "Name is required"},
		},
		{
			name:   "option outside the set",
			values: map[string]string{"name": "Acme", "email": "a@b.io", "published": "Maybe"},
			want:   map[string]string{"published": "Published must be one of Yes, No"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := models.NewCreateDraft()
			d.Values = tt.values
			assert.Equal(t, tt.want, fv.Validate(schema, d))
		})
	}

	d := models.NewCreateDraft()
	d.Values = map[string]string{"name": "Acme", "email": "not-an-email"}
	errs := fv.Validate(schema, d)
	assert.Contains(t, errs["email"], "Email")
}
