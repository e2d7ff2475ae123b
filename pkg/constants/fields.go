package constants

// Field types understood by the form and the table renderer
const (
	FieldTypeText      = "text"
	FieldTypeTextArea  = "textarea"
	FieldTypeEmail     = "email"
	FieldTypePhone     = "phone"
	FieldTypeURL       = "url"
	FieldTypeNumber    = "number"
	FieldTypeDate      = "date"
	FieldTypeSelect    = "select"
	FieldTypeRadio     = "radio"
	FieldTypeImage     = "image"
	FieldTypeFile      = "file"
	FieldTypeReference = "reference"
	FieldTypeList      = "list"
)

// Cell kinds produced by the table view
const (
	CellText      = "text"
	CellBadge     = "badge"
	CellImage     = "image"
	CellReference = "reference"
	CellDate      = "date"
)

// Badge tones
const (
	BadgeSuccess = "success"
	BadgeWarning = "warning"
	BadgeMuted   = "muted"
)

// Published flag values used by vendors, locations, courses and batches
const (
	PublishedYes   = "Yes"
	PublishedNo    = "No"
	LabelPublished = "Published"
	LabelDraft     = "Draft"
)

// UnknownReferencePrefix precedes the target label of a dangling reference.
const UnknownReferencePrefix = "Unknown "

// DateLayout is how dates are shown in tables.
const DateLayout = "2006-01-02"
