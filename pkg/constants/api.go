package constants

// HTTP and API constants
const (
	// Content types
	ContentTypeJSON      = "application/json"
	ContentTypeHTML      = "text/html; charset=utf-8"
	ContentTypeMultipart = "multipart/form-data"
	ContentTypeXLSX      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// HTTP Headers
	HeaderContentType        = "Content-Type"
	HeaderContentDisposition = "Content-Disposition"
	HeaderAccept             = "Accept"
	HeaderXRequestID         = "X-Request-ID"

	// Response Keys
	ResponseError   = "error"
	ResponseMessage = "message"
	ResponseCode    = "code"
	ResponseData    = "data"
	ResponseRecord  = "record"
	ResponseRecords = "records"
	ResponseItems   = "items"

	// Mongo-style acknowledgement keys returned by the backend
	ResponseInsertedID   = "insertedId"
	ResponseAcknowledged = "acknowledged"
)

// Form parameter constants
const (
	ParamQuery    = "q"
	ParamPageSize = "size"
	ParamPage     = "page"
	ParamEntity   = "entity"
	ParamID       = "id"
)

// Context keys shared by middleware and handlers
const (
	ContextKeyLogger    = "logger"
	ContextKeyRequestID = "request-id"
	ContextKeySessionID = "session-id"
)

// Log field names
const (
	LogFieldRequestID = "request-id"
	LogFieldMethod    = "method"
	LogFieldPath      = "path"
	LogFieldStatus    = "status"
	LogFieldDuration  = "duration"
	LogFieldResource  = "resource"
	LogFieldEntity    = "entity"
	LogFieldSessionID = "session-id"
)
