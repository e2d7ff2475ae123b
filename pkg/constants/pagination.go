package constants

// Pagination defaults
const (
	DefaultPageSize = 10
	FirstPage       = 1
)

// PageSizes is the enumerated set of page sizes a list accepts.
var PageSizes = []int{10, 20, 50}

// IsAllowedPageSize reports whether n is one of PageSizes.
func IsAllowedPageSize(n int) bool {
	for _, size := range PageSizes {
		if size == n {
			return true
		}
	}
	return false
}

// Attachment limits
const (
	// DefaultMaxAttachmentBytes is the 12 MiB ceiling applied before a file is attached to a draft.
	DefaultMaxAttachmentBytes int64 = 12 << 20
)

// Notification levels
const (
	NotificationSuccess = "success"
	NotificationError   = "error"
	NotificationInfo    = "info"
)
