package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFoundError("vendors", "v1"), http.StatusNotFound},
		{"validation", NewValidationError("name", "is required"), http.StatusUnprocessableEntity},
		{"network", NewNetworkError("GET", "http://x/vendors", fmt.Errorf("refused")), http.StatusBadGateway},
		{"server", NewServerError(500, "boom"), http.StatusBadGateway},
		{"wrapped server", fmt.Errorf("create: %w", NewServerError(409, "duplicate")), http.StatusBadGateway},
		{"plain", fmt.Errorf("plain"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetHTTPStatus(tc.err))
		})
	}
}

func TestErrorKinds(t *testing.T) {
	netErr := fmt.Errorf("list: %w", NewNetworkError("GET", "http://x", fmt.Errorf("dial tcp")))
	assert.True(t, IsNetwork(netErr))
	assert.False(t, IsServer(netErr))
	assert.Equal(t, "NETWORK_ERROR", GetErrorCode(netErr))

	srvErr := NewServerError(400, "email already used")
	assert.True(t, IsServer(srvErr))
	assert.Equal(t, "server error (400): email already used", srvErr.Error())
	assert.Equal(t, "server error (502)", NewServerError(502, "").Error())

	assert.True(t, IsNotFound(fmt.Errorf("update: %w", NewNotFoundError("vendors", "v9"))))
	assert.Equal(t, "UNKNOWN_ERROR", GetErrorCode(fmt.Errorf("x")))
}

func TestValidationErrorFields(t *testing.T) {
	err := NewFieldsValidationError(map[string]string{
		"name":  "Name is required",
		"email": "Email is required",
	})

	assert.Equal(t, "validation error: email: Email is required; name: Name is required", err.Error())
	assert.Equal(t, "Name is required", err.FieldMessage("name"))
	assert.Empty(t, err.FieldMessage("fax"))

	resp := ToResponse(fmt.Errorf("submit: %w", err))
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Equal(t, err.Fields, resp.Details)

	single := NewValidationError("size", "unsupported page size")
	assert.Equal(t, "unsupported page size", single.FieldMessage("size"))
	assert.NotNil(t, AsValidation(single))
	assert.Nil(t, AsValidation(fmt.Errorf("other")))
}
