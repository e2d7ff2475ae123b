package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fahmidurshanto/custom-cms/pkg/constants"
	apperrors "github.com/fahmidurshanto/custom-cms/pkg/errors"
)

// maxErrorBody caps how much of a failed response becomes the error message.
const maxErrorBody = 512

// errUndecodableBody reports a 2xx answer whose body is not JSON. The call
// itself succeeded; callers decide what the missing payload means.
var errUndecodableBody = errors.New("response body is not JSON")

type requestIDKey struct{}

// WithRequestID stores the inbound request id so upstream calls can carry it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Client talks to the remote REST backend.
type Client struct {
	BaseURL         string
	HTTPClient      *http.Client
	Logger          logrus.FieldLogger
	RequestIDHeader string
}

// NewClient creates a client with one shared timeout for every call.
func NewClient(baseURL string, timeout time.Duration, logger logrus.FieldLogger) *Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Logger:          logger,
		RequestIDHeader: constants.HeaderXRequestID,
	}
}

// body is an encoded request payload.
type body struct {
	reader      io.Reader
	contentType string
}

func jsonBody(v interface{}) (*body, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal body: %w", err)
	}
	return &body{reader: bytes.NewReader(b), contentType: constants.ContentTypeJSON}, nil
}

// doRequest executes one call. Transport failures become NetworkError and
// non-2xx answers become ServerError. A nil result discards the body; a
// 2xx body that cannot be decoded gives errUndecodableBody.
func (c *Client) doRequest(ctx context.Context, resource, method, path string, payload *body, result interface{}) error {
	var reader io.Reader
	if payload != nil {
		reader = payload.reader
	}

	fullURL := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return apperrors.NewInternalError("failed to create request", err)
	}
	req.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	if payload != nil {
		req.Header.Set(constants.HeaderContentType, payload.contentType)
	}
	requestID := RequestIDFromContext(ctx)
	if requestID != "" {
		req.Header.Set(c.RequestIDHeader, requestID)
	}

	log := c.Logger.WithFields(logrus.Fields{
		constants.LogFieldRequestID: requestID,
		constants.LogFieldResource:  resource,
		constants.LogFieldMethod:    method,
		constants.LogFieldPath:      path,
	})

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		recordRequest(resource, method, outcomeNetwork, time.Since(start))
		log.WithError(err).Warn("backend request failed")
		return apperrors.NewNetworkError(method, fullURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome := outcomeServer
		if resp.StatusCode == http.StatusNotFound {
			outcome = outcomeNotFound
		}
		recordRequest(resource, method, outcome, time.Since(start))
		respBytes, _ := io.ReadAll(resp.Body)
		msg := errorMessage(resp.StatusCode, respBytes)
		log.WithFields(logrus.Fields{
			constants.LogFieldStatus: resp.StatusCode,
		}).Warnf("backend returned error: %s", msg)
		return apperrors.NewServerError(resp.StatusCode, msg)
	}

	recordRequest(resource, method, outcomeSuccess, time.Since(start))
	log.WithFields(logrus.Fields{
		constants.LogFieldStatus:   resp.StatusCode,
		constants.LogFieldDuration: time.Since(start).String(),
	}).Debug("backend request completed")

	if result == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		if err == io.EOF {
			return nil
		}
		log.WithError(err).WithField(constants.LogFieldStatus, resp.StatusCode).Warn("backend answered with a body that is not JSON")
		return errUndecodableBody
	}
	return nil
}

// errorMessage prefers the body's "message" or "error" key, then the raw
// body text, then the status text.
func errorMessage(status int, raw []byte) string {
	var envelope map[string]interface{}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		for _, key := range []string{constants.ResponseMessage, constants.ResponseError} {
			if msg, ok := envelope[key].(string); ok && msg != "" {
				return msg
			}
		}
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	if text != "" {
		return text
	}
	return http.StatusText(status)
}
