package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/fahmidurshanto/custom-cms/internal/domain/ports"
	"github.com/fahmidurshanto/custom-cms/pkg/constants"
	apperrors "github.com/fahmidurshanto/custom-cms/pkg/errors"
	"github.com/fahmidurshanto/custom-cms/pkg/models"
)

// RecordCollection is the REST gateway for one backend resource such as
// /vendors. It holds no state between calls.
type RecordCollection struct {
	client     *Client
	resource   string
	idField    string
	listFields map[string]bool
}

var _ ports.CollectionGateway[models.Record] = (*RecordCollection)(nil)

// NewRecordCollection binds a resource path. listFields names draft fields
// whose newline separated text is sent as an array.
func NewRecordCollection(client *Client, resource, idField string, listFields ...string) *RecordCollection {
	lf := make(map[string]bool, len(listFields))
	for _, f := range listFields {
		lf[f] = true
	}
	return &RecordCollection{
		client:     client,
		resource:   strings.Trim(resource, "/"),
		idField:    idField,
		listFields: lf,
	}
}

// Resource returns the resource name without slashes.
func (rc *RecordCollection) Resource() string {
	return rc.resource
}

func (rc *RecordCollection) collectionPath() string {
	return "/" + rc.resource
}

func (rc *RecordCollection) itemPath(id string) string {
	return "/" + rc.resource + "/" + url.PathEscape(id)
}

// List fetches the entire collection. Bare arrays and arrays wrapped in
// records, data or items are accepted.
func (rc *RecordCollection) List(ctx context.Context) ([]models.Record, error) {
	var raw interface{}
	if err := rc.client.doRequest(ctx, rc.resource, http.MethodGet, rc.collectionPath(), nil, &raw); err != nil {
		if errors.Is(err, errUndecodableBody) {
			return nil, apperrors.NewServerError(http.StatusOK, fmt.Sprintf("unexpected list response for %s", rc.resource))
		}
		return nil, err
	}

	items, ok := raw.([]interface{})
	if !ok {
		if envelope, isMap := raw.(map[string]interface{}); isMap {
			for _, key := range []string{constants.ResponseRecords, constants.ResponseData, constants.ResponseItems} {
				if arr, isArr := envelope[key].([]interface{}); isArr {
					items, ok = arr, true
					break
				}
			}
		}
	}
	if !ok {
		if raw == nil {
			return []models.Record{}, nil
		}
		return nil, apperrors.NewServerError(http.StatusOK, fmt.Sprintf("unexpected list response for %s", rc.resource))
	}

	records := make([]models.Record, 0, len(items))
	for i, item := range items {
		m, isMap := item.(map[string]interface{})
		if !isMap {
			return nil, apperrors.NewServerError(http.StatusOK, fmt.Sprintf("%s item %d is not an object", rc.resource, i))
		}
		records = append(records, models.Record(m))
	}
	return records, nil
}

// Create posts the draft and returns the stored record. A 2xx answer that
// is not JSON counts as an acknowledgement.
func (rc *RecordCollection) Create(ctx context.Context, draft *models.Draft) (models.Record, error) {
	payload, err := rc.encode(draft)
	if err != nil {
		return nil, err
	}
	var raw interface{}
	if err := rc.client.doRequest(ctx, rc.resource, http.MethodPost, rc.collectionPath(), payload, &raw); err != nil && !errors.Is(err, errUndecodableBody) {
		return nil, err
	}
	return rc.unwrapRecord(raw, draft, ""), nil
}

// Update replaces the record addressed by id. A 404 becomes NotFoundError.
func (rc *RecordCollection) Update(ctx context.Context, id string, draft *models.Draft) (models.Record, error) {
	payload, err := rc.encode(draft)
	if err != nil {
		return nil, err
	}
	var raw interface{}
	if err := rc.client.doRequest(ctx, rc.resource, http.MethodPut, rc.itemPath(id), payload, &raw); err != nil && !errors.Is(err, errUndecodableBody) {
		return nil, rc.notFound(err, id)
	}
	return rc.unwrapRecord(raw, draft, id), nil
}

// Remove deletes the record addressed by id. A 404 becomes NotFoundError.
func (rc *RecordCollection) Remove(ctx context.Context, id string) error {
	if err := rc.client.doRequest(ctx, rc.resource, http.MethodDelete, rc.itemPath(id), nil, nil); err != nil {
		return rc.notFound(err, id)
	}
	return nil
}

func (rc *RecordCollection) notFound(err error, id string) error {
	var se *apperrors.ServerError
	if errors.As(err, &se) && se.Status == http.StatusNotFound {
		return apperrors.NewNotFoundError(rc.resource, id)
	}
	return err
}

// unwrapRecord accepts a bare record, one wrapped in record or data, or a
// write acknowledgement. Acknowledgements are turned into a record built
// from the draft and the known or inserted id.
func (rc *RecordCollection) unwrapRecord(raw interface{}, draft *models.Draft, id string) models.Record {
	envelope, _ := raw.(map[string]interface{})
	for _, key := range []string{constants.ResponseRecord, constants.ResponseData} {
		if inner, ok := envelope[key].(map[string]interface{}); ok {
			envelope = inner
			break
		}
	}

	_, hasInserted := envelope[constants.ResponseInsertedID]
	_, hasAck := envelope[constants.ResponseAcknowledged]
	if envelope == nil || hasInserted || hasAck {
		rec := rc.draftRecord(draft)
		if inserted := models.Record(envelope).GetString(constants.ResponseInsertedID); inserted != "" {
			id = inserted
		}
		if id != "" {
			rec[rc.idField] = id
		}
		return rec
	}

	rec := models.Record(envelope)
	if id != "" && rec.ID(rc.idField) == "" {
		rec[rc.idField] = id
	}
	return rec
}

func (rc *RecordCollection) draftRecord(draft *models.Draft) models.Record {
	rec := models.Record{}
	for k, v := range rc.fieldValues(draft) {
		rec[k] = v
	}
	return rec
}

// fieldValues converts draft text into JSON values. The identifier field is
// never sent; the backend addresses records by path.
func (rc *RecordCollection) fieldValues(draft *models.Draft) map[string]interface{} {
	out := make(map[string]interface{}, len(draft.Values))
	for k, v := range draft.Values {
		if k == rc.idField {
			continue
		}
		if rc.listFields[k] {
			out[k] = splitList(v)
			continue
		}
		out[k] = v
	}
	return out
}

func (rc *RecordCollection) encode(draft *models.Draft) (*body, error) {
	if draft == nil {
		return nil, apperrors.NewInternalError("nil draft", nil)
	}
	if !draft.HasFiles() {
		return jsonBody(rc.fieldValues(draft))
	}
	return rc.multipartBody(draft)
}

func (rc *RecordCollection) multipartBody(draft *models.Draft) (*body, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for k, v := range rc.fieldValues(draft) {
		// a new file replaces the stored URL of the same field
		if draft.Files[k] != nil {
			continue
		}
		switch val := v.(type) {
		case []string:
			for _, item := range val {
				if err := w.WriteField(k, item); err != nil {
					return nil, fmt.Errorf("failed to write field %s: %w", k, err)
				}
			}
		case string:
			if err := w.WriteField(k, val); err != nil {
				return nil, fmt.Errorf("failed to write field %s: %w", k, err)
			}
		}
	}

	for field, file := range draft.Files {
		if file == nil {
			continue
		}
		h := make(textproto.MIMEHeader)
		h.Set(constants.HeaderContentDisposition,
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(field), escapeQuotes(file.Filename)))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set(constants.HeaderContentType, contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("failed to create part %s: %w", field, err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, fmt.Errorf("failed to write part %s: %w", field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}
	return &body{reader: buf, contentType: w.FormDataContentType()}, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		if item := strings.TrimSpace(line); item != "" {
			out = append(out, item)
		}
	}
	return out
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
