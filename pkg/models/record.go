package models

import (
	"time"

	"github.com/fahmidurshanto/custom-cms/pkg/utils"
)

// Record is one backend document: an opaque field map whose identifier sits
// under a single configured field.
type Record map[string]interface{}

// ID returns the identifier stored under idField in its string form.
func (r Record) ID(idField string) string {
	return utils.Stringify(r[idField])
}

func (r Record) GetString(key string) string {
	if val, ok := r[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
		return utils.Stringify(val)
	}
	return ""
}

// GetTime reads a time.Time or a date string; the zero time means missing
// or unparseable.
func (r Record) GetTime(key string) time.Time {
	if val, ok := r[key]; ok {
		switch v := val.(type) {
		case time.Time:
			return v
		case string:
			return utils.ParseTime(v)
		}
	}
	return time.Time{}
}

// FieldStrings returns the string form of every non-empty field value,
// the identifier included.
func (r Record) FieldStrings() []string {
	out := make([]string, 0, len(r))
	for _, v := range r {
		if s := utils.Stringify(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Clone returns a shallow copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
