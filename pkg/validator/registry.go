// Package validator holds the named field checks a schema can attach to a
// form field. Checks receive the submitted text and never see empty values;
// emptiness is the required check's business.
package validator

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
	"unicode/utf8"

	playground "github.com/go-playground/validator/v10"

	"github.com/fahmidurshanto/custom-cms/pkg/utils"
)

// ValidatorFunc checks one submitted value against an optional config.
type ValidatorFunc func(value string, config map[string]interface{}) error

// Registry holds registered validators
type Registry struct {
	validators map[string]ValidatorFunc
	mu         sync.RWMutex
	tags       *playground.Validate
}

var (
	defaultRegistry *Registry
	once            sync.Once
	nonDigit        = regexp.MustCompile(`[^\d]`)
)

// GetRegistry returns the shared registry with the built-in validators.
func GetRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry returns a registry with the built-in validators.
func NewRegistry() *Registry {
	r := &Registry{
		validators: make(map[string]ValidatorFunc),
		tags:       playground.New(),
	}
	r.registerBuiltins()
	return r
}

// Register adds a validator to the registry
func (r *Registry) Register(name string, fn ValidatorFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validators[name] = fn
}

// Get returns a validator by name
func (r *Registry) Get(name string) (ValidatorFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.validators[name]
	return fn, ok
}

// Validate runs a named validator. Empty values always pass.
func (r *Registry) Validate(name, value string, config map[string]interface{}) error {
	fn, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("validator '%s' not found", name)
	}
	if value == "" {
		return nil
	}
	return fn(value, config)
}

// List returns all registered validator names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.validators))
	for name := range r.validators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// tag delegates to a go-playground tag so the console and gin binding
// agree on what an email or URL is.
func (r *Registry) tag(tag, message string) ValidatorFunc {
	return func(value string, _ map[string]interface{}) error {
		if err := r.tags.Var(value, tag); err != nil {
			return fmt.Errorf("%s", message)
		}
		return nil
	}
}

func (r *Registry) registerBuiltins() {
	r.Register("email", r.tag("email", "invalid email format"))
	r.Register("url", r.tag("http_url", "URL must start with http:// or https://"))

	r.Register("phone", func(value string, _ map[string]interface{}) error {
		cleaned := nonDigit.ReplaceAllString(value, "")
		if len(cleaned) < 7 || len(cleaned) > 15 {
			return fmt.Errorf("phone number must have 7-15 digits")
		}
		return nil
	})

	r.Register("date", func(value string, _ map[string]interface{}) error {
		if utils.ParseTime(value).IsZero() {
			return fmt.Errorf("must be a date (YYYY-MM-DD)")
		}
		return nil
	})

	r.Register("regex", func(value string, config map[string]interface{}) error {
		pattern, _ := config["pattern"].(string)
		if pattern == "" {
			return nil
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %v", err)
		}
		if !re.MatchString(value) {
			if msg, ok := config["message"].(string); ok && msg != "" {
				return fmt.Errorf("%s", msg)
			}
			return fmt.Errorf("value does not match required pattern")
		}
		return nil
	})

	// Counts characters, not bytes.
	r.Register("length", func(value string, config map[string]interface{}) error {
		length := utf8.RuneCountInString(value)
		if min, ok := config["min"].(float64); ok && length < int(min) {
			return fmt.Errorf("must be at least %d characters", int(min))
		}
		if max, ok := config["max"].(float64); ok && length > int(max) {
			return fmt.Errorf("must be at most %d characters", int(max))
		}
		return nil
	})

	r.Register("numeric", r.tag("numeric", "must be a number"))
}

// Register adds a validator to the default registry
func Register(name string, fn ValidatorFunc) {
	GetRegistry().Register(name, fn)
}

// Validate runs a named validator using the default registry
func Validate(name, value string, config map[string]interface{}) error {
	return GetRegistry().Validate(name, value, config)
}
