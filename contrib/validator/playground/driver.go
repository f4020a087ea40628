// Package playground provides a go-playground/validator implementation of the
// editorkit Validator interface. Field names in messages come from the
// mapstructure tag (the editor config key), then the json tag, then the Go name.
//
// Usage:
//
//	import (
//	    "github.com/madcok-co/editorkit/contrib/validator/playground"
//	)
//
//	driver := playground.NewDriver()
//	err := driver.Validate(opts)
package playground

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/madcok-co/editorkit/core/pkg/contracts"
)

// Driver implements contracts.Validator using go-playground/validator
type Driver struct {
	validate     *validator.Validate
	translations map[string]string
	mu           sync.RWMutex
}

// Config for the validator driver
type Config struct {
	// TagNames are struct tags consulted, in order, for field names in messages
	TagNames []string

	// Custom messages for validation tags
	Messages map[string]string
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		TagNames: []string{"mapstructure", "json"},
		Messages: defaultMessages(),
	}
}

func defaultMessages() map[string]string {
	return map[string]string{
		"required":         "{field} is required",
		"required_without": "{field} is required when {param} is not set",
		"required_if":      "{field} is required when {param}",
		"min":              "{field} must be at least {param}",
		"max":              "{field} must be at most {param}",
		"gte":              "{field} must be greater than or equal to {param}",
		"lte":              "{field} must be less than or equal to {param}",
		"oneof":            "{field} must be one of: {param}",
		"url":              "{field} must be a valid URL",
		"startswith":       "{field} must start with '{param}'",
		"hostname_port":    "{field} must be host:port",
		"alpha":            "{field} must contain only letters",
		"alphanum":         "{field} must contain only alphanumeric characters",
		"excludesall":      "{field} must not contain any of '{param}'",
		"dive":             "{field} contains an invalid item",
	}
}

// NewDriver creates a new validator driver with default settings
func NewDriver() *Driver {
	return NewDriverWithConfig(DefaultConfig())
}

// NewDriverWithConfig creates a new validator driver with custom config
func NewDriverWithConfig(cfg *Config) *Driver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	v := validator.New(validator.WithRequiredStructEnabled())

	if len(cfg.TagNames) > 0 {
		tagNames := append([]string(nil), cfg.TagNames...)
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range tagNames {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	}

	translations := defaultMessages()
	for k, msg := range cfg.Messages {
		translations[k] = msg
	}

	return &Driver{
		validate:     v,
		translations: translations,
	}
}

// Validator returns the underlying validator instance
func (d *Driver) Validator() *validator.Validate {
	return d.validate
}

// Validate validates a struct based on tags
func (d *Driver) Validate(data any) error {
	return d.convert(d.validate.Struct(data), "")
}

// ValidateField validates a single field value
func (d *Driver) ValidateField(field any, tag string) error {
	return d.convert(d.validate.Var(field, tag), "value")
}

// RegisterValidation registers a custom validation function
func (d *Driver) RegisterValidation(tag string, fn contracts.ValidationFunc) error {
	return d.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().Interface())
	})
}

// RegisterTranslation registers a custom error message for a tag
func (d *Driver) RegisterTranslation(tag string, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.translations[tag] = message
}

func (d *Driver) convert(err error, field string) error {
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	out := make(contracts.ValidationErrors, 0, len(errs))
	for _, e := range errs {
		name := field
		if name == "" {
			name = e.Field()
		}
		out = append(out, contracts.ValidationError{
			Field:   name,
			Tag:     e.Tag(),
			Value:   e.Value(),
			Message: d.formatMessage(name, e),
		})
	}
	return out
}

// formatMessage formats the error message for a validation error
func (d *Driver) formatMessage(field string, e validator.FieldError) string {
	d.mu.RLock()
	template, ok := d.translations[e.Tag()]
	d.mu.RUnlock()

	if !ok {
		template = "{field} failed validation for '{tag}'"
	}

	r := strings.NewReplacer(
		"{field}", field,
		"{tag}", e.Tag(),
		"{param}", formatParam(e.Tag(), e.Param()),
		"{value}", formatValue(e.Value()),
	)
	return r.Replace(template)
}

// formatParam renders required_if style "Field value ..." pairs as "Field=value"
func formatParam(tag, param string) string {
	if tag != "required_if" && tag != "required_unless" {
		return param
	}
	parts := strings.Fields(param)
	pairs := make([]string, 0, len(parts)/2)
	for i := 0; i+1 < len(parts); i += 2 {
		pairs = append(pairs, parts[i]+"="+parts[i+1])
	}
	return strings.Join(pairs, " and ")
}

func formatValue(v any) string {
	if v == nil {
		return "nil"
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// Ensure Driver implements contracts.Validator
var _ contracts.Validator = (*Driver)(nil)
