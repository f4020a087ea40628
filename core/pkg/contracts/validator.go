package contracts

import "strings"

// Validator adalah generic interface untuk validation of decoded editor options
// and host configuration
type Validator interface {
	// Validate validates a struct based on tags
	Validate(data any) error

	// ValidateField validates a single value against a tag expression
	ValidateField(field any, tag string) error

	// RegisterValidation registers a custom validation
	RegisterValidation(tag string, fn ValidationFunc) error
}

// ValidationFunc adalah function untuk custom validation
type ValidationFunc func(field any) bool

// ValidationError represents a single failed rule
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
}

// ValidationErrors adalah collection of validation errors
type ValidationErrors []ValidationError

// Error implements error interface
func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are validation errors
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// Fields returns the names of all failed fields, in order of appearance
func (v ValidationErrors) Fields() []string {
	seen := make(map[string]bool, len(v))
	fields := make([]string, 0, len(v))
	for _, e := range v {
		if !seen[e.Field] {
			seen[e.Field] = true
			fields = append(fields, e.Field)
		}
	}
	return fields
}
