package input

import (
	"errors"
	"strings"
)

// FieldError reports one input field that violated its constraint.
type FieldError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
}

func (e *FieldError) Error() string {
	return "field " + e.Field + ": " + e.Constraint
}

// ValidationError aggregates every FieldError found in a form.
type ValidationError struct {
	Fields []*FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the individual field errors to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Fields))
	for i, f := range e.Fields {
		errs[i] = f
	}
	return errs
}

// collector accumulates field errors while a form is parsed.
type collector struct {
	fields []*FieldError
}

func (c *collector) add(err error) {
	if err == nil {
		return
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		c.fields = append(c.fields, fe)
		return
	}
	c.fields = append(c.fields, &FieldError{Field: "form", Constraint: err.Error()})
}

func (c *collector) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.fields}
}
