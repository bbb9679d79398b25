// Package validators holds the request schemas for every write operation and
// turns validator failures into a flat issue list.
package validators

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	gatewayPathPattern = regexp.MustCompile(`^/[a-zA-Z0-9\-_/]+$`)
	uintStringPattern  = regexp.MustCompile(`^[0-9]+$`)

	validate = newValidator()
)

// Issue is a single violation. Path holds json field names and slice indexes.
type Issue struct {
	Code    string        `json:"code"`
	Path    []interface{} `json:"path"`
	Message string        `json:"message"`
}

// Field returns the top-level field the issue belongs to.
func (i Issue) Field() string {
	if len(i.Path) == 0 {
		return ""
	}
	name, _ := i.Path[0].(string)
	return name
}

// ValidationError carries every issue found in one payload.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", joinPath(issue.Path), issue.Message))
	}
	return "invalid request data: " + strings.Join(parts, "; ")
}

// Filter keeps the issues whose top-level field is one of fields.
func (e *ValidationError) Filter(fields ...string) []Issue {
	var issues []Issue
	for _, issue := range e.Issues {
		for _, field := range fields {
			if issue.Field() == field {
				issues = append(issues, issue)
				break
			}
		}
	}
	return issues
}

// NewValidationError builds a ValidationError from a single issue.
func NewValidationError(code, message string, path ...interface{}) *ValidationError {
	if path == nil {
		path = []interface{}{}
	}
	return &ValidationError{Issues: []Issue{{Code: code, Path: path, Message: message}}}
}

// NonNullable is implemented by requests whose optional keys may be omitted
// but not sent as null.
type NonNullable interface {
	NonNullFields() []string
}

// RejectNull reports every key of the JSON object body that is present with a
// null value. A body that is not an object is left to the decoder to reject.
func RejectNull(body []byte, keys ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil
	}

	var issues []Issue
	for _, key := range keys {
		raw, ok := fields[key]
		if ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			issues = append(issues, Issue{
				Code:    "invalid_type",
				Path:    []interface{}{key},
				Message: "Expected array, received null",
			})
		}
	}
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

// Validate checks a request struct and returns a *ValidationError listing
// every violation, or nil.
func Validate(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	issues := make([]Issue, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		issues = append(issues, Issue{
			Code:    issueCode(fe),
			Path:    splitNamespace(fe.Namespace()),
			Message: issueMessage(fe),
		})
	}
	return &ValidationError{Issues: issues}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("gateway_path", func(fl validator.FieldLevel) bool {
		return gatewayPathPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("uint_string", func(fl validator.FieldLevel) bool {
		return uintStringPattern.MatchString(fl.Field().String())
	})
	return v
}

// splitNamespace turns "CreateApiEndpointRequest.queryParams[1].name" into
// ["queryParams", 1, "name"].
func splitNamespace(ns string) []interface{} {
	segments := strings.Split(ns, ".")
	if len(segments) > 1 {
		segments = segments[1:]
	}

	path := []interface{}{}
	for _, segment := range segments {
		for segment != "" {
			open := strings.Index(segment, "[")
			if open < 0 {
				path = append(path, segment)
				break
			}
			if open > 0 {
				path = append(path, segment[:open])
			}
			end := strings.Index(segment, "]")
			if end < open {
				path = append(path, segment[open:])
				break
			}
			index := segment[open+1 : end]
			if n, err := strconv.Atoi(index); err == nil {
				path = append(path, n)
			} else {
				path = append(path, index)
			}
			segment = segment[end+1:]
		}
	}
	return path
}

func joinPath(path []interface{}) string {
	parts := make([]string, 0, len(path))
	for _, p := range path {
		parts = append(parts, fmt.Sprint(p))
	}
	return strings.Join(parts, ".")
}

func issueCode(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.String {
			return "too_small"
		}
		return "invalid_type"
	case "min", "gt", "gte":
		return "too_small"
	case "max", "lt", "lte":
		return "too_big"
	case "url", "eq=|url", "gateway_path", "uint_string", "oneof":
		return "invalid_string"
	default:
		return "custom"
	}
}

func issueMessage(fe validator.FieldError) string {
	numeric := fe.Kind() != reflect.String
	switch fe.Tag() {
	case "required":
		if numeric {
			return "Required"
		}
		return "String must contain at least 1 character(s)"
	case "min":
		if numeric {
			return fmt.Sprintf("Number must be greater than or equal to %s", fe.Param())
		}
		return fmt.Sprintf("String must contain at least %s character(s)", fe.Param())
	case "max":
		if numeric {
			return fmt.Sprintf("Number must be less than or equal to %s", fe.Param())
		}
		return fmt.Sprintf("String must contain at most %s character(s)", fe.Param())
	case "gt":
		return fmt.Sprintf("Number must be greater than %s", fe.Param())
	case "url", "eq=|url":
		return "Invalid url"
	case "gateway_path":
		return "Gateway path must start with / and contain only letters, digits, -, _ and /"
	case "uint_string":
		return "Price must be a whole number in the token's smallest unit"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("Failed on the '%s' rule", fe.Tag())
	}
}
