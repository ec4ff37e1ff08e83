package valueobjects

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"blog-backend/domain/config"
	pkgerrors "blog-backend/pkg/errors"
)

// PostField names a client-writable attribute of a post
type PostField string

const (
	FieldTitle   PostField = "title"
	FieldContent PostField = "content"
)

// Attributes that may appear in a payload but are never written from it
const (
	attrID    = "id"
	attrOwner = "owner"
)

// IsWritable reports whether the field may be set by a client
func (f PostField) IsWritable() bool {
	switch f {
	case FieldTitle, FieldContent:
		return true
	}
	return false
}

// FieldChange sets one attribute to a new value
type FieldChange struct {
	Field PostField
	Value string
}

// PostChanges is an ordered set of attribute assignments.
// Order follows the payload the changes were parsed from and each field appears once.
type PostChanges struct {
	changes []FieldChange
}

// NewPostChanges builds a change set, rejecting unknown or repeated fields
func NewPostChanges(changes ...FieldChange) (PostChanges, error) {
	pc := PostChanges{}
	limits := config.DefaultDomainConfig()
	for _, c := range changes {
		if err := pc.set(c.Field, c.Value, limits); err != nil {
			return PostChanges{}, err
		}
	}
	return pc, nil
}

func (pc *PostChanges) set(field PostField, value string, limits *config.DomainConfig) error {
	if !field.IsWritable() {
		return pkgerrors.NewValidationError(fmt.Sprintf("unknown post field '%s'", field))
	}
	if err := validateFieldValue(field, value, limits); err != nil {
		return err
	}
	for i := range pc.changes {
		if pc.changes[i].Field == field {
			pc.changes[i].Value = value
			return nil
		}
	}
	pc.changes = append(pc.changes, FieldChange{Field: field, Value: value})
	return nil
}

// Changes returns a copy of the assignments in order
func (pc PostChanges) Changes() []FieldChange {
	out := make([]FieldChange, len(pc.changes))
	copy(out, pc.changes)
	return out
}

// Get returns the new value for field, if present
func (pc PostChanges) Get(field PostField) (string, bool) {
	for _, c := range pc.changes {
		if c.Field == field {
			return c.Value, true
		}
	}
	return "", false
}

// IsEmpty reports whether there is nothing to write
func (pc PostChanges) IsEmpty() bool {
	return len(pc.changes) == 0
}

// Len returns the number of assignments
func (pc PostChanges) Len() int {
	return len(pc.changes)
}

// PostInput is a decoded post payload as sent by a client
type PostInput struct {
	ID            string
	Changes       PostChanges
	OwnerSupplied bool
}

// ParsePostInput decodes a JSON object into a PostInput, preserving key order.
// An empty or null payload yields an empty input. Nil limits mean the defaults.
func ParsePostInput(raw []byte, limits *config.DomainConfig) (PostInput, error) {
	var input PostInput
	if limits == nil {
		limits = config.DefaultDomainConfig()
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return input, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return input, pkgerrors.NewValidationError("post must be a JSON object").WithCause(err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return input, pkgerrors.NewValidationError("post must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return input, pkgerrors.NewValidationError("malformed post payload").WithCause(err)
		}
		key, _ := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return input, pkgerrors.NewValidationError("malformed post payload").WithCause(err)
		}

		switch key {
		case attrID:
			id, err := decodeStringValue(key, value)
			if err != nil {
				return input, err
			}
			input.ID = id
		case attrOwner:
			input.OwnerSupplied = true
		default:
			field := PostField(key)
			if !field.IsWritable() {
				return input, pkgerrors.NewValidationError(fmt.Sprintf("unknown post field '%s'", key))
			}
			s, err := decodeStringValue(key, value)
			if err != nil {
				return input, err
			}
			if err := input.Changes.set(field, s, limits); err != nil {
				return input, err
			}
		}
	}

	if _, err := dec.Token(); err != nil {
		return input, pkgerrors.NewValidationError("malformed post payload").WithCause(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return input, pkgerrors.NewValidationError("unexpected data after post object")
	}

	return input, nil
}

// decodeStringValue accepts a JSON string; null decodes to the empty string
func decodeStringValue(key string, value json.RawMessage) (string, error) {
	if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return "", pkgerrors.NewValidationError(fmt.Sprintf("post field '%s' must be a string", key))
	}
	return s, nil
}

func validateFieldValue(field PostField, value string, cfg *config.DomainConfig) error {
	limit := cfg.MaxContentLength
	if field == FieldTitle {
		limit = cfg.MaxTitleLength
	}
	if utf8.RuneCountInString(value) > limit {
		return pkgerrors.NewValidationError(fmt.Sprintf("%s exceeds maximum length of %d characters", field, limit))
	}
	return nil
}
