package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Setting is a schemaless settings object. Data holds an arbitrary JSON
// object; its keys are opaque to the server.
type Setting struct {
	ID        uuid.UUID       `json:"uid"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Metadata is the timestamp block of a setting envelope.
type Metadata struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingEnvelope is the wire representation of a setting. The identifier and
// metadata live outside the payload so a payload key like "uid" can never
// collide with them.
type SettingEnvelope struct {
	UID      uuid.UUID       `json:"uid"`
	Data     json.RawMessage `json:"data"`
	Metadata Metadata        `json:"_metadata"`
}

// Envelope returns the response shape for this setting.
func (s *Setting) Envelope() SettingEnvelope {
	return SettingEnvelope{
		UID:  s.ID,
		Data: s.Data,
		Metadata: Metadata{
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		},
	}
}

// ValidateSettingData checks that raw is a JSON object with at least one key
// and returns it unchanged. An absent body, malformed JSON, a non-object
// value, and the empty object all fail with ErrInvalidPayload.
func ValidateSettingData(raw []byte) (json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("request body is required: %w", ErrInvalidPayload)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("body must be a JSON object: %w", ErrInvalidPayload)
	}
	if obj == nil {
		return nil, fmt.Errorf("body must not be null: %w", ErrInvalidPayload)
	}
	if len(obj) == 0 {
		return nil, fmt.Errorf("body must not be an empty object: %w", ErrInvalidPayload)
	}

	return json.RawMessage(raw), nil
}

// ParseSettingID validates that s is a dashed 8-4-4-4-12 hex UUID. uuid.Parse
// alone also accepts braced, un-dashed, and urn-prefixed forms, so the length
// is checked first.
func ParseSettingID(s string) (uuid.UUID, error) {
	if len(s) != 36 {
		return uuid.Nil, fmt.Errorf("identifier must be a dashed UUID: %w", ErrInvalidID)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("identifier must be a dashed UUID: %w", ErrInvalidID)
	}
	return id, nil
}
