package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB is a thin helper for storing arbitrary JSON with GORM.
type JSONB []byte

// NewJSONB marshals v into a JSONB value, falling back to {} on error.
func NewJSONB(v any) JSONB {
	b, err := json.Marshal(v)
	if err != nil {
		return JSONB("{}")
	}
	return JSONB(b)
}

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return []byte("{}"), nil
	}
	return []byte(j), nil
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = JSONB("{}")
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = JSONB(v)
		return nil
	case string:
		*j = JSONB([]byte(v))
		return nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("jsonb scan: %w", err)
		}
		*j = JSONB(b)
		return nil
	}
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("{}"), nil
	}
	return []byte(j), nil
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	*j = JSONB(data)
	return nil
}

// StringSlice stores a list of strings as a jsonb array.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("string slice scan: unsupported type %T", value)
	}
	return json.Unmarshal(b, (*[]string)(s))
}
