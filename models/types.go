// File: /models/types.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
)

// StringSlice is stored as a JSON array column.
type StringSlice []string

// Value implements driver.Valuer interface for database storage
func (ss StringSlice) Value() (driver.Value, error) {
	if ss == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(ss))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for database retrieval
func (ss *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*ss = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, ss)
	case string:
		return json.Unmarshal([]byte(v), ss)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// GormDataType returns the data type for GORM
func (StringSlice) GormDataType() string {
	return "json"
}

// MarshalJSON never emits null, clients index into the array directly.
func (ss StringSlice) MarshalJSON() ([]byte, error) {
	if ss == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(ss))
}

func (ss StringSlice) Contains(value string) bool {
	return slices.Contains(ss, value)
}

// With returns a copy with value appended unless it is already present.
func (ss StringSlice) With(value string) StringSlice {
	out := slices.Clone(ss)
	if out == nil {
		out = StringSlice{}
	}
	if out.Contains(value) {
		return out
	}
	return append(out, value)
}

// Without returns a copy with every occurrence of value removed.
func (ss StringSlice) Without(value string) StringSlice {
	out := make(StringSlice, 0, len(ss))
	for _, v := range ss {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}

// Dedup keeps the first occurrence of each value.
func (ss StringSlice) Dedup() StringSlice {
	out := make(StringSlice, 0, len(ss))
	for _, v := range ss {
		if !out.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}
