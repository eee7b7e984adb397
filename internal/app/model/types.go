package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringArray stores a []string as a JSON column so the same model migrates on
// both PostgreSQL and the SQLite test database
type StringArray []string

// Value implements database/sql/driver.Valuer
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements database/sql.Scanner
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}

	return json.Unmarshal(bytes, s)
}

// GormDataType tells the migrator to create a JSON column
func (StringArray) GormDataType() string {
	return "json"
}

// JSONMap stores free-form metadata as a JSON column
type JSONMap map[string]interface{}

// Value implements database/sql/driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements database/sql.Scanner
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan JSONMap")
		}
		bytes = []byte(str)
	}

	return json.Unmarshal(bytes, m)
}

// GormDataType tells the migrator to create a JSON column
func (JSONMap) GormDataType() string {
	return "json"
}
