package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringList stores a JSON array of strings in a single column. Used for
// image URL galleries, tags and color palettes.
type StringList []string

// Value implements the driver.Valuer interface.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("invalid scan source")
	}
	if len(bytes) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(bytes, (*[]string)(l))
}
