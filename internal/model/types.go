package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a jsonb-backed list of strings.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported source type for string list: %T", src)
	}
	return json.Unmarshal(b, l)
}
