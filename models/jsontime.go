// models/jsontime.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONTime wraps time.Time so we can accept the date formats the iOS client
// actually sends (full RFC3339, seconds-only, or a bare date for start/end
// dates) while always emitting RFC3339.
type JSONTime time.Time

var jsonTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (jt *JSONTime) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	for _, layout := range jsonTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*jt = JSONTime(t)
			return nil
		}
	}
	return fmt.Errorf("JSONTime.UnmarshalJSON: cannot parse %q", s)
}

func (jt JSONTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(jt).Format(time.RFC3339))
}

// GormDataType tells the migrator to create a plain timestamp column.
func (JSONTime) GormDataType() string {
	return "time"
}

// Value implements driver.Valuer so the driver stores a plain timestamp.
func (jt JSONTime) Value() (driver.Value, error) {
	return time.Time(jt), nil
}

// Scan implements sql.Scanner for reading timestamps back.
func (jt *JSONTime) Scan(src interface{}) error {
	if src == nil {
		*jt = JSONTime(time.Time{})
		return nil
	}
	switch v := src.(type) {
	case time.Time:
		*jt = JSONTime(v)
		return nil
	case []byte:
		return jt.parseString(string(v))
	case string:
		return jt.parseString(v)
	default:
		return fmt.Errorf("JSONTime.Scan: unsupported type %T", src)
	}
}

func (jt *JSONTime) parseString(s string) error {
	for _, layout := range jsonTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*jt = JSONTime(t)
			return nil
		}
	}
	// sqlite stores timestamps with a space separator
	if t, err := time.Parse("2006-01-02 15:04:05.999999999-07:00", s); err == nil {
		*jt = JSONTime(t)
		return nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		*jt = JSONTime(t)
		return nil
	}
	return fmt.Errorf("JSONTime.Scan: cannot parse %q", s)
}

// Time returns the wrapped time.Time.
func (jt JSONTime) Time() time.Time {
	return time.Time(jt)
}
