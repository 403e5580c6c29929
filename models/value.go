package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type valueKind uint8

const (
	kindNull valueKind = iota
	kindNumber
	kindString
	kindBool
	kindOther
)

// Value is a loosely typed scalar from the dataset. The dataset carries no
// schema, so a score may show up as 12, "12", "N/A", "" or null.
type Value struct {
	kind valueKind
	raw  string
}

// Num returns a numeric Value. NaN and infinities have no JSON form and
// become null.
func Num(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null
	}
	return Value{kind: kindNumber, raw: strconv.FormatFloat(f, 'f', -1, 64)}
}

// Text returns a string Value.
func Text(s string) Value {
	return Value{kind: kindString, raw: s}
}

// Null is the missing Value.
var Null = Value{}

// CellValue interprets a spreadsheet cell: numeric text becomes a number,
// empty cells become null and everything else stays text. Numbers are
// re-spelled canonically, so ".5" is stored as 0.5.
func CellValue(s string) Value {
	t := strings.TrimSpace(s)
	if t == "" {
		return Null
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Num(f)
	}
	return Text(s)
}

// IsNull reports whether the value was missing or JSON null.
func (v Value) IsNull() bool { return v.kind == kindNull }

// Float coerces the value to a number. Anything that is not a finite number
// counts as 0 so it can never poison a running sum.
func (v Value) Float() float64 {
	switch v.kind {
	case kindNumber, kindString:
		t := strings.TrimSpace(v.raw)
		if t == "" {
			return 0
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	case kindBool:
		if v.raw == "true" {
			return 1
		}
	}
	return 0
}

// String returns the text form used for equality filters. A JSON number keeps
// its literal spelling, so 2030 compares equal to "2030".
func (v Value) String() string {
	if v.kind == kindNull {
		return ""
	}
	return v.raw
}

// Truthy reports whether the value is present and non-zero.
func (v Value) Truthy() bool {
	switch v.kind {
	case kindNumber:
		return v.Float() != 0
	case kindString, kindOther:
		return v.raw != ""
	case kindBool:
		return v.raw == "true"
	}
	return false
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = Null
	case !json.Valid(data):
		// Raw SQLite text such as N/A arrives here unquoted.
		*v = Text(string(data))
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode string value: %w", err)
		}
		*v = Text(s)
	case bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")):
		*v = Value{kind: kindBool, raw: string(data)}
	case data[0] == '{' || data[0] == '[':
		*v = Value{kind: kindOther, raw: string(data)}
	default:
		*v = Value{kind: kindNumber, raw: string(data)}
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindNull:
		return []byte("null"), nil
	case kindString:
		return json.Marshal(v.raw)
	}
	return []byte(v.raw), nil
}

// GormDataType stores values as their JSON text.
func (Value) GormDataType() string { return "text" }

func (v Value) Value() (driver.Value, error) {
	b, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (v *Value) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		*v = Null
		return nil
	case string:
		return v.UnmarshalJSON([]byte(s))
	case []byte:
		return v.UnmarshalJSON(s)
	case int64:
		*v = Value{kind: kindNumber, raw: strconv.FormatInt(s, 10)}
		return nil
	case float64:
		*v = Num(s)
		return nil
	}
	return fmt.Errorf("scan value: unsupported type %T", src)
}

// Label is a text field that tolerates any JSON scalar. Null becomes "".
type Label string

func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*l = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode label: %w", err)
		}
		*l = Label(s)
	default:
		*l = Label(data)
	}
	return nil
}

func (l Label) String() string { return string(l) }
