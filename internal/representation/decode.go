package representation

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/validation"
	"github.com/tidwall/gjson"
)

var (
	ErrMalformedBody = errors.New("JSON parse error")
	ErrNotWritable   = errors.New("field set is not writable")
)

// Mode selects how absent fields are treated when decoding a write.
type Mode uint8

const (
	ModeCreate Mode = iota
	ModeReplace
	ModePatch
)

const msgDateFormat = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."

// Changes holds the decoded values of the writable fields present in a
// request body, keyed by source attribute.
type Changes struct {
	values map[string]any
}

func (c Changes) Has(source string) bool {
	_, ok := c.values[source]
	return ok
}

func (c Changes) Len() int {
	return len(c.values)
}

func (c Changes) Text(source string) (string, bool) {
	v, ok := c.values[source].(string)
	return v, ok
}

func (c Changes) NullString(source string) (*string, bool) {
	v, ok := c.values[source].(*string)
	return v, ok
}

func (c Changes) Date(source string) (*time.Time, bool) {
	v, ok := c.values[source].(*time.Time)
	return v, ok
}

func (c Changes) IDs(source string) ([]uint, bool) {
	v, ok := c.values[source].([]uint)
	return v, ok
}

// Decode extracts the writable fields of a request body. Unknown and
// read-only keys are ignored. Type errors and missing required fields are
// returned together as validation.Errors.
func (s FieldSpec) Decode(body []byte, mode Mode) (Changes, error) {
	if s.Operation != OpWrite {
		return Changes{}, fmt.Errorf("decode %s %s: %w", s.Kind, s.Operation, ErrNotWritable)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte(`{}`)
	}
	if !gjson.ValidBytes(body) {
		return Changes{}, ErrMalformedBody
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return Changes{}, validation.Errors{
			validation.NonFieldErrors: {fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", typeName(root))},
		}
	}

	errs := validation.Errors{}
	ch := Changes{values: make(map[string]any)}
	for _, f := range s.Fields {
		if f.CreateOnly && mode != ModeCreate {
			continue
		}
		val := root.Get(f.Name)
		if !val.Exists() {
			if f.Required && mode != ModePatch {
				errs.Add(f.Name, validation.MsgRequired)
			}
			continue
		}
		v, msg := convert(f, val)
		if msg != "" {
			errs.Add(f.Name, msg)
			continue
		}
		ch.values[f.Source] = v
	}
	if err := errs.Err(); err != nil {
		return Changes{}, err
	}
	return ch, nil
}

func convert(f Field, val gjson.Result) (any, string) {
	switch f.Type {
	case TypeString:
		switch val.Type {
		case gjson.String:
			return val.Str, ""
		case gjson.Number:
			return val.Raw, ""
		case gjson.Null:
			return nil, validation.MsgNull
		}
		return nil, "Not a valid string."
	case TypeNullString:
		switch val.Type {
		case gjson.Null:
			return (*string)(nil), ""
		case gjson.String:
			s := val.Str
			return &s, ""
		case gjson.Number:
			s := val.Raw
			return &s, ""
		}
		return nil, "Not a valid string."
	case TypeDate:
		switch val.Type {
		case gjson.Null:
			return (*time.Time)(nil), ""
		case gjson.String:
			t, err := time.Parse(dateLayout, val.Str)
			if err != nil {
				return nil, msgDateFormat
			}
			return &t, ""
		}
		return nil, msgDateFormat
	case TypeIDList:
		if !val.IsArray() {
			return nil, fmt.Sprintf("Expected a list of items but got type %q.", typeName(val))
		}
		ids := make([]uint, 0, len(val.Array()))
		seen := make(map[uint]bool)
		for _, el := range val.Array() {
			id, ok := primaryKey(el)
			if !ok {
				return nil, fmt.Sprintf("Incorrect type. Expected pk value, received %s.", typeName(el))
			}
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
		return ids, ""
	}
	return nil, "This field is read only."
}

func primaryKey(el gjson.Result) (uint, bool) {
	var raw string
	switch el.Type {
	case gjson.Number:
		raw = el.Raw
	case gjson.String:
		raw = el.Str
	default:
		return 0, false
	}
	n, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func typeName(v gjson.Result) string {
	switch {
	case v.IsObject():
		return "dict"
	case v.IsArray():
		return "list"
	}
	switch v.Type {
	case gjson.String:
		return "str"
	case gjson.Number:
		return "int"
	case gjson.True, gjson.False:
		return "bool"
	}
	return "NoneType"
}
