package representation

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/sjson"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05.000000Z07:00"
)

// Record exposes an entity's attributes by source name. Rendering only
// reads from it.
type Record interface {
	Attribute(source string) any
	Related(source string) []Record
}

// Options carries the absolute URL prefixes used for links and media.
type Options struct {
	BaseURL  string
	MediaURL string
}

// Page holds the neighbouring page URLs of a list response.
type Page struct {
	Next     string
	Previous string
}

// Render encodes rec as a JSON object with the fields of s, in order.
func (s FieldSpec) Render(rec Record, opts Options) ([]byte, error) {
	doc := []byte(`{}`)
	for _, f := range s.Fields {
		var err error
		if f.Type == TypeRelated {
			var raw []byte
			raw, err = s.renderRelated(f, rec.Related(f.Source), opts)
			if err == nil {
				doc, err = sjson.SetRawBytes(doc, f.Name, raw)
			}
		} else {
			doc, err = sjson.SetBytes(doc, f.Name, scalar(f, rec.Attribute(f.Source), opts))
		}
		if err != nil {
			return nil, fmt.Errorf("render %s.%s: %w", s.Kind, f.Name, err)
		}
	}
	return doc, nil
}

// RenderList wraps the rendered records in the list envelope.
func (s FieldSpec) RenderList(recs []Record, count int64, page Page, opts Options) ([]byte, error) {
	doc := []byte(`{}`)
	doc, err := sjson.SetBytes(doc, "count", count)
	if err != nil {
		return nil, err
	}
	if doc, err = sjson.SetBytes(doc, "next", nullable(page.Next)); err != nil {
		return nil, err
	}
	if doc, err = sjson.SetBytes(doc, "previous", nullable(page.Previous)); err != nil {
		return nil, err
	}

	results := []byte(`[]`)
	for _, rec := range recs {
		raw, err := s.Render(rec, opts)
		if err != nil {
			return nil, err
		}
		if results, err = sjson.SetRawBytes(results, "-1", raw); err != nil {
			return nil, err
		}
	}
	return sjson.SetRawBytes(doc, "results", results)
}

func (s FieldSpec) renderRelated(f Field, items []Record, opts Options) ([]byte, error) {
	out := []byte(`[]`)
	var child FieldSpec
	if f.Nesting == EmbedFull {
		var err error
		if child, err = Resolve(f.Related, s.Version, OpDetail); err != nil {
			return nil, err
		}
	}

	for _, item := range items {
		var raw []byte
		var err error
		switch f.Nesting {
		case EmbedFull:
			raw, err = child.Render(item, opts)
		case EmbedLink:
			id := item.Attribute("id")
			raw = []byte(`{}`)
			if raw, err = sjson.SetBytes(raw, "id", id); err == nil {
				raw, err = sjson.SetBytes(raw, "url", Link(opts.BaseURL, f.Related, s.Version, id))
			}
		default:
			raw, err = json.Marshal(item.Attribute("id"))
		}
		if err != nil {
			return nil, err
		}
		if out, err = sjson.SetRawBytes(out, "-1", raw); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Link builds the absolute detail URL of a related row.
func Link(baseURL string, kind Kind, version Version, id any) string {
	return strings.TrimRight(baseURL, "/") + "/api/" + string(version) + "/" +
		kind.Collection() + "/" + fmt.Sprint(id) + "/"
}

func scalar(f Field, v any, opts Options) any {
	switch f.Type {
	case TypeNullString:
		if p, ok := v.(*string); ok {
			if p == nil {
				return nil
			}
			return *p
		}
	case TypeDate:
		if p, ok := v.(*time.Time); ok {
			if p == nil {
				return nil
			}
			return p.Format(dateLayout)
		}
	case TypeDateTime:
		if t, ok := v.(time.Time); ok {
			return t.UTC().Format(dateTimeLayout)
		}
	case TypeMedia:
		if p, ok := v.(*string); ok {
			if p == nil || *p == "" {
				return nil
			}
			return mediaURL(opts.MediaURL, *p)
		}
	}
	return v
}

func mediaURL(prefix, path string) string {
	if prefix == "" {
		return path
	}
	return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(path, "/")
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
