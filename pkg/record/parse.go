package record

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// ParseJSON parses JSON text into a Value tree. Objects become Records with
// field order preserved, arrays become Lists, numbers become int64 when they
// fit and float64 otherwise.
func ParseJSON(text string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("parse json: %w", err)
	}

	// Anything after the first value means the input was not a single document.
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("parse json: trailing data after value")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			rec := New()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				rec.Set(key, val)
			}
			// Consume the closing brace.
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Of(rec), nil
		case '[':
			var items []Value
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return List(items), nil
		}
		return Value{}, fmt.Errorf("unexpected delimiter %q", t)
	case json.Number:
		return Scalar(numberValue(t)), nil
	case nil:
		return Null(), nil
	default:
		// string or bool
		return Scalar(t), nil
	}
}

func numberValue(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// ParseXML parses XML text into a Value tree rooted at the document element.
// Attributes and child elements become record fields; repeated child names
// collapse into a List. An element with no attributes or children becomes a
// scalar of its character data (or Null when empty).
func ParseXML(text string) (Value, error) {
	dec := xml.NewDecoder(strings.NewReader(text))

	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("parse xml: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			v, err := decodeXMLElement(dec, start)
			if err != nil {
				return Value{}, fmt.Errorf("parse xml: %w", err)
			}
			return v, nil
		}
	}
}

func decodeXMLElement(dec *xml.Decoder, start xml.StartElement) (Value, error) {
	rec := New()
	for _, attr := range start.Attr {
		rec.Set(attr.Name.Local, Scalar(attr.Value))
	}

	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeXMLElement(dec, t)
			if err != nil {
				return Value{}, err
			}
			addXMLChild(rec, t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			content := strings.TrimSpace(text.String())
			if rec.Len() == 0 {
				if content == "" {
					return Null(), nil
				}
				return Scalar(content), nil
			}
			if content != "" {
				rec.Set("#text", Scalar(content))
			}
			return Of(rec), nil
		}
	}
}

// addXMLChild inserts a child field, promoting repeated names to a List.
func addXMLChild(rec *Record, name string, child Value) {
	existing, ok := rec.Get(name)
	if !ok {
		rec.Set(name, child)
		return
	}
	if existing.Kind() == KindList {
		rec.Set(name, List(append(existing.List(), child)))
		return
	}
	rec.Set(name, List([]Value{existing, child}))
}
