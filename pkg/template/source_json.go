package template

import (
	"encoding/json"
	"strings"
)

// jsonModel reads a JSON object document. Scalar members become native Go
// scalars, null stays nil, and nested object/array members are preserved as
// their raw serialized text so callers can re-parse them on demand. Text that
// fails to parse, or whose top level is not an object, contributes nothing.
type jsonModel string

func (j jsonModel) contribute(dest *NormalizedMap, descending bool) {
	text := string(j)
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return
		}
		key, ok := keyTok.(string)
		if !ok {
			return
		}

		valTok, err := dec.Token()
		if err != nil {
			return
		}

		if _, isDelim := valTok.(json.Delim); isDelim {
			// Composite member: slice its raw text out of the input. The
			// delimiter token is a single byte, so the value starts one byte
			// before the decoder's current offset.
			start := dec.InputOffset() - 1
			if err := skipToMatchingDelim(dec); err != nil {
				return
			}
			dest.put(key, text[start:dec.InputOffset()], descending)
			continue
		}

		switch t := valTok.(type) {
		case json.Number:
			dest.put(key, numberScalar(t), descending)
		case nil:
			dest.put(key, nil, descending)
		default:
			dest.put(key, t, descending)
		}
	}
}

// skipToMatchingDelim consumes tokens until the composite value whose opening
// delimiter was just read is balanced.
func skipToMatchingDelim(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

func numberScalar(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
