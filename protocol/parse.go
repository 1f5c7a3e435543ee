package protocol

import (
	"fmt"

	"github.com/segmentio/encoding/json"
)

// ParseInbound accepts a raw host message: JSON text, a decoded object or an Inbound.
// Anything without an object under data carrying a string type is ErrMalformedInbound.
func ParseInbound(raw any) (Inbound, error) {
	switch msg := raw.(type) {
	case Inbound:
		return validate(msg)
	case *Inbound:
		if msg == nil {
			return Inbound{}, fmt.Errorf("%w: nil message", ErrMalformedInbound)
		}

		return validate(*msg)
	case []byte:
		return parseJSON(msg)
	case json.RawMessage:
		return parseJSON(msg)
	case string:
		return parseJSON([]byte(msg))
	case map[string]any:
		return fromMap(msg)
	default:
		return Inbound{}, fmt.Errorf("%w: unsupported message %T", ErrMalformedInbound, raw)
	}
}

func parseJSON(data []byte) (Inbound, error) {
	var m map[string]any

	if err := json.Unmarshal(data, &m); err != nil {
		return Inbound{}, fmt.Errorf("%w: %w", ErrMalformedInbound, err)
	}

	return fromMap(m)
}

func fromMap(m map[string]any) (Inbound, error) {
	if m == nil {
		return Inbound{}, fmt.Errorf("%w: empty message", ErrMalformedInbound)
	}

	var in Inbound

	if ref, ok := m["ref"]; ok && ref != nil {
		s, isString := ref.(string)
		if !isString {
			return Inbound{}, fmt.Errorf("%w: ref is %T", ErrMalformedInbound, ref)
		}

		in.Ref = s
	}

	data, ok := m["data"].(map[string]any)
	if !ok {
		return Inbound{}, fmt.Errorf("%w: data is not an object", ErrMalformedInbound)
	}

	in.Data = data

	if files, ok := m["files"]; ok && files != nil {
		list, isList := files.([]any)
		if !isList {
			return Inbound{}, fmt.Errorf("%w: files is %T", ErrMalformedInbound, files)
		}

		in.Files = list
	}

	return validate(in)
}

func validate(in Inbound) (Inbound, error) {
	if in.Data == nil {
		return Inbound{}, fmt.Errorf("%w: data is not an object", ErrMalformedInbound)
	}

	if _, ok := in.Data["type"].(string); !ok {
		return Inbound{}, fmt.Errorf("%w: data.type is not a string", ErrMalformedInbound)
	}

	return in, nil
}
