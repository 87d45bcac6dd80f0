package entities

import (
	"encoding/json"
	"mime"
	"strings"
)

// OutputRecordKey is the key under which actors store their result
const OutputRecordKey = "OUTPUT"

// Record represents a value stored in a key-value store
type Record struct {
	Key         string      `json:"key,omitempty"`
	ContentType string      `json:"contentType,omitempty"`
	Body        interface{} `json:"body"`
}

// GetRecordRequest represents a request to read a key-value store record
type GetRecordRequest struct {
	StoreID string
	Key     string
	Token   string
	// DisableBodyParser keeps Body as the raw []byte regardless of content type
	DisableBodyParser bool
}

// PutRecordRequest represents a request to store a key-value store record
type PutRecordRequest struct {
	StoreID     string
	Key         string
	Token       string
	ContentType string
	Body        []byte
}

// ParseRecordBody decodes a raw record body according to its content type.
// JSON becomes a decoded value, text becomes a string, anything else stays as bytes.
func ParseRecordBody(contentType string, raw []byte) (interface{}, error) {
	mediaType := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = parsed
	}
	mediaType = strings.ToLower(mediaType)

	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		if len(raw) == 0 {
			return nil, nil
		}
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case strings.HasPrefix(mediaType, "text/"),
		mediaType == "application/xml",
		mediaType == "application/javascript":
		return string(raw), nil
	default:
		return raw, nil
	}
}
