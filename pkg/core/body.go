package core

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// BodyKind tags the variant held by a Body.
type BodyKind int

// Body variant constants.
const (
	// BodyEmpty indicates no request body.
	BodyEmpty BodyKind = iota
	// BodyJSON indicates a JSON value serialized exactly once at construction.
	BodyJSON
	// BodyRaw indicates opaque bytes relayed as received.
	BodyRaw
)

// String returns the string representation of the body kind.
func (k BodyKind) String() string {
	return [...]string{"EMPTY", "JSON", "RAW"}[k]
}

// Body is a tagged request-body variant. The bytes returned by Bytes are the
// single source of truth for both the signing payload and the outbound body,
// so the signature is always computed over exactly what is transmitted.
type Body struct {
	kind        BodyKind
	data        []byte
	contentType string
}

// EmptyBody returns a Body carrying no bytes.
func EmptyBody() Body {
	return Body{kind: BodyEmpty}
}

// JSONBody serializes v once with sonic and returns a JSON Body holding the
// resulting bytes. The value is never re-serialized afterwards.
func JSONBody(v any) (Body, error) {
	data, err := sonic.Marshal(v)
	if err != nil {
		return Body{}, fmt.Errorf("marshal body: %w", err)
	}
	return Body{kind: BodyJSON, data: data, contentType: "application/json"}, nil
}

// RawBody returns a Body holding the given bytes verbatim. An empty slice
// yields an empty Body. The content type defaults to application/json when
// the caller supplied none.
func RawBody(data []byte, contentType string) Body {
	if len(data) == 0 {
		return EmptyBody()
	}
	if contentType == "" {
		contentType = "application/json"
	}
	return Body{kind: BodyRaw, data: data, contentType: contentType}
}

// Kind returns the variant tag.
func (b Body) Kind() BodyKind {
	return b.kind
}

// IsEmpty reports whether the body carries no bytes.
func (b Body) IsEmpty() bool {
	return b.kind == BodyEmpty
}

// Bytes returns the exact byte sequence to sign over and transmit.
// Empty bodies return nil.
func (b Body) Bytes() []byte {
	return b.data
}

// ContentType returns the content type to send with the body, or the empty
// string for an empty body.
func (b Body) ContentType() string {
	if b.kind == BodyEmpty {
		return ""
	}
	return b.contentType
}
