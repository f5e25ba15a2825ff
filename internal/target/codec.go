package target

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Codec serializes a target's output values to a byte-accurate textual
// form and restores them. Decode(Encode(v)) must equal v for every
// value the target can produce; the evaluator relies on this both for
// persistence and for value-change detection.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// JSON returns the default codec: deterministic JSON.
//
// Properties:
//   - Map keys are emitted in sorted order (stable output for equal values)
//   - HTML escaping is disabled (< > & appear literally)
//   - Strings are NFC normalized at the serialization boundary
//   - No trailing newline
//
// The round-trip law holds for all NFC-normal values; callers feeding
// denormalized text into targets get the normalized form back.
func JSON[T any]() Codec[T] {
	return jsonCodec[T]{}
}

type jsonCodec[T any] struct{}

func (jsonCodec[T]) Encode(v T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	// json.Encoder appends a newline; the canonical form has none.
	data := buf.Bytes()
	if n := len(data); n > 0 && data[n-1] == '\n' {
		data = data[:n-1]
	}

	// NFC normalize at the boundary. Escape sequences are pure ASCII
	// and unaffected; literal UTF-8 string content is normalized.
	return norm.NFC.Bytes(data), nil
}

func (jsonCodec[T]) Decode(data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode: %w", err)
	}
	return v, nil
}
