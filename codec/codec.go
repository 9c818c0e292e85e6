// Package codec implements the self-delimited record framing the segment
// writer and reader share: each frame is a big-endian uint32 length prefix
// followed by that many bytes of gob-encoded payload, so a reader can
// decode a sequence of records without relying on decoder-side buffering or
// sentinel-exception handling to know where one record ends and the next
// begins.
package codec

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
)

// pair is the on-the-wire shape of a single record. It is unexported so
// every caller goes through Encode/Decode, keeping the framing rules in one
// place.
type pair[V any] struct {
	Key   string
	Value V
}

// Encode serializes a (key, value) pair into a self-delimited frame and
// returns the frame bytes; the frame's length, which callers use to track
// cumulative stream offsets, is len of the returned slice.
func Encode[V any](key string, value V) ([]byte, error) {
	var body bytes.Buffer
	if err := gob.NewEncoder(&body).Encode(pair[V]{Key: key, Value: value}); err != nil {
		return nil, fmt.Errorf("codec: encode record: %w", err)
	}

	frame := make([]byte, 4+body.Len())
	binary.BigEndian.PutUint32(frame[:4], uint32(body.Len()))
	copy(frame[4:], body.Bytes())

	return frame, nil
}

// Decode reads exactly one frame from r: a 4-byte big-endian length prefix
// followed by that many bytes of gob-encoded payload. It returns io.EOF
// (wrapping io.ErrUnexpectedEOF as io.EOF too) when r is exhausted before a
// new frame begins, and a non-EOF error for a truncated or corrupt frame.
func Decode[V any](r io.Reader) (key string, value V, err error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return "", value, io.EOF
		}
		return "", value, fmt.Errorf("codec: read frame length: %w", err)
	}

	n := binary.BigEndian.Uint32(lenBuf[:])
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return "", value, fmt.Errorf("codec: read frame body: %w", err)
	}

	var p pair[V]
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&p); err != nil {
		return "", value, fmt.Errorf("codec: decode frame body: %w", err)
	}

	return p.Key, p.Value, nil
}

// IndexEntry is a (key, offset) pair sampled into a segment's sparse index.
type IndexEntry struct {
	Key    string
	Offset int64
}

// EncodeIndex gob-encodes the full sparse-index sequence as a single blob;
// unlike individual records it is always read in one shot, so it needs no
// length-prefix framing of its own.
func EncodeIndex(entries []IndexEntry) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entries); err != nil {
		return nil, fmt.Errorf("codec: encode sparse index: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeIndex decodes a sparse-index blob previously produced by
// EncodeIndex.
func DecodeIndex(data []byte) ([]IndexEntry, error) {
	var entries []IndexEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entries); err != nil {
		return nil, fmt.Errorf("codec: decode sparse index: %w", err)
	}
	return entries, nil
}
