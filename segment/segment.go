// Package segment implements the on-disk segment file format: an
// immutable, gzip-compressed, sorted sequence of records followed by a
// serialized sparse index and an 8-byte big-endian footer naming the
// index's start offset. All offsets are measured against the uncompressed
// byte stream; compression is transparent to them.
//
// The teacher's sst/writer.go builds up a similar data-block/index/footer
// layout directly against an os.File with manual offset patching via
// Seek. This package instead assembles the uncompressed stream in memory
// first (offsets are then just slice lengths, not Seek round-trips) and
// compresses it once at the end, which is what makes "seeks are permitted
// within the decompressed view" (spec) trivial: the decompressed view is
// just a []byte.
package segment

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/flashkv/flashkv/avltree"
	"github.com/flashkv/flashkv/bloomfilter"
	"github.com/flashkv/flashkv/codec"
	"github.com/flashkv/flashkv/kverrors"
)

const footerSize = 8

// ErrEmptyInput is returned by Dump when handed no pairs to write; it is
// not an I/O error, and callers treat it as a no-op rather than surfacing
// it.
var ErrEmptyInput = kverrors.New(kverrors.CodeEmptyInput, "dump called with no records", nil)

// Dump writes sortedPairs to path as a new segment file, sampling a sparse
// index entry every sparseInterval records and adding every key to bloom.
// sortedPairs must already be in ascending key order (the caller -
// segmentmanager, draining a staging buffer or merging segments - is
// responsible for that). A nil log falls back to a no-op logger, matching
// every other constructor in this module.
func Dump[V any](path string, sortedPairs []avltree.Record[V], sparseInterval int, bloom *bloomfilter.Filter, log *zap.SugaredLogger) error {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if len(sortedPairs) == 0 {
		return ErrEmptyInput
	}
	if sparseInterval < 1 {
		log.Warnw("sparse interval below 1, clamping", "requested", sparseInterval, "path", path)
		sparseInterval = 1
	}

	var stream bytes.Buffer
	var index []codec.IndexEntry

	for i, pair := range sortedPairs {
		if i%sparseInterval == 0 {
			index = append(index, codec.IndexEntry{Key: pair.Key, Offset: int64(stream.Len())})
		}

		frame, err := codec.Encode(pair.Key, pair.Value)
		if err != nil {
			return fmt.Errorf("segment: encode record %q: %w", pair.Key, err)
		}

		stream.Write(frame)
		bloom.Add([]byte(pair.Key))
	}

	indexPosition := int64(stream.Len())

	indexBlob, err := codec.EncodeIndex(index)
	if err != nil {
		return fmt.Errorf("segment: encode sparse index: %w", err)
	}
	stream.Write(indexBlob)

	var footer [footerSize]byte
	binary.BigEndian.PutUint64(footer[:], uint64(indexPosition))
	stream.Write(footer[:])

	if err := writeCompressed(path, stream.Bytes()); err != nil {
		return err
	}

	log.Debugw("wrote segment", "path", path, "records", len(sortedPairs), "indexEntries", len(index))
	return nil
}

func writeCompressed(path string, uncompressed []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return kverrors.New(kverrors.CodeDirectoryUnwritable, "failed to create segment file", err).WithPath(path)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	if _, err := gw.Write(uncompressed); err != nil {
		gw.Close()
		return kverrors.New(kverrors.CodeDirectoryUnwritable, "failed to write segment contents", err).WithPath(path)
	}
	if err := gw.Close(); err != nil {
		return kverrors.New(kverrors.CodeDirectoryUnwritable, "failed to flush segment contents", err).WithPath(path)
	}

	return nil
}

func readUncompressed(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, kverrors.New(kverrors.CodeSegmentMissing, "segment file does not exist", err).WithPath(path)
		}
		return nil, fmt.Errorf("segment: open %s: %w", path, err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("segment: %s is not a valid gzip stream: %w", path, err)
	}
	defer gr.Close()

	data, err := io.ReadAll(gr)
	if err != nil {
		return nil, fmt.Errorf("segment: read %s: %w", path, err)
	}

	return data, nil
}

// footerAndIndex decodes the trailing footer and sparse index out of an
// already-decompressed segment stream.
func footerAndIndex(data []byte) (indexPosition int64, index []codec.IndexEntry, err error) {
	if len(data) < footerSize {
		return 0, nil, fmt.Errorf("segment: truncated footer (%d bytes)", len(data))
	}

	footerStart := len(data) - footerSize
	pos := int64(binary.BigEndian.Uint64(data[footerStart:]))

	if pos < 0 || pos > int64(footerStart) {
		return 0, nil, fmt.Errorf("segment: index position %d out of range [0, %d]", pos, footerStart)
	}

	index, err = codec.DecodeIndex(data[pos:footerStart])
	if err != nil {
		return 0, nil, fmt.Errorf("segment: decode sparse index: %w", err)
	}

	return pos, index, nil
}

// scanStart applies the lower-bound rule: the first sparse-index offset
// at or before key, or offset 0 when the index is empty.
func scanStart(index []codec.IndexEntry, key string) int64 {
	if len(index) == 0 {
		return 0
	}

	pos := sort.Search(len(index), func(i int) bool { return index[i].Key >= key })
	idx := pos - 1
	if idx < 0 {
		idx = 0
	}

	return index[idx].Offset
}

// Lookup reads the segment at path and returns the value stored under key,
// if present. A missing key is (zero, false, nil); an unreadable,
// truncated, or corrupt file is (zero, false, non-nil error) so the
// segment manager can treat the segment as absent and keep scanning
// without mistaking corruption for a genuine miss. A file that does not
// exist on disk returns a *kverrors.Error with CodeSegmentMissing; any
// other read or decode failure returns a plain wrapped error, which
// callers treat as CodeSegmentUnreadable territory.
func Lookup[V any](path string, key string) (value V, found bool, err error) {
	data, err := readUncompressed(path)
	if err != nil {
		return value, false, err
	}

	indexPosition, index, err := footerAndIndex(data)
	if err != nil {
		return value, false, err
	}

	start := scanStart(index, key)
	if start < 0 || start > indexPosition {
		return value, false, fmt.Errorf("segment: scan start %d out of range [0, %d]", start, indexPosition)
	}

	r := bytes.NewReader(data[start:indexPosition])
	for {
		k, v, derr := codec.Decode[V](r)
		if derr == io.EOF {
			return value, false, nil
		}
		if derr != nil {
			return value, false, fmt.Errorf("segment: decode record at offset %d: %w", start, derr)
		}
		if k == key {
			return v, true, nil
		}
	}
}

// ReadAll decodes every record in the segment at path, in ascending key
// order, for use by the compactor.
func ReadAll[V any](path string) ([]avltree.Record[V], error) {
	data, err := readUncompressed(path)
	if err != nil {
		return nil, err
	}

	indexPosition, _, err := footerAndIndex(data)
	if err != nil {
		return nil, err
	}

	r := bytes.NewReader(data[:indexPosition])
	var out []avltree.Record[V]

	for {
		k, v, derr := codec.Decode[V](r)
		if derr == io.EOF {
			return out, nil
		}
		if derr != nil {
			return nil, fmt.Errorf("segment: decode record in %s: %w", path, derr)
		}
		out = append(out, avltree.Record[V]{Key: k, Value: v})
	}
}
