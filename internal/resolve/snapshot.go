package resolve

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/zeebo/blake3"
)

// snapshotRecord mirrors one element of the snapshot JSON array. Pointer
// fields let the decoder tell a missing field from a zero value.
type snapshotRecord struct {
	Hash     *uint32 `json:"Hash"`
	HashPath *uint32 `json:"HashPath"`
	Path     *string `json:"Path"`
}

// DecodeSnapshot decompresses and parses a gzip'd JSON snapshot
func DecodeSnapshot(compressed []byte) ([]Entry, error) {
	if len(compressed) == 0 {
		return nil, fmt.Errorf("snapshot is empty")
	}

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompressing snapshot: %w", err)
	}

	var records *[]snapshotRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing snapshot JSON: %w", err)
	}
	if records == nil {
		return nil, fmt.Errorf("snapshot is null, expected an array")
	}

	entries := make([]Entry, len(*records))
	for i, rec := range *records {
		switch {
		case rec.Hash == nil:
			return nil, fmt.Errorf("record %d: missing field Hash", i)
		case rec.HashPath == nil:
			return nil, fmt.Errorf("record %d: missing field HashPath", i)
		case rec.Path == nil:
			return nil, fmt.Errorf("record %d: missing field Path", i)
		}

		entries[i] = Entry{
			Hash:     *rec.Hash,
			PathHash: *rec.HashPath,
			Path:     *rec.Path,
		}
	}

	return entries, nil
}

// EncodeSnapshot writes entries as a gzip'd JSON array in the snapshot format
func EncodeSnapshot(w io.Writer, entries []Entry) error {
	records := make([]snapshotRecord, len(entries))
	for i := range entries {
		e := &entries[i]
		records[i] = snapshotRecord{Hash: &e.Hash, HashPath: &e.PathHash, Path: &e.Path}
	}

	zw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("creating gzip writer: %w", err)
	}

	if err := json.NewEncoder(zw).Encode(records); err != nil {
		zw.Close()
		return fmt.Errorf("encoding snapshot JSON: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("flushing gzip stream: %w", err)
	}

	return nil
}

// SnapshotDigest returns the hex BLAKE3 digest of a compressed snapshot
func SnapshotDigest(compressed []byte) string {
	sum := blake3.Sum256(compressed)
	return hex.EncodeToString(sum[:])
}
