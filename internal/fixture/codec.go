package fixture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/vmihailenco/msgpack/v5"
)

// SchemaVersion is written into encoded documents.
const SchemaVersion = "1.0.0"

// schemaRange is what this decoder understands.
var schemaRange = mustConstraint(">= 1.0.0, < 2.0.0")

// ErrSchema reports a document whose schema version is missing, malformed or
// outside the supported range.
var ErrSchema = errors.New("unsupported fixture schema")

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Format selects the encoding of a document.
type Format uint8

const (
	FormatJSON Format = iota
	FormatMsgpack
)

func (f Format) String() string {
	if f == FormatMsgpack {
		return "msgpack"
	}
	return "json"
}

// FormatFromPath picks the format by extension: .mp and .msgpack are msgpack,
// everything else JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp", ".msgpack":
		return FormatMsgpack
	default:
		return FormatJSON
	}
}

// Decode parses a document and checks its schema version. Unknown fields are
// rejected so typos in hand-written fixtures do not go unnoticed.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatMsgpack:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		dec.DisallowUnknownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode msgpack: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	}
	if err := CheckSchema(doc.Schema); err != nil {
		return nil, err
	}
	return &doc, nil
}

// CheckSchema validates a schema version string.
func CheckSchema(v string) error {
	if v == "" {
		return fmt.Errorf("%w: missing schema version", ErrSchema)
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrSchema, v, err)
	}
	if !schemaRange.Check(ver) {
		return fmt.Errorf("%w: %s is outside %s", ErrSchema, ver, schemaRange)
	}
	return nil
}

// Encode serializes doc, stamping the current schema version when it has none.
func Encode(doc *Document, format Format) ([]byte, error) {
	if doc.Schema == "" {
		doc.Schema = SchemaVersion
	}
	var buf bytes.Buffer
	switch format {
	case FormatMsgpack:
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Load reads and decodes a document from disk. The raw bytes are returned as
// well; the driver keys its cache on them.
func Load(path string) (*Document, []byte, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	doc, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, data, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Path == "" {
		doc.Path = path
	}
	return doc, data, nil
}
