package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Digest is a SHA-256 cache key.
type Digest [sha256.Size]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// CacheKey: H(tool version || options || input). Anything that changes the
// rendered output must be part of the key.
func CacheKey(toolVersion string, input []byte, opts Options) Digest {
	h := sha256.New()
	writeField(h, toolVersion)
	writeField(h, strconv.FormatBool(opts.Convert.CaseInsensitiveNames))
	writeField(h, strconv.Itoa(opts.MaxDiagnostics))
	_, _ = h.Write(input)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// writeField writes s length-prefixed so adjacent fields cannot run together.
func writeField(h interface{ Write([]byte) (int, error) }, s string) {
	_, _ = h.Write([]byte(strconv.Itoa(len(s)) + ":" + s))
}
