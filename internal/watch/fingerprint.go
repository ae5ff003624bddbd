package watch

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Fingerprint is an opaque identity for one on-disk incarnation of a
// file. Equal fingerprints mean the file did not change between probes.
type Fingerprint string

// StatProbe fingerprints a file by size and modification time. Cheap
// enough to run on every poll tick.
type StatProbe struct {
	path string
}

// NewStatProbe probes path with os.Stat.
func NewStatProbe(path string) *StatProbe {
	return &StatProbe{path: path}
}

// Probe returns the file's current fingerprint.
func (p *StatProbe) Probe() (Fingerprint, error) {
	info, err := os.Stat(p.path)
	if err != nil {
		return "", err
	}
	return Fingerprint(fmt.Sprintf("%d:%d", info.Size(), info.ModTime().UnixNano())), nil
}

// HashProbe fingerprints a file by content digest. It catches rewrites
// that preserve size and timestamp, at the cost of reading the file.
type HashProbe struct {
	path string
}

// NewHashProbe probes path by hashing its contents.
func NewHashProbe(path string) *HashProbe {
	return &HashProbe{path: path}
}

// Probe returns the file's current fingerprint.
func (p *HashProbe) Probe() (Fingerprint, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return Fingerprint(hex.EncodeToString(h.Sum(nil))), nil
}
