// Package ontology holds the known-entity whitelist as immutable, versioned
// snapshots. Writers replace the whole set; readers never block.
package ontology

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync/atomic"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// corporateSuffixes are dropped from the end of a normalized name
var corporateSuffixes = map[string]bool{
	"inc": true, "incorporated": true, "ltd": true, "limited": true,
	"llc": true, "corp": true, "corporation": true, "co": true,
	"plc": true, "gmbh": true, "ag": true, "sa": true,
}

// Normalize canonicalizes an entity name for whitelist comparison
func Normalize(name string) string {
	name = norm.NFKC.String(name)
	name = strings.ToLower(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '&':
			b.WriteString(" and ")
		default:
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	for len(fields) > 1 && corporateSuffixes[fields[len(fields)-1]] {
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

// Snapshot is an immutable set of normalized names
type Snapshot struct {
	version uint64
	digest  string
	names   map[string]struct{}
}

// Version returns the monotonically increasing snapshot version
func (s *Snapshot) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

// Digest fingerprints the normalized name set. Unlike Version it is the
// same across processes for the same names.
func (s *Snapshot) Digest() string {
	if s == nil {
		return digestNames(nil)
	}
	return s.digest
}

// Len returns the number of distinct names
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Contains reports whether name matches a known entity after normalization
func (s *Snapshot) Contains(name string) bool {
	if s == nil || len(s.names) == 0 {
		return false
	}
	key := Normalize(name)
	if key == "" {
		return false
	}
	_, ok := s.names[key]
	return ok
}

// Registry hands out the current snapshot and swaps it atomically
type Registry struct {
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
}

// NewRegistry creates a registry holding an empty snapshot
func NewRegistry() *Registry {
	r := &Registry{}
	r.current.Store(&Snapshot{digest: digestNames(nil), names: map[string]struct{}{}})
	return r
}

// Snapshot returns the current snapshot. Never blocks.
func (r *Registry) Snapshot() *Snapshot {
	return r.current.Load()
}

// SetKnownEntities replaces the whitelist wholesale and returns the new snapshot
func (r *Registry) SetKnownEntities(names []string) *Snapshot {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if key := Normalize(n); key != "" {
			set[key] = struct{}{}
		}
	}
	snap := &Snapshot{
		version: r.version.Add(1),
		digest:  digestNames(set),
		names:   set,
	}
	r.current.Store(snap)
	return snap
}

func digestNames(set map[string]struct{}) string {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, n := range names {
		h.Write([]byte(n))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
