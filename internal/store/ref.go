package store

import (
	"fmt"
	"sort"
	"strings"
)

// Ref addresses one document.
type Ref struct {
	Collection string
	Key        string
}

// NewRef builds a Ref, trimming stray slashes from both parts.
func NewRef(collection, key string) Ref {
	return Ref{
		Collection: strings.Trim(collection, "/"),
		Key:        strings.Trim(key, "/"),
	}
}

// String returns the full "collection/key" path.
func (r Ref) String() string {
	return r.Collection + "/" + r.Key
}

// Child addresses a document one level below r, treating r as a collection.
func (r Ref) Child(key string) Ref {
	return NewRef(r.String(), key)
}

// Valid reports whether both parts are set and the key has no slash.
func (r Ref) Valid() bool {
	return r.Collection != "" && r.Key != "" && !strings.Contains(r.Key, "/")
}

// ParseRef splits a path at its last slash.
func ParseRef(path string) (Ref, error) {
	path = strings.Trim(path, "/")
	idx := strings.LastIndex(path, "/")
	if idx <= 0 || idx == len(path)-1 {
		return Ref{}, fmt.Errorf("invalid document path %q", path)
	}
	return NewRef(path[:idx], path[idx+1:]), nil
}

// JoinPath joins collection path segments, skipping empty ones.
func JoinPath(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = strings.Trim(s, "/"); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// ChildNames reduces full collection paths to the sorted, distinct names of
// the segments directly below prefix. Backends use it to implement
// Store.Collections after a coarse prefix query.
func ChildNames(prefix string, collections []string) []string {
	base := strings.Trim(prefix, "/") + "/"
	seen := make(map[string]struct{})
	var names []string
	for _, c := range collections {
		rest, ok := strings.CutPrefix(c, base)
		if !ok || rest == "" {
			continue
		}
		name, _, _ := strings.Cut(rest, "/")
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
