package tracker

import (
	"encoding/json"
	"reflect"
	"sort"
)

// PathSet is an immutable set of paths. Operations that change membership
// return a new set; the receiver is left untouched, so a State handed to a
// subscriber never changes underneath it.
type PathSet struct {
	items map[string]struct{}
}

// NewPathSet builds a set from paths.
func NewPathSet(paths ...string) PathSet {
	items := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		items[p] = struct{}{}
	}
	return PathSet{items: items}
}

// Has reports membership.
func (s PathSet) Has(path string) bool {
	_, ok := s.items[path]
	return ok
}

// Len returns the number of paths.
func (s PathSet) Len() int {
	return len(s.items)
}

func (s PathSet) clone(extra int) map[string]struct{} {
	items := make(map[string]struct{}, len(s.items)+extra)
	for p := range s.items {
		items[p] = struct{}{}
	}
	return items
}

// With returns a set that also contains path.
func (s PathSet) With(path string) PathSet {
	items := s.clone(1)
	items[path] = struct{}{}
	return PathSet{items: items}
}

// Without returns a set that does not contain path.
func (s PathSet) Without(path string) PathSet {
	items := s.clone(0)
	delete(items, path)
	return PathSet{items: items}
}

// Toggle flips membership of path.
func (s PathSet) Toggle(path string) PathSet {
	if s.Has(path) {
		return s.Without(path)
	}
	return s.With(path)
}

// Slice returns the members in sorted order.
func (s PathSet) Slice() []string {
	out := make([]string, 0, len(s.items))
	for p := range s.items {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Equal compares membership.
func (s PathSet) Equal(other PathSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for p := range s.items {
		if !other.Has(p) {
			return false
		}
	}
	return true
}

// Same reports whether both values share the same underlying instance.
// Untouched fields of a reduced State are Same as in the previous State.
func (s PathSet) Same(other PathSet) bool {
	return reflect.ValueOf(s.items).UnsafePointer() == reflect.ValueOf(other.items).UnsafePointer()
}

// MarshalJSON encodes the set as a sorted array.
func (s PathSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

// UnmarshalJSON decodes a JSON array of paths.
func (s *PathSet) UnmarshalJSON(data []byte) error {
	var paths []string
	if err := json.Unmarshal(data, &paths); err != nil {
		return err
	}
	*s = NewPathSet(paths...)
	return nil
}
