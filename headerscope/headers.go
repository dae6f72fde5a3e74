package headerscope

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"google.golang.org/grpc/metadata"
)

// Header is a single name/value pair. Names are case-insensitive and stored
// lowercase to match gRPC metadata conventions.
type Header struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

type headerEntry struct {
	name    string
	value   string
	replace bool
}

// HeaderSet is an immutable ordered collection of headers. Multiple values per
// name are permitted and keep insertion order. All operations return a new
// HeaderSet and never mutate the receiver, so a HeaderSet can be shared freely
// across concurrent calls. The zero value is an empty set.
type HeaderSet struct {
	entries []headerEntry
}

// NewHeaderSet builds a HeaderSet from alternating name/value pairs, each pair
// applied with Set semantics. An odd trailing element is ignored.
func NewHeaderSet(pairs ...string) HeaderSet {
	var hs HeaderSet
	for i := 0; i+1 < len(pairs); i += 2 {
		hs = hs.Set(pairs[i], pairs[i+1])
	}
	return hs
}

// HeaderSetFromMap builds a HeaderSet from a map, each entry applied with Set
// semantics. Iteration order is normalized by sorting names so the result is
// deterministic.
func HeaderSetFromMap(m map[string]string) HeaderSet {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	var hs HeaderSet
	for _, name := range names {
		hs = hs.Set(name, m[name])
	}
	return hs
}

// HeaderSetFromHTTP builds a HeaderSet from an http.Header, each name applied
// with Set semantics and multiple values preserved in order.
func HeaderSetFromHTTP(h http.Header) HeaderSet {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	var hs HeaderSet
	for _, name := range names {
		values := h[name]
		if len(values) == 0 {
			continue
		}
		hs = hs.Set(name, values[0])
		for _, v := range values[1:] {
			hs = hs.Add(name, v)
		}
	}
	return hs
}

// HeaderSetFromMetadata builds a HeaderSet from gRPC metadata, each key applied
// with Set semantics and multiple values preserved in order.
func HeaderSetFromMetadata(md metadata.MD) HeaderSet {
	names := make([]string, 0, len(md))
	for name := range md {
		names = append(names, name)
	}
	sort.Strings(names)

	var hs HeaderSet
	for _, name := range names {
		values := md[name]
		if len(values) == 0 {
			continue
		}
		hs = hs.Set(name, values[0])
		for _, v := range values[1:] {
			hs = hs.Add(name, v)
		}
	}
	return hs
}

// BearerAuthorization returns a HeaderSet carrying a single authorization
// header in "Bearer <token>" form.
func BearerAuthorization(token string) HeaderSet {
	return NewHeaderSet("authorization", "Bearer "+token)
}

// Add returns a new HeaderSet with the value appended after any existing
// values for the name.
func (hs HeaderSet) Add(name, value string) HeaderSet {
	entries := make([]headerEntry, len(hs.entries), len(hs.entries)+1)
	copy(entries, hs.entries)
	entries = append(entries, headerEntry{name: strings.ToLower(name), value: value})
	return HeaderSet{entries: entries}
}

// Set returns a new HeaderSet with all prior values for the name removed and
// the new value appended. A Set entry overrides same-named entries when the
// set is merged over another.
func (hs HeaderSet) Set(name, value string) HeaderSet {
	name = strings.ToLower(name)
	entries := make([]headerEntry, 0, len(hs.entries)+1)
	for _, e := range hs.entries {
		if e.name != name {
			entries = append(entries, e)
		}
	}
	entries = append(entries, headerEntry{name: name, value: value, replace: true})
	return HeaderSet{entries: entries}
}

// Merge returns a new HeaderSet containing every header of the receiver not
// overridden by other, followed by all of other's entries. Names that other
// carries as Set-style entries replace the receiver's same-named entries; the
// merged set remembers which names were set so the override survives further
// merges.
func (hs HeaderSet) Merge(other HeaderSet) HeaderSet {
	if len(other.entries) == 0 {
		return hs
	}
	if len(hs.entries) == 0 {
		return other
	}

	replaced := make(map[string]bool, len(other.entries))
	for _, e := range other.entries {
		if e.replace {
			replaced[e.name] = true
		}
	}

	entries := make([]headerEntry, 0, len(hs.entries)+len(other.entries))
	for _, e := range hs.entries {
		if !replaced[e.name] {
			entries = append(entries, e)
		}
	}
	entries = append(entries, other.entries...)
	return HeaderSet{entries: entries}
}

// Get returns the most recently written value for the name.
func (hs HeaderSet) Get(name string) (string, bool) {
	name = strings.ToLower(name)
	for i := len(hs.entries) - 1; i >= 0; i-- {
		if hs.entries[i].name == name {
			return hs.entries[i].value, true
		}
	}
	return "", false
}

// Values returns all values for the name in insertion order.
func (hs HeaderSet) Values(name string) []string {
	name = strings.ToLower(name)
	var values []string
	for _, e := range hs.entries {
		if e.name == name {
			values = append(values, e.value)
		}
	}
	return values
}

// Len returns the number of header entries, counting each value separately.
func (hs HeaderSet) Len() int {
	return len(hs.entries)
}

// Names returns the distinct header names in first-appearance order.
func (hs HeaderSet) Names() []string {
	seen := make(map[string]bool, len(hs.entries))
	var names []string
	for _, e := range hs.entries {
		if !seen[e.name] {
			seen[e.name] = true
			names = append(names, e.name)
		}
	}
	return names
}

// Headers returns an ordered snapshot of all entries.
func (hs HeaderSet) Headers() []Header {
	headers := make([]Header, len(hs.entries))
	for i, e := range hs.entries {
		headers[i] = Header{Name: e.name, Value: e.value}
	}
	return headers
}

// ToMetadata converts the set to gRPC metadata, preserving value order per name.
func (hs HeaderSet) ToMetadata() metadata.MD {
	md := make(metadata.MD, len(hs.entries))
	for _, e := range hs.entries {
		md[e.name] = append(md[e.name], e.value)
	}
	return md
}

// ApplyToOutgoingContext writes the set into the context's outgoing gRPC
// metadata. Each name in the set replaces any values already present for that
// name; names the set does not mention are left untouched. The existing
// metadata is copied, never mutated.
func (hs HeaderSet) ApplyToOutgoingContext(ctx context.Context) context.Context {
	if len(hs.entries) == 0 {
		return ctx
	}
	md, ok := metadata.FromOutgoingContext(ctx)
	if ok {
		md = md.Copy()
	} else {
		md = make(metadata.MD, len(hs.entries))
	}
	for _, name := range hs.Names() {
		md[name] = hs.Values(name)
	}
	return metadata.NewOutgoingContext(ctx, md)
}
