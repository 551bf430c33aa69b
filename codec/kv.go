// Package codec implements the key-value wire format shared by commands,
// responses and webhook payloads: "&"-joined "key=value" tuples whose values
// are percent-escaped.
//
// Nothing in this package fails. Malformed input degrades to empty results.
package codec

import (
	"sort"
	"strings"
)

const (
	tupleSeparator = "&"
	pairSeparator  = "="
)

type Pair struct {
	Key   string
	Value string
}

// Pairs keeps the order in which tuples were decoded or added.
type Pairs []Pair

// Get returns the value of the first pair with the given key.
func (p Pairs) Get(key string) (string, bool) {
	for _, pair := range p {
		if pair.Key == key {
			return pair.Value, true
		}
	}
	return "", false
}

// Set returns a copy of p with the value of key replaced, or appended.
// The receiver is left untouched.
func (p Pairs) Set(key, value string) Pairs {
	out := make(Pairs, len(p), len(p)+1)
	copy(out, p)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Pair{Key: key, Value: value})
}

func (p Pairs) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, pair := range p {
		keys = append(keys, pair.Key)
	}
	return keys
}

// FromMap builds pairs sorted by key so the encoding is stable.
func FromMap(m map[string]string) Pairs {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make(Pairs, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Pair{Key: k, Value: m[k]})
	}
	return pairs
}

// Decode splits s into ordered pairs. Tuples that do not contain exactly one
// "=" are skipped and the first occurrence of a duplicated key wins.
func Decode(s string) Pairs {
	var pairs Pairs
	seen := make(map[string]struct{})
	for _, tuple := range strings.Split(s, tupleSeparator) {
		key, value, ok := splitTuple(tuple)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	return pairs
}

func Encode(pairs Pairs) string {
	var b strings.Builder
	for i, pair := range pairs {
		if i > 0 {
			b.WriteString(tupleSeparator)
		}
		b.WriteString(pair.Key)
		b.WriteString(pairSeparator)
		b.WriteString(pair.Value)
	}
	return b.String()
}

// Get scans s for the first well-formed tuple named key.
func Get(key, s string) string {
	for _, tuple := range strings.Split(s, tupleSeparator) {
		k, v, ok := splitTuple(tuple)
		if ok && k == key {
			return v
		}
	}
	return ""
}

// Set rewrites every tuple named key with value, appending the tuple when the
// key is absent. Malformed tuples are dropped from the result.
func Set(key, value, s string) string {
	var out Pairs
	found := false
	for _, tuple := range strings.Split(s, tupleSeparator) {
		k, v, ok := splitTuple(tuple)
		if !ok {
			continue
		}
		if k == key {
			v = value
			found = true
		}
		out = append(out, Pair{Key: k, Value: v})
	}
	if !found {
		out = append(out, Pair{Key: key, Value: value})
	}
	return Encode(out)
}

// Delete removes every tuple named key. Malformed tuples are dropped from the result.
func Delete(key, s string) string {
	var out Pairs
	for _, tuple := range strings.Split(s, tupleSeparator) {
		k, v, ok := splitTuple(tuple)
		if !ok || k == key {
			continue
		}
		out = append(out, Pair{Key: k, Value: v})
	}
	return Encode(out)
}

func splitTuple(tuple string) (string, string, bool) {
	if strings.Count(tuple, pairSeparator) != 1 {
		return "", "", false
	}
	key, value, _ := strings.Cut(tuple, pairSeparator)
	return key, value, true
}
