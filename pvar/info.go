package pvar

import (
	"sort"
	"strings"
)

// InfoFields maps the keys of one INFO cell to their values. Flags map to
// the empty string.
type InfoFields map[string]string

const missingInfo = "."

// ParseInfo parses a semicolon-delimited INFO cell such as
// "AC=10;AF=0.5;EX_TARGET". Malformed segments are skipped and a repeated key
// keeps its last value. "." and "" yield an empty map.
func ParseInfo(cell string) InfoFields {
	fields := make(InfoFields)

	cell = strings.TrimSpace(cell)
	if cell == "" || cell == missingInfo {
		return fields
	}

	var sc scanner
	sc.reset(cell)
	for sc.remaining() > 0 {
		segment, _ := sc.readUntilByte(';')
		key, value, err := ParseInfoSegment(segment)
		if err != nil {
			continue
		}
		fields[key] = value
	}

	return fields
}

// ParseInfoSegment splits a single key=value or key segment. The value is
// everything after the first '='.
func ParseInfoSegment(segment string) (key, value string, err error) {
	key, value, _ = strings.Cut(segment, "=")
	if key == "" {
		return "", "", mismatch(segment, "empty INFO key")
	}
	if strings.ContainsAny(key, " \t\r\n") {
		return "", "", mismatch(segment, "whitespace in INFO key")
	}
	return key, value, nil
}

func mismatch(s, reason string) error {
	var sc scanner
	sc.reset(s)
	sc.fail(reason)
	return sc.err
}

// Value returns the value stored for key.
func (f InfoFields) Value(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

// IsFlag reports whether key is present without a value.
func (f InfoFields) IsFlag(key string) bool {
	v, ok := f[key]
	return ok && v == ""
}

// Keys returns the keys in sorted order.
func (f InfoFields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
