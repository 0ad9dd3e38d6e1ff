package querycache

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Key canonically identifies one parameterized query. Two keys built from
// the same domain, operation and parameter values compare equal regardless
// of parameter order, and absent parameters do not participate at all, so
// {sport: "NBA", date: absent} shares a slot with {sport: "NBA"}.
//
// Keys are comparable and safe to use as map keys.
type Key struct {
	domain    string
	operation string
	canonical string
}

// BuildKey constructs a key from a logical query name and its parameters.
// Parameter values must be scalars (strings, numbers, bools, Stringers);
// nil values and empty strings are treated as absent and omitted.
// Passing non-scalar values is a programmer error.
func BuildKey(domain, operation string, params map[string]any) Key {
	var b strings.Builder
	b.WriteString(domain)
	b.WriteByte('/')
	b.WriteString(operation)

	present := make(map[string]string, len(params))
	names := make([]string, 0, len(params))
	for name, value := range params {
		if s, ok := formatParam(value); ok {
			present[name] = s
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for i, name := range names {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(present[name])
	}

	return Key{domain: domain, operation: operation, canonical: b.String()}
}

// Domain returns the key's domain segment.
func (k Key) Domain() string { return k.domain }

// Operation returns the key's operation segment.
func (k Key) Operation() string { return k.operation }

// String returns the deterministic serialized form used as a cache index.
func (k Key) String() string { return k.canonical }

// IsZero reports whether the key was never built.
func (k Key) IsZero() bool { return k.canonical == "" }

// formatParam renders a scalar parameter value, reporting false for
// absent values.
func formatParam(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		if val == "" {
			return "", false
		}
		return val, true
	case fmt.Stringer:
		s := val.String()
		if s == "" {
			return "", false
		}
		return s, true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	default:
		// Precondition violated; render something deterministic anyway.
		return fmt.Sprintf("%v", val), true
	}
}
