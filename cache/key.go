package cache

import (
	"sort"
	"strings"
)

// Key builds a deterministic cache key from the namespace, endpoint, and
// parameter set. Parameter names are sorted before joining, so two maps
// with the same entries always produce the same key.
func Key(namespace, endpoint string, params map[string]string) string {
	var b strings.Builder
	b.WriteString(namespace)
	b.WriteByte(':')
	b.WriteString(endpoint)

	if len(params) == 0 {
		return b.String()
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		b.WriteByte('|')
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(params[name])
	}
	return b.String()
}
