//go:build unit || e2e

package testutil

import "strings"

// Field sets key to value, or removes it when value is nil.
// Dotted keys such as "windows.0.start" walk nested objects and arrays.
func Field(key string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		parts := strings.Split(key, ".")
		var node any = m
		for _, p := range parts[:len(parts)-1] {
			node = child(node, p)
			if node == nil {
				return
			}
		}
		last := parts[len(parts)-1]
		switch n := node.(type) {
		case map[string]any:
			if value == nil {
				delete(n, last)
			} else {
				n[last] = value
			}
		case []any:
			if i, ok := index(last, len(n)); ok {
				n[i] = value
			}
		}
	}
}

func child(node any, p string) any {
	switch n := node.(type) {
	case map[string]any:
		return n[p]
	case []any:
		if i, ok := index(p, len(n)); ok {
			return n[i]
		}
	}
	return nil
}

func index(p string, n int) (int, bool) {
	i := 0
	for _, r := range p {
		if r < '0' || r > '9' {
			return 0, false
		}
		i = i*10 + int(r-'0')
	}
	return i, p != "" && i < n
}
