package address

import "strings"

// DefaultAssetRoot is the prefix the engine prepends before stripping a path.
const DefaultAssetRoot = "./tex/assets/"

// Slashed lower-cases path, ensures a single leading slash and drops
// anything from the first '?' onwards.
func Slashed(path string) string {
	path = toLowerASCII(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}

// Stripped prefixes path with root, removes every '/' and '-', lower-cases
// the result and drops one leading '.'.
func Stripped(path, root string) string {
	full := root + path

	var b strings.Builder
	b.Grow(len(full))
	for i := 0; i < len(full); i++ {
		c := full[i]
		if c == '/' || c == '-' {
			continue
		}
		b.WriteByte(c)
	}

	stripped := toLowerASCII(b.String())
	return strings.TrimPrefix(stripped, ".")
}

// toLowerASCII folds A-Z only; the engine never folds other code points.
func toLowerASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}
