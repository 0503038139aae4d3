// Package address derives the identifiers the engine embeds in archive
// entry names from an asset path.
package address

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jchantrell/tadhash/internal/murmur"
)

const (
	// placeholderSuffix is appended after the path hash and then cut off
	// again; its length still counts towards the final hash.
	placeholderSuffix = ".00000000"

	contentFactor = 0x0001003F
	lengthFactor  = 0x0002001F
)

// AssetAddress is the full identifier set for one asset path
type AssetAddress struct {
	RawPath     string
	PathHash    uint32
	HasPathHash bool
	ContentHash uint32
	FinalHash   uint32
}

// String renders the identifiers in archive hex form
func (a AssetAddress) String() string {
	if a.HasPathHash {
		return fmt.Sprintf("%s path=%s content=%s final=%s",
			a.RawPath, FormatHash(a.PathHash), FormatHash(a.ContentHash), FormatHash(a.FinalHash))
	}
	return fmt.Sprintf("%s content=%s final=%s",
		a.RawPath, FormatHash(a.ContentHash), FormatHash(a.FinalHash))
}

// Calculator computes addresses relative to an asset root
type Calculator struct {
	root string
}

// New creates a calculator for the given asset root. An empty root
// selects DefaultAssetRoot.
func New(root string) *Calculator {
	if root == "" {
		root = DefaultAssetRoot
	}
	return &Calculator{root: root}
}

// Root returns the asset root the calculator prefixes before stripping
func (c *Calculator) Root() string {
	return c.root
}

// Compute derives the address of path. With secondary set the slashed
// path is hashed first and its hex digest is folded into the stripped
// form, which is how the archives name most entries.
func (c *Calculator) Compute(path string, secondary bool) AssetAddress {
	addr := AssetAddress{RawPath: path}

	intermediate := Slashed(path)
	if secondary {
		addr.PathHash = murmur.SumString(intermediate)
		addr.HasPathHash = true

		decorated := intermediate + "." + FormatHash(addr.PathHash) + placeholderSuffix
		intermediate = decorated[:len(decorated)-len(placeholderSuffix)]
	}

	stripped := Stripped(intermediate, c.root)
	addr.ContentHash = murmur.SumString(stripped)

	strippedLen := uint32(len(stripped))
	totalLen := strippedLen
	if secondary {
		totalLen += uint32(len(placeholderSuffix))
	}

	addr.FinalHash = addr.ContentHash*contentFactor + strippedLen*totalLen*lengthFactor

	return addr
}

var defaultCalculator = New(DefaultAssetRoot)

// Compute derives the address of path under DefaultAssetRoot
func Compute(path string, secondary bool) AssetAddress {
	return defaultCalculator.Compute(path, secondary)
}

// FormatHash renders an identifier as eight lower-case hex digits
func FormatHash(hash uint32) string {
	return fmt.Sprintf("%08x", hash)
}

// ParseHash parses an identifier written as hex, with or without a 0x prefix
func ParseHash(s string) (uint32, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	if trimmed == "" {
		return 0, fmt.Errorf("empty hash")
	}
	if len(trimmed) > 8 {
		return 0, fmt.Errorf("hash %q is longer than 8 hex digits", s)
	}

	v, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return uint32(v), nil
}
