package tree

import (
	"fmt"
	"strings"
)

// Separator delimits path segments.
const Separator = "/"

// SplitPath breaks a "/"-delimited path into validated segments.
// Leading and trailing separators are ignored; "" names the root.
func SplitPath(p string) ([]string, error) {
	p = strings.Trim(p, Separator)
	if p == "" {
		return nil, nil
	}
	parts := strings.Split(p, Separator)
	for _, seg := range parts {
		if err := ValidName(seg); err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", p, err)
		}
	}
	return parts, nil
}

// JoinPath is the inverse of SplitPath.
func JoinPath(parts ...string) string {
	return strings.Join(parts, Separator)
}

// ValidName reports whether name can be a single tree entry name.
func ValidName(name string) error {
	switch name {
	case "":
		return fmt.Errorf("empty segment")
	case ".", "..":
		return fmt.Errorf("reserved segment %q", name)
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("control character in segment %q", name)
		}
		if string(r) == Separator {
			return fmt.Errorf("separator in segment %q", name)
		}
	}
	return nil
}
