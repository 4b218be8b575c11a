package config

import (
	"fmt"
	"strconv"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"gopkg.in/yaml.v3"
)

// ByteSize is a size in bytes.
// In YAML it is either a plain integer or a human size such as "64K" or "1 MiB".
type ByteSize int64

// ParseByteSize parses a plain or human-readable size
func ParseByteSize(s string) (ByteSize, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ByteSize(n), nil
	}

	n, err := bytefmt.ToBytes(strings.ToUpper(strings.ReplaceAll(s, " ", "")))
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return ByteSize(n), nil
}

// String formats the size with bytefmt, e.g. "64K"
func (b ByteSize) String() string {
	if b < 0 {
		return strconv.FormatInt(int64(b), 10)
	}
	return bytefmt.ByteSize(uint64(b))
}

// UnmarshalYAML accepts integers and size strings
func (b *ByteSize) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: size must be a scalar", node.Line)
	}
	size, err := ParseByteSize(node.Value)
	if err != nil {
		return err
	}
	*b = size
	return nil
}

// MarshalYAML writes the human form
func (b ByteSize) MarshalYAML() (interface{}, error) {
	return b.String(), nil
}
