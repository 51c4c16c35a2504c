package utils

import (
	"fmt"
	"github.com/google/uuid"
	"strings"
)

// Shortener shortens run ids and script hashes for tables: "name_<uuid>" and
// plain uuids or hex digests become "abcd...wxyz".
func Shortener(name string) string {
	prefix := ""
	if i := strings.LastIndex(name, "_"); i >= 0 {
		prefix, name = name[:i+1], name[i+1:]
	}
	if _, err := uuid.Parse(name); err != nil && !isHex(name) {
		return prefix + name
	}
	if len(name) <= 12 {
		return prefix + name
	}
	return fmt.Sprintf("%s%s...%s", prefix, name[:4], name[len(name)-4:])
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
