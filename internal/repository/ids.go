package repository

import (
	"strings"

	"github.com/google/uuid"
)

// newID builds a prefixed opaque identifier, e.g. "audit-3fa85f64d9c1".
// Governed rows keep the prefix convention the rest of the platform uses.
func newID(prefix string) string {
	hexed := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + hexed[:12]
}
