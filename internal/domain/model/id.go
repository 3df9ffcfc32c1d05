package model

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a prefixed public identifier, e.g. "pay_1a2b3c4d5e6f7a8b".
func NewID(prefix string) string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "_" + raw[:16]
}
