package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	id := NewID("pay")

	assert.True(t, strings.HasPrefix(id, "pay_"))
	assert.Len(t, id, len("pay_")+16)
	assert.NotContains(t, id[4:], "-")
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID("order")
		assert.False(t, seen[id])
		seen[id] = true
	}
}
