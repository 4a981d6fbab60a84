package cache

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

var _ fiber.Storage = (*LimiterStorage)(nil)

func TestLimiterStorageIgnoresEmptyKeys(t *testing.T) {
	s := NewLimiterStorage(nil)

	val, err := s.Get("")
	assert.NoError(t, err)
	assert.Nil(t, val)

	assert.NoError(t, s.Set("", []byte("1"), 0))
	assert.NoError(t, s.Set("k", nil, 0))
	assert.NoError(t, s.Delete(""))
}
