package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInt(t *testing.T) {
	assert.Equal(t, 42, ParseInt("42", 7))
	assert.Equal(t, 42, ParseInt("  42  ", 7))
	assert.Equal(t, -3, ParseInt("-3", 7))
	assert.Equal(t, 7, ParseInt("", 7))
	assert.Equal(t, 7, ParseInt("   ", 7))
	assert.Equal(t, 7, ParseInt("twelve", 7))
	assert.Equal(t, 7, ParseInt("4.5", 7))
}
