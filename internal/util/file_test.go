package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteAndReadFloat(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "command")

	// WHEN
	err := WriteFloatToFileAtomic(-1234.5, filePath)
	assert.NoError(t, err)
	result, err := ReadFloatFromFile(filePath)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, -1234.5, result)
}

func TestReadFloatFromFile_Whitespace(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "heading")
	err := os.WriteFile(filePath, []byte(" 42.25\n"), 0644)
	assert.NoError(t, err)

	// WHEN
	result, err := ReadFloatFromFile(filePath)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 42.25, result)
}

func TestReadFloatFromFile_Empty(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "empty")
	err := os.WriteFile(filePath, []byte(""), 0644)
	assert.NoError(t, err)

	// WHEN
	_, err = ReadFloatFromFile(filePath)

	// THEN
	assert.Error(t, err)
}

func TestReadFloatFromFile_Missing(t *testing.T) {
	// WHEN
	_, err := ReadFloatFromFile(filepath.Join(t.TempDir(), "missing"))

	// THEN
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	// WHEN
	result, err := ExpandPath("/dev/null")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "/dev/null", result)
}
