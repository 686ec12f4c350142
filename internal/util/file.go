package util

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
)

// ExpandPath resolves a leading "~" to the home directory of the current user
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	currentUser, err := user.Current()
	if err != nil {
		return path, err
	}
	return filepath.Join(currentUser.HomeDir, path[1:]), nil
}

// ReadFloatFromFile reads a single float value from the file at the given path
func ReadFloatFromFile(path string) (value float64, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	text := strings.TrimSpace(string(data))
	if len(text) <= 0 {
		return 0, fmt.Errorf("file is empty: %s", path)
	}
	return strconv.ParseFloat(text, 64)
}

func resolvePath(path string) string {
	evaluatedPath, err := filepath.EvalSymlinks(path)
	if len(evaluatedPath) > 0 && err == nil {
		return evaluatedPath
	}
	return path
}

// WriteFloatToFileAtomic replaces the content of the file at the given path
// with the given value. Readers never observe a partially written value.
func WriteFloatToFileAtomic(value float64, path string) error {
	path = resolvePath(path)
	valueAsString := strconv.FormatFloat(value, 'f', -1, 64)
	return atomic.WriteFile(path, strings.NewReader(valueAsString))
}
