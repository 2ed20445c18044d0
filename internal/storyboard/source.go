package storyboard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Script source errors. The parser itself never fails on content; only
// acquiring the script bytes can fail, and callers distinguish the three
// cases with errors.Is.
var (
	// ErrScriptNotFound reports a missing script file.
	ErrScriptNotFound = errors.New("script file not found")

	// ErrUnsupportedFormat reports a file that is not a storyboard
	// script (wrong extension).
	ErrUnsupportedFormat = errors.New("not a storyboard script")

	// ErrScriptUnreadable reports a file that exists but could not be
	// read or decoded.
	ErrScriptUnreadable = errors.New("script file unreadable")
)

// ReadScriptLines reads a storyboard script from disk and returns its
// lines. This is the only filesystem access in the package: ParseScene
// consumes the returned lines and performs no I/O of its own.
func ReadScriptLines(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".osb", ".osu":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrScriptNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrScriptUnreadable, path, err)
	}

	// Scripts are UTF-8, optionally with a BOM.
	data = trimBOM(data)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s: invalid UTF-8", ErrScriptUnreadable, path)
	}

	return strings.Split(string(data), "\n"), nil
}

func trimBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
