// Package dumpfile reads and writes whole SQL dump files in memory.
package dumpfile

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// ReadString loads the whole file as UTF-8 text. Invalid byte sequences are
// replaced with U+FFFD instead of failing the read.
func ReadString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	s := string(data)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	return s, nil
}

// ReadLines loads the file and splits it into lines. Line terminators, both
// "\n" and "\r\n", are not kept; a trailing newline does not produce an
// extra empty line.
func ReadLines(path string) ([]string, error) {
	s, err := ReadString(path)
	if err != nil {
		return nil, err
	}
	return SplitLines(s), nil
}

func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// WriteLines writes every line followed by '\n'.
func WriteLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := io.WriteString(w, l+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func WriteString(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
