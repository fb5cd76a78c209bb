package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
)

// MaxBytes caps how much of one log ReadFile and ReadAll will load.
const MaxBytes = 64 << 20

// ErrTooLarge is returned when a whole-document read exceeds MaxBytes.
var ErrTooLarge = errors.New("log too large")

// ReadFile loads the whole log at path.
func ReadFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	if info, err := file.Stat(); err == nil && info.Size() > MaxBytes {
		return "", fmt.Errorf("%s is %s: %w", path, humanize.IBytes(uint64(info.Size())), ErrTooLarge)
	}
	return ReadAll(file)
}

// ReadAll loads a log from r, typically stdin.
func ReadAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read log: %w", err)
	}
	if len(data) > MaxBytes {
		return "", fmt.Errorf("input exceeds %s: %w", humanize.IBytes(MaxBytes), ErrTooLarge)
	}
	return string(data), nil
}

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. Unlike ReadFile it does not
// hold the whole file in memory, so it also works past MaxBytes.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()
	return Tail(file, maxLines)
}

// Tail returns at most maxLines from the end of r.
func Tail(r io.Reader, maxLines int) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Glob lists regular files under root matching pattern ("**" allowed), as
// paths joined onto root and sorted. Unpacked run-log archives
// ("build/1_Set up job.txt") are the intended use.
func Glob(root, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(root, filepath.FromSlash(m)))
	}
	sort.Strings(paths)
	return paths, nil
}
