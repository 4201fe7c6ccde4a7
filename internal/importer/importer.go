// Package importer finds invoice text files waiting in the inbox and reads
// them for extraction.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultInbox is the inbox directory used when none is configured.
const DefaultInbox = "inbox"

// processedDir is the inbox subdirectory for imported files.
const processedDir = "processed"

// textExts are the file extensions picked up from the inbox.
var textExts = []string{".txt", ".text"}

// ErrTooLarge is returned when an invoice exceeds the configured size limit.
var ErrTooLarge = errors.New("invoice text too large")

// FileInfo describes an invoice file in the inbox.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Scan returns invoice text files in <repoRoot>/<inbox>/, sorted by name.
func Scan(repoRoot, inbox string) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, inbox)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading inbox: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !isText(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

func isText(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range textExts {
		if ext == e {
			return true
		}
	}
	return false
}

// Read returns up to maxBytes of text from r. A maxBytes of zero or less
// means no limit.
func Read(r io.Reader, maxBytes int64) (string, error) {
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading invoice: %w", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, maxBytes)
	}
	return string(data), nil
}

// ReadFile reads an invoice file, enforcing maxBytes.
func ReadFile(path string, maxBytes int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening invoice: %w", err)
	}
	defer f.Close()

	text, err := Read(f, maxBytes)
	if err != nil {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return text, nil
}

// MarkProcessed moves a file from the inbox to <inbox>/processed/.
func MarkProcessed(repoRoot, inbox, fileName string) error {
	src := filepath.Join(repoRoot, inbox, fileName)
	dstDir := filepath.Join(repoRoot, inbox, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
