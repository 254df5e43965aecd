package reporting

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EnsureDir creates the directory holding path when it does not exist yet.
func EnsureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// CreateWithFallback opens path for writing. When the target cannot be
// created (locked by a viewer, permission change), it falls back to a
// timestamp-suffixed sibling rather than aborting the run, and reports the
// path actually used.
func CreateWithFallback(path string) (*os.File, string, error) {
	if err := EnsureDir(path); err != nil {
		return nil, "", err
	}
	f, err := os.Create(path)
	if err == nil {
		return f, path, nil
	}

	alt := timestampedPath(path)
	log.Printf("⚠️ could not write %s (%v), falling back to %s", path, err, alt)
	f, err2 := os.Create(alt)
	if err2 != nil {
		return nil, "", fmt.Errorf("writing %s: %w", path, err)
	}
	return f, alt, nil
}

func timestampedPath(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s_%s%s", base, time.Now().Format("20060102_150405"), ext)
}
