package data

import "path/filepath"

// ResolvePath anchors a configured data file under the data root. Absolute
// paths pass through untouched.
func ResolvePath(root, file string) string {
	if file == "" || filepath.IsAbs(file) || root == "" {
		return file
	}
	return filepath.Join(root, file)
}
