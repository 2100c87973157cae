// Package fsutil provides small file-system helpers shared by the
// installer: existence checks for block devices and target files, and
// thin wrappers that apply the default permission modes.
package fsutil

import (
	"os"
)

// Default permission modes for files and directories created on the
// target system.
const (
	FileModeDefault = 0o644 // -rw-r--r--: regular configuration files
	DirModeDefault  = 0o755 // drwxr-xr-x: directories
)

// FileExists reports whether path exists. Any stat error besides
// "not exist" is treated as existing, leaving the real failure to the
// operation that follows.
func FileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

// EnsureDir creates a directory and all necessary parents with the
// default directory mode.
func EnsureDir(path string) error {
	return os.MkdirAll(path, DirModeDefault)
}

// WriteFile writes data to path with the default file mode, creating
// the file if needed and truncating it otherwise.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, FileModeDefault)
}
