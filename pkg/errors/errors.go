// Package errors defines the error taxonomy shared by the installer.
// Errors are grouped by the stage that produces them: manifest loading,
// hook command parsing, hook execution, and subprocess handling. Callers
// match on the sentinel values with errors.Is and read the wrapped
// context for details.
package errors

import "fmt"

// Common error kinds used throughout the application.
var (
	// ErrBadManifest is returned for a structurally invalid manifest
	// or an invalid hook line inside one.
	ErrBadManifest = fmt.Errorf("bad manifest")

	// ErrBadArgs is returned for CLI-level argument problems, e.g. an
	// unknown hook key.
	ErrBadArgs = fmt.Errorf("bad arguments")

	// ErrBadHookCmd is returned when a hook command string fails to
	// parse: wrong argument count, duplicate key, mutually exclusive
	// options, or an unresolvable alias.
	ErrBadHookCmd = fmt.Errorf("bad hook command")

	// ErrHook is a runtime failure specific to a hook's semantics,
	// e.g. a comment pattern that does not occur in the target file.
	ErrHook = fmt.Errorf("hook failed")

	// ErrNotImplemented marks a declared-incomplete code path.
	ErrNotImplemented = fmt.Errorf("not implemented")

	// ErrInternal signals a bug in ali itself, such as a manifest
	// caller supplying / as mountpoint.
	ErrInternal = fmt.Errorf("ali bug")

	// ErrNoSuchDevice is returned when a manifest names a block device
	// that does not exist.
	ErrNoSuchDevice = fmt.Errorf("no such device")

	// ErrCmdFailed is returned when a spawned command fails to start or
	// exits with a bad status.
	ErrCmdFailed = fmt.Errorf("command failed")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// BadManifest creates an ErrBadManifest with a reason.
func BadManifest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrBadManifest, fmt.Sprintf(format, args...))
}

// BadArgs creates an ErrBadArgs with a reason.
func BadArgs(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrBadArgs, fmt.Sprintf(format, args...))
}

// BadHookCmd creates an ErrBadHookCmd with a reason.
func BadHookCmd(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrBadHookCmd, fmt.Sprintf(format, args...))
}

// HookError creates an ErrHook with a reason.
func HookError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrHook, fmt.Sprintf(format, args...))
}

// NotImplemented creates an ErrNotImplemented naming the missing path.
func NotImplemented(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotImplemented, fmt.Sprintf(format, args...))
}

// Internal creates an ErrInternal for invariant violations.
func Internal(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInternal, fmt.Sprintf(format, args...))
}

// FileError wraps an OS-level file error with a human context string.
// The underlying error stays reachable through errors.Unwrap.
func FileError(err error, context string) error {
	return fmt.Errorf("%s: %w", context, err)
}
