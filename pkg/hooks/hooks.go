// Package hooks implements the hook-execution core of the installer.
// A hook is a short textual command embedded in a manifest or issued
// from the CLI, e.g. `@uncomment PubkeyAuthentication /etc/ssh/sshd_config`.
// The package tokenizes the command, dispatches its leading key to one
// of the concrete hook implementations, validates the invocation
// context, and executes the hook in either normal or print mode.
package hooks

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/shlex"
	"github.com/gookit/color"

	"github.com/glorpus-work/ali/pkg/errors"
)

// Caller is the execution context a hook command was invoked from.
type Caller int

// Known callers.
const (
	// CallerManifestChroot runs hooks from the manifest `chroot` list.
	CallerManifestChroot Caller = iota
	// CallerManifestPostInstall runs hooks from the manifest `postinstall` list.
	CallerManifestPostInstall
	// CallerCli runs hooks from the `hooks` subcommand.
	CallerCli
)

func (c Caller) String() string {
	switch c {
	case CallerManifestChroot:
		return "manifest key `chroot`"
	case CallerManifestPostInstall:
		return "manifest key `postinstall`"
	case CallerCli:
		return "subcommand `hooks`"
	default:
		return fmt.Sprintf("unknown caller %d", int(c))
	}
}

// ModeHook is the execution mode of a parsed hook command. It is
// derived from the leading key alone and never changes after parsing.
type ModeHook int

const (
	// ModeNormal may write changes to disk.
	ModeNormal ModeHook = iota
	// ModePrint is read-only and idempotent.
	ModePrint
)

// HookType tags an ActionHook with the hook family that produced it.
type HookType string

// Hook families.
const (
	TypeQuicknet     HookType = "quicknet"
	TypeReplaceToken HookType = "replace_token"
	TypeUncomment    HookType = "uncomment"
	TypeMkinitcpio   HookType = "mkinitcpio"
)

// ActionHook is the audit record a hook returns after running. The
// payload is a serialized JSON string so that code outside this
// package never depends on a hook's internal configuration shape.
type ActionHook struct {
	Type   HookType `json:"type"`
	Action string   `json:"action"`
}

// Hook is the contract every hook variant satisfies. A blank instance
// is obtained from the key registry, fed the full command string via
// TryParse, checked against the caller/mountpoint guard, and finally
// executed with Run.
type Hook interface {
	// BaseKey returns the hook key without the -print suffix.
	BaseKey() string

	// Usage returns the argument synopsis shown on parse failure.
	Usage() string

	// Mode reports whether this command is print-only.
	Mode() ModeHook

	// ShouldChroot reports whether the hook expects to operate on a
	// mounted target and should go through the mountpoint guard.
	ShouldChroot() bool

	// PreferredCallers returns the callers the hook expects to be
	// invoked from. A mismatch only warns.
	PreferredCallers() map[Caller]bool

	// AbortIfNoMount reports whether running without a real
	// mountpoint is an error rather than a warning.
	AbortIfNoMount() bool

	// TryParse consumes the full command string, leading key
	// included, and populates the hook's configuration.
	TryParse(cmd string) error

	// Run executes the hook and returns its audit record.
	Run(caller Caller, root string) (*ActionHook, error)
}

// printOut is where print-mode hooks and usage text are written.
// Swapped out by tests.
var printOut io.Writer = os.Stdout

// IsHook reports whether a manifest or CLI line is a hook command.
func IsHook(cmd string) bool {
	return strings.HasPrefix(cmd, "@")
}

// ApplyHook parses, validates and runs a hook command.
func ApplyHook(cmd string, caller Caller, root string) (*ActionHook, error) {
	h, err := parseValidate(cmd, caller, root)
	if err != nil {
		return nil, err
	}

	return h.Run(caller, root)
}

// ValidateHook runs the same parse and validation pipeline as
// ApplyHook but executes nothing. Used to pre-flight manifests.
func ValidateHook(cmd string, caller Caller, root string) error {
	_, err := parseValidate(cmd, caller, root)

	return err
}

func parseValidate(cmd string, caller Caller, root string) (Hook, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return nil, errors.BadManifest("empty hook")
	}

	h, err := InitBlankHook(parts[0])
	if err != nil {
		return nil, err
	}

	if err := h.TryParse(cmd); err != nil {
		printUsage(h)
		return nil, err
	}

	if h.ShouldChroot() {
		if err := checkMountpoint(h, caller, root); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// InitBlankHook resolves a hook key to an unparsed instance of the
// matching hook. The key set is closed; anything else is rejected
// before parsing is attempted.
func InitBlankHook(key string) (Hook, error) {
	switch key {
	case KeyWrapperMnt, KeyWrapperNoMnt:
		return newWrapper(key), nil

	case KeyQuicknet, KeyQuicknetPrint:
		return newQuicknet(key), nil

	case KeyMkinitcpio, KeyMkinitcpioPrint:
		return newMkinitcpio(key), nil

	case KeyReplaceToken, KeyReplaceTokenPrint:
		return newReplaceToken(key), nil

	case KeyUncomment, KeyUncommentPrint, KeyUncommentAll, KeyUncommentAllPrint:
		return newUncomment(key), nil

	default:
		return nil, errors.BadArgs("unknown hook key: %s", key)
	}
}

// tokenize splits a hook command into tokens with shell-lexer
// semantics: whitespace-separated, quotes respected.
func tokenize(cmd string) ([]string, error) {
	parts, err := shlex.Split(cmd)
	if err != nil {
		return nil, errors.BadHookCmd("bad cmd %q: %v", cmd, err)
	}

	return parts, nil
}

// hookKey renders the full key of a hook, -print suffix included.
func hookKey(h Hook) string {
	if h.Mode() == ModePrint {
		return h.BaseKey() + printSuffix
	}

	return h.BaseKey()
}

// printUsage prints the hook's usage line in green to stdout.
func printUsage(h Hook) {
	fmt.Fprintln(printOut, color.Green.Sprintf("%s: %s", hookKey(h), h.Usage()))
}

// warnf prints a yellow warning banner for the hook to stderr.
func warnf(h Hook, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "### %s ###\n", color.Yellow.Sprintf("%s WARN: %s", h.BaseKey(), msg))
}

func allCallers() map[Caller]bool {
	return map[Caller]bool{
		CallerManifestChroot:      true,
		CallerManifestPostInstall: true,
		CallerCli:                 true,
	}
}

func callerSetString(set map[Caller]bool) string {
	names := make([]string, 0, len(set))
	for c := range set {
		names = append(names, c.String())
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}
