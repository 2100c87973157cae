package hooks

import (
	"strings"
	"unicode"

	"github.com/glorpus-work/ali/pkg/errors"
)

// wrapperHook wraps another hook command to override how its file
// paths relate to the mountpoint:
//
//	@mnt    requires a real mountpoint and passes it through
//	@no-mnt hands the inner hook / so its paths are taken verbatim
type wrapperHook struct {
	key string

	inner    Hook
	innerCmd string
}

func newWrapper(key string) *wrapperHook {
	return &wrapperHook{key: key}
}

func (h *wrapperHook) BaseKey() string { return h.key }

func (h *wrapperHook) Usage() string { return "<HOOK_CMD...>" }

func (h *wrapperHook) Mode() ModeHook {
	if h.inner != nil {
		return h.inner.Mode()
	}

	return ModeNormal
}

func (h *wrapperHook) ShouldChroot() bool { return h.key == KeyWrapperMnt }

func (h *wrapperHook) PreferredCallers() map[Caller]bool {
	if h.inner != nil {
		return h.inner.PreferredCallers()
	}

	return allCallers()
}

func (h *wrapperHook) AbortIfNoMount() bool { return h.key == KeyWrapperMnt }

func (h *wrapperHook) TryParse(cmd string) error {
	parts, err := tokenize(cmd)
	if err != nil {
		return err
	}

	if len(parts) < 2 {
		return errors.BadHookCmd("%s: expect a wrapped hook command", h.key)
	}

	innerKey := parts[1]
	if innerKey == KeyWrapperMnt || innerKey == KeyWrapperNoMnt {
		return errors.BadHookCmd("%s: cannot wrap another wrapper %s", h.key, innerKey)
	}

	inner, err := InitBlankHook(innerKey)
	if err != nil {
		return err
	}

	// Hand the inner hook its own command string with this wrapper's
	// key stripped, quoting intact.
	rest := strings.TrimSpace(cmd)
	cut := strings.IndexFunc(rest, unicode.IsSpace)
	rest = strings.TrimSpace(rest[cut:])

	if err := inner.TryParse(rest); err != nil {
		printUsage(inner)
		return err
	}

	h.inner = inner
	h.innerCmd = rest

	return nil
}

func (h *wrapperHook) Run(caller Caller, root string) (*ActionHook, error) {
	if h.key == KeyWrapperNoMnt {
		root = rootMountpoint
	}

	return h.inner.Run(caller, root)
}
