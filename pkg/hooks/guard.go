package hooks

import (
	"github.com/glorpus-work/ali/pkg/errors"
)

// rootMountpoint means "no real mountpoint supplied".
const rootMountpoint = "/"

// mountRule decides what happens when a chroot-aware hook is invoked
// with / as mountpoint. One row per caller keeps all combinations of
// (caller, root_location == "/") auditable in one place.
type mountRule struct {
	// fatal marks the combination as an internal invariant violation:
	// manifest execution is expected to always supply a mountpoint.
	fatal bool
	// hint is an extra warning printed after the mountpoint warning.
	hint string
}

var noMountRules = map[Caller]mountRule{
	CallerCli:                 {hint: "hint: use --mountpoint flag to specify non-/ mountpoint"},
	CallerManifestChroot:      {fatal: true},
	CallerManifestPostInstall: {fatal: true},
}

// checkMountpoint validates the invocation context of a chroot-aware
// hook. Both checks are advisory except for the fatal rows above and
// hooks that declare AbortIfNoMount.
func checkMountpoint(h Hook, caller Caller, mountpoint string) error {
	if mountpoint == rootMountpoint {
		warnf(h, "got / as mountpoint")

		rule := noMountRules[caller]
		if rule.hint != "" {
			warnf(h, "%s", rule.hint)
		}
		if rule.fatal {
			return errors.Internal("got / as mountpoint for hook %s", hookKey(h))
		}

		if h.AbortIfNoMount() {
			return errors.BadHookCmd("hook %s is to be run with a mountpoint", hookKey(h))
		}
	}

	preferred := h.PreferredCallers()
	if !preferred[caller] {
		warnf(h, "non-preferred caller %s", caller)
		warnf(h, "preferred callers: %s", callerSetString(preferred))
	}

	return nil
}
