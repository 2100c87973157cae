package hooks

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/glorpus-work/ali/pkg/errors"
	"github.com/glorpus-work/ali/pkg/fsutil"
)

// quicknetHook drops a minimal systemd-networkd DHCP unit for one
// interface into the target system.
type quicknetHook struct {
	mode ModeHook

	iface string
	dns   string
}

func newQuicknet(key string) *quicknetHook {
	h := &quicknetHook{}
	if key == KeyQuicknetPrint {
		h.mode = ModePrint
	}

	return h
}

func (h *quicknetHook) BaseKey() string { return KeyQuicknet }

func (h *quicknetHook) Usage() string {
	return "<INTERFACE> [dns <DNS_UPSTREAM>]"
}

func (h *quicknetHook) Mode() ModeHook { return h.mode }

func (h *quicknetHook) ShouldChroot() bool { return true }

func (h *quicknetHook) PreferredCallers() map[Caller]bool {
	return map[Caller]bool{
		CallerManifestPostInstall: true,
		CallerCli:                 true,
	}
}

// The unit file lands under the mountpoint, so running against / would
// reconfigure the installer host instead of the target.
func (h *quicknetHook) AbortIfNoMount() bool { return true }

func (h *quicknetHook) TryParse(cmd string) error {
	parts, err := tokenize(cmd)
	if err != nil {
		return err
	}

	args := parts[1:]
	switch len(args) {
	case 1:
		h.iface = args[0]

	case 3:
		if args[1] != "dns" {
			return errors.BadHookCmd(
				"%s: unexpected argument %s, expecting 2nd argument to be `dns`",
				KeyQuicknet, args[1],
			)
		}
		h.iface = args[0]
		h.dns = args[2]

	default:
		return errors.BadHookCmd("%s: bad cmd parts: %d", KeyQuicknet, len(parts))
	}

	return nil
}

func (h *quicknetHook) Run(_ Caller, root string) (*ActionHook, error) {
	unit := h.networkdUnit()

	if h.mode == ModePrint {
		fmt.Fprint(printOut, unit)
		return h.action()
	}

	dir := filepath.Join(root, "etc/systemd/network")
	if err := fsutil.EnsureDir(dir); err != nil {
		return nil, errors.FileError(err,
			fmt.Sprintf("%s: create networkd directory %s", KeyQuicknet, dir))
	}

	target := filepath.Join(dir, fmt.Sprintf("00-ali-quicknet-%s.network", h.iface))
	if err := fsutil.WriteFile(target, []byte(unit)); err != nil {
		return nil, errors.FileError(err,
			fmt.Sprintf("%s: write networkd unit %s", KeyQuicknet, target))
	}

	return h.action()
}

func (h *quicknetHook) networkdUnit() string {
	unit := fmt.Sprintf("[Match]\nName=%s\n\n[Network]\nDHCP=yes\n", h.iface)
	if h.dns != "" {
		unit += fmt.Sprintf("DNS=%s\n", h.dns)
	}

	return unit
}

func (h *quicknetHook) action() (*ActionHook, error) {
	record, err := json.Marshal(struct {
		Interface string `json:"interface"`
		DNS       string `json:"dns,omitempty"`
	}{h.iface, h.dns})
	if err != nil {
		return nil, errors.Internal("%s: marshal action: %v", KeyQuicknet, err)
	}

	return &ActionHook{Type: TypeQuicknet, Action: string(record)}, nil
}
