package hooks

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/glorpus-work/ali/pkg/errors"
)

// bootHookPreset is a named bundle of initramfs hooks for a common
// root-filesystem setup.
type bootHookPreset int

const (
	presetLvm bootHookPreset = iota
	presetLuks
	presetLvmOnLuks
	presetLuksOnLvm
)

func (p bootHookPreset) String() string {
	switch p {
	case presetLvm:
		return "lvm"
	case presetLuks:
		return "luks"
	case presetLvmOnLuks:
		return "lvm-on-luks"
	case presetLuksOnLvm:
		return "luks-on-lvm"
	default:
		return fmt.Sprintf("unknown preset %d", int(p))
	}
}

// hooks expands a preset to its canonical mkinitcpio HOOKS sequence.
func (p bootHookPreset) hooks() string {
	switch p {
	case presetLvm:
		return presetHooksLvmRoot
	case presetLuks:
		return presetHooksLuksRoot
	case presetLvmOnLuks:
		return presetHooksLvmOnLuksRoot
	default:
		return presetHooksLuksOnLvmRoot
	}
}

// Canonical HOOKS lines per preset. Order matters to mkinitcpio:
// encrypt must run before lvm2 for LVM-on-LUKS, and after it for
// LUKS-on-LVM.
const (
	presetHooksLvmRoot       = "base udev autodetect modconf kms keyboard keymap consolefont block lvm2 filesystems fsck"
	presetHooksLuksRoot      = "base udev autodetect modconf kms keyboard keymap consolefont block encrypt filesystems fsck"
	presetHooksLvmOnLuksRoot = "base udev autodetect modconf kms keyboard keymap consolefont block encrypt lvm2 filesystems fsck"
	presetHooksLuksOnLvmRoot = "base udev autodetect modconf kms keyboard keymap consolefont block lvm2 encrypt filesystems fsck"
)

// Recognized spellings for each preset in boot_hook=... values.
var (
	aliasesRootLvm = []string{
		"root-on-lvm",
		"root_on_lvm",
		"root-lvm",
		"root_lvm",
		"lvm-root",
		"lvm_root",
		"lvm",
	}

	aliasesRootLuks = []string{
		"root-on-luks",
		"root_on_luks",
		"root-luks",
		"root_luks",
		"luks-root",
		"luks_root",
		"luks",
	}

	aliasesRootLvmOnLuks = []string{
		"root-on-lvm-on-luks",
		"root_on_lvm_on_luks",
		"lvm-on-luks-root",
		"lvm_on_luks_root",
		"root-lvm-on-luks",
		"root_lvm_on_luks",
		"lvm-on-luks",
		"lvm_on_luks",
	}

	aliasesRootLuksOnLvm = []string{
		"root-on-luks-on-lvm",
		"root_on_luks_on_lvm",
		"luks-on-lvm-root",
		"luks_on_lvm_root",
		"root-luks-on-lvm",
		"root_luks_on_lvm",
		"luks-on-lvm",
		"luks_on_lvm",
	}
)

func decideBootHook(v string) (bootHookPreset, error) {
	for preset, aliases := range map[bootHookPreset][]string{
		presetLvm:       aliasesRootLvm,
		presetLuks:      aliasesRootLuks,
		presetLvmOnLuks: aliasesRootLvmOnLuks,
		presetLuksOnLvm: aliasesRootLuksOnLvm,
	} {
		for _, alias := range aliases {
			if v == alias {
				return preset, nil
			}
		}
	}

	return 0, errors.BadHookCmd("%s: no such boot_hook preset: %s", KeyMkinitcpio, v)
}

// mkinitcpioHook collects mkinitcpio.conf parameters. Print mode
// renders the BINARIES/HOOKS shell arrays; normal mode is a declared
// stub, config-file writing is out of scope.
type mkinitcpioHook struct {
	mode ModeHook

	bootHook    bootHookPreset
	hasBootHook bool
	binaries    []string
	hooks       []string
}

func newMkinitcpio(key string) *mkinitcpioHook {
	h := &mkinitcpioHook{}
	if key == KeyMkinitcpioPrint {
		h.mode = ModePrint
	}

	return h
}

func (h *mkinitcpioHook) BaseKey() string { return KeyMkinitcpio }

func (h *mkinitcpioHook) Usage() string {
	return `<boot_hook=PRESET> <binaries="BIN1 BIN2..."> <hooks="HOOK1 HOOK2...">`
}

func (h *mkinitcpioHook) Mode() ModeHook { return h.mode }

func (h *mkinitcpioHook) ShouldChroot() bool { return true }

func (h *mkinitcpioHook) PreferredCallers() map[Caller]bool {
	return map[Caller]bool{
		CallerManifestChroot: true,
		CallerCli:            true,
	}
}

func (h *mkinitcpioHook) AbortIfNoMount() bool { return false }

// TryParse reads key=value arguments. Unknown keys are ignored,
// duplicate keys and combining boot_hook with hooks are rejected.
func (h *mkinitcpioHook) TryParse(cmd string) error {
	parts, err := tokenize(cmd)
	if err != nil {
		return err
	}

	if len(parts) < 2 {
		return errors.BadHookCmd("%s: need at least 1 argument", KeyMkinitcpio)
	}

	seen := make(map[string]bool)
	for _, arg := range parts[1:] {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			continue
		}

		if seen[k] {
			return errors.BadHookCmd("%s: duplicate key %s", KeyMkinitcpio, k)
		}
		seen[k] = true

		switch k {
		case "boot_hook":
			preset, err := decideBootHook(v)
			if err != nil {
				return err
			}
			h.bootHook = preset
			h.hasBootHook = true

		case "binaries":
			h.binaries = strings.Fields(v)

		case "hooks":
			h.hooks = strings.Fields(v)
		}
	}

	if h.hasBootHook && h.hooks != nil {
		return errors.BadHookCmd(
			"%s: boot_hook and hooks are mutually exclusive, but found both",
			hookKey(h),
		)
	}

	return nil
}

func (h *mkinitcpioHook) Run(_ Caller, _ string) (*ActionHook, error) {
	hooks := h.hooks
	if h.hasBootHook {
		hooks = strings.Fields(h.bootHook.hooks())
	}

	if h.mode == ModePrint {
		if h.binaries != nil {
			fmt.Fprintln(printOut, fmtShellArray("BINARIES", h.binaries))
		}
		if hooks != nil {
			fmt.Fprintln(printOut, fmtShellArray("HOOKS", hooks))
		}

		return h.action(hooks)
	}

	return nil, errors.NotImplemented("%s: write files", KeyMkinitcpio)
}

func (h *mkinitcpioHook) action(hooks []string) (*ActionHook, error) {
	var bootHook *string
	if h.hasBootHook {
		name := h.bootHook.String()
		bootHook = &name
	}

	record, err := json.Marshal(struct {
		BootHook  *string  `json:"boot_hook"`
		Binaries  []string `json:"binaries"`
		Hooks     []string `json:"hooks"`
		PrintOnly bool     `json:"print_only"`
	}{bootHook, h.binaries, hooks, h.mode == ModePrint})
	if err != nil {
		return nil, errors.Internal("%s: marshal action: %v", KeyMkinitcpio, err)
	}

	return &ActionHook{Type: TypeMkinitcpio, Action: string(record)}, nil
}

// fmtShellArray renders elems as a shell array assignment,
// e.g. HOOKS=(base udev block).
func fmtShellArray(name string, elems []string) string {
	return fmt.Sprintf("%s=(%s)", name, strings.Join(elems, " "))
}
