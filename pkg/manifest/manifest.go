// Package manifest loads and validates the declarative installation
// manifest. The manifest names the disks to prepare and carries two
// ordered command lists, `chroot` and `postinstall`, mixing hook
// commands (lines starting with @) with plain shell commands.
package manifest

import (
	"fmt"
	"os"
	"strings"

	version "github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/ali/pkg/errors"
	"github.com/glorpus-work/ali/pkg/hooks"
)

// Manifest is the top-level installation description.
type Manifest struct {
	// AliVersion optionally constrains the installer version this
	// manifest was written for, e.g. ">= 0.1".
	AliVersion string `yaml:"ali_version,omitempty"`

	Hostname string `yaml:"hostname,omitempty"`
	Timezone string `yaml:"timezone,omitempty"`

	Disks []Disk `yaml:"disks,omitempty"`

	// Chroot lines run inside the mounted target.
	Chroot []string `yaml:"chroot,omitempty"`
	// PostInstall lines run on the installer host after the chroot
	// phase, with paths resolved under the mountpoint.
	PostInstall []string `yaml:"postinstall,omitempty"`
}

// Disk describes one block device to partition.
type Disk struct {
	Device     string      `yaml:"device"`
	Table      string      `yaml:"table"`
	Partitions []Partition `yaml:"partitions,omitempty"`
}

// Partition describes one partition on a disk, in declaration order.
type Partition struct {
	Label string `yaml:"label,omitempty"`
	Size  string `yaml:"size,omitempty"`
	Type  string `yaml:"type,omitempty"`
}

// Partition tables understood by the partitioner shell-out.
var validTables = map[string]bool{
	"gpt": true,
	"mbr": true,
	"dos": true,
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FileError(err, fmt.Sprintf("read manifest %s", path))
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, errors.BadManifest("parse %s: %v", path, err)
	}

	return &m, nil
}

// CheckVersion verifies the manifest's ali_version constraint against
// the running installer version. An absent constraint always passes.
func (m *Manifest) CheckVersion(current string) error {
	if m.AliVersion == "" {
		return nil
	}

	constraint, err := version.NewConstraint(m.AliVersion)
	if err != nil {
		return errors.BadManifest("bad ali_version constraint %q: %v", m.AliVersion, err)
	}

	v, err := version.NewVersion(current)
	if err != nil {
		return errors.Internal("bad installer version %q: %v", current, err)
	}

	if !constraint.Check(v) {
		return errors.BadManifest("manifest requires ali_version %q, this is %s", m.AliVersion, current)
	}

	return nil
}

// Validate pre-flight-checks the manifest without executing anything:
// disk entries must be complete and every hook line must parse and
// pass the caller/mountpoint guard for the phase it appears in.
func (m *Manifest) Validate(mountpoint string) error {
	for i, d := range m.Disks {
		if d.Device == "" {
			return errors.BadManifest("disks[%d]: empty device", i)
		}
		if !validTables[d.Table] {
			return errors.BadManifest("disks[%d] (%s): unknown partition table %q", i, d.Device, d.Table)
		}
	}

	if err := validateLines(m.Chroot, hooks.CallerManifestChroot, mountpoint); err != nil {
		return errors.Wrap(err, "manifest key `chroot`")
	}
	if err := validateLines(m.PostInstall, hooks.CallerManifestPostInstall, mountpoint); err != nil {
		return errors.Wrap(err, "manifest key `postinstall`")
	}

	return nil
}

func validateLines(lines []string, caller hooks.Caller, mountpoint string) error {
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			return errors.BadManifest("line %d: empty command", i)
		}

		if hooks.IsHook(line) {
			if err := hooks.ValidateHook(line, caller, mountpoint); err != nil {
				return err
			}
		}
	}

	return nil
}
