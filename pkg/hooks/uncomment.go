package hooks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/ali/pkg/errors"
)

// uncommentMatch selects how many occurrences a single invocation may
// uncomment.
type uncommentMatch int

const (
	// matchOnce uncomments the first matching occurrence on the first
	// matching line and stops.
	matchOnce uncommentMatch = iota
	// matchAll uncomments every occurrence in the document at the
	// first whitespace width that produces a change.
	matchAll
)

// maxMarkerGap is the widest run of spaces recognized between the
// comment marker and the pattern.
const maxMarkerGap = 4

const defaultMarker = "#"

// uncommentHook removes the comment marker in front of a pattern in a
// text file, e.g. turning `#Port 22` into `Port 22`.
type uncommentHook struct {
	mode  ModeHook
	match uncommentMatch

	marker  string
	pattern string
	file    string
}

func newUncomment(key string) *uncommentHook {
	h := &uncommentHook{marker: defaultMarker}

	switch key {
	case KeyUncomment:
		h.mode, h.match = ModeNormal, matchOnce
	case KeyUncommentPrint:
		h.mode, h.match = ModePrint, matchOnce
	case KeyUncommentAll:
		h.mode, h.match = ModeNormal, matchAll
	case KeyUncommentAllPrint:
		h.mode, h.match = ModePrint, matchAll
	}

	return h
}

func (h *uncommentHook) BaseKey() string {
	if h.match == matchAll {
		return KeyUncommentAll
	}

	return KeyUncomment
}

func (h *uncommentHook) Usage() string {
	return `<PATTERN> [marker <COMMENT_MARKER="#">] FILE`
}

func (h *uncommentHook) Mode() ModeHook { return h.mode }

func (h *uncommentHook) ShouldChroot() bool { return false }

func (h *uncommentHook) PreferredCallers() map[Caller]bool { return allCallers() }

func (h *uncommentHook) AbortIfNoMount() bool { return false }

// TryParse accepts two forms:
//
//	@uncomment <PATTERN> <FILE>
//	@uncomment <PATTERN> marker <COMMENT_MARKER> <FILE>
func (h *uncommentHook) TryParse(cmd string) error {
	parts, err := tokenize(cmd)
	if err != nil {
		return err
	}

	if len(parts) < 3 {
		return errors.BadHookCmd("%s: expect at least 2 arguments", h.BaseKey())
	}

	switch len(parts) {
	case 3:
		h.pattern = parts[1]
		h.file = parts[2]

	case 5:
		if parts[2] != "marker" {
			return errors.BadHookCmd(
				"%s: unexpected argument %s, expecting 2nd argument to be `marker`",
				h.BaseKey(), parts[2],
			)
		}
		h.pattern = parts[1]
		h.marker = parts[3]
		h.file = parts[4]

	default:
		return errors.BadHookCmd("%s: bad cmd parts: %d", h.BaseKey(), len(parts))
	}

	return nil
}

func (h *uncommentHook) Run(caller Caller, root string) (*ActionHook, error) {
	target := h.file
	switch caller {
	case CallerManifestPostInstall, CallerCli:
		target = filepath.Join(root, h.file)
	}

	raw, err := os.ReadFile(target)
	if err != nil {
		return nil, errors.FileError(err,
			fmt.Sprintf("%s: read original file to uncomment: %s", KeyUncomment, target))
	}
	original := string(raw)

	var uncommented string
	switch h.match {
	case matchAll:
		uncommented, err = uncommentTextAll(original, h.marker, h.pattern)
	default:
		uncommented, err = uncommentTextOnce(original, h.marker, h.pattern)
	}
	if err != nil {
		return nil, err
	}

	if h.mode == ModePrint {
		fmt.Fprintln(printOut, uncommented)
	} else {
		if err := writeBack(target, uncommented); err != nil {
			return nil, errors.FileError(err,
				fmt.Sprintf("%s: write uncommented to %s", KeyUncomment, target))
		}
	}

	return h.action()
}

func (h *uncommentHook) action() (*ActionHook, error) {
	record, err := json.Marshal(struct {
		CommentMarker string `json:"comment_marker"`
		Pattern       string `json:"pattern"`
		File          string `json:"file"`
	}{h.marker, h.pattern, h.file})
	if err != nil {
		return nil, errors.Internal("%s: marshal action: %v", KeyUncomment, err)
	}

	return &ActionHook{Type: TypeUncomment, Action: string(record)}, nil
}

// writeBack overwrites a file in place, keeping its mode. No backup,
// not atomic.
func writeBack(path, text string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}

	return os.WriteFile(path, []byte(text), mode)
}

// uncommentTextOnce scans lines in order and uncomments the first
// occurrence of marker + 0..maxMarkerGap spaces + pattern it finds,
// leaving the rest of the document byte-identical.
func uncommentTextOnce(original, marker, pattern string) (string, error) {
	for _, line := range strings.Split(original, "\n") {
		for width := 0; width <= maxMarkerGap; width++ {
			commented := marker + strings.Repeat(" ", width) + pattern

			if strings.Contains(line, commented) {
				lineUncommented := strings.Replace(line, commented, pattern, 1)
				return strings.Replace(original, line, lineUncommented, 1), nil
			}
		}
	}

	return "", errors.HookError("%s: no such comment pattern '%s %s'", KeyUncomment, marker, pattern)
}

// uncommentTextAll replaces every occurrence of marker + whitespace +
// pattern in the document, widening the whitespace run until one width
// produces a change. The search is bounded to the same width range as
// uncommentTextOnce and fails explicitly when exhausted.
func uncommentTextAll(original, marker, pattern string) (string, error) {
	for width := 0; width <= maxMarkerGap; width++ {
		commented := marker + strings.Repeat(" ", width) + pattern

		uncommented := strings.ReplaceAll(original, commented, pattern)
		if uncommented != original {
			return uncommented, nil
		}
	}

	return "", errors.HookError("%s: no such comment pattern '%s %s'", KeyUncommentAll, marker, pattern)
}
