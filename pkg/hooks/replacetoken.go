package hooks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/ali/pkg/errors"
)

// replaceTokenHook substitutes every `{{ TOKEN }}` occurrence in a
// template file with a literal value.
type replaceTokenHook struct {
	mode ModeHook

	token    string
	value    string
	template string
	output   string
}

func newReplaceToken(key string) *replaceTokenHook {
	h := &replaceTokenHook{}
	if key == KeyReplaceTokenPrint {
		h.mode = ModePrint
	}

	return h
}

func (h *replaceTokenHook) BaseKey() string { return KeyReplaceToken }

func (h *replaceTokenHook) Usage() string {
	return `"<TOKEN>" "<VALUE>" <TEMPLATE> [OUTPUT]`
}

func (h *replaceTokenHook) Mode() ModeHook { return h.mode }

func (h *replaceTokenHook) ShouldChroot() bool { return false }

func (h *replaceTokenHook) PreferredCallers() map[Caller]bool { return allCallers() }

func (h *replaceTokenHook) AbortIfNoMount() bool { return false }

func (h *replaceTokenHook) TryParse(cmd string) error {
	parts, err := tokenize(cmd)
	if err != nil {
		return err
	}

	args := parts[1:]
	switch len(args) {
	case 3:
		h.token, h.value, h.template = args[0], args[1], args[2]
		h.output = h.template

	case 4:
		h.token, h.value, h.template, h.output = args[0], args[1], args[2], args[3]

	default:
		return errors.BadHookCmd("%s: bad cmd parts: %d", KeyReplaceToken, len(parts))
	}

	if h.token == "" {
		return errors.BadHookCmd("%s: empty token", KeyReplaceToken)
	}

	return nil
}

func (h *replaceTokenHook) Run(caller Caller, root string) (*ActionHook, error) {
	template, output := h.template, h.output
	switch caller {
	case CallerManifestPostInstall, CallerCli:
		template = filepath.Join(root, h.template)
		output = filepath.Join(root, h.output)
	}

	raw, err := os.ReadFile(template)
	if err != nil {
		return nil, errors.FileError(err,
			fmt.Sprintf("%s: read template %s", KeyReplaceToken, template))
	}
	text := string(raw)

	needle := fmt.Sprintf("{{ %s }}", h.token)
	if !strings.Contains(text, needle) {
		return nil, errors.HookError("%s: no such token \"%s\" in %s",
			KeyReplaceToken, needle, h.template)
	}

	replaced := strings.ReplaceAll(text, needle, h.value)

	if h.mode == ModePrint {
		fmt.Fprintln(printOut, replaced)
	} else {
		if err := writeBack(output, replaced); err != nil {
			return nil, errors.FileError(err,
				fmt.Sprintf("%s: write replaced to %s", KeyReplaceToken, output))
		}
	}

	return h.action()
}

func (h *replaceTokenHook) action() (*ActionHook, error) {
	record, err := json.Marshal(struct {
		Token    string `json:"token"`
		Value    string `json:"value"`
		Template string `json:"template"`
		Output   string `json:"output"`
	}{h.token, h.value, h.template, h.output})
	if err != nil {
		return nil, errors.Internal("%s: marshal action: %v", KeyReplaceToken, err)
	}

	return &ActionHook{Type: TypeReplaceToken, Action: string(record)}, nil
}
