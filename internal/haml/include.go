// Package haml imports Hybrid Automaton Network descriptions written in
// YAML into the internal/hybrid IR.
package haml

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/Goldenbeak21/modular-code-generation/internal/diagnostics"
)

var includeTag = regexp.MustCompile(`!include\s+(\S+)`)

// SpliceIncludes resolves every `!include <path>` tag in text as a textual
// splice performed before YAML parsing (spec §4.4): the tag is replaced by
// the referenced file's content, relative paths resolved against dir (the
// directory containing the file that held the tag). Includes compose
// recursively; a cycle (a file transitively including itself) raises
// ErrIncludeCycle naming every file in the cycle.
func SpliceIncludes(text, dir string) (string, error) {
	return spliceIncludes(text, dir, nil)
}

func spliceIncludes(text, dir string, stack []string) (string, error) {
	var err error
	var cycleErr error
	result := includeTag.ReplaceAllStringFunc(text, func(match string) string {
		if cycleErr != nil {
			return match
		}
		sub := includeTag.FindStringSubmatch(match)
		path := sub[1]
		resolved := path
		if !filepath.IsAbs(path) {
			resolved = filepath.Join(dir, path)
		}
		for _, seen := range stack {
			if seen == resolved {
				cycleErr = diagnostics.New(diagnostics.ErrIncludeCycle, resolved,
					"include cycle: %s", strings.Join(append(append([]string{}, stack...), resolved), " -> "))
				return match
			}
		}
		data, readErr := readIncludeFile(resolved)
		if readErr != nil {
			err = diagnostics.New(diagnostics.ErrIOError, resolved, "reading include: %v", readErr)
			return match
		}
		spliced, spliceErr := spliceIncludes(string(data), filepath.Dir(resolved), append(stack, resolved))
		if spliceErr != nil {
			err = spliceErr
			return match
		}
		return spliced
	})
	if cycleErr != nil {
		return "", cycleErr
	}
	if err != nil {
		return "", err
	}
	return result, nil
}

// readIncludeFile reads an included file, retrying once on a transient
// filesystem error (spec §7: "only the Importer's include resolver
// retries (once) for a transient filesystem error") before giving up.
// #nosec G304 -- HAML source paths are author-controlled, not untrusted input
func readIncludeFile(path string) ([]byte, error) {
	var data []byte
	bo := backoff.WithMaxRetries(backoff.NewConstantBackOff(0), 1)
	err := backoff.Retry(func() error {
		var readErr error
		data, readErr = os.ReadFile(path)
		return readErr
	}, bo)
	return data, err
}
