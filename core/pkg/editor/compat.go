package editor

import (
	"strings"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
)

// CheckEnvironment returns an incompatibility error when info's prerequisite fails
func CheckEnvironment(info *Info) error {
	if err := info.Check(); err != nil {
		return contracts.NewIncompatibleEditorError(info.Name(), "editor is not available: %v", err).WithCause(err)
	}
	return nil
}

// CheckDecoded turns config decoding problems into an incompatibility error:
// a decode failure, or keys the editor does not understand
func CheckDecoded(editorName string, decodeErr error, unused []string) error {
	if decodeErr != nil {
		return contracts.NewIncompatibleEditorError(editorName, "%v", decodeErr).WithCause(decodeErr)
	}
	if len(unused) > 0 {
		return contracts.NewIncompatibleEditorError(editorName, "unknown config option(s): %s", strings.Join(unused, ", "))
	}
	return nil
}
