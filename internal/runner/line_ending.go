package runner

import (
	"fmt"

	"github.com/roach88/fleetlot/internal/command"
)

// LineEnding selects the terminator written after each output line.
type LineEnding string

const (
	// LineEndingLF terminates every output line with "\n".
	LineEndingLF LineEnding = "lf"

	// LineEndingCRLF terminates every output line with "\r\n".
	LineEndingCRLF LineEnding = "crlf"

	// LineEndingLegacy reproduces the historical mixed terminators:
	// "\n" after ready results and "\r\n" after everything else.
	LineEndingLegacy LineEnding = "legacy"
)

// ValidLineEndings lists the accepted LineEnding values.
var ValidLineEndings = []LineEnding{LineEndingLF, LineEndingCRLF, LineEndingLegacy}

// ParseLineEnding validates s. An empty string selects LineEndingLF.
func ParseLineEnding(s string) (LineEnding, error) {
	if s == "" {
		return LineEndingLF, nil
	}
	for _, le := range ValidLineEndings {
		if string(le) == s {
			return le, nil
		}
	}
	return "", fmt.Errorf("invalid line ending %q: must be one of %v", s, ValidLineEndings)
}

// Terminator returns the bytes written after the output of a command of kind k.
func (le LineEnding) Terminator(k command.Kind) string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingLegacy:
		if k == command.KindReady {
			return "\n"
		}
		return "\r\n"
	default:
		return "\n"
	}
}
