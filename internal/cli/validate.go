package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/fleetlot/internal/command"
)

// LineIssue describes a problem with one input line.
type LineIssue struct {
	Line    int    `json:"line"`
	Text    string `json:"text"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool           `json:"valid"`
	Lines     int            `json:"lines"`
	Commands  map[string]int `json:"commands"`
	Unknown   []LineIssue    `json:"unknown,omitempty"`
	Malformed *LineIssue     `json:"malformed,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <input>",
		Short: "Check a command file without executing it",
		Long: `Parse every line of a command file without running an engine.

Unknown commands are reported but do not fail validation, matching how
"fleetlot run" treats them. The first malformed line fails validation
with exit code 1.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, input string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	in, closeIn, err := openInput(input, cmd.InOrStdin())
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open input", err)
	}
	defer closeIn()

	result, err := validateLines(in)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}
	formatter.VerboseLog("Checked %d line(s) in %s", result.Lines, input)

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeMalformed, Message: result.Malformed.Message}
		}
		if err := formatter.Response(resp); err != nil {
			return err
		}
	} else {
		outputValidateText(cmd.OutOrStdout(), result)
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("line %d is malformed", result.Malformed.Line))
	}
	return nil
}

// validateLines parses in line by line, stopping at the first malformed line.
func validateLines(in io.Reader) (ValidationResult, error) {
	result := ValidationResult{Valid: true, Commands: map[string]int{}}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		result.Lines++
		text := sc.Text()

		c, err := command.Parse(text)
		switch {
		case err == nil:
			result.Commands[c.Name()]++
		case errors.Is(err, command.ErrBlankLine):
		case command.IsUnknown(err):
			result.Unknown = append(result.Unknown, LineIssue{Line: result.Lines, Text: text, Message: err.Error()})
		default:
			result.Valid = false
			result.Malformed = &LineIssue{Line: result.Lines, Text: text, Message: err.Error()}
			return result, nil
		}
	}
	if err := sc.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func outputValidateText(w io.Writer, result ValidationResult) {
	for _, u := range result.Unknown {
		fmt.Fprintf(w, "! line %d: unknown command: %s\n", u.Line, u.Text)
	}

	if !result.Valid {
		fmt.Fprintf(w, "✗ line %d: %s\n", result.Malformed.Line, result.Malformed.Message)
		return
	}

	total := 0
	for _, n := range result.Commands {
		total += n
	}
	fmt.Fprintf(w, "✓ %d line(s), %d command(s), %d unknown\n", result.Lines, total, len(result.Unknown))
}
