package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// confirmIn is the input read when asking for confirmation.
var confirmIn = os.Stdin

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

// parseExpected parses an --expected token as printed by "mapping get".
func parseExpected(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, domain.NewValidationError("--expected %q is not an RFC 3339 timestamp", s)
	}
	return t, nil
}

// askConfirmation prompts on an interactive terminal and reports whether the
// user agreed. It never prompts when input is not a terminal.
func askConfirmation(cmd *cobra.Command, prompt string) bool {
	if !term.IsTerminal(int(confirmIn.Fd())) {
		return false
	}
	cmd.Printf("%s [y/N]: ", prompt)
	answer := strings.ToLower(readLine(bufio.NewReader(confirmIn)))
	return answer == "y" || answer == "yes"
}

// withConfirmation runs op unconfirmed first unless yes is set. A selection
// that needs confirmation is retried once the user agrees.
func withConfirmation(cmd *cobra.Command, yes bool, count int, op func(confirmed bool) error) error {
	err := op(yes)
	if !errors.Is(err, domain.ErrConfirmationRequired) {
		return err
	}
	if !askConfirmation(cmd, fmt.Sprintf("Apply to %d items?", count)) {
		return fmt.Errorf("%w: re-run with --yes to apply to %d items", err, count)
	}
	return op(true)
}

// printFailures lists per-item bulk failures.
func printFailures(cmd *cobra.Command, failed []domain.BulkFailure) {
	if len(failed) == 0 {
		return
	}
	cmd.Printf("\nFailed (%d):\n", len(failed))
	for _, f := range failed {
		cmd.Printf("  %s  %s: %s\n", f.ID, badge(string(f.Kind()), colourProblem), f.Message())
	}
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// splitIDs accepts ids given as repeated flags or comma-separated values.
func splitIDs(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
