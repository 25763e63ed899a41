package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/catapult/internal/domain"
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// DescribeError renders err as "[stage] kind: message". Errors outside the
// taxonomy are rendered as their plain message.
func DescribeError(err error) string {
	kind := domain.KindOf(err)

	var stageErr *domain.StageError
	if errors.As(err, &stageErr) {
		return fmt.Sprintf("[%s] %s: %v", stageErr.Stage, kind, stageErr.Err)
	}
	if kind == domain.KindUnknown {
		return err.Error()
	}
	return fmt.Sprintf("%s: %v", kind, err)
}

// FormatError formats an error for the terminal
func FormatError(err error) string {
	return color.New(color.FgRed).Sprintf("Error: %s", strings.TrimRight(DescribeError(err), "\n"))
}
