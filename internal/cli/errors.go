package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/odysseus0/headlines/internal/config"
	"github.com/odysseus0/headlines/internal/store"
)

const (
	exitInvalidInput = 2
	exitNotFound     = 3
	exitInternal     = 1
)

func isInvalidInput(err error) bool {
	if errors.Is(err, store.ErrInvalidInput) || errors.Is(err, config.ErrInvalidConfig) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid id") ||
		strings.Contains(msg, "invalid output format") ||
		strings.Contains(msg, "unknown flag") ||
		strings.Contains(msg, "accepts at most")
}

func ErrorExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case isInvalidInput(err):
		return exitInvalidInput
	case errors.Is(err, store.ErrNotFound):
		return exitNotFound
	default:
		return exitInternal
	}
}

func FormatError(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case isInvalidInput(err):
		return fmt.Sprintf("Error [invalid-input]: %v", err)
	case errors.Is(err, store.ErrNotFound):
		return fmt.Sprintf("Error [not-found]: %v", err)
	default:
		return fmt.Sprintf("Error [internal]: %v", err)
	}
}

func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err))
}
