package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/pa/internal/logger"
)

var (
	ErrNotFound      = stderrors.New("not found")
	ErrInvalidInput  = stderrors.New("invalid input")
	ErrAmbiguous     = stderrors.New("ambiguous reference")
	ErrInvalidBackup = stderrors.New("invalid backup")
)

// Format renders err for the terminal, or "" for nil.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint suggests a next step for the sentinel err wraps, if any.
func Hint(err error) string {
	switch {
	case stderrors.Is(err, ErrAmbiguous):
		return "Several skills match; use the id from `pa skill list`."
	case stderrors.Is(err, ErrNotFound):
		return "Run `pa skill list` to see what exists."
	case stderrors.Is(err, ErrInvalidBackup):
		return "Only documents written by `pa export` or `pa backup create` can be imported."
	}
	return ""
}

// Fatal prints err with any hint and exits 1. A nil err is ignored.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("command failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	if hint := Hint(err); hint != "" {
		fmt.Fprintln(os.Stderr, hint)
	}
	os.Exit(1)
}
