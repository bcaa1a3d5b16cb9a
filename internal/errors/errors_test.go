package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil error", err: nil, want: ""},
		{name: "simple error", err: stderrors.New("boom"), want: "Error: boom"},
		{name: "wrapped sentinel", err: fmt.Errorf("skill %q: %w", "go", ErrNotFound), want: `Error: skill "go": not found`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("missing %s", "skill")
	if got != "Error: missing skill" {
		t.Errorf("Formatf() = %q, want %q", got, "Error: missing skill")
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	all := []error{ErrNotFound, ErrInvalidInput, ErrAmbiguous, ErrInvalidBackup}
	for i := range all {
		for j := range all {
			if i != j && stderrors.Is(all[i], all[j]) {
				t.Errorf("%v unexpectedly matches %v", all[i], all[j])
			}
		}
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		empty bool
	}{
		{name: "ambiguous", err: fmt.Errorf("skill %q: %w", "go", ErrAmbiguous)},
		{name: "not found", err: fmt.Errorf("skill %q: %w", "go", ErrNotFound)},
		{name: "invalid backup", err: fmt.Errorf("wrapped: %w", ErrInvalidBackup)},
		{name: "plain", err: stderrors.New("boom"), empty: true},
		{name: "nil", err: nil, empty: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hint(tt.err); (got == "") != tt.empty {
				t.Errorf("Hint() = %q, want empty = %v", got, tt.empty)
			}
		})
	}
	if Hint(ErrAmbiguous) == Hint(ErrNotFound) {
		t.Error("ambiguous and not-found hints should differ")
	}
}
