package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/pa/internal/constants"
)

// ErrNotLoaded is returned by slot operations before Init or Load.
var ErrNotLoaded = errors.New("storage not loaded")

// New returns the provider for backend rooted at path.
func New(backend, path string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", constants.BackendSQLite:
		return NewSQLiteStore(path), nil
	case constants.BackendJSON:
		return NewJSONStore(path), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected %s or %s)", backend, constants.BackendSQLite, constants.BackendJSON)
	}
}
