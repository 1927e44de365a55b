package idgen

import (
	"strings"

	"github.com/google/uuid"
)

// ID prefixes for different models
const (
	PrefixRun = "run_"
)

// NewRun generates a new run ID with run_ prefix
func NewRun() string {
	return PrefixRun + uuid.New().String()
}

// IsRun reports whether id looks like a run ID
func IsRun(id string) bool {
	rest, ok := strings.CutPrefix(id, PrefixRun)
	if !ok {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}
