// Package ids generates opaque identifiers for jobs, stage attempts, and
// exported artifacts.
package ids

import "github.com/google/uuid"

// New creates a random ID with the given prefix, e.g. "job-3fa9c1d2".
func New(prefix string) string {
	u := uuid.New()
	return prefix + "-" + u.String()[:8]
}
