package storage

import (
	"strings"

	"github.com/google/uuid"
)

// newStoredName generates a random unique name for an upload. Only a literal
// ".pdf" suffix survives from the original filename; everything else the
// caller supplied (directories, dots, other extensions) is discarded, so
// crafted filenames can neither collide nor traverse directories.
func newStoredName(originalName string) string {
	ext := ""
	if strings.HasSuffix(strings.ToLower(originalName), ".pdf") {
		ext = ".pdf"
	}
	return uuid.NewString() + ext
}
