// Package archivex writes the ZIP archives a harness run produces and reads
// them back for verification.
package archivex

import (
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
)

const (
	// Extension is the suffix of every archive.
	Extension = ".zip"

	timestampLayout = "20060102-150405"
)

// Entry is one file stored in an archive.
type Entry struct {
	Name string
	// Size is the uncompressed size in bytes.
	Size int64
}

// Archive is a ZIP file written by an Archiver. The file name carries the
// second it was created at; ID and CreatedAt are kept in the archive comment.
type Archive struct {
	Path      string
	ID        ksuid.KSUID
	CreatedAt time.Time
	Entries   []Entry
}

// Names returns the entry names, in archive order.
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.Entries))
	for _, e := range a.Entries {
		names = append(names, e.Name)
	}
	return names
}

func formatComment(id ksuid.KSUID, createdAt time.Time) string {
	return fmt.Sprintf("id=%s created=%s", id.String(), createdAt.UTC().Format(time.RFC3339Nano))
}

// parseComment reads back what formatComment wrote. Archives from elsewhere
// have no such comment; they get a nil ID and a zero time.
func parseComment(comment string) (ksuid.KSUID, time.Time) {
	var (
		id        = ksuid.Nil
		createdAt time.Time
	)
	for _, field := range strings.Fields(comment) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch key {
		case "id":
			if v, err := ksuid.Parse(value); err == nil {
				id = v
			}
		case "created":
			if v, err := time.Parse(time.RFC3339Nano, value); err == nil {
				createdAt = v
			}
		}
	}
	return id, createdAt
}
