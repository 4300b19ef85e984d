package export

import (
	"fmt"
	"io"

	"gitlab.gbv.de/nationallizenzen/nl-export/models/plone"
)

// Status of one identifier after a run.
type Status string

const (
	StatusExported Status = "exported"
	StatusEmpty    Status = "empty"
	StatusFailed   Status = "failed"
)

// ModelResult records what happened to one identifier.
type ModelResult struct {
	Identifier string
	Model      *plone.LicenceModelRef
	Status     Status
	Artifact   string
	Found      int
	Exported   int
	Failed     int
	Uploaded   []string
	Err        error
}

// Summary collects the results of one run, in input order.
type Summary struct {
	Models []*ModelResult
}

// FailedIdentifiers returns the number of identifiers that could not
// be exported. Single failed licences don't count.
func (s *Summary) FailedIdentifiers() int {
	count := 0
	for _, m := range s.Models {
		if m.Status == StatusFailed {
			count++
		}
	}
	return count
}

// Print writes one line per identifier to w.
func (s *Summary) Print(w io.Writer) {
	for _, m := range s.Models {
		switch m.Status {
		case StatusFailed:
			fmt.Fprintf(w, "%-8s %s: %v\n", m.Status, m.Identifier, m.Err)
		case StatusEmpty:
			fmt.Fprintf(w, "%-8s %s: no licences, wrote %s\n", m.Status, m.Identifier, m.Artifact)
		default:
			fmt.Fprintf(w, "%-8s %s: %d of %d licence(s) written to %s",
				m.Status, m.Identifier, m.Exported, m.Found, m.Artifact)
			if m.Failed > 0 {
				fmt.Fprintf(w, ", %d failed", m.Failed)
			}
			fmt.Fprintln(w)
		}
	}
}
