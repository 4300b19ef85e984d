package export

import (
	"context"
	"fmt"
	"io"

	"gitlab.gbv.de/nationallizenzen/nl-export/models/common"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/plone"
)

// List prints the licencees of each identifier's licence model to w
// without fetching details or writing files.
func (e *Exporter) List(ctx context.Context, identifiers []string, w io.Writer) (*Summary, error) {
	summary := &Summary{}
	for _, identifier := range identifiers {
		result := e.listOne(ctx, identifier, w)
		summary.Models = append(summary.Models, result)
		if result.Err != nil {
			e.logger.Errorf("%s: %s", identifier, common.Detail(result.Err))
			if common.IsUnauthorized(result.Err) {
				return summary, result.Err
			}
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (e *Exporter) listOne(ctx context.Context, identifier string, w io.Writer) *ModelResult {
	result := &ModelResult{Identifier: identifier, Status: StatusFailed}
	model, err := e.resolver.Resolve(ctx, identifier)
	if err != nil {
		result.Err = err
		return result
	}
	result.Model = model
	query := model.LicenceQuery().WithReviewStates(e.Options.ReviewStates)
	found, err := e.pager.Count(ctx, query)
	if err != nil {
		result.Err = err
		return result
	}
	result.Found = found
	fmt.Fprintf(w, "%s: %d licence(s) found\n", model.Title, found)
	if found == 0 {
		result.Status = StatusEmpty
		return result
	}
	err = e.pager.Each(ctx, query, func(record *plone.SummaryRecord) error {
		title := ""
		if record.Licencee != nil {
			title = record.Licencee.Title
		}
		fmt.Fprintf(w, "  %s\n", title)
		result.Exported++
		return nil
	})
	if err != nil {
		result.Err = err
		return result
	}
	result.Status = StatusExported
	return result
}
