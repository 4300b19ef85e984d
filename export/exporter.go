package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/op/go-logging"
	"gitlab.gbv.de/nationallizenzen/nl-export/constants"
	"gitlab.gbv.de/nationallizenzen/nl-export/export/formatter"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/common"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/plone"
	"gitlab.gbv.de/nationallizenzen/nl-export/network"
	"gitlab.gbv.de/nationallizenzen/nl-export/util"
	"gitlab.gbv.de/nationallizenzen/nl-export/util/logger"
)

// Uploader copies a finished artifact somewhere else.
// *network.ArtifactUploader implements it.
type Uploader interface {
	Upload(ctx context.Context, artifactPath string) ([]string, error)
}

// Notifier announces a finished artifact. *network.NSQNotifier
// implements it.
type Notifier interface {
	Publish(event *network.ExportEvent) error
}

// Client is everything the exporter needs from the portal.
type Client interface {
	EntityGetter
	Searcher
	DetailGetter
	WorkflowGetter
}

// Options control one export run.
type Options struct {
	Format       string
	DestDir      string
	ReviewStates []string
	Workers      int
}

// Exporter writes one artifact per licence model.
type Exporter struct {
	Options  Options
	Out      io.Writer
	Progress logger.ProgressReporter
	Uploader Uploader
	Notifier Notifier

	resolver *Resolver
	pager    *Pager
	fetcher  *Fetcher
	logger   *logging.Logger
}

// NewExporter wires up resolver, pager and fetcher around client.
// Set Uploader and Notifier to publish artifacts after they are
// written. Out receives one status line per licence model. Without a
// worker count the default pool size is used.
func NewExporter(client Client, host string, states *StateCache, opts Options, logger *logging.Logger) *Exporter {
	if opts.Workers < 1 {
		opts.Workers = constants.DefaultWorkers
	}
	if states == nil {
		states = NewStateCache(client, nil, logger)
	}
	return &Exporter{
		Options:  opts,
		Out:      io.Discard,
		resolver: NewResolver(client, host, logger),
		pager:    NewPager(client),
		fetcher:  NewFetcher(client, states, logger),
		logger:   logger,
	}
}

// Run exports every identifier in turn. Problems with one identifier
// are logged and recorded in the summary, then the next one is
// tried. Run stops early only if the portal rejects our credentials,
// the context is cancelled or the destination is locked by another
// process.
func (e *Exporter) Run(ctx context.Context, identifiers []string) (*Summary, error) {
	if !util.StringListContains(constants.Formats, e.Options.Format) {
		return nil, fmt.Errorf("%w '%s', use one of %v", formatter.ErrUnknownFormat, e.Options.Format, constants.Formats)
	}
	if util.FileExists(e.Options.DestDir) && !util.IsDirectory(e.Options.DestDir) {
		return nil, fmt.Errorf("destination %s is not a directory", e.Options.DestDir)
	}
	if err := os.MkdirAll(e.Options.DestDir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create destination %s: %w", e.Options.DestDir, err)
	}
	release, err := util.AcquirePidFile(filepath.Join(e.Options.DestDir, constants.PidFileName))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(); err != nil {
			e.logger.Warningf("Cannot remove lock file: %v", err)
		}
	}()

	summary := &Summary{}
	for _, identifier := range identifiers {
		result := e.exportOne(ctx, identifier)
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

func (e *Exporter) exportOne(ctx context.Context, identifier string) (result *ModelResult) {
	result = &ModelResult{Identifier: identifier, Status: StatusFailed}
	model, err := e.resolver.Resolve(ctx, identifier)
	if err != nil {
		result.Err = err
		return result
	}
	result.Model = model

	query := model.LicenceQuery().WithReviewStates(e.Options.ReviewStates)
	found, err := e.pager.Count(ctx, query)
	if err != nil {
		result.Err = fmt.Errorf("cannot count licences of %s: %w", model.URL, err)
		return result
	}
	result.Found = found
	fmt.Fprintf(e.Out, "%s: %d licence(s) found\n", model.Title, found)

	sink, err := formatter.New(e.Options.Format, model, e.Options.DestDir)
	if err != nil {
		result.Err = err
		return result
	}
	result.Artifact = sink.Path()
	if err := sink.Open(); err != nil {
		result.Err = fmt.Errorf("cannot open %s: %w", sink.Path(), err)
		return result
	}
	defer func() {
		if err := sink.Close(); err != nil {
			if result.Err == nil {
				result.Err = fmt.Errorf("cannot write %s: %w", sink.Path(), err)
			}
			result.Status = StatusFailed
			return
		}
		if result.Err == nil {
			e.publish(ctx, result)
		}
	}()

	if found == 0 {
		e.logger.Infof("No licences below %s, nothing to fetch", model.URL)
		result.Status = StatusEmpty
		return result
	}

	pairs := make([]plone.LicencePair, 0, found)
	err = e.pager.Each(ctx, query, func(record *plone.SummaryRecord) error {
		pairs = append(pairs, record.Pair())
		return nil
	})
	if err != nil {
		result.Err = fmt.Errorf("cannot list licences of %s: %w", model.URL, err)
		return result
	}

	progress := e.Progress
	if progress == nil {
		progress = logger.NopProgress{}
	}
	progress.Start(model.Title, len(pairs))
	rows := ParallelMap(ctx, pairs, e.Options.Workers, e.fetcher.Fetch, progress)
	progress.Finish()

	for _, row := range rows {
		if row.Err != nil {
			result.Failed++
			e.logger.Errorf("%s: %s", identifier, common.Detail(row.Err))
			if result.Err == nil && (common.IsUnauthorized(row.Err) || errors.Is(row.Err, ctx.Err())) {
				result.Err = row.Err
			}
			continue
		}
		if err := sink.AddRow(row.Value); err != nil {
			result.Err = fmt.Errorf("cannot write %s: %w", sink.Path(), err)
			return result
		}
		result.Exported++
	}
	if result.Err == nil {
		result.Status = StatusExported
	}
	return result
}

// publish hands the closed artifact to the uploader and notifier.
// Failures are logged and never fail the export.
func (e *Exporter) publish(ctx context.Context, result *ModelResult) {
	if e.Uploader != nil {
		keys, err := e.Uploader.Upload(ctx, result.Artifact)
		if err != nil {
			e.logger.Warningf("%s: %v", result.Identifier, err)
		}
		result.Uploaded = keys
	}
	if e.Notifier != nil {
		event := &network.ExportEvent{
			Identifier: result.Identifier,
			ModelUID:   result.Model.UID,
			ModelURL:   result.Model.URL,
			Title:      result.Model.Title,
			Format:     e.Options.Format,
			Artifact:   result.Artifact,
			Records:    result.Exported,
			Failed:     result.Failed,
			Uploaded:   result.Uploaded,
			FinishedAt: time.Now().UTC(),
		}
		if err := e.Notifier.Publish(event); err != nil {
			e.logger.Warningf("%s: %v", result.Identifier, err)
		}
	}
}
