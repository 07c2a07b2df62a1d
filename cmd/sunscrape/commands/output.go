package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sunscrape/internal/lookup"
	"sunscrape/internal/scrapers/campaignfinance"
	"sunscrape/internal/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const (
	formatTable  = "table"
	formatCsv    = "csv"
	formatSqlite = "sqlite"
)

type outputFlags struct {
	format          *string
	out             *string
	db              *string
	enrich          *bool
	enrichElections *[]string
}

func addOutputFlags(cmd *cobra.Command) outputFlags {
	return outputFlags{
		format: cmd.Flags().StringP("format", "f", formatTable, "The output format: table, csv or sqlite."),
		out:    cmd.Flags().StringP("out", "o", "", "The csv file to write, defaults to a timestamped name in the output directory."),
		db:     cmd.Flags().String("db", "", "The sqlite database to write to, defaults to the configured database."),
		enrich: cmd.Flags().Bool("enrich", false, "Match every record to a candidate or committee from the bulk downloads."),
		enrichElections: cmd.Flags().StringSlice(
			"enrich-election", nil,
			"The elections whose candidates are loaded for --enrich, defaults to every available election.",
		),
	}
}

func (f outputFlags) validate() error {
	switch *f.format {
	case formatTable, formatCsv, formatSqlite:
		return nil
	}
	return fmt.Errorf("unknown output format %q, expected table, csv or sqlite", *f.format)
}

func (f outputFlags) databasePath() string {
	if *f.db != "" {
		return *f.db
	}
	return env.config.DatabasePath()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func toRow(values []string) table.Row {
	row := make(table.Row, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

// loadEnricher downloads the candidate and active committee lists and
// indexes them.
func loadEnricher(ctx context.Context, elections []string) (lookup.Enricher, error) {
	candidates := lookup.NewCandidateIndex()
	extract, err := env.scraper.AllCandidates(ctx, campaignfinance.CandidateDownload{}, elections)
	if err != nil {
		return lookup.Enricher{}, fmt.Errorf("load candidates: %w", err)
	}
	loaded, err := candidates.Load(extract)
	if err != nil {
		return lookup.Enricher{}, err
	}
	slog.Info("loaded candidates", "count", loaded)

	committees := lookup.NewCommitteeIndex(env.scraper, env.tel)
	extract, err = env.scraper.ActiveCommittees(ctx)
	if err != nil {
		return lookup.Enricher{}, fmt.Errorf("load committees: %w", err)
	}
	loaded, err = committees.Load(extract)
	if err != nil {
		return lookup.Enricher{}, err
	}
	slog.Info("loaded active committees", "count", loaded)

	return lookup.NewEnricher(candidates, committees, env.tel), nil
}

// emit writes a result set in the requested format.
func emit[T campaignfinance.Record](cmd *cobra.Command, flags outputFlags, label string, rs campaignfinance.ResultSet[T]) error {
	ctx := cmd.Context()

	var matches []lookup.Match
	if *flags.enrich {
		enricher, err := loadEnricher(ctx, *flags.enrichElections)
		if err != nil {
			return err
		}
		matches = lookup.EnrichRecords(ctx, enricher, rs)
	}

	switch *flags.format {
	case formatTable:
		renderRecords(cmd.OutOrStdout(), rs, matches)
	case formatCsv:
		path := *flags.out
		if path == "" {
			path = filepath.Join(env.config.OutputDir, rs.DefaultFileName(env.clock))
		}
		err := saveCsv(path, rs, matches)
		if err != nil {
			return err
		}
		slog.Info("wrote csv", "path", path, "records", rs.Len(), "skipped", rs.Skipped)
	case formatSqlite:
		database, err := store.Open(ctx, flags.databasePath())
		if err != nil {
			return err
		}
		defer database.Close()
		id, err := store.Save(ctx, store.NewStore(database, env.clock), label, rs, matches)
		if err != nil {
			return err
		}
		slog.Info("stored results", "db", flags.databasePath(), "query", id, "records", rs.Len())
	}
	return nil
}

func saveCsv[T campaignfinance.Record](path string, rs campaignfinance.ResultSet[T], matches []lookup.Match) (err error) {
	if matches == nil {
		_, err = rs.Save(path, env.clock)
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := f.Close()
		if err == nil {
			err = closeErr
		}
	}()
	return lookup.WriteEnrichedCsv(f, rs, matches)
}

func renderRecords[T campaignfinance.Record](w io.Writer, rs campaignfinance.ResultSet[T], matches []lookup.Match) {
	var zero T
	header := zero.Header()
	if matches != nil {
		header = append(header, lookup.Match{}.Header()...)
	}

	t := newTable(w)
	t.AppendHeader(toRow(header))
	for i, record := range rs.Records {
		values := record.Values()
		if matches != nil {
			values = append(values, matches[i].Values()...)
		}
		t.AppendRow(toRow(values))
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d records, %d skipped, %d pages", rs.Len(), rs.Skipped, rs.Pages)})
	t.Render()
}
