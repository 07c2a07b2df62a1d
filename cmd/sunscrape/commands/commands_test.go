package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sunscrape/internal/components/telemetry"
	"sunscrape/internal/lookup"
	"sunscrape/internal/scrapers/campaignfinance"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sunscrape.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{
		// portal mirror
		base_url: "http://localhost:8080",
		timeout_seconds: 10,
		retries: 0,
		output_dir: "out",
	}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sunscrape.local.json5"), []byte(`{
		requests_per_second: 0.5,
		output_dir: "local-out",
	}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "local-out", cfg.OutputDir)
	require.Equal(t, filepath.Join("local-out", "sunscrape.db"), cfg.DatabasePath())

	opts := cfg.ClientOptions()
	require.Equal(t, "http://localhost:8080", opts.BaseUrl)
	require.Equal(t, 10*time.Second, opts.Timeout)
	require.Equal(t, 0, opts.Retries)
	require.Equal(t, 0.5, opts.RequestsPerSecond)
	require.Equal(t, campaignfinance.DefaultClientOptions().UserAgent, opts.UserAgent)
}

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json5"))
	require.NoError(t, err)
	require.Equal(t, Config{}, cfg)
	require.Equal(t, 3, cfg.ClientOptions().Retries)
	require.Equal(t, "sunscrape.db", cfg.DatabasePath())
}

func TestLabel(t *testing.T) {
	require.Equal(t, "expenditures", label(campaignfinance.Expenditures, campaignfinance.SearchCriteria{}))
	require.Equal(
		t,
		"contributions candidate=Ron DeSantis from=01/01/2018 all-time",
		label(campaignfinance.Contributions, campaignfinance.SearchCriteria{
			CandidateFirst: "Ron",
			CandidateLast:  "DeSantis",
			From:           "01/01/2018",
			AllTime:        true,
		}),
	)
}

func TestRenderRecords(t *testing.T) {
	rs := campaignfinance.ResultSet[campaignfinance.Transfer]{
		Records: []campaignfinance.Transfer{{TransferFrom: "Gillum, Andrew", Amount: 500}},
		Pages:   1,
	}
	var out bytes.Buffer
	renderRecords(&out, rs, []lookup.Match{{EntityType: lookup.EntityCandidate, Account: "70003", Name: "Gillum, Andrew"}})

	require.Contains(t, out.String(), "Gillum, Andrew")
	require.Contains(t, out.String(), "500.00")
	require.Contains(t, out.String(), "70003")
	require.Contains(t, strings.ToLower(out.String()), "1 records, 0 skipped, 1 pages")
}

type shutdownRecorder struct {
	sdktrace.SpanProcessor
	shutdown int
}

func (r *shutdownRecorder) Shutdown(ctx context.Context) error {
	r.shutdown++
	return nil
}

func TestExecuteFlushesTelemetryOnFailure(t *testing.T) {
	saved := env
	t.Cleanup(func() { env = saved })

	recorder := &shutdownRecorder{}
	failure := errors.New("portal unavailable")
	root := &cobra.Command{
		Use:           "sunscrape",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env.otel = telemetry.Telemetry{
				TracerProvider: sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)),
			}
			return failure
		},
	}
	root.SetArgs([]string{})

	err := execute(context.Background(), root)
	require.ErrorIs(t, err, failure)
	require.Equal(t, 1, recorder.shutdown)
}
