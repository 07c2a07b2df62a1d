package campaignfinance

import (
	"context"
	"fmt"
	"sunscrape/internal/components/assert"
	"sunscrape/internal/components/chrono"
	"sunscrape/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
)

const (
	report_scraper_search        = "scraper.search"
	report_scraper_drop_criteria = "scraper.drop-criteria"
)

// Scraper runs queries against the campaign finance portal one request at a
// time.
type Scraper struct {
	fetcher   Fetcher
	time      chrono.TimeAPI
	tel       telemetry.API
	outputDir string
}

func NewScraper(fetcher Fetcher, time chrono.TimeAPI, tel telemetry.API) Scraper {
	assert.NotNil(fetcher)
	assert.NotNil(time)
	assert.NotNil(tel)

	return Scraper{
		fetcher: fetcher,
		time:    time,
		tel:     telemetry.NewScopedAPI("campaign_finance", tel),
	}
}

// WithOutputDir returns a copy of the scraper that writes downloads without
// an explicit path into dir.
func (s Scraper) WithOutputDir(dir string) Scraper {
	s.outputDir = dir
	return s
}

// NewDefaultScraper builds a Scraper over the resty Client.
func NewDefaultScraper(opts ClientOptions, time chrono.TimeAPI, tel telemetry.API) (Scraper, *Client, error) {
	client, err := NewClient(opts, tel)
	if err != nil {
		return Scraper{}, nil, err
	}
	return NewScraper(client, time, tel), client, nil
}

func search[T Record](ctx context.Context, s Scraper, ft FilingType, criteria SearchCriteria) (ResultSet[T], error) {
	params, err := BuildParams(ft, criteria)
	if err != nil {
		s.tel.ReportWarning(report_scraper_search, err)
		return ResultSet[T]{}, err
	}
	for _, dropped := range DroppedCriteria(ft, criteria) {
		s.tel.ReportWarning(
			report_scraper_drop_criteria,
			fmt.Errorf("%s search does not support %s, ignoring it", ft, dropped),
		)
	}

	s.tel.ReportDebug(report_scraper_search, ft.String(), params.Encode())
	return paginate[T](ctx, s.fetcher, s.tel, ft.String(), ft.recordType(), Request{
		Method: resty.MethodGet,
		Path:   ft.endpoint(),
		Params: params,
	})
}

// Contributions runs a contributions search. When a page fails the records
// gathered so far are returned along with the error.
func (s Scraper) Contributions(ctx context.Context, criteria SearchCriteria) (ResultSet[Contribution], error) {
	return search[Contribution](ctx, s, Contributions, criteria)
}

// Expenditures runs an expenditures search, date ranges and contributor
// names are ignored.
func (s Scraper) Expenditures(ctx context.Context, criteria SearchCriteria) (ResultSet[Expenditure], error) {
	return search[Expenditure](ctx, s, Expenditures, criteria)
}

// Transfers runs a fund transfers search, date ranges and contributor names
// are ignored.
func (s Scraper) Transfers(ctx context.Context, criteria SearchCriteria) (ResultSet[Transfer], error) {
	return search[Transfer](ctx, s, Transfers, criteria)
}
