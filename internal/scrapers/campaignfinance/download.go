package campaignfinance

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sunscrape/internal/components/chrono"

	"github.com/go-resty/resty/v2"
)

const (
	report_download_committees     = "download.active-committees"
	report_download_candidates     = "download.candidates"
	report_download_all_candidates = "download.all-candidates"
	report_download_rows           = "download.rows"
)

const (
	committeeExtractPath = "/committees/extractComList.asp"
	candidateExtractPath = "/candidates/extractCanList.asp"
)

// CandidateDownload selects the candidate list extract. Empty fields fall
// back to every office, every status, state candidates and the first
// available election.
type CandidateDownload struct {
	ElectionID string
	// Office is an office code such as "GOV", or "All".
	Office string
	// Status is a candidate status code such as "AC", or "All".
	Status string
	// CandidateType is "STA"/"State Candidates" or "LOC"/"Local Candidates".
	CandidateType string
}

func normalizeAll(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "all") {
		return "All"
	}
	return value
}

func candidateTypeCode(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "loc", "local", "local candidates":
		return "LOC"
	}
	return "STA"
}

func (d CandidateDownload) params() url.Values {
	return url.Values{
		"FormSubmit": {"Download Candidate List"},
		"elecID":     {strings.TrimSpace(d.ElectionID)},
		"office":     {normalizeAll(d.Office)},
		"status":     {normalizeAll(d.Status)},
		"cantype":    {candidateTypeCode(d.CandidateType)},
	}
}

func (s Scraper) fetchExtract(ctx context.Context, query string, req Request) (Extract, error) {
	raw, err := s.fetcher.FetchRaw(ctx, req)
	if err != nil {
		return Extract{}, withPage(err, query, 0)
	}
	if looksLikeHtml(raw.Body, raw.ContentType) {
		return Extract{}, parseErrorf(query, "expected a tab delimited extract, got an html page")
	}
	extract, err := ParseExtract(raw.Body)
	if err != nil {
		return Extract{}, newError(KindParse, query, err)
	}
	s.tel.ReportCount(report_download_rows, int64(extract.Len()))
	return extract, nil
}

// ActiveCommittees fetches the active committee list extract.
func (s Scraper) ActiveCommittees(ctx context.Context) (Extract, error) {
	extract, err := s.fetchExtract(ctx, "active committees", Request{
		Method: resty.MethodPost,
		Path:   committeeExtractPath,
		Params: url.Values{
			"FormSubmit": {"Download Committee List"},
			"comstatus":  {"A"},
		},
	})
	if err != nil {
		s.tel.ReportBroken(report_download_committees, err)
		return Extract{}, err
	}
	return extract, nil
}

// Candidates fetches one election's candidate list extract and returns it
// with the election id that was used.
func (s Scraper) Candidates(ctx context.Context, download CandidateDownload) (Extract, string, error) {
	if strings.TrimSpace(download.ElectionID) == "" {
		elections, err := s.AvailableElections(ctx)
		if err != nil {
			return Extract{}, "", err
		}
		if len(elections) == 0 {
			return Extract{}, "", newError(KindScrape, "candidates", ErrNoElections)
		}
		download.ElectionID = elections[0].Id
	}

	extract, err := s.fetchExtract(ctx, "candidates", Request{
		Method:  resty.MethodPost,
		Path:    candidateExtractPath,
		Params:  download.params(),
		Referer: candidateDownloadPage,
	})
	if err != nil {
		s.tel.ReportBroken(report_download_candidates, err, download.ElectionID)
		return Extract{}, download.ElectionID, err
	}
	return extract, download.ElectionID, nil
}

// AllCandidates fetches the candidate list of every election in
// electionIds, or of every available election when electionIds is empty,
// and merges them with a provenance column. Elections that fail are skipped.
func (s Scraper) AllCandidates(ctx context.Context, download CandidateDownload, electionIds []string) (Extract, error) {
	if len(electionIds) == 0 {
		elections, err := s.AvailableElections(ctx)
		if err != nil {
			return Extract{}, err
		}
		for _, e := range elections {
			electionIds = append(electionIds, e.Id)
		}
	}
	if len(electionIds) == 0 {
		s.tel.ReportBroken(report_download_all_candidates, ErrNoElections)
		return Extract{}, newError(KindScrape, "all candidates", ErrNoElections)
	}

	var (
		parts   []Extract
		sources []string
		failed  []error
	)
	for _, id := range electionIds {
		download.ElectionID = id
		extract, _, err := s.Candidates(ctx, download)
		if err != nil {
			if ctx.Err() != nil {
				return Extract{}, withPage(ctx.Err(), "all candidates", 0)
			}
			s.tel.ReportWarning(report_download_all_candidates, fmt.Errorf("election %s: %w", id, err))
			failed = append(failed, err)
			continue
		}
		parts = append(parts, extract)
		sources = append(sources, id)
	}

	merged := mergeExtracts(parts, sources)
	if merged.Len() == 0 {
		err := parseErrorf("all candidates", "no candidate rows in %d elections", len(electionIds))
		if len(failed) > 0 {
			err.Err = errors.Join(append([]error{err.Err}, failed...)...)
		}
		return Extract{}, err
	}
	return merged, nil
}

func (s Scraper) defaultPath(parts ...string) string {
	name := strings.Join(append(parts, chrono.Stamp(s.time.Now())), "_") + ".csv"
	return filepath.Join(s.outputDir, name)
}

// DownloadActiveCommittees writes the active committee list to path, or to
// committees_{timestamp}.csv when path is empty, and returns the path.
func (s Scraper) DownloadActiveCommittees(ctx context.Context, path string) (string, error) {
	extract, err := s.ActiveCommittees(ctx)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = s.defaultPath("committees")
	}
	return writeExtract(path, extract)
}

// DownloadCandidates writes one election's candidate list to path, or to
// candidates_{election}_{timestamp}.csv.
func (s Scraper) DownloadCandidates(ctx context.Context, download CandidateDownload, path string) (string, error) {
	extract, electionId, err := s.Candidates(ctx, download)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = s.defaultPath("candidates", safeFileName(electionId))
	}
	return writeExtract(path, extract)
}

// DownloadAllCandidates writes the merged candidate lists to path, or to
// candidates_all_{timestamp}.csv.
func (s Scraper) DownloadAllCandidates(ctx context.Context, download CandidateDownload, electionIds []string, path string) (string, error) {
	extract, err := s.AllCandidates(ctx, download, electionIds)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = s.defaultPath("candidates", "all")
	}
	return writeExtract(path, extract)
}

func writeExtract(path string, extract Extract) (string, error) {
	err := writeCsvFile(path, extract.Header, extract.Rows)
	if err != nil {
		return "", err
	}
	return path, nil
}

var fileNameReplacer = strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_")

func safeFileName(name string) string {
	name = fileNameReplacer.Replace(strings.TrimSpace(name))
	if len(name) > 50 {
		name = name[:50]
	}
	return name
}
