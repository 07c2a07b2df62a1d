package campaignfinance

import (
	"context"
	"fmt"
	"strings"
	"sunscrape/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	report_directory_elections           = "directory.elections"
	report_directory_available_elections = "directory.available-elections"
	report_directory_committee_types     = "directory.committee-types"
)

const candidateDownloadPage = "/candidates/downloadcanlist.asp"

// ElectionEntry is one option of an election dropdown.
type ElectionEntry struct {
	Id    string `json:"id"`
	Label string `json:"label"`
}

// dropdownOptions reads the options of select[name=name] in document order,
// the first skipFirst options are left out.
func dropdownOptions(doc *goquery.Document, name string, skipFirst int) ([]ElectionEntry, error) {
	selectEl := doc.Find(fmt.Sprintf("select[name=%q]", name)).First()
	if selectEl.Length() == 0 {
		return nil, fmt.Errorf("dropdown %q not found", name)
	}

	var entries []ElectionEntry
	selectEl.Find("option").Each(func(i int, option *goquery.Selection) {
		if i < skipFirst {
			return
		}
		label := htmlutil.Text(option)
		id, ok := option.Attr("value")
		if !ok {
			id = label
		}
		entries = append(entries, ElectionEntry{
			Id:    strings.TrimSpace(id),
			Label: label,
		})
	})
	return entries, nil
}

func (s Scraper) fetchDropdown(ctx context.Context, reportId, path, name string, skipFirst int) ([]ElectionEntry, error) {
	page, err := s.fetcher.FetchPage(ctx, Request{Method: resty.MethodGet, Path: path})
	if err != nil {
		s.tel.ReportBroken(reportId, fmt.Errorf("fetch: %w", err), path)
		return nil, withPage(err, name+" dropdown", 0)
	}
	entries, err := dropdownOptions(page.Doc, name, skipFirst)
	if err != nil {
		s.tel.ReportBroken(reportId, err, path)
		return nil, newError(KindParse, name+" dropdown", err)
	}
	return entries, nil
}

// ElectionIDs lists the elections of the contributions search form in the
// portal's order, without the leading "All" option.
func (s Scraper) ElectionIDs(ctx context.Context) ([]ElectionEntry, error) {
	return s.fetchDropdown(ctx, report_directory_elections, Contributions.portal(), "election", 1)
}

// AvailableElections lists the elections offered by the candidate list
// download form. Placeholder options without a value are dropped.
func (s Scraper) AvailableElections(ctx context.Context) ([]ElectionEntry, error) {
	entries, err := s.fetchDropdown(ctx, report_directory_available_elections, candidateDownloadPage, "elecID", 0)
	if err != nil {
		return nil, err
	}
	available := entries[:0]
	for _, e := range entries {
		if e.Id == "" || e.Label == "" {
			continue
		}
		available = append(available, e)
	}
	return available, nil
}

type CommitteeType struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// CommitteeTypes lists the committee categories of the contributions search
// form, without the leading "All" option.
func (s Scraper) CommitteeTypes(ctx context.Context) ([]CommitteeType, error) {
	entries, err := s.fetchDropdown(ctx, report_directory_committee_types, Contributions.portal(), "committee", 1)
	if err != nil {
		return nil, err
	}
	types := make([]CommitteeType, len(entries))
	for i, e := range entries {
		types[i] = CommitteeType{Code: e.Id, Label: e.Label}
	}
	return types, nil
}
