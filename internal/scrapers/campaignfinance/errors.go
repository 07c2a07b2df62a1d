package campaignfinance

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies an *Error. Every *Error is a scrape error, HTTP and
// parse errors are the two specific kinds.
type ErrorKind uint8

const (
	KindScrape ErrorKind = iota
	KindHTTP
	KindParse
)

func (k ErrorKind) String() string {
	switch k {
	case KindHTTP:
		return "http error"
	case KindParse:
		return "parse error"
	}
	return "scrape error"
}

var (
	// ErrScrape matches every error produced by this package.
	ErrScrape = errors.New("sunscrape error")
	// ErrHTTP matches transport and status failures from the fetcher.
	ErrHTTP = errors.New("http error")
	// ErrParse matches an expected element missing from a fetched document.
	ErrParse = errors.New("parse error")

	ErrNoElections           = errors.New("no elections available")
	ErrCommitteeNotFound     = errors.New("committee not found")
	ErrUnsupportedResultType = errors.New("unsupported result type")
	ErrInvalidCriteria       = errors.New("invalid search criteria")
)

// Error carries enough context (which query, which page, which row) for a
// caller to tell where a query stopped.
type Error struct {
	Kind  ErrorKind
	Query string
	// Page is 1-based, 0 when the failure is not tied to a result page.
	Page int
	// Row is 1-based, 0 when the failure is not tied to a table row.
	Row        int
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	var out strings.Builder
	out.WriteString("campaign finance: ")
	out.WriteString(e.Kind.String())
	if e.Query != "" {
		fmt.Fprintf(&out, ": query %s", e.Query)
	}
	if e.Page > 0 {
		fmt.Fprintf(&out, ": page %d", e.Page)
	}
	if e.Row > 0 {
		fmt.Fprintf(&out, ": row %d", e.Row)
	}
	if e.StatusCode > 0 {
		fmt.Fprintf(&out, ": status %d", e.StatusCode)
	}
	if e.Err != nil {
		out.WriteString(": ")
		out.WriteString(e.Err.Error())
	}
	return out.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrScrape:
		return true
	case ErrHTTP:
		return e.Kind == KindHTTP
	case ErrParse:
		return e.Kind == KindParse
	}
	return false
}

func newError(kind ErrorKind, query string, err error) *Error {
	return &Error{Kind: kind, Query: query, Err: err}
}

func httpStatusError(status int, err error) *Error {
	return &Error{Kind: KindHTTP, StatusCode: status, Err: err}
}

func parseErrorf(query, format string, args ...any) *Error {
	return newError(KindParse, query, fmt.Errorf(format, args...))
}

// withPage attaches query and page context to err. Errors that are not
// already an *Error become scrape errors.
func withPage(err error, query string, page int) error {
	var scrapeErr *Error
	if !errors.As(err, &scrapeErr) {
		return &Error{Kind: KindScrape, Query: query, Page: page, Err: err}
	}
	annotated := *scrapeErr
	if annotated.Query == "" {
		annotated.Query = query
	}
	if annotated.Page == 0 {
		annotated.Page = page
	}
	return &annotated
}
