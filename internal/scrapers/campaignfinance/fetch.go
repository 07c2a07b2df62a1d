package campaignfinance

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sunscrape/internal/components/assert"
	"sunscrape/internal/components/telemetry"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

const (
	report_fetch_page = "fetch.page"
	report_fetch_raw  = "fetch.raw"
)

// Request is one form submission. Params go in the query string of a GET and
// in the form body of a POST. Path may be relative to the portal base url or
// absolute.
type Request struct {
	Method  string
	Path    string
	Params  url.Values
	Referer string
}

// Page is a parsed html response and the url it was finally served from,
// relative links on the page resolve against Url.
type Page struct {
	Url *url.URL
	Doc *goquery.Document
}

type RawPage struct {
	Url         *url.URL
	Body        []byte
	ContentType string
}

// Fetcher performs the http exchange with the portal, retries included.
type Fetcher interface {
	FetchPage(ctx context.Context, req Request) (Page, error)
	FetchRaw(ctx context.Context, req Request) (RawPage, error)
}

const DefaultBaseUrl = "https://dos.elections.myflorida.com"

type ClientOptions struct {
	BaseUrl           string
	UserAgent         string
	Timeout           time.Duration
	Retries           int
	RequestsPerSecond float64
	CloudflareBypass  bool
	// DumpHttp logs full request and response messages at debug level.
	DumpHttp bool
}

func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		BaseUrl:           DefaultBaseUrl,
		UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		Timeout:           30 * time.Second,
		Retries:           3,
		RequestsPerSecond: 2,
	}
}

// Client is the resty backed Fetcher.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	tel telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("campaign_finance", tel)

	defaults := DefaultClientOptions()
	if opts.BaseUrl == "" {
		opts.BaseUrl = defaults.BaseUrl
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaults.UserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaults.RequestsPerSecond
	}

	parsedBaseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsedBaseUrl.Hostname()))
	httpClient.SetTimeout(opts.Timeout)

	httpClient.SetRetryCount(opts.Retries)
	httpClient.SetRetryWaitTime(500 * time.Millisecond)
	httpClient.SetRetryMaxWaitTime(5 * time.Second)
	httpClient.AddRetryCondition(func(res *resty.Response, err error) bool {
		return err != nil || res.StatusCode() >= http.StatusInternalServerError
	})

	// the portal is a handful of cgi programs, keep a polite pace
	burst := max(int(opts.RequestsPerSecond), 1)
	rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel, opts.DumpHttp)

	return &Client{
		BaseUrl: parsedBaseUrl,
		Http:    httpClient,
		tel:     tel,
	}, nil
}

func (c *Client) do(ctx context.Context, req Request) (*resty.Response, error) {
	r := c.Http.R().SetContext(ctx)
	if req.Referer != "" {
		referer, err := url.Parse(req.Referer)
		if err == nil {
			r.SetHeader("referer", c.BaseUrl.ResolveReference(referer).String())
		}
	}

	method := req.Method
	if method == "" {
		method = resty.MethodGet
	}
	switch method {
	case resty.MethodPost:
		r.SetFormDataFromValues(req.Params)
	default:
		r.SetQueryParamsFromValues(req.Params)
	}

	res, err := r.Execute(method, req.Path)
	if err != nil {
		return nil, &Error{Kind: KindHTTP, Err: fmt.Errorf("%s %s: %w", method, req.Path, err)}
	}
	if res.IsError() {
		return nil, httpStatusError(
			res.StatusCode(),
			fmt.Errorf("%s %s: %s", method, req.Path, res.Status()),
		)
	}
	return res, nil
}

func finalUrl(res *resty.Response) *url.URL {
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		return res.RawResponse.Request.URL
	}
	return nil
}

func (c *Client) FetchPage(ctx context.Context, req Request) (Page, error) {
	c.tel.ReportDebug(report_fetch_page, req.Method, req.Path)

	res, err := c.do(ctx, req)
	if err != nil {
		c.tel.ReportBroken(report_fetch_page, fmt.Errorf("fetch: %w", err), req.Path)
		return Page{}, err
	}

	body, err := charset.NewReader(bytes.NewReader(res.Body()), res.Header().Get("content-type"))
	if err != nil {
		c.tel.ReportBroken(report_fetch_page, fmt.Errorf("decode: %w", err), req.Path)
		return Page{}, &Error{Kind: KindParse, Err: fmt.Errorf("decode %s: %w", req.Path, err)}
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		c.tel.ReportBroken(report_fetch_page, fmt.Errorf("parse: %w", err), req.Path)
		return Page{}, &Error{Kind: KindParse, Err: fmt.Errorf("parse %s: %w", req.Path, err)}
	}

	pageUrl := finalUrl(res)
	if pageUrl == nil {
		pageUrl = c.BaseUrl.ResolveReference(&url.URL{Path: req.Path})
	}
	doc.Url = pageUrl
	return Page{Url: pageUrl, Doc: doc}, nil
}

func (c *Client) FetchRaw(ctx context.Context, req Request) (RawPage, error) {
	c.tel.ReportDebug(report_fetch_raw, req.Method, req.Path)

	res, err := c.do(ctx, req)
	if err != nil {
		c.tel.ReportBroken(report_fetch_raw, fmt.Errorf("fetch: %w", err), req.Path)
		return RawPage{}, err
	}
	return RawPage{
		Url:         finalUrl(res),
		Body:        res.Body(),
		ContentType: res.Header().Get("content-type"),
	}, nil
}
