// Package upstream issues the outbound calls to the quote, rank, estimate and mobile
// fund services. Each service expects its own header profile; requests that do not
// look like the browser or app the service was built for get blocked.
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"fundboard/internal/metrics"
)

const (
	DefaultQuoteURL    = "https://push2.eastmoney.com/api/qt/ulist.np/get"
	DefaultRankURL     = "https://fund.eastmoney.com/data/rankhandler.aspx"
	DefaultEstimateURL = "https://fundgz.1234567.com.cn/js"
	DefaultMobileURL   = "https://fundmobapi.eastmoney.com/FundMNewApi"
)

const (
	defaultTimeout = 8 * time.Second
	maxBodyBytes   = 4 << 20
)

// index secids: SSE Composite, SZSE Component, ChiNext, STAR 50
const (
	indexSecIDs = "1.000001,0.399001,0.399006,1.000688"
	indexFields = "f2,f3,f4,f12,f14"
)

// Profile is a fixed set of request headers sent verbatim.
type Profile struct {
	Name    string
	Headers [][2]string
}

var (
	// Desktop impersonates a browser coming from the fund quote site.
	Desktop = Profile{Name: "desktop", Headers: [][2]string{
		{"Referer", "https://fund.eastmoney.com/"},
		{"User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"},
	}}
	// Mobile impersonates the phone app referred from its companion service.
	Mobile = Profile{Name: "mobile", Headers: [][2]string{
		{"User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X)"},
		{"Referer", "https://mpservice.com/"},
		{"Accept", "application/json"},
	}}
)

// Mobile API methods
const (
	MethodDetail      = "FundMNDetailInformation"
	MethodPortfolio   = "FundMNInverstPosition"
	MethodPerformance = "FundMNPeriodIncrease"
)

type Options struct {
	QuoteURL    string
	RankURL     string
	EstimateURL string
	MobileURL   string
	Timeout     time.Duration
}

type Client struct {
	HTTPClient *http.Client
	opts       Options
	log        *logrus.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewClient(opts Options, log *logrus.Logger, m *metrics.Metrics) *Client {
	if opts.QuoteURL == "" {
		opts.QuoteURL = DefaultQuoteURL
	}
	if opts.RankURL == "" {
		opts.RankURL = DefaultRankURL
	}
	if opts.EstimateURL == "" {
		opts.EstimateURL = DefaultEstimateURL
	}
	if opts.MobileURL == "" {
		opts.MobileURL = DefaultMobileURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Client{
		HTTPClient: &http.Client{},
		opts:       opts,
		log:        log,
		metrics:    m,
		now:        time.Now,
	}
}

func (c *Client) stamp() string {
	return strconv.FormatInt(c.now().UnixMilli(), 10)
}

// Get performs one GET with the given header profile under its own timeout. There are
// no retries; the first failure is final.
func (c *Client) Get(ctx context.Context, upstream, rawURL string, p Profile) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	start := time.Now()
	body, err := c.do(ctx, rawURL, p)
	c.metrics.ObserveUpstream(upstream, err, time.Since(start))
	if err != nil {
		c.log.WithFields(logrus.Fields{"upstream": upstream, "url": rawURL}).Warnf("upstream call failed: %v", err)
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, rawURL string, p Profile) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for _, h := range p.Headers {
		req.Header.Set(h[0], h[1])
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.log.WithField("url", rawURL).Debugf("upstream status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// Indices fetches the multi-quote JSON for the four headline indices.
func (c *Client) Indices(ctx context.Context) ([]byte, error) {
	u := fmt.Sprintf("%s?fltt=2&secids=%s&fields=%s&_=%s", c.opts.QuoteURL, indexSecIDs, indexFields, c.stamp())
	return c.Get(ctx, "quote", u, Desktop)
}

// Rank fetches one page of the open-end fund ranking sorted by sortField.
func (c *Client) Rank(ctx context.Context, sortField string, ascending bool, size int) ([]byte, error) {
	order := "desc"
	if ascending {
		order = "asc"
	}
	u := fmt.Sprintf("%s?op=ph&dt=kf&ft=all&rs=&gs=0&sc=%s&st=%s&pi=1&pn=%d&dx=1&v=%s",
		c.opts.RankURL, url.QueryEscape(sortField), order, size, c.stamp())
	return c.Get(ctx, "rank", u, Desktop)
}

// Estimate fetches the jsonpgz envelope for one fund.
func (c *Client) Estimate(ctx context.Context, code string) ([]byte, error) {
	u := fmt.Sprintf("%s/%s.js?rt=%s", c.opts.EstimateURL, url.PathEscape(code), c.stamp())
	return c.Get(ctx, "estimate", u, Desktop)
}

// Mobile calls one FundMNewApi method for a fund code.
func (c *Client) Mobile(ctx context.Context, method, code string) ([]byte, error) {
	u := fmt.Sprintf("%s/%s?FCODE=%s&deviceid=Wap&plat=Wap&product=EFund&version=2.0.0&_=%s",
		c.opts.MobileURL, method, url.QueryEscape(code), c.stamp())
	return c.Get(ctx, "mobile", u, Mobile)
}
