package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	path  string
	query string
	head  http.Header
}

func recordingServer(t *testing.T, body string) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.query = r.URL.RawQuery
		got.head = r.Header.Clone()
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func fixedClient(opts Options) *Client {
	c := NewClient(opts, nil, nil)
	c.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return c
}

func TestIndices_DesktopProfile(t *testing.T) {
	srv, got := recordingServer(t, `{"data":{"diff":[]}}`)
	c := fixedClient(Options{QuoteURL: srv.URL + "/api/qt/ulist.np/get"})

	body, err := c.Indices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"data":{"diff":[]}}`, string(body))

	assert.Equal(t, "/api/qt/ulist.np/get", got.path)
	assert.Equal(t, "fltt=2&secids=1.000001,0.399001,0.399006,1.000688&fields=f2,f3,f4,f12,f14&_=1700000000123", got.query)
	assert.Equal(t, "https://fund.eastmoney.com/", got.head.Get("Referer"))
	assert.Equal(t, "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36", got.head.Get("User-Agent"))
}

func TestRank_Query(t *testing.T) {
	srv, got := recordingServer(t, `var rankData = {datas:[]};`)
	c := fixedClient(Options{RankURL: srv.URL + "/data/rankhandler.aspx"})

	_, err := c.Rank(context.Background(), "rzdf", true, 15)
	require.NoError(t, err)
	assert.Equal(t, "op=ph&dt=kf&ft=all&rs=&gs=0&sc=rzdf&st=asc&pi=1&pn=15&dx=1&v=1700000000123", got.query)

	_, err = c.Rank(context.Background(), "6yzf", false, 50)
	require.NoError(t, err)
	assert.Contains(t, got.query, "sc=6yzf&st=desc&pi=1&pn=50")
}

func TestEstimate_Path(t *testing.T) {
	srv, got := recordingServer(t, `jsonpgz();`)
	c := fixedClient(Options{EstimateURL: srv.URL + "/js"})

	_, err := c.Estimate(context.Background(), "161725")
	require.NoError(t, err)
	assert.Equal(t, "/js/161725.js", got.path)
	assert.Equal(t, "rt=1700000000123", got.query)
	assert.Equal(t, "https://fund.eastmoney.com/", got.head.Get("Referer"))
}

func TestMobile_Profile(t *testing.T) {
	srv, got := recordingServer(t, `{"Datas":null}`)
	c := fixedClient(Options{MobileURL: srv.URL + "/FundMNewApi"})

	_, err := c.Mobile(context.Background(), MethodDetail, "000001")
	require.NoError(t, err)
	assert.Equal(t, "/FundMNewApi/FundMNDetailInformation", got.path)
	assert.Equal(t, "FCODE=000001&deviceid=Wap&plat=Wap&product=EFund&version=2.0.0&_=1700000000123", got.query)
	assert.Equal(t, "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X)", got.head.Get("User-Agent"))
	assert.Equal(t, "https://mpservice.com/", got.head.Get("Referer"))
	assert.Equal(t, "application/json", got.head.Get("Accept"))
}

func TestGet_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := fixedClient(Options{EstimateURL: srv.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.Estimate(context.Background(), "000001")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGet_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := fixedClient(Options{QuoteURL: url})
	_, err := c.Indices(context.Background())
	assert.Error(t, err)
}
