package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rankBody = `var rankData = {datas:["000001,华夏成长,HXCZ,混合型,1.2340,2024-01-05,2.15,1,2,3",
"000002,华夏回报,HXHB,债券型,1.0010,2024-01-05,-0.35",
"000003,测试[基金],CS,股票型,0.9000,2024-01-05,--"],allRecords:3,pageIndex:1,pageNum:50};`

func TestExtract_Balanced(t *testing.T) {
	got, err := Extract([]byte(`x = f({"a":[1,2],"b":"(x)"}) + 1`), "f", '(', ')')
	require.NoError(t, err)
	assert.Equal(t, `({"a":[1,2],"b":"(x)"})`, string(got))
}

func TestExtract_IgnoresDelimitersInStrings(t *testing.T) {
	got, err := Extract([]byte(`datas: ["a]b", "c\"]"] tail`), "datas:", '[', ']')
	require.NoError(t, err)
	assert.Equal(t, `["a]b", "c\"]"]`, string(got))
}

func TestExtract_FailureKinds(t *testing.T) {
	_, err := Extract([]byte(`nothing here`), "datas:", '[', ']')
	assert.True(t, errors.Is(err, ErrMarkerNotFound))

	_, err = Extract([]byte(`datas: ["a", "b"`), "datas:", '[', ']')
	assert.True(t, errors.Is(err, ErrMalformedPayload))

	_, err = Extract([]byte(`datas: 42`), "datas:", '[', ']')
	assert.True(t, errors.Is(err, ErrMalformedPayload))
}

func TestParseRanking(t *testing.T) {
	entries, err := ParseRanking([]byte(rankBody))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "000001", entries[0].Code)
	assert.Equal(t, "华夏成长", entries[0].Name)
	assert.Equal(t, "混合型", entries[0].Type)
	assert.Equal(t, "1.2340", entries[0].NetValue)
	assert.Equal(t, 2.15, entries[0].DayChange)

	assert.Equal(t, -0.35, entries[1].DayChange)

	assert.Equal(t, "测试[基金]", entries[2].Name)
	assert.Equal(t, 0.0, entries[2].DayChange)
}

func TestParseNumber_LeadingPrefix(t *testing.T) {
	f, ok := parseNumber(" 1.23% ")
	assert.True(t, ok)
	assert.Equal(t, 1.23, f)

	f, ok = parseNumber("-0.5abc")
	assert.True(t, ok)
	assert.Equal(t, -0.5, f)

	for _, bad := range []string{"", "--", "%1", "abc", "1e999"} {
		_, ok = parseNumber(bad)
		assert.False(t, ok, bad)
	}

	entries, err := ParseRanking([]byte(`{datas:["000001,A,,混合型,1.0,,1.23%"]}`))
	require.NoError(t, err)
	assert.Equal(t, 1.23, entries[0].DayChange)
}

func TestParseRanking_ShortRowsKept(t *testing.T) {
	entries, err := ParseRanking([]byte(`{datas:["000009,短行"]}`))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "000009", entries[0].Code)
	assert.Equal(t, "", entries[0].Type)
	assert.Equal(t, 0.0, entries[0].DayChange)
}

func TestParseRanking_NoMarker(t *testing.T) {
	_, err := ParseRanking([]byte(`<html>blocked</html>`))
	assert.True(t, errors.Is(err, ErrMarkerNotFound))
}

func TestParseRanking_BadRows(t *testing.T) {
	_, err := ParseRanking([]byte(`{datas:[1, 2]}`))
	assert.True(t, errors.Is(err, ErrMalformedPayload))
}

func TestParseRankingCodes(t *testing.T) {
	codes, err := ParseRankingCodes([]byte(rankBody))
	require.NoError(t, err)
	assert.Equal(t, []string{"000001", "000002", "000003"}, codes)
}

func TestParseEstimate(t *testing.T) {
	body := `jsonpgz({"fundcode":"161725","name":"招商中证白酒","jzrq":"2024-01-04","dwjz":"1.0230","gsz":"1.0351","gszzl":"1.18","gztime":"2024-01-05 15:00"});`
	e, err := ParseEstimate([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "161725", e.Code)
	assert.Equal(t, "招商中证白酒", e.Name)
	assert.Equal(t, "1.0230", e.NetValue)
	assert.Equal(t, "1.0351", e.Estimate)
	assert.Equal(t, 1.18, e.EstimateChange)
	assert.True(t, e.ChangeValid)
	assert.Equal(t, "2024-01-05 15:00", e.EstimateTime)
	assert.Equal(t, "2024-01-04", e.NetValueDate)
}

func TestParseEstimate_InvalidChange(t *testing.T) {
	e, err := ParseEstimate([]byte(`jsonpgz({"fundcode":"1","gszzl":""});`))
	require.NoError(t, err)
	assert.False(t, e.ChangeValid)
	assert.Equal(t, 0.0, e.EstimateChange)
}

func TestParseEstimate_Failures(t *testing.T) {
	_, err := ParseEstimate([]byte(`jsonpgz();`))
	assert.True(t, errors.Is(err, ErrEmptyPayload))

	_, err = ParseEstimate([]byte(``))
	assert.True(t, errors.Is(err, ErrMarkerNotFound))

	_, err = ParseEstimate([]byte(`jsonpgz({"fundcode":);`))
	assert.True(t, errors.Is(err, ErrMalformedPayload))

	_, err = ParseEstimate([]byte(`jsonpgz([1,2]);`))
	assert.True(t, errors.Is(err, ErrMalformedPayload))
}

func TestParseIndices(t *testing.T) {
	body := `{"rc":0,"data":{"total":3,"diff":[
		{"f2":3050.1234,"f3":0.456,"f4":13.8,"f12":"000001","f13":1,"f14":"上证指数"},
		{"f2":"-","f3":"-","f4":"-","f12":"399001","f13":0,"f14":"深证成指"},
		{"f2":1850,"f3":-1.2,"f4":-22.5,"f12":"399006","f13":0,"f14":"创业板指"},
		{"f2":1,"f3":1,"f12":"000688","f14":"科创50"}
	]}}`
	got, err := ParseIndices([]byte(body))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "000001", got[0].Code)
	assert.Equal(t, "3050.12", got[0].Current)
	assert.Equal(t, "13.80", got[0].Change)
	assert.Equal(t, "0.46", got[0].Rate)
	assert.Equal(t, "1850.00", got[1].Current)
	assert.Equal(t, "-1.20", got[1].Rate)
}

func TestParseIndices_NoDiff(t *testing.T) {
	got, err := ParseIndices([]byte(`{"rc":0,"data":null}`))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = ParseIndices([]byte(`not json`))
	assert.True(t, errors.Is(err, ErrMalformedPayload))
}

func TestScaleYi(t *testing.T) {
	assert.Equal(t, "1.23亿", ScaleYi("123456789"))
	assert.Equal(t, "52.00亿", ScaleYi("5200000000"))
	assert.Equal(t, Placeholder, ScaleYi(""))
	assert.Equal(t, Placeholder, ScaleYi("n/a"))
}

func TestParseDetail(t *testing.T) {
	body := `{"Datas":{"FCODE":"000001","SHORTNAME":"华夏成长","FULLNAME":"华夏成长证券投资基金","FTYPE":"混合型","ESTABDATE":"2001-12-18","ENDNAV":"123456789","RLEVEL_SZ":"3","JJGS":"华夏基金","TGYH":"建设银行","JJJL":"王某","MGREXP":"1.20%"},"ErrCode":0}`
	d, err := ParseDetail([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "000001", d.Code)
	assert.Equal(t, "1.23亿", d.Scale)
	assert.Equal(t, "建设银行", d.Custodian)
	assert.Equal(t, "1.20%", d.ManageFee)
	assert.Equal(t, Placeholder, d.TrustFee)
}

func TestParseDetail_NoDatas(t *testing.T) {
	_, err := ParseDetail([]byte(`{"Datas":null,"ErrCode":-1}`))
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestParsePortfolio(t *testing.T) {
	body := `{"Datas":{"fundStocks":[
		{"GPDM":"600519","GPJC":"贵州茅台","JZBL":"9.87","PCTNVCHGTYPE":"增持","INDEXNAME":"食品饮料"},
		{"GPDM":"000858","GPJC":"五粮液","JZBL":"","PCTNVCHGTYPE":"新增","INDEXNAME":"食品饮料"}
	],"FSRQ":"2024-03-31"}}`
	p, err := ParsePortfolio([]byte(body))
	require.NoError(t, err)
	require.Len(t, p.Stocks, 2)
	assert.Equal(t, "2024-03-31", p.UpdateDate)
	assert.Equal(t, "600519", p.Stocks[0].Code)
	assert.Equal(t, 9.87, p.Stocks[0].Percent)
	assert.Equal(t, 0.0, p.Stocks[1].Percent)

	_, err = ParsePortfolio([]byte(`{"Datas":{}}`))
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestParsePerformance(t *testing.T) {
	body := `{"Datas":[
		{"title":"Z","syl":"1.5","rank":"10","sc":"2000"},
		{"title":"LN","syl":"320.12","rank":"5","sc":"900"},
		{"title":"XX","syl":"--","rank":"","sc":""}
	],"Expansion":{"ESTABDATE":"2001-12-18"}}`
	perf, err := ParsePerformance([]byte(body))
	require.NoError(t, err)
	require.Len(t, perf.Periods, 3)
	assert.Equal(t, "2001-12-18", perf.EstablishDate)
	assert.Equal(t, "近1周", perf.Periods[0].Label)
	assert.Equal(t, 1.5, perf.Periods[0].Value)
	assert.Equal(t, "成立来", perf.Periods[1].Label)
	assert.Equal(t, "XX", perf.Periods[2].Label)
	assert.Equal(t, 0.0, perf.Periods[2].Value)
}
