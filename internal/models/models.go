package models

type IndexQuote struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Current string `json:"current"`
	Change  string `json:"change"`
	Rate    string `json:"rate"`
}

type RankingEntry struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	NetValue  string  `json:"netValue"`
	DayChange float64 `json:"dayChange"`
}

// EstimateEntry is an intraday estimate for one fund. ChangeValid reports whether the
// upstream change percent was a real number; invalid entries are left out of rankings.
type EstimateEntry struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	NetValue       string  `json:"netValue,omitempty"`
	Estimate       string  `json:"estimate"`
	EstimateChange float64 `json:"estimateChange"`
	EstimateTime   string  `json:"estimateTime"`
	NetValueDate   string  `json:"netValueDate,omitempty"`
	ChangeValid    bool    `json:"-"`
}

type FundDetail struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	FullName      string `json:"fullName"`
	Type          string `json:"type"`
	EstablishDate string `json:"establishDate"`
	Scale         string `json:"scale"`
	Rating        string `json:"rating"`
	Company       string `json:"company"`
	Custodian     string `json:"custodian"`
	Manager       string `json:"manager"`
	ManageFee     string `json:"manageFee"`
	TrustFee      string `json:"trustFee"`
}

type PortfolioHolding struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Percent  float64 `json:"percent"`
	Change   string  `json:"change"`
	Industry string  `json:"industry"`
}

// Portfolio carries the holdings list; the update date belongs to the list as a whole.
type Portfolio struct {
	Stocks     []PortfolioHolding `json:"stocks"`
	UpdateDate string             `json:"updateDate"`
}

type PerformancePeriod struct {
	Period string  `json:"period"`
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Rank   string  `json:"rank"`
	Total  string  `json:"total"`
}

type Performance struct {
	Periods       []PerformancePeriod `json:"performance"`
	EstablishDate string              `json:"establishDate"`
}

type FundListItem struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Pinyin string `json:"pinyin"`
	Type   string `json:"type"`
}
