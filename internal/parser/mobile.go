package parser

import (
	"fmt"

	"github.com/tidwall/gjson"

	"fundboard/internal/models"
)

var periodLabels = map[string]string{
	"Z":  "近1周",
	"Y":  "近1月",
	"3Y": "近3月",
	"6Y": "近6月",
	"1N": "近1年",
	"2N": "近2年",
	"3N": "近3年",
	"LN": "成立来",
}

// PeriodLabel maps a period code to its display label; unknown codes label as themselves.
func PeriodLabel(code string) string {
	if l, ok := periodLabels[code]; ok {
		return l
	}
	return code
}

func mobileBody(body []byte) error {
	if !gjson.ValidBytes(body) {
		return fmt.Errorf("%w: mobile body is not JSON", ErrMalformedPayload)
	}
	return nil
}

func field(r gjson.Result, key string) string {
	v := r.Get(key)
	if !v.Exists() || v.Type == gjson.Null || v.String() == "" {
		return Placeholder
	}
	return v.String()
}

func ParseDetail(body []byte) (*models.FundDetail, error) {
	if err := mobileBody(body); err != nil {
		return nil, err
	}
	d := gjson.GetBytes(body, "Datas")
	if !d.IsObject() {
		return nil, ErrNoData
	}
	return &models.FundDetail{
		Code:          field(d, "FCODE"),
		Name:          field(d, "SHORTNAME"),
		FullName:      field(d, "FULLNAME"),
		Type:          field(d, "FTYPE"),
		EstablishDate: field(d, "ESTABDATE"),
		Scale:         ScaleYi(d.Get("ENDNAV").String()),
		Rating:        field(d, "RLEVEL_SZ"),
		Company:       field(d, "JJGS"),
		Custodian:     field(d, "TGYH"),
		Manager:       field(d, "JJJL"),
		ManageFee:     field(d, "MGREXP"),
		TrustFee:      field(d, "TRUSTEXP"),
	}, nil
}

// ParsePortfolio keeps holdings in upstream order (descending weight).
func ParsePortfolio(body []byte) (models.Portfolio, error) {
	if err := mobileBody(body); err != nil {
		return models.Portfolio{}, err
	}
	stocks := gjson.GetBytes(body, "Datas.fundStocks")
	if !stocks.IsArray() {
		return models.Portfolio{}, ErrNoData
	}
	p := models.Portfolio{
		Stocks:     []models.PortfolioHolding{},
		UpdateDate: gjson.GetBytes(body, "Datas.FSRQ").String(),
	}
	stocks.ForEach(func(_, s gjson.Result) bool {
		p.Stocks = append(p.Stocks, models.PortfolioHolding{
			Code:     s.Get("GPDM").String(),
			Name:     s.Get("GPJC").String(),
			Percent:  numberOr(s.Get("JZBL").String(), 0),
			Change:   s.Get("PCTNVCHGTYPE").String(),
			Industry: s.Get("INDEXNAME").String(),
		})
		return true
	})
	return p, nil
}

func ParsePerformance(body []byte) (models.Performance, error) {
	if err := mobileBody(body); err != nil {
		return models.Performance{}, err
	}
	datas := gjson.GetBytes(body, "Datas")
	if !datas.IsArray() {
		return models.Performance{}, ErrNoData
	}
	perf := models.Performance{
		Periods:       []models.PerformancePeriod{},
		EstablishDate: gjson.GetBytes(body, "Expansion.ESTABDATE").String(),
	}
	datas.ForEach(func(_, p gjson.Result) bool {
		code := p.Get("title").String()
		perf.Periods = append(perf.Periods, models.PerformancePeriod{
			Period: code,
			Label:  PeriodLabel(code),
			Value:  numberOr(p.Get("syl").String(), 0),
			Rank:   p.Get("rank").String(),
			Total:  p.Get("sc").String(),
		})
		return true
	})
	return perf, nil
}
