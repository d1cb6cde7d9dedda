package parser

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"fundboard/internal/models"
)

// ParseIndices reads data.diff of the multi-quote endpoint: f12 code, f14 name, f2 price,
// f4 change, f3 change percent. A missing diff array is an empty result, not an error.
func ParseIndices(body []byte) ([]models.IndexQuote, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: quote body is not JSON", ErrMalformedPayload)
	}
	out := []models.IndexQuote{}
	diff := gjson.GetBytes(body, "data.diff")
	if !diff.IsArray() {
		return out, nil
	}
	diff.ForEach(func(_, v gjson.Result) bool {
		code := strings.TrimSpace(v.Get("f12").String())
		name := strings.TrimSpace(v.Get("f14").String())
		price, change, rate := v.Get("f2"), v.Get("f4"), v.Get("f3")
		if code == "" || name == "" || !isNumber(price) || !isNumber(change) || !isNumber(rate) {
			return true
		}
		out = append(out, models.IndexQuote{
			Code:    code,
			Name:    name,
			Current: fixed2(price.Float()),
			Change:  fixed2(change.Float()),
			Rate:    fixed2(rate.Float()),
		})
		return true
	})
	return out, nil
}

// the quote service sends "-" for suspended symbols
func isNumber(r gjson.Result) bool {
	return r.Type == gjson.Number
}
