package parser

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"

	"fundboard/internal/models"
)

const estimateMarker = "jsonpgz"

// ParseEstimate unwraps a jsonpgz(...) envelope. `jsonpgz();` yields ErrEmptyPayload.
func ParseEstimate(body []byte) (*models.EstimateEntry, error) {
	group, err := Extract(body, estimateMarker, '(', ')')
	if err != nil {
		return nil, err
	}
	inner := bytes.TrimSpace(group[1 : len(group)-1])
	if len(inner) == 0 {
		return nil, ErrEmptyPayload
	}
	if !gjson.ValidBytes(inner) {
		return nil, fmt.Errorf("%w: estimate is not JSON", ErrMalformedPayload)
	}
	d := gjson.ParseBytes(inner)
	if !d.IsObject() {
		return nil, fmt.Errorf("%w: estimate is not an object", ErrMalformedPayload)
	}

	change, ok := parseNumber(d.Get("gszzl").String())
	return &models.EstimateEntry{
		Code:           d.Get("fundcode").String(),
		Name:           d.Get("name").String(),
		NetValue:       d.Get("dwjz").String(),
		Estimate:       d.Get("gsz").String(),
		EstimateChange: change,
		EstimateTime:   d.Get("gztime").String(),
		NetValueDate:   d.Get("jzrq").String(),
		ChangeValid:    ok,
	}, nil
}
