// Package parser turns raw upstream bodies into typed records.
//
// Text-embedded payloads (the rank handler's `datas:[...]` literal and the estimate
// service's `jsonpgz(...)` envelope) go through two stages: Extract locates the marker and
// cuts out the balanced bracket or paren group, then the cut-out text is parsed as strict
// JSON. JSON upstreams are read with gjson.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrMarkerNotFound   = errors.New("parser: marker not found")
	ErrMalformedPayload = errors.New("parser: malformed payload")
	ErrEmptyPayload     = errors.New("parser: empty payload")
	ErrNoData           = errors.New("parser: no data")
)

// Placeholder is substituted for fields the mobile API leaves out.
const Placeholder = "--"

// Extract finds marker in body and returns the delimited group that follows it,
// delimiters included. Only whitespace may sit between the marker and open. Delimiters
// inside quoted strings are ignored.
func Extract(body []byte, marker string, open, close byte) ([]byte, error) {
	i := bytes.Index(body, []byte(marker))
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMarkerNotFound, marker)
	}
	start := i + len(marker)
	for start < len(body) && isSpace(body[start]) {
		start++
	}
	if start >= len(body) || body[start] != open {
		return nil, fmt.Errorf("%w: expected %q after %q", ErrMalformedPayload, open, marker)
	}

	depth := 0
	var quote byte
	escaped := false
	for k := start; k < len(body); k++ {
		c := body[k]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return body[start : k+1], nil
			}
		}
	}
	return nil, fmt.Errorf("%w: unbalanced %q after %q", ErrMalformedPayload, open, marker)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseNumber reads the leading decimal number of s and ignores any trailing text, so
// "1.23%" is 1.23. Input without a leading number, or a non-finite one, is rejected.
func parseNumber(s string) (float64, bool) {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func numberOr(s string, def float64) float64 {
	if f, ok := parseNumber(s); ok {
		return f
	}
	return def
}

func fixed2(f float64) string {
	return decimal.NewFromFloat(f).StringFixed(2)
}

var hundredMillion = decimal.New(1, 8)

// ScaleYi renders a raw net asset figure in units of 亿 (10^8) with two decimals.
func ScaleYi(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Placeholder
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Placeholder
	}
	return d.Div(hundredMillion).StringFixed(2) + "亿"
}
