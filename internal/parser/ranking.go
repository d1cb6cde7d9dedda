package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"fundboard/internal/models"
)

const rankingMarker = "datas:"

// column positions inside a comma-joined rank row
const (
	colCode      = 0
	colName      = 1
	colCategory  = 3
	colNetValue  = 4
	colDayChange = 6
)

func rankingRows(body []byte) ([]string, error) {
	raw, err := Extract(body, rankingMarker, '[', ']')
	if err != nil {
		return nil, err
	}
	var rows []string
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: ranking rows: %v", ErrMalformedPayload, err)
	}
	return rows, nil
}

// ParseRanking reads every row of the rank handler's datas literal. Rows are never
// dropped; an unparsable day change becomes 0.
func ParseRanking(body []byte) ([]models.RankingEntry, error) {
	rows, err := rankingRows(body)
	if err != nil {
		return nil, err
	}
	out := make([]models.RankingEntry, 0, len(rows))
	for _, row := range rows {
		c := strings.Split(row, ",")
		out = append(out, models.RankingEntry{
			Code:      column(c, colCode),
			Name:      column(c, colName),
			Type:      column(c, colCategory),
			NetValue:  column(c, colNetValue),
			DayChange: numberOr(column(c, colDayChange), 0),
		})
	}
	return out, nil
}

// ParseRankingCodes returns only the fund codes of the datas literal, in upstream order.
func ParseRankingCodes(body []byte) ([]string, error) {
	rows, err := rankingRows(body)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(rows))
	for _, row := range rows {
		if code := column(strings.Split(row, ","), colCode); code != "" {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

func column(cols []string, i int) string {
	if i < len(cols) {
		return cols[i]
	}
	return ""
}
