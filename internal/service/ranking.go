package service

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"fundboard/internal/models"
	"fundboard/internal/parser"
)

// rank handler sort fields
const (
	sortDayChange = "rzdf"
	sortSixMonth  = "6yzf"
)

// Ranking returns funds ordered by official daily change: non-increasing when up,
// non-decreasing otherwise.
func (s *FundService) Ranking(ctx context.Context, up bool, limit int) []models.RankingEntry {
	body, err := s.src.Rank(ctx, sortDayChange, !up, limit)
	if err != nil {
		return []models.RankingEntry{}
	}
	entries, err := parser.ParseRanking(body)
	if err != nil {
		s.log.Warnf("parse ranking failed: %v", err)
		return []models.RankingEntry{}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if up {
			return entries[i].DayChange > entries[j].DayChange
		}
		return entries[i].DayChange < entries[j].DayChange
	})
	return truncate(entries, limit)
}

// EstimateRanking takes the top six-month performers as candidates, fetches each
// one's intraday estimate through a bounded pool and ranks the valid ones by estimate
// change. Ties keep candidate order. A failed candidate list yields an empty ranking.
func (s *FundService) EstimateRanking(ctx context.Context, up bool, limit int) []models.EstimateEntry {
	body, err := s.src.Rank(ctx, sortSixMonth, false, s.opts.Candidates)
	if err != nil {
		return []models.EstimateEntry{}
	}
	codes, err := parser.ParseRankingCodes(body)
	if err != nil {
		s.log.Warnf("parse estimate candidates failed: %v", err)
		return []models.EstimateEntry{}
	}
	codes = truncate(codes, s.opts.Candidates)

	results := make([]*models.EstimateEntry, len(codes))
	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i, code := range codes {
		i, code := i, code
		g.Go(func() error {
			e, err := s.Estimate(ctx, code)
			if err != nil {
				s.log.Debugf("estimate candidate dropped: %v", err)
				return nil
			}
			results[i] = e
			return nil
		})
	}
	_ = g.Wait()

	valid := make([]models.EstimateEntry, 0, len(results))
	for _, e := range results {
		if e != nil && e.ChangeValid {
			// ranking rows carry the estimate only
			e.NetValue, e.NetValueDate = "", ""
			valid = append(valid, *e)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		if up {
			return valid[i].EstimateChange > valid[j].EstimateChange
		}
		return valid[i].EstimateChange < valid[j].EstimateChange
	})
	return truncate(valid, limit)
}

func truncate[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}
