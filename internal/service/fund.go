package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"fundboard/internal/models"
	"fundboard/internal/parser"
	"fundboard/internal/upstream"
)

// ErrNoEstimate means the estimate service had no payload for the code.
var ErrNoEstimate = errors.New("no estimate data")

// Source is the set of upstream calls the service depends on. *upstream.Client
// satisfies it.
type Source interface {
	Indices(ctx context.Context) ([]byte, error)
	Rank(ctx context.Context, sortField string, ascending bool, size int) ([]byte, error)
	Estimate(ctx context.Context, code string) ([]byte, error)
	Mobile(ctx context.Context, method, code string) ([]byte, error)
}

// FundProvider is what the HTTP layer consumes. Apart from Estimate, every method
// absorbs upstream and parse failures and returns the endpoint's empty shape.
type FundProvider interface {
	Indices(ctx context.Context) []models.IndexQuote
	Ranking(ctx context.Context, up bool, limit int) []models.RankingEntry
	EstimateRanking(ctx context.Context, up bool, limit int) []models.EstimateEntry
	Estimate(ctx context.Context, code string) (*models.EstimateEntry, error)
	Detail(ctx context.Context, code string) *models.FundDetail
	Portfolio(ctx context.Context, code string) models.Portfolio
	Performance(ctx context.Context, code string) models.Performance
}

type Options struct {
	// Concurrency bounds the estimate fan-out of EstimateRanking.
	Concurrency int
	// Candidates is how many top funds EstimateRanking considers.
	Candidates int
}

const (
	defaultConcurrency = 10
	maxCandidates      = 50
)

type FundService struct {
	src  Source
	opts Options
	log  *logrus.Logger
}

var _ FundProvider = (*FundService)(nil)

func NewFundService(src Source, opts Options, log *logrus.Logger) *FundService {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.Candidates <= 0 || opts.Candidates > maxCandidates {
		opts.Candidates = maxCandidates
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &FundService{src: src, opts: opts, log: log}
}

func (s *FundService) Indices(ctx context.Context) []models.IndexQuote {
	body, err := s.src.Indices(ctx)
	if err != nil {
		return []models.IndexQuote{}
	}
	quotes, err := parser.ParseIndices(body)
	if err != nil {
		s.log.Warnf("parse indices failed: %v", err)
		return []models.IndexQuote{}
	}
	return quotes
}

func (s *FundService) Estimate(ctx context.Context, code string) (*models.EstimateEntry, error) {
	body, err := s.src.Estimate(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("fetch estimate %s: %w", code, err)
	}
	e, err := parser.ParseEstimate(body)
	if errors.Is(err, parser.ErrMarkerNotFound) || errors.Is(err, parser.ErrEmptyPayload) {
		return nil, fmt.Errorf("%w: %s", ErrNoEstimate, code)
	}
	if err != nil {
		return nil, fmt.Errorf("parse estimate %s: %w", code, err)
	}
	return e, nil
}

func (s *FundService) Detail(ctx context.Context, code string) *models.FundDetail {
	body, err := s.src.Mobile(ctx, upstream.MethodDetail, code)
	if err != nil {
		return nil
	}
	d, err := parser.ParseDetail(body)
	if err != nil {
		s.log.Warnf("parse detail %s failed: %v", code, err)
		return nil
	}
	return d
}

func (s *FundService) Portfolio(ctx context.Context, code string) models.Portfolio {
	empty := models.Portfolio{Stocks: []models.PortfolioHolding{}}
	body, err := s.src.Mobile(ctx, upstream.MethodPortfolio, code)
	if err != nil {
		return empty
	}
	p, err := parser.ParsePortfolio(body)
	if err != nil {
		s.log.Warnf("parse portfolio %s failed: %v", code, err)
		return empty
	}
	return p
}

func (s *FundService) Performance(ctx context.Context, code string) models.Performance {
	empty := models.Performance{Periods: []models.PerformancePeriod{}}
	body, err := s.src.Mobile(ctx, upstream.MethodPerformance, code)
	if err != nil {
		return empty
	}
	perf, err := parser.ParsePerformance(body)
	if err != nil {
		s.log.Warnf("parse performance %s failed: %v", code, err)
		return empty
	}
	return perf
}
