// Package analyze orchestrates one analysis run: it drives the
// datasource client for every data category, hands payloads to the
// extractors and assembles the resulting document. Category failures
// are recorded, never fatal; the exporter turns them into placeholder
// sheets.
package analyze

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ddihora1604/IITK-ESG/internal/datasource"
	apperrors "github.com/ddihora1604/IITK-ESG/internal/errors"
	"github.com/ddihora1604/IITK-ESG/internal/extract"
	"github.com/ddihora1604/IITK-ESG/internal/infrastructure"
	"github.com/ddihora1604/IITK-ESG/pkg/contracts/domain"
)

// quoteSummaryModules are fetched in a single call; they feed the
// profile, statistics and all three statement categories.
var quoteSummaryModules = []string{
	"assetProfile",
	"price",
	"summaryDetail",
	"defaultKeyStatistics",
	"financialData",
	"incomeStatementHistory",
	"balanceSheetHistory",
	"cashflowStatementHistory",
}

// Aggregator runs the fetch+extract pipeline for one ticker.
type Aggregator struct {
	client          *datasource.Client
	browserFallback bool
	concurrency     int
}

// Option customizes an Aggregator.
type Option func(*Aggregator)

// WithBrowserFallback enables the rendered-page fallback for scraped
// categories.
func WithBrowserFallback(enabled bool) Option {
	return func(a *Aggregator) { a.browserFallback = enabled }
}

// WithConcurrency bounds the number of categories fetched in
// parallel.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// New creates an Aggregator over the given client.
func New(client *datasource.Client, opts ...Option) *Aggregator {
	a := &Aggregator{
		client:      client,
		concurrency: 3,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run fetches every data category for the ticker and returns the
// assembled document together with the per-category failures. The
// returned error is non-nil only for precondition violations; upstream
// failures always degrade to recorded category failures.
func (a *Aggregator) Run(ctx context.Context, ticker string) (*domain.AnalysisDocument, []domain.CategoryFailure, error) {
	ticker = domain.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, nil, apperrors.NewValidationError("ticker must not be empty")
	}

	logger := infrastructure.LoggerWithContext(ctx)
	logger.Info("starting analysis run", slog.String("ticker", ticker))

	doc := &domain.AnalysisDocument{
		Ticker:      ticker,
		GeneratedAt: time.Now().UTC(),
	}
	var mu sync.Mutex

	fail := func(category domain.Category, err error) {
		logger.Warn("category failed",
			slog.String("ticker", ticker),
			slog.String("category", string(category)),
			slog.String("error", err.Error()))
		mu.Lock()
		doc.Failures = append(doc.Failures, domain.CategoryFailure{
			Category: category,
			Message:  err.Error(),
		})
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	g.Go(func() error {
		bars, err := a.fetchPrices(gctx, ticker)
		if err != nil {
			fail(domain.CategoryPrices, err)
			return nil
		}
		mu.Lock()
		doc.Prices = bars
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		esg, err := a.fetchESG(gctx, ticker)
		if err != nil {
			fail(domain.CategoryESG, err)
			return nil
		}
		mu.Lock()
		doc.ESG = esg
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		a.fetchSummaryCategories(gctx, ticker, doc, &mu, fail)
		return nil
	})

	g.Go(func() error {
		peers, err := a.fetchPeers(gctx, ticker)
		if err != nil {
			fail(domain.CategoryPeers, err)
			return nil
		}
		mu.Lock()
		doc.Peers = peers
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		sust, err := a.fetchSustainability(gctx, ticker)
		if err != nil {
			fail(domain.CategorySustainability, err)
			return nil
		}
		mu.Lock()
		doc.Sustainability = sust
		mu.Unlock()
		return nil
	})

	// Workers never return errors; Wait only observes context
	// cancellation.
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	logger.Info("analysis run complete",
		slog.String("ticker", ticker),
		slog.Int("failed_categories", len(doc.Failures)))

	return doc, doc.Failures, nil
}

// fetchPrices pulls the 5-year daily chart.
func (a *Aggregator) fetchPrices(ctx context.Context, ticker string) ([]domain.PriceBar, error) {
	res, err := a.client.Chart(ctx, ticker, datasource.Range5y)
	if err != nil {
		return nil, err
	}
	return extract.Prices(res)
}

// fetchESG tries the esgChart API first, then scrapes the
// sustainability page, then the rendered page when the browser
// fallback is enabled.
func (a *Aggregator) fetchESG(ctx context.Context, ticker string) (*domain.ESGScores, error) {
	logger := infrastructure.LoggerWithContext(ctx)

	res, err := a.client.ESGChart(ctx, ticker)
	if err == nil {
		if scores, esgErr := extract.ESG(res); esgErr == nil {
			return scores, nil
		}
	}
	logger.Debug("esgChart unavailable, trying sustainability page",
		slog.String("ticker", ticker))

	doc, err := a.client.SustainabilityPage(ctx, ticker, false)
	if err == nil {
		if scores, esgErr := extract.ESGFromPage(doc); esgErr == nil {
			return scores, nil
		}
	}

	if a.browserFallback {
		logger.Debug("static scrape unavailable, trying rendered page",
			slog.String("ticker", ticker))
		doc, err = a.client.SustainabilityPage(ctx, ticker, true)
		if err == nil {
			return extract.ESGFromPage(doc)
		}
	}

	if err != nil {
		return nil, err
	}
	return nil, apperrors.NewFetchError("no ESG data available from any source", nil)
}

// fetchSummaryCategories issues one quoteSummary call and extracts the
// five categories it feeds. A failed call records a failure for each
// of them; extraction failures stay per-category.
func (a *Aggregator) fetchSummaryCategories(ctx context.Context, ticker string, doc *domain.AnalysisDocument, mu *sync.Mutex, fail func(domain.Category, error)) {
	summaryCategories := []domain.Category{
		domain.CategoryProfile,
		domain.CategoryStatistics,
		domain.CategoryIncome,
		domain.CategoryBalance,
		domain.CategoryCashFlow,
	}

	res, err := a.client.QuoteSummary(ctx, ticker, quoteSummaryModules...)
	if err != nil {
		// The financials page embeds the same store; scrape it before
		// giving up on all five categories.
		infrastructure.LoggerWithContext(ctx).Debug(
			"quoteSummary unavailable, scraping financials page",
			slog.String("ticker", ticker))
		if page, pageErr := a.client.FinancialsPage(ctx, ticker); pageErr == nil {
			if scraped, scrapeErr := extract.QuoteSummaryFromPage(page); scrapeErr == nil {
				res, err = scraped, nil
			}
		}
	}
	if err != nil {
		for _, c := range summaryCategories {
			fail(c, err)
		}
		return
	}

	if profile, err := extract.Profile(res); err != nil {
		fail(domain.CategoryProfile, err)
	} else {
		mu.Lock()
		doc.Profile = profile
		mu.Unlock()
	}

	if stats, err := extract.Statistics(res); err != nil {
		fail(domain.CategoryStatistics, err)
	} else {
		mu.Lock()
		doc.Statistics = stats
		mu.Unlock()
	}

	type statementSource struct {
		category domain.Category
		stype    domain.StatementType
		periods  []datasource.StatementPeriod
	}
	sources := []statementSource{
		{domain.CategoryIncome, domain.StatementIncome, nil},
		{domain.CategoryBalance, domain.StatementBalance, nil},
		{domain.CategoryCashFlow, domain.StatementCashFlow, nil},
	}
	if res.IncomeStatementHistory != nil {
		sources[0].periods = res.IncomeStatementHistory.IncomeStatementHistory
	}
	if res.BalanceSheetHistory != nil {
		sources[1].periods = res.BalanceSheetHistory.BalanceSheetStatements
	}
	if res.CashflowStatementHistory != nil {
		sources[2].periods = res.CashflowStatementHistory.CashflowStatements
	}

	for _, src := range sources {
		stmt, err := extract.Statement(src.periods, src.stype)
		if err != nil {
			fail(src.category, err)
			continue
		}
		mu.Lock()
		doc.Statements = append(doc.Statements, *stmt)
		mu.Unlock()
	}
}

// fetchSustainability scrapes the controversy level and product
// involvement areas from the sustainability page, optionally through
// the rendered page.
func (a *Aggregator) fetchSustainability(ctx context.Context, ticker string) (*domain.Sustainability, error) {
	doc, err := a.client.SustainabilityPage(ctx, ticker, false)
	if err == nil {
		if sust, sustErr := extract.Sustainability(doc); sustErr == nil {
			return sust, nil
		}
	}

	if a.browserFallback {
		doc, err = a.client.SustainabilityPage(ctx, ticker, true)
		if err == nil {
			return extract.Sustainability(doc)
		}
	}

	if err != nil {
		return nil, err
	}
	return nil, apperrors.NewFetchError("no sustainability data available from any source", nil)
}

// fetchPeers scrapes the peer comparison table, optionally through the
// rendered page. The peer table needs client-side rendering on current
// pages, so the static attempt frequently yields nothing.
func (a *Aggregator) fetchPeers(ctx context.Context, ticker string) ([]domain.PeerRecord, error) {
	doc, err := a.client.SustainabilityPage(ctx, ticker, false)
	if err == nil {
		if peers, peersErr := extract.Peers(doc, ticker); peersErr == nil {
			return peers, nil
		}
	}

	if a.browserFallback {
		doc, err = a.client.SustainabilityPage(ctx, ticker, true)
		if err == nil {
			return extract.Peers(doc, ticker)
		}
	}

	if err != nil {
		return nil, err
	}
	return nil, apperrors.NewFetchError("no peer data available from any source", nil)
}
