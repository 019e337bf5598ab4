package service

import (
	"context"
	"time"

	"golang-etf-news-bot/internal/entity"
	"golang-etf-news-bot/internal/repository"
	"golang-etf-news-bot/pkg/logger"
	"golang-etf-news-bot/pkg/telegram"
	"golang-etf-news-bot/pkg/utils"
)

// DigestService runs the fetch-filter-deliver pipeline over the watchlist.
type DigestService interface {
	Run(ctx context.Context) (*RunResult, error)
}

// AssetResult summarizes one tracked asset's outcome within a run.
type AssetResult struct {
	Ticker    string   `json:"ticker"`
	Query     string   `json:"query"`
	Fetched   int      `json:"fetched"`
	Delivered int      `json:"delivered"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors,omitempty"`
}

// RunResult summarizes a full pipeline run. Failures are recorded here
// rather than propagated; only a cancelled context aborts a run early.
type RunResult struct {
	StartedAt      time.Time     `json:"started_at"`
	Assets         []AssetResult `json:"assets"`
	TotalDelivered int           `json:"total_delivered"`
	SeenCount      int           `json:"seen_count"`
	PersistError   string        `json:"persist_error,omitempty"`
}

type digestService struct {
	watchlist []entity.TrackedAsset
	newsRepo  repository.NewsRepository
	seenRepo  repository.SeenArticleRepository
	notifier  telegram.Notifier
	logger    *logger.Logger
	now       func() time.Time
}

// NewDigestService creates a new digest pipeline service.
func NewDigestService(
	watchlist []entity.TrackedAsset,
	newsRepo repository.NewsRepository,
	seenRepo repository.SeenArticleRepository,
	notifier telegram.Notifier,
	log *logger.Logger,
) DigestService {
	return &digestService{
		watchlist: watchlist,
		newsRepo:  newsRepo,
		seenRepo:  seenRepo,
		notifier:  notifier,
		logger:    log,
		now:       time.Now,
	}
}

// Run processes every tracked asset sequentially: fetch news for the
// asset's query, drop already-seen URLs, deliver the rest, mark delivered
// URLs seen, then persist the set once. An error on one asset or one
// article never aborts the rest of the run.
func (s *digestService) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{StartedAt: s.now()}

	s.logger.Info("Starting digest run",
		logger.StringField("provider", s.newsRepo.Name()),
		logger.IntField("assets", len(s.watchlist)),
	)

	if err := s.notifier.SendMessage(telegram.FormatDigestHeader(result.StartedAt)); err != nil {
		s.logger.Error("Failed to send digest header", logger.ErrorField(err))
	}

	for _, asset := range s.watchlist {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		assetResult := s.processAsset(ctx, asset)
		result.TotalDelivered += assetResult.Delivered
		result.Assets = append(result.Assets, assetResult)
	}

	if err := s.seenRepo.Persist(ctx); err != nil {
		// Best-effort durability: unpersisted URLs risk re-delivery next run.
		s.logger.Error("Failed to persist seen articles", logger.ErrorField(err))
		result.PersistError = err.Error()
	}

	if count, err := s.seenRepo.Len(ctx); err != nil {
		s.logger.Error("Failed to count seen articles", logger.ErrorField(err))
	} else {
		result.SeenCount = count
	}

	s.logger.Info("Digest run completed",
		logger.IntField("total_delivered", result.TotalDelivered),
		logger.IntField("seen_count", result.SeenCount),
	)

	return result, nil
}

func (s *digestService) processAsset(ctx context.Context, asset entity.TrackedAsset) AssetResult {
	assetResult := AssetResult{
		Ticker: asset.Ticker,
		Query:  BuildQuery(asset),
	}

	articles, err := s.newsRepo.Search(ctx, assetResult.Query)
	if err != nil {
		s.logger.Error("Failed to fetch news for asset",
			logger.ErrorField(err),
			logger.StringField("ticker", asset.Ticker),
		)
		assetResult.Errors = append(assetResult.Errors, err.Error())
		return assetResult
	}
	assetResult.Fetched = len(articles)

	for _, article := range articles {
		if !utils.ShouldContinue(ctx, s.logger) {
			return assetResult
		}
		if article.URL == "" {
			assetResult.Skipped++
			continue
		}

		seen, err := s.seenRepo.Contains(ctx, article.URL)
		if err != nil {
			s.logger.Error("Failed to check seen article",
				logger.ErrorField(err),
				logger.StringField("url", article.URL),
			)
			assetResult.Errors = append(assetResult.Errors, err.Error())
			continue
		}
		if seen {
			assetResult.Skipped++
			continue
		}

		if err := s.notifier.SendMessage(telegram.FormatArticle(asset.Ticker, article)); err != nil {
			// The URL stays unseen so the article may be retried next run.
			s.logger.Error("Failed to deliver article",
				logger.ErrorField(err),
				logger.StringField("ticker", asset.Ticker),
				logger.StringField("url", article.URL),
			)
			assetResult.Errors = append(assetResult.Errors, err.Error())
			continue
		}

		if err := s.seenRepo.Add(ctx, article.URL); err != nil {
			// Delivered but not recorded: the URL stays out of the seen set,
			// so it may be re-delivered next run. The error is surfaced in
			// the asset result alongside the delivery count.
			s.logger.Error("Failed to mark article seen",
				logger.ErrorField(err),
				logger.StringField("url", article.URL),
			)
			assetResult.Errors = append(assetResult.Errors, err.Error())
		}
		assetResult.Delivered++
	}

	s.logger.Info("Processed asset",
		logger.StringField("ticker", asset.Ticker),
		logger.IntField("fetched", assetResult.Fetched),
		logger.IntField("delivered", assetResult.Delivered),
		logger.IntField("skipped", assetResult.Skipped),
	)

	return assetResult
}
