package service

import (
	"testing"

	"golang-etf-news-bot/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestBuildQuery(t *testing.T) {
	asset := entity.TrackedAsset{
		Ticker:    "VTI",
		FocusArea: "US total stock market",
		Keywords:  []string{"US stock market", "SP500", "US economy", "Federal Reserve"},
	}

	assert.Equal(t, "US stock market OR SP500 OR US economy OR Federal Reserve", BuildQuery(asset))
}

func TestBuildQueryDeterministic(t *testing.T) {
	asset := entity.TrackedAsset{
		Ticker:   "GLD",
		Keywords: []string{"gold prices", "precious metals"},
	}

	first := BuildQuery(asset)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildQuery(asset))
	}
}

func TestBuildQuerySkipsBlankKeywords(t *testing.T) {
	asset := entity.TrackedAsset{
		Ticker:   "TIP",
		Keywords: []string{"inflation", "", "  ", "CPI"},
	}

	assert.Equal(t, "inflation OR CPI", BuildQuery(asset))
}

func TestBuildQueryFallsBackToTicker(t *testing.T) {
	asset := entity.TrackedAsset{Ticker: "VNQ"}

	assert.Equal(t, "VNQ", BuildQuery(asset))
}

func TestBuildQueriesPreservesOrderAndIsNonEmpty(t *testing.T) {
	watchlist := []entity.TrackedAsset{
		{Ticker: "VTI", Keywords: []string{"US stock market"}},
		{Ticker: "VWO", Keywords: []string{"emerging markets"}},
		{Ticker: "VGIT", Keywords: []string{"interest rates", "treasury yields"}},
	}

	queries := BuildQueries(watchlist)

	assert.Equal(t, []string{
		"US stock market",
		"emerging markets",
		"interest rates OR treasury yields",
	}, queries)
	for _, q := range queries {
		assert.NotEmpty(t, q)
	}
}
