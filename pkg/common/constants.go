package common

const (
	BotCommandStart   = "start"
	BotCommandGetNews = "getnews"

	DefaultSeenArticlesFile     = "seen_articles.txt"
	DefaultSeenArticlesRedisKey = "etf_news:seen_articles"
)
