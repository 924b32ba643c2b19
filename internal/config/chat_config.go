package config

import "time"

const (
	// Flood control (per visitor, enforced only when Redis is configured)
	FloodWindow      = 10 * time.Second
	FloodMaxMessages = 8

	// Admin auth
	TokenTTL    = 72 * time.Hour
	TokenIssuer = "karate-club-dashboard"

	// Locales
	DefaultLang  = "ar"
	FallbackLang = "en"

	// Telegram alert preview length, in runes
	AlertPreviewLimit = 80

	// Archive CLI defaults
	DefaultArchiveListLimit = 20
)
