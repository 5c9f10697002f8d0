package model

import "time"

// ================ Config ================
type RemoteConfig struct {
	Latency           time.Duration `envconfig:"REMOTE_LATENCY" default:"300ms"`
	DeleteFailureRate float64       `envconfig:"REMOTE_DELETE_FAILURE_RATE" default:"0.1"`
	Seed              bool          `envconfig:"REMOTE_SEED" default:"true"`
}

type CacheConfig struct {
	Key              string        `envconfig:"CACHE_KEY" default:"assistants"`
	StaleTime        time.Duration `envconfig:"CACHE_STALE_TIME" default:"0s"`
	FetchTimeout     time.Duration `envconfig:"CACHE_FETCH_TIMEOUT" default:"10s"`
	DeleteVisibility time.Duration `envconfig:"CACHE_DELETE_VISIBILITY" default:"3s"`
}

type ChatConfig struct {
	TypingDelay time.Duration `envconfig:"CHAT_TYPING_DELAY" default:"1500ms"`
	MaxTurns    int           `envconfig:"CHAT_MAX_TURNS" default:"20"`
}

type RulesConfig struct {
	KeyPrefix string        `envconfig:"RULES_KEY_PREFIX" default:"training-rules-"`
	TTL       time.Duration `envconfig:"RULES_TTL" default:"0s"`
}
