package model

import (
	"fmt"
	"time"
)

// ContentMode classifies the source material. It changes which structural
// and content constraints apply. Closed enum: unknown values are rejected
// at the boundary.
type ContentMode string

const (
	ModeInterview ContentMode = "interview"
	ModeEssay     ContentMode = "essay"
	ModeTutorial  ContentMode = "tutorial"
)

// ParseContentMode validates a content mode string.
func ParseContentMode(s string) (ContentMode, error) {
	switch ContentMode(s) {
	case ModeInterview, ModeEssay, ModeTutorial:
		return ContentMode(s), nil
	case "":
		return ModeInterview, nil
	default:
		return "", fmt.Errorf("unknown content mode: %q (supported: interview, essay, tutorial)", s)
	}
}

// UnmarshalYAML enforces the closed enum when loading config files.
func (m *ContentMode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	mode, err := ParseContentMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Config is the complete typed configuration for a run.
type Config struct {
	Extraction  ExtractionConfig  `yaml:"extraction" json:"extraction"`
	Enforcement EnforcementConfig `yaml:"enforcement" json:"enforcement"`
	Validation  ValidationConfig  `yaml:"validation" json:"validation"`
	Thresholds  Thresholds        `yaml:"thresholds" json:"thresholds"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// ExtractionConfig controls evidence extraction and quote location.
type ExtractionConfig struct {
	MaxQuotesPerClaim int         `yaml:"max_quotes_per_claim" json:"max_quotes_per_claim"`
	MaxSpanChars      int         `yaml:"max_span_chars" json:"max_span_chars"`
	AnchorChars       int         `yaml:"anchor_chars" json:"anchor_chars"`
	WindowChars       int         `yaml:"window_chars" json:"window_chars"`
	ContentMode       ContentMode `yaml:"content_mode" json:"content_mode"`
}

// EnforcementConfig controls whitelist building and prose scrubbing.
type EnforcementConfig struct {
	KnownSpeakers []string `yaml:"known_speakers,omitempty" json:"known_speakers,omitempty"`
	// DefinitionalKeywords ranks candidate definitional sentences for the
	// key-ideas coverage guard. Heuristic tuning, highest priority first.
	DefinitionalKeywords []string `yaml:"definitional_keywords,omitempty" json:"definitional_keywords,omitempty"`
}

// ValidationConfig controls the structural validators.
type ValidationConfig struct {
	VerbatimMinLen   int `yaml:"verbatim_min_len" json:"verbatim_min_len"`     // Min unquoted-copy length flagged
	InlineQuoteLen   int `yaml:"inline_quote_len" json:"inline_quote_len"`     // Min quoted span flagged in prose
	ShortTurnMaxWords int `yaml:"short_turn_max_words" json:"short_turn_max_words"` // Host-interjection reclassification cutoff
}

// Thresholds are the corpus gate cutoffs.
type Thresholds struct {
	FallbackRatioWarn float64 `yaml:"fallback_ratio_warn" json:"fallback_ratio_warn"`
	FallbackRatioFail float64 `yaml:"fallback_ratio_fail" json:"fallback_ratio_fail"`
	MinP10ProseWords  float64 `yaml:"min_p10_prose_words" json:"min_p10_prose_words"`
	ExcerptRateWarn   float64 `yaml:"excerpt_rate_warn" json:"excerpt_rate_warn"`
	ExcerptRateFail   float64 `yaml:"excerpt_rate_fail" json:"excerpt_rate_fail"`
	ClaimRateWarn     float64 `yaml:"claim_rate_warn" json:"claim_rate_warn"`
	ClaimRateFail     float64 `yaml:"claim_rate_fail" json:"claim_rate_fail"`
	MaxFailDocuments  int     `yaml:"max_fail_documents" json:"max_fail_documents"`
	MaxWarnDocuments  int     `yaml:"max_warn_documents" json:"max_warn_documents"`
}

// LLMConfig configures the generation-service provider.
type LLMConfig struct {
	Provider  string `yaml:"provider" json:"provider"` // "openai", "ollama", "" (disabled)
	Model     string `yaml:"model" json:"model"`
	APIKey    string `yaml:"-" json:"-"` // Never serialized; env only
	BaseURL   string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout" json:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`

	HTTPProxy  string `yaml:"http_proxy,omitempty" json:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" json:"https_proxy,omitempty"`
	NoProxy    string `yaml:"no_proxy,omitempty" json:"no_proxy,omitempty"`
}

// CacheConfig configures evidence-map caching.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// ConcurrencyConfig bounds parallel work.
type ConcurrencyConfig struct {
	Workers           int     `yaml:"workers" json:"workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" json:"burst_size"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"include_footer"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			MaxQuotesPerClaim: 3,
			MaxSpanChars:      500,
			AnchorChars:       15,
			WindowChars:       100,
			ContentMode:       ModeInterview,
		},
		Enforcement: EnforcementConfig{
			// Tuned priority order: epistemic-criterion sentences outrank
			// title-definition sentences when both are present.
			DefinitionalKeywords: []string{
				"hard to vary", "good explanation", "criterion",
				"is defined as", "what I mean by", "the idea of",
			},
		},
		Validation: ValidationConfig{
			VerbatimMinLen:    20,
			InlineQuoteLen:    10,
			ShortTurnMaxWords: 12,
		},
		Thresholds: Thresholds{
			FallbackRatioWarn: 0.10,
			FallbackRatioFail: 0.25,
			MinP10ProseWords:  120,
			ExcerptRateWarn:   0.98,
			ExcerptRateFail:   0.90,
			ClaimRateWarn:     0.98,
			ClaimRateFail:     0.90,
			MaxFailDocuments:  0,
			MaxWarnDocuments:  3,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   60,
			MaxTokens: 4000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".veriscript-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers:           4,
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
