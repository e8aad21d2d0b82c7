package config

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// TranslationConfig represents the translation engine configuration
type TranslationConfig struct {
	PrimaryProvider  string
	FallbackProvider string
	QueryProvider    string
	SourceLang       string
	TargetLang       string
	ChunkSize        int
	MaxInputChars    int
	Timeout          time.Duration
}

// ValidationConfig represents the translation validator configuration
type ValidationConfig struct {
	Mode string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// LibreTranslateConfig represents the configuration for a LibreTranslate server
type LibreTranslateConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// OllamaConfig represents the configuration for a local Ollama server
type OllamaConfig struct {
	URL         string
	ModelName   string
	Temperature float32
	Timeout     time.Duration
}

// CacheConfig represents the session cache configuration
type CacheConfig struct {
	Type          string
	SQLitePath    string
	MySQLDSN      string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration
}

// CorpusConfig represents where the documents are read from
type CorpusConfig struct {
	Type string
	Path string
}

// SearchConfig represents result limits and matching defaults
type SearchConfig struct {
	MaxResults     int
	ResultsPerPage int
	CaseSensitive  bool
	PreviewChars   int
}

// GetTranslation returns the translation configuration. Language codes are
// checked against BCP 47.
func (c *Config) GetTranslation() (TranslationConfig, error) {
	timeout, err := c.GetDuration("translation.timeout")
	if err != nil {
		return TranslationConfig{}, fmt.Errorf("invalid translation.timeout: %w", err)
	}

	source, err := parseLanguage(c.GetString("translation.source_lang"))
	if err != nil {
		return TranslationConfig{}, fmt.Errorf("invalid translation.source_lang: %w", err)
	}
	target, err := parseLanguage(c.GetString("translation.target_lang"))
	if err != nil {
		return TranslationConfig{}, fmt.Errorf("invalid translation.target_lang: %w", err)
	}

	return TranslationConfig{
		PrimaryProvider:  strings.ToLower(c.GetString("translation.primary_provider")),
		FallbackProvider: strings.ToLower(c.GetString("translation.fallback_provider")),
		QueryProvider:    strings.ToLower(c.GetString("translation.query_provider")),
		SourceLang:       source,
		TargetLang:       target,
		ChunkSize:        c.GetInt("translation.chunk_size"),
		MaxInputChars:    c.GetInt("translation.max_input_chars"),
		Timeout:          timeout,
	}, nil
}

// parseLanguage returns the two-letter base of a language tag
func parseLanguage(code string) (string, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", err
	}
	base, _ := tag.Base()
	return base.String(), nil
}

// GetValidation returns the validator configuration
func (c *Config) GetValidation() ValidationConfig {
	return ValidationConfig{
		Mode: c.GetString("validation.mode"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		BaseURL:     c.GetString("openai.base_url"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetLibreTranslate returns the LibreTranslate configuration
func (c *Config) GetLibreTranslate() (LibreTranslateConfig, error) {
	timeout, err := c.GetDuration("libretranslate.timeout")
	if err != nil {
		return LibreTranslateConfig{}, fmt.Errorf("invalid libretranslate.timeout: %w", err)
	}
	return LibreTranslateConfig{
		URL:     c.GetString("libretranslate.url"),
		APIKey:  c.GetString("libretranslate.api_key"),
		Timeout: timeout,
	}, nil
}

// GetOllama returns the Ollama configuration
func (c *Config) GetOllama() (OllamaConfig, error) {
	timeout, err := c.GetDuration("ollama.timeout")
	if err != nil {
		return OllamaConfig{}, fmt.Errorf("invalid ollama.timeout: %w", err)
	}
	return OllamaConfig{
		URL:         c.GetString("ollama.url"),
		ModelName:   c.GetString("ollama.model_name"),
		Temperature: float32(c.GetFloat64("ollama.temperature")),
		Timeout:     timeout,
	}, nil
}

// GetCache returns the cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.session_ttl")
	if err != nil {
		return CacheConfig{}, fmt.Errorf("invalid cache.session_ttl: %w", err)
	}
	return CacheConfig{
		Type:          strings.ToLower(c.GetString("cache.type")),
		SQLitePath:    c.GetString("cache.sqlite_path"),
		MySQLDSN:      c.GetString("cache.mysql_dsn"),
		PostgresDSN:   c.GetString("cache.postgres_dsn"),
		RedisAddr:     c.GetString("cache.redis_addr"),
		RedisPassword: c.GetString("cache.redis_password"),
		RedisDB:       c.GetInt("cache.redis_db"),
		SessionTTL:    ttl,
	}, nil
}

// GetCorpus returns the corpus configuration
func (c *Config) GetCorpus() CorpusConfig {
	return CorpusConfig{
		Type: strings.ToLower(c.GetString("corpus.type")),
		Path: c.GetString("corpus.path"),
	}
}

// GetSearch returns the search configuration
func (c *Config) GetSearch() SearchConfig {
	return SearchConfig{
		MaxResults:     c.GetInt("search.max_results"),
		ResultsPerPage: c.GetInt("search.results_per_page"),
		CaseSensitive:  c.GetBool("search.case_sensitive"),
		PreviewChars:   c.GetInt("search.preview_chars"),
	}
}
