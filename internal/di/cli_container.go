package di

import (
	"github.com/mikey/llm-mail-search/internal/config"
	"go.uber.org/zap"
)

// CLIFlags contains the global command line flags. Non-empty values
// override the configuration file.
type CLIFlags struct {
	ConfigFile string
	Verbose    bool
	JSONLog    bool

	// Translation flags
	Provider   string
	Fallback   string
	TargetLang string
	Validation string

	// Source and output flags
	CorpusType string
	CorpusPath string
	CacheType  string
	Format     string
}

// loadConfig reads the config file named by the flags, or the default
// search paths, and applies the flag overrides
func loadConfig(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if flags.ConfigFile != "" {
		cfg, err = config.NewFromFile(flags.ConfigFile)
	} else {
		cfg, err = config.New()
	}
	if err != nil {
		return nil, err
	}

	if used := cfg.GetViper().ConfigFileUsed(); used != "" {
		logger.Info("Loaded configuration from file", zap.String("file", used))
	}

	applyFlags(cfg, flags)
	return cfg, nil
}

func applyFlags(cfg *config.Config, flags *CLIFlags) {
	overrides := map[string]string{
		"translation.primary_provider":  flags.Provider,
		"translation.fallback_provider": flags.Fallback,
		"translation.target_lang":       flags.TargetLang,
		"validation.mode":               flags.Validation,
		"corpus.type":                   flags.CorpusType,
		"corpus.path":                   flags.CorpusPath,
		"cache.type":                    flags.CacheType,
		"viewer.format":                 flags.Format,
	}
	for key, value := range overrides {
		if value != "" {
			cfg.Set(key, value)
		}
	}
}
