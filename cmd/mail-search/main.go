package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mikey/llm-mail-search/internal/config"
	"github.com/mikey/llm-mail-search/internal/core"
	"github.com/mikey/llm-mail-search/internal/di"
	"github.com/mikey/llm-mail-search/internal/factory"
	"github.com/mikey/llm-mail-search/internal/ports"
	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

var flags di.CLIFlags

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "mail-search",
	Short:        "Search a mail corpus and read results in your language",
	SilenceUsage: true,
}

// withContainer builds the container for one command and hands it to fn
func withContainer(cmd *cobra.Command, fn func(c *dig.Container) error) error {
	container, err := di.BuildContainer(cmd.Context(), &flags, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	defer func() {
		_ = container.Invoke(func(logger *zap.Logger) {
			_ = logger.Sync()
		})
	}()

	return fn(container)
}

// translationContext bounds one translation by translation.timeout
func translationContext(ctx context.Context, tc config.TranslationConfig) (context.Context, context.CancelFunc) {
	if tc.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, tc.Timeout)
}

// closeSession purges the session cache and releases the backends
func closeSession(ctx context.Context, session *core.Session, translators *factory.TranslatorFactory, logger *zap.Logger) {
	if err := session.Close(context.WithoutCancel(ctx)); err != nil {
		logger.Warn("Failed to close session", zap.Error(err))
	}
	if err := translators.Close(); err != nil {
		logger.Warn("Failed to close translation backends", zap.Error(err))
	}
}

// readInput returns the joined args, the named file or stdin, in that order
func readInput(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), "args", nil
	}

	file, _ := cmd.Flags().GetString("file")
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), file, nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), "stdin", nil
}

func clampPage(page, pages int) int {
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	return page
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the corpus for a literal phrase",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")
		translate, _ := cmd.Flags().GetBool("translate")

		return withContainer(cmd, func(c *dig.Container) error {
			var (
				result *core.SearchResult
				hits   []core.Hit
				view   ports.Viewer
			)

			err := c.Invoke(func(cfg *config.Config, search *core.SearchService, v ports.Viewer) error {
				caseSensitive := cfg.GetSearch().CaseSensitive
				if cmd.Flags().Changed("case-sensitive") {
					caseSensitive, _ = cmd.Flags().GetBool("case-sensitive")
				}

				var err error
				result, err = search.Search(cmd.Context(), core.SearchOptions{
					Query:         strings.Join(args, " "),
					CaseSensitive: caseSensitive,
					Limit:         limit,
				})
				if err != nil {
					return err
				}

				perPage := search.ResultsPerPage()
				var pages int
				hits, pages = core.Paginate(result.Hits, page, perPage)
				page = clampPage(page, pages)
				view = v

				if err := view.SearchSummary(result, page, pages); err != nil {
					return err
				}
				if !translate {
					for i, hit := range hits {
						if err := view.Hit((page-1)*perPage+i+1, hit, result, nil); err != nil {
							return err
						}
					}
				}
				return nil
			})
			if err != nil || !translate || len(hits) == 0 {
				return err
			}

			return c.Invoke(func(
				tc config.TranslationConfig,
				search *core.SearchService,
				svc *core.TranslationService,
				session *core.Session,
				translators *factory.TranslatorFactory,
				logger *zap.Logger,
			) error {
				defer closeSession(cmd.Context(), session, translators, logger)

				perPage := search.ResultsPerPage()
				for i, hit := range hits {
					ctx, cancel := translationContext(cmd.Context(), tc)
					outcome := svc.Translate(ctx, hit.Document.Text)
					cancel()

					if err := view.Hit((page-1)*perPage+i+1, hit, result, outcome); err != nil {
						return err
					}
				}
				return nil
			})
		})
	},
}

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text from the arguments, a file or stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		backendName, _ := cmd.Flags().GetString("backend")

		return withContainer(cmd, func(c *dig.Container) error {
			return c.Invoke(func(
				tc config.TranslationConfig,
				svc *core.TranslationService,
				session *core.Session,
				translators *factory.TranslatorFactory,
				view ports.Viewer,
				logger *zap.Logger,
			) error {
				defer closeSession(cmd.Context(), session, translators, logger)

				ctx, cancel := translationContext(cmd.Context(), tc)
				defer cancel()

				if backendName == "" {
					return view.Translation(svc.Translate(ctx, text))
				}

				backend, err := translators.Backend(ctx, "explicit", strings.ToLower(backendName))
				if err != nil {
					return err
				}
				if backend == nil {
					return fmt.Errorf("%w: %s", core.ErrBackendUnavailable, backendName)
				}

				translated := svc.TranslateWithBackend(ctx, backend, text)
				outcome := &core.TranslationOutcome{
					Original:   text,
					Text:       translated,
					Translated: translated != text,
					Backend:    backend.Name(),
				}
				if !outcome.Translated {
					outcome.Reason = core.ErrBackendUnavailable.Error()
				}
				return view.Translation(outcome)
			})
		})
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [text]",
	Short: "Show the category and metadata the viewer derives for a text",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, source, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		return withContainer(cmd, func(c *dig.Container) error {
			return c.Invoke(func(view ports.Viewer) error {
				return view.Inspection(core.Document{Filename: source, Text: text})
			})
		})
	},
}

var keyCmd = &cobra.Command{
	Use:   "key [text]",
	Short: "Print the translation cache key of a text",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), core.CacheKey(text))
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose logging")
	pf.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	pf.StringVar(&flags.Provider, "provider", "", "Primary translation provider (openai, gemini, bedrock, libretranslate, ollama, none)")
	pf.StringVar(&flags.Fallback, "fallback", "", "Fallback translation provider")
	pf.StringVar(&flags.TargetLang, "target-lang", "", "Language to translate into")
	pf.StringVar(&flags.Validation, "validation", "", "Translation validation mode (relaxed, strict)")
	pf.StringVar(&flags.CorpusType, "corpus-type", "", "Corpus type (directory, jsonl)")
	pf.StringVar(&flags.CorpusPath, "corpus", "", "Path to the corpus")
	pf.StringVar(&flags.CacheType, "cache", "", "Session cache (memory, sqlite, mysql, postgres, redis)")
	pf.StringVarP(&flags.Format, "output", "o", "", "Output format (text, json)")

	searchCmd.Flags().IntP("page", "p", 1, "Result page to show")
	searchCmd.Flags().IntP("limit", "n", 0, "Maximum number of results to keep")
	searchCmd.Flags().BoolP("case-sensitive", "c", false, "Match case exactly")
	searchCmd.Flags().BoolP("translate", "t", false, "Translate the shown results")

	translateCmd.Flags().StringP("file", "f", "", "Read text from a file")
	translateCmd.Flags().StringP("backend", "b", "", "Translate with this provider only")
	inspectCmd.Flags().StringP("file", "f", "", "Read text from a file")
	keyCmd.Flags().StringP("file", "f", "", "Read text from a file")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(keyCmd)
}
