package viewer

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mikey/llm-mail-search/internal/core"
	"github.com/mikey/llm-mail-search/internal/utils"
	"go.uber.org/zap"
)

const defaultPreviewChars = 5000

type styles struct {
	title     lipgloss.Style
	badge     map[core.Category]lipgloss.Style
	filename  lipgloss.Style
	label     lipgloss.Style
	header    lipgloss.Style
	muted     lipgloss.Style
	highlight lipgloss.Style
	warning   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		badge: map[core.Category]lipgloss.Style{
			core.CategoryEmail:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
			core.CategoryStructured: r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
			core.CategoryOther:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("245")),
		},
		filename:  r.NewStyle().Bold(true),
		label:     r.NewStyle().Italic(true).Foreground(lipgloss.Color("245")),
		header:    r.NewStyle().Foreground(lipgloss.Color("39")),
		muted:     r.NewStyle().Foreground(lipgloss.Color("241")),
		highlight: r.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220")),
		warning:   r.NewStyle().Foreground(lipgloss.Color("203")),
	}
}

var badgeText = map[core.Category]string{
	core.CategoryEmail:      "[EMAIL]",
	core.CategoryStructured: "[METADATA]",
	core.CategoryOther:      "[DOCUMENT]",
}

// CLIViewer renders results as styled terminal text
type CLIViewer struct {
	out           io.Writer
	textProcessor *utils.TextProcessor
	previewChars  int
	styles        styles
	logger        *zap.Logger
}

// NewCLIViewer creates a new CLI viewer writing to out
func NewCLIViewer(out io.Writer, textProcessor *utils.TextProcessor, previewChars int, logger *zap.Logger) *CLIViewer {
	if previewChars <= 0 {
		previewChars = defaultPreviewChars
	}
	return &CLIViewer{
		out:           out,
		textProcessor: textProcessor,
		previewChars:  previewChars,
		styles:        newStyles(lipgloss.NewRenderer(out)),
		logger:        logger,
	}
}

// SearchSummary shows the query, the match count and the page position
func (v *CLIViewer) SearchSummary(result *core.SearchResult, page, pages int) error {
	var sb strings.Builder

	sb.WriteString(v.styles.title.Render(fmt.Sprintf("Search: %q", result.OriginalQuery)))
	sb.WriteString("\n")
	if result.Translated() {
		sb.WriteString(v.styles.muted.Render(fmt.Sprintf("Query translated to %q", result.Query)))
		sb.WriteString("\n")
	}

	switch {
	case result.Total == 0:
		sb.WriteString("No documents found.\n")
	case result.Total > len(result.Hits):
		sb.WriteString(fmt.Sprintf("Found %d documents, showing the first %d. Page %d of %d.\n",
			result.Total, len(result.Hits), page, pages))
	default:
		sb.WriteString(fmt.Sprintf("Found %d documents. Page %d of %d.\n", result.Total, page, pages))
	}

	_, err := io.WriteString(v.out, sb.String())
	return err
}

// Hit shows one matching document
func (v *CLIViewer) Hit(index int, hit core.Hit, result *core.SearchResult, outcome *core.TranslationOutcome) error {
	var sb strings.Builder
	cls := hit.Classification

	sb.WriteString("\n")
	sb.WriteString(v.styles.badge[cls.Category].Render(badgeText[cls.Category]))
	sb.WriteString(" ")
	sb.WriteString(v.styles.filename.Render(fmt.Sprintf("%d. %s", index, hit.Document.Filename)))
	if cls.Category != core.CategoryEmail {
		sb.WriteString(" ")
		sb.WriteString(v.styles.label.Render("(" + cls.Label + ")"))
	}
	sb.WriteString("\n")

	if header := metadataHeader(hit.Metadata); header != "" {
		sb.WriteString(v.styles.header.Render(header))
		sb.WriteString("\n")
	}
	if hit.Metadata.Subject != core.Unknown {
		sb.WriteString(v.styles.header.Render("Subject: " + hit.Metadata.Subject))
		sb.WriteString("\n")
	}
	sb.WriteString(v.styles.muted.Render(fmt.Sprintf("%d occurrence(s) of %q", hit.Occurrences, result.Query)))
	sb.WriteString("\n\n")

	highlighter := v.highlighter(result.Query, result.CaseSensitive)

	if outcome == nil {
		sb.WriteString(highlighter(v.preview(hit.Document.Text)))
		sb.WriteString("\n")
	} else {
		v.writeOutcome(&sb, outcome, highlighter)
	}

	_, err := io.WriteString(v.out, sb.String())
	return err
}

// Translation shows the outcome of translating a standalone text
func (v *CLIViewer) Translation(outcome *core.TranslationOutcome) error {
	var sb strings.Builder
	v.writeOutcome(&sb, outcome, func(s string) string { return s })
	_, err := io.WriteString(v.out, sb.String())
	return err
}

// Inspection shows the classification and metadata of a standalone text
func (v *CLIViewer) Inspection(doc core.Document) error {
	cls := core.Classify(doc.Text)
	meta := core.ExtractMetadata(doc.Text)

	var sb strings.Builder
	sb.WriteString(v.styles.badge[cls.Category].Render(badgeText[cls.Category]))
	sb.WriteString(" ")
	sb.WriteString(v.styles.filename.Render(doc.Filename))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Category: %s\nLabel: %s\n", cls.Category, cls.Label))
	sb.WriteString(fmt.Sprintf("From: %s\nTo: %s\nSubject: %s\nDate: %s\n", meta.From, meta.To, meta.Subject, meta.Date))
	sb.WriteString(fmt.Sprintf("Cache key: %s\n", core.CacheKey(doc.Text)))

	_, err := io.WriteString(v.out, sb.String())
	return err
}

func (v *CLIViewer) writeOutcome(sb *strings.Builder, outcome *core.TranslationOutcome, highlighter func(string) string) {
	if outcome.Translated {
		sb.WriteString(v.styles.muted.Render("Translated by " + outcome.Backend))
		sb.WriteString("\n")
		sb.WriteString(v.preview(outcome.Text))
		sb.WriteString("\n")
		return
	}

	sb.WriteString(v.styles.warning.Render("Translation unavailable: " + outcome.Reason + ". Showing original text."))
	sb.WriteString("\n")
	sb.WriteString(highlighter(v.preview(outcome.Original)))
	sb.WriteString("\n")
}

func (v *CLIViewer) preview(text string) string {
	truncated := v.textProcessor.TruncateText(text, v.previewChars)
	if len(truncated) < len(text) {
		return truncated + "..."
	}
	return truncated
}

// highlighter returns a function marking every literal match of query
func (v *CLIViewer) highlighter(query string, caseSensitive bool) func(string) string {
	if strings.TrimSpace(query) == "" {
		return func(s string) string { return s }
	}

	pattern := regexp.QuoteMeta(query)
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		v.logger.Debug("Failed to compile highlight pattern", zap.Error(err))
		return func(s string) string { return s }
	}

	return func(s string) string {
		return re.ReplaceAllStringFunc(s, func(match string) string {
			return v.styles.highlight.Render(match)
		})
	}
}

// metadataHeader joins the known sender, recipient and date into one line
func metadataHeader(meta core.Metadata) string {
	fields := meta.Known()
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Name + ": " + f.Value
	}
	return strings.Join(parts, " | ")
}
