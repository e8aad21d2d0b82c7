package factory

import (
	"fmt"
	"io"
	"strings"

	"github.com/mikey/llm-mail-search/internal/adapters/viewer"
	"github.com/mikey/llm-mail-search/internal/config"
	"github.com/mikey/llm-mail-search/internal/core"
	"github.com/mikey/llm-mail-search/internal/ports"
	"github.com/mikey/llm-mail-search/internal/utils"
	"go.uber.org/zap"
)

// ViewerFactory creates result viewers based on configuration
type ViewerFactory struct {
	cfg           *config.Config
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewViewerFactory creates a new viewer factory
func NewViewerFactory(cfg *config.Config, textProcessor *utils.TextProcessor, logger *zap.Logger) *ViewerFactory {
	return &ViewerFactory{
		cfg:           cfg,
		textProcessor: textProcessor,
		logger:        logger,
	}
}

// CreateViewer creates a viewer writing to out in the format named by viewer.format
func (f *ViewerFactory) CreateViewer(out io.Writer) (ports.Viewer, error) {
	format := strings.ToLower(f.cfg.GetString("viewer.format"))
	previewChars := f.cfg.GetSearch().PreviewChars

	switch format {
	case "text":
		return viewer.NewCLIViewer(out, f.textProcessor, previewChars, f.logger), nil
	case "json":
		return viewer.NewJSONViewer(out, f.textProcessor, previewChars, f.logger), nil
	default:
		return nil, fmt.Errorf("%w: viewer format %s", core.ErrUnsupportedProvider, format)
	}
}
