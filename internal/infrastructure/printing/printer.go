// Package printing turns invoice HTML into A4 PDFs with headless Chrome.
package printing

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	orderapp "github.com/styleco/storefront/internal/application/order"
	"github.com/styleco/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

var (
	ErrEmptyDocument = errors.New("printing: empty document")
	ErrTimeout       = errors.New("printing: timed out")
)

const (
	defaultPrintTimeout = 30 * time.Second
	mmPerInch           = 25.4
)

// Sheet is the page layout in millimeters
type Sheet struct {
	Width, Height            float64
	Top, Right, Bottom, Left float64
}

// A4 with room at the bottom for the page footer
var A4 = Sheet{Width: 210, Height: 297, Top: 12, Right: 10, Bottom: 14, Left: 10}

func inches(mm float64) float64 { return mm / mmPerInch }

func (s Sheet) params(footer string) *page.PrintToPDFParams {
	return page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(inches(s.Width)).
		WithPaperHeight(inches(s.Height)).
		WithMarginTop(inches(s.Top)).
		WithMarginRight(inches(s.Right)).
		WithMarginBottom(inches(s.Bottom)).
		WithMarginLeft(inches(s.Left)).
		WithDisplayHeaderFooter(footer != "").
		WithHeaderTemplate("<span></span>").
		WithFooterTemplate(footer)
}

// Printer drives a local Chrome, or a remote one when cfg.RemoteURL is set.
// A tab is opened per document.
type Printer struct {
	sheet   Sheet
	timeout time.Duration
	logger  *zap.Logger
	alloc   context.Context
	cancel  context.CancelFunc
}

func NewPrinter(cfg config.PrintingConfig, logger *zap.Logger) *Printer {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Printer{sheet: A4, timeout: cfg.Timeout, logger: logger.Named("printing")}
	if p.timeout <= 0 {
		p.timeout = defaultPrintTimeout
	}

	if cfg.RemoteURL != "" {
		p.alloc, p.cancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return p
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	p.alloc, p.cancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return p
}

// RenderPDF prints doc with a "title · page/total" footer
func (p *Printer) RenderPDF(ctx context.Context, title, doc string) ([]byte, error) {
	if strings.TrimSpace(doc) == "" {
		return nil, ErrEmptyDocument
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	tab, closeTab := chromedp.NewContext(p.alloc, chromedp.WithLogf(p.logger.Sugar().Debugf))
	defer closeTab()
	defer context.AfterFunc(ctx, closeTab)()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(tab,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, document(title, doc)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) (err error) {
			pdf, _, err = p.sheet.params(footer(title)).Do(ctx)
			return err
		}),
	)
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return nil, fmt.Errorf("%w after %s", ErrTimeout, p.timeout)
	case err != nil:
		return nil, fmt.Errorf("printing %q: %w", title, err)
	case len(pdf) == 0:
		return nil, fmt.Errorf("printing %q: chrome returned no data", title)
	}
	p.logger.Debug("Printed", zap.String("title", title), zap.Int("bytes", len(pdf)), zap.Duration("took", time.Since(start)))
	return pdf, nil
}

func (p *Printer) Close() error {
	p.cancel()
	return nil
}

func footer(title string) string {
	return `<div style="font-size:8px;width:100%;text-align:center;color:#64748b;">` +
		html.EscapeString(title) +
		` &middot; <span class="pageNumber"></span>/<span class="totalPages"></span></div>`
}

// document wraps a fragment in a full page
func document(title, doc string) string {
	lower := strings.ToLower(doc)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return doc
	}
	return `<!DOCTYPE html><html><head><meta charset="UTF-8"><title>` + html.EscapeString(title) +
		`</title></head><body>` + doc + `</body></html>`
}

var _ orderapp.PDFRenderer = (*Printer)(nil)
