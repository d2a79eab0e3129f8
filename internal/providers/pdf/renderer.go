// Package pdf prints HTML to PDF with headless Chromium.
package pdf

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// Margins are CSS lengths.
type Margins struct {
	Top, Right, Bottom, Left string
}

var DefaultMargins = Margins{Top: "0.5in", Right: "0.6in", Bottom: "0.5in", Left: "0.6in"}

// Renderer lazily starts one Chromium instance and reuses it across calls.
type Renderer struct {
	Margins Margins
	Format  string
	// Install downloads the browser driver on first use when it is missing.
	Install bool

	log *logrus.Logger

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewRenderer(log *logrus.Logger) *Renderer {
	if log == nil {
		log = logrus.New()
	}
	return &Renderer{Margins: DefaultMargins, Format: "A4", log: log}
}

func (r *Renderer) start() (playwright.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil && r.browser.IsConnected() {
		return r.browser, nil
	}
	if r.pw == nil {
		if r.Install {
			if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}, Verbose: false}); err != nil {
				return nil, fmt.Errorf("install playwright: %w", err)
			}
		}
		pw, err := playwright.Run()
		if err != nil {
			return nil, fmt.Errorf("could not start playwright: %w", err)
		}
		r.pw = pw
	}

	browser, err := r.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}
	r.browser = browser
	r.log.Debug("chromium started")
	return browser, nil
}

// Render prints html as a PDF. ctx bounds the page operations.
func (r *Renderer) Render(ctx context.Context, html []byte) ([]byte, error) {
	browser, err := r.start()
	if err != nil {
		return nil, err
	}

	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	defer page.Close()

	if dl, ok := ctx.Deadline(); ok {
		if ms := time.Until(dl).Milliseconds(); ms > 0 {
			page.SetDefaultTimeout(float64(ms))
		}
	}

	if err := page.SetContent(string(html), playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return nil, fmt.Errorf("could not set page content: %w", err)
	}

	out, err := page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String(r.Format),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String(r.Margins.Top),
			Right:  playwright.String(r.Margins.Right),
			Bottom: playwright.String(r.Margins.Bottom),
			Left:   playwright.String(r.Margins.Left),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not generate PDF: %w", err)
	}
	return out, nil
}

// Close stops the browser and the driver.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	if r.browser != nil {
		if err := r.browser.Close(); err != nil {
			firstErr = err
		}
		r.browser = nil
	}
	if r.pw != nil {
		if err := r.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
		r.pw = nil
	}
	return firstErr
}
