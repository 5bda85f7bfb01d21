package headed

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"jobwatch/internal/config"
	"jobwatch/internal/logging"
	"jobwatch/internal/logging/types"
	"jobwatch/internal/scraper"
	"jobwatch/internal/scraper/selector"
)

// Manager builds one headed browser session per location pipeline. Exactly
// one session is live at a time; each is torn down before the next is built.
type Manager struct {
	config *config.Config
	logger types.Logger
}

// NewManager creates a session factory over the configured stealth profile.
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// NewSession launches a fresh browser with the anti-detection countermeasures
// applied and returns a ready-to-use session. A failure here is fatal to the
// current location only; the orchestrator records it and moves on.
func (m *Manager) NewSession(ctx context.Context) (scraper.Session, error) {
	l := launcher.New().
		Headless(m.config.Scraper.HeadlessMode).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-infobars").
		Set("disable-notifications").
		Set("window-size", "1920,1080").
		Set("lang", "en-US,en;q=0.9").
		// Critical flags for constrained container hosts
		Set("disable-gpu").
		Set("disable-dev-shm-usage")

	if chromePath := getSystemChromePath(); chromePath != "" {
		l = l.Bin(chromePath)
		m.logger.Info("Using system Chrome browser", map[string]interface{}{
			"chrome_path": chromePath,
		})
	} else {
		m.logger.Warn("System Chrome not found, Rod will download browser", map[string]interface{}{})
	}

	if m.config.Scraper.UserAgent != "" {
		l = l.Set("user-agent", m.config.Scraper.UserAgent)
	}

	controlURL, err := l.Launch()
	if err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := m.createStealthPage(browser)
	if err != nil {
		_ = browser.Close()
		l.Cleanup()
		return nil, fmt.Errorf("failed to create stealth page: %w", err)
	}

	m.logger.Debug("Browser session ready", map[string]interface{}{
		"headless": m.config.Scraper.HeadlessMode,
	})

	return &session{
		launcher: l,
		browser:  browser,
		page:     page,
		timeout:  m.config.Scraper.RequestTimeout,
		logger:   m.logger,
	}, nil
}

// createStealthPage creates a page with the automation telemetry suppressed.
func (m *Manager) createStealthPage(browser *rod.Browser) (*rod.Page, error) {
	page, err := stealth.Page(browser)
	if err != nil {
		return nil, fmt.Errorf("failed to create stealth page: %w", err)
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1920,
		Height:            1080,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		m.logger.Warn("Failed to set viewport", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if m.config.Scraper.UserAgent != "" {
		err = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: m.config.Scraper.UserAgent,
		})
		if err != nil {
			m.logger.Warn("Failed to set user agent", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	headers := map[string]string{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.9",
		"Upgrade-Insecure-Requests": "1",
	}
	for name, value := range headers {
		if _, err := page.SetExtraHeaders([]string{name, value}); err != nil {
			m.logger.Debug("Failed to set header", map[string]interface{}{
				"error":  err.Error(),
				"header": name,
			})
		}
	}

	// Suppress the remaining automation tells the stealth bundle misses.
	err = rod.Try(func() {
		page.MustEval(`() => {
			Object.defineProperty(navigator, 'webdriver', {
				get: () => undefined,
			});

			Object.defineProperty(navigator, 'plugins', {
				get: () => [1, 2, 3, 4, 5],
			});

			Object.defineProperty(navigator, 'languages', {
				get: () => ['en-US', 'en'],
			});

			window.chrome = {
				runtime: {},
			};
		}`)
	})
	if err != nil {
		m.logger.Warn("Failed to inject stealth JavaScript", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return page, nil
}

// session implements scraper.Session over one rod browser.
type session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	timeout  time.Duration
	logger   types.Logger
}

func (s *session) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := rod.Try(func() {
		s.page.Context(navCtx).MustNavigate(url).MustWaitLoad()
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	s.logger.Debug("Successfully navigated to URL", map[string]interface{}{
		"url": url,
	})
	return nil
}

func (s *session) CurrentURL() string {
	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (s *session) Title() string {
	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.Title
}

func (s *session) HTML() (string, error) {
	html, err := s.page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get page HTML: %w", err)
	}
	return html, nil
}

// Fill tries each strategy in the chain until one resolves to an input, then
// replaces its content with value.
func (s *session) Fill(ctx context.Context, chain selector.Chain, value string) error {
	element, err := s.resolveElement(ctx, chain)
	if err != nil {
		return err
	}

	err = rod.Try(func() {
		element.MustSelectAllText().MustInput(value)
	})
	if err != nil {
		return fmt.Errorf("failed to fill input: %w", err)
	}
	return nil
}

// Submit resolves the chain and presses Enter on the element, submitting its
// enclosing form.
func (s *session) Submit(ctx context.Context, chain selector.Chain) error {
	element, err := s.resolveElement(ctx, chain)
	if err != nil {
		return err
	}

	err = rod.Try(func() {
		element.MustType(input.Enter)
	})
	if err != nil {
		return fmt.Errorf("failed to submit form: %w", err)
	}
	return nil
}

func (s *session) resolveElement(ctx context.Context, chain selector.Chain) (*rod.Element, error) {
	for _, strat := range chain {
		var element *rod.Element
		err := rod.Try(func() {
			element = s.page.Context(ctx).Timeout(2 * time.Second).MustElement(strat.CSS())
		})
		if err == nil && element != nil {
			return element, nil
		}
	}
	return nil, fmt.Errorf("no strategy in chain resolved an element")
}

func (s *session) Screenshot() ([]byte, error) {
	quality := 80
	shot, err := s.page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: &quality,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return shot, nil
}

// Close tears the whole session down: page, browser process, launcher state.
func (s *session) Close() error {
	err := rod.Try(func() {
		s.page.MustClose()
	})

	if closeErr := s.browser.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	s.launcher.Cleanup()

	s.logger.Debug("Browser session released", map[string]interface{}{})
	return err
}

// getSystemChromePath finds the system-installed Chrome/Chromium browser
func getSystemChromePath() string {
	if chromeBin := os.Getenv("CHROME_BIN"); chromeBin != "" {
		if _, err := os.Stat(chromeBin); err == nil {
			return chromeBin
		}
	}

	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	commonPaths := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/opt/google/chrome/chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
