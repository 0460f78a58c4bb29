package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"iso2_automation/domain/entities"
	"iso2_automation/domain/interfaces"
	"iso2_automation/infrastructure/config"
)

const stampLayout = "20060102_150405"

// Launcher owns the playwright process and one browser, shared by every session.
// Sessions are isolated browser contexts, safe to open from parallel tests.
type Launcher struct {
	cfg    *config.Config
	logger *logrus.Logger

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewLauncher - creates a launcher, the browser starts on first use
func NewLauncher(cfg *config.Config, logger *logrus.Logger) *Launcher {
	return &Launcher{cfg: cfg, logger: logger}
}

// Install - downloads the driver and the configured browser engine
func Install(cfg *config.Config) error {
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{cfg.Browser}}); err != nil {
		return fmt.Errorf("failed to install playwright %s: %w", cfg.Browser, err)
	}
	return nil
}

// Start - starts playwright and launches the configured engine
func (l *Launcher) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.browser != nil {
		return nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}
	engine, err := browserType(pw, l.cfg.Browser)
	if err != nil {
		_ = pw.Stop()
		return err
	}

	l.logger.Infof("Launching %s browser (headless=%t)", l.cfg.Browser, l.cfg.Headless)
	browser, err := engine.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(l.cfg.Headless),
		SlowMo:   playwright.Float(float64(l.cfg.SlowMo.Milliseconds())),
	})
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	l.pw = pw
	l.browser = browser
	return nil
}

// NewSession - opens a fresh browser context and page
func (l *Launcher) NewSession(ctx context.Context, name string) (interfaces.Session, error) {
	sess, err := l.newSession(ctx, name, "")
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// NewSessionFromState - opens a session preloaded with a saved storage state
func (l *Launcher) NewSessionFromState(ctx context.Context, name, statePath string) (interfaces.Session, error) {
	sess, err := l.newSession(ctx, name, statePath)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// WithState - a session provider whose sessions start from the storage state at statePath
func (l *Launcher) WithState(statePath string) interfaces.SessionProvider {
	return stateProvider{launcher: l, statePath: statePath}
}

type stateProvider struct {
	launcher  *Launcher
	statePath string
}

func (p stateProvider) NewSession(ctx context.Context, name string) (interfaces.Session, error) {
	return p.launcher.NewSessionFromState(ctx, name, p.statePath)
}

// SignedIn reports that sessions already carry an authenticated storage state
func (p stateProvider) SignedIn() bool { return true }

func (l *Launcher) newSession(ctx context.Context, name, statePath string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("new session canceled: %w", err)
	}
	if err := l.Start(); err != nil {
		return nil, err
	}

	viewport := &playwright.Size{Width: l.cfg.ViewportWidth, Height: l.cfg.ViewportHeight}
	contextOptions := playwright.BrowserNewContextOptions{
		Viewport:          viewport,
		BaseURL:           playwright.String(l.cfg.BaseURL),
		IgnoreHttpsErrors: playwright.Bool(true),
	}

	if l.cfg.RecordVideo {
		if err := os.MkdirAll(l.cfg.VideoDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create video directory: %w", err)
		}
		contextOptions.RecordVideo = &playwright.RecordVideo{Dir: l.cfg.VideoDir, Size: viewport}
	}

	if statePath != "" {
		data, err := os.ReadFile(statePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read storage state: %w", err)
		}
		var storageState playwright.StorageState
		if err := json.Unmarshal(data, &storageState); err != nil {
			return nil, fmt.Errorf("failed to decode storage state %s: %w", statePath, err)
		}
		contextOptions.StorageState = storageState.ToOptionalStorageState()
	}

	l.mu.Lock()
	browser := l.browser
	l.mu.Unlock()
	if browser == nil {
		return nil, errors.New("browser is closed")
	}

	bctx, err := browser.NewContext(contextOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}
	bctx.SetDefaultTimeout(float64(l.cfg.DefaultTimeout.Milliseconds()))
	bctx.SetDefaultNavigationTimeout(float64(l.cfg.NavigationTimeout.Milliseconds()))

	if l.cfg.TraceOn {
		err := bctx.Tracing().Start(playwright.TracingStartOptions{
			Name:        playwright.String(artifactName(name)),
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
		})
		if err != nil {
			_ = bctx.Close()
			return nil, fmt.Errorf("failed to start tracing: %w", err)
		}
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.OnDialog(func(dialog playwright.Dialog) {
		_ = dialog.Accept()
	})

	return &Session{
		name:    name,
		cfg:     l.cfg,
		logger:  l.logger.WithField("session", name),
		context: bctx,
		page:    page,
		driver:  NewController(page, l.cfg.NavigationTimeout, l.logger),
	}, nil
}

// Close - closes the browser and stops playwright
func (l *Launcher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var closeErr error
	if l.browser != nil {
		if err := ignoreClosed(l.browser.Close()); err != nil {
			closeErr = fmt.Errorf("failed to close browser: %w", err)
		}
		l.browser = nil
		l.logger.Info("Browser closed")
	}
	if l.pw != nil {
		if err := l.pw.Stop(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("failed to stop playwright: %w", err))
		}
		l.pw = nil
	}
	return closeErr
}

// Session is one browser context with its page, owned by a single test
type Session struct {
	name    string
	cfg     *config.Config
	logger  *logrus.Entry
	context playwright.BrowserContext
	page    playwright.Page
	driver  interfaces.Driver

	mu     sync.Mutex
	closed bool
}

func (s *Session) Driver() interfaces.Driver {
	return s.driver
}

// SaveState - writes cookies and local storage to path for later sessions
func (s *Session) SaveState(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if _, err := s.context.StorageState(path); err != nil {
		return fmt.Errorf("failed to save browser state: %w", err)
	}
	return nil
}

// Close - tears the session down. A failed result leaves a screenshot, the trace
// and the video behind; a passing one leaves nothing.
func (s *Session) Close(result entities.TestResult) (entities.Artifacts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var artifacts entities.Artifacts
	if s.closed {
		return artifacts, nil
	}
	s.closed = true

	name := result.Name
	if name == "" {
		name = s.name
	}
	base := artifactName(name)
	stamp := time.Now().Format(stampLayout)
	var errs []error

	if result.Failed && s.cfg.ScreenshotOnFailure {
		path, err := s.screenshot(base, stamp)
		if err != nil {
			errs = append(errs, err)
		} else {
			artifacts.Screenshot = path
			s.logger.Errorf("Screenshot saved: %s", path)
		}
	}

	if s.cfg.TraceOn {
		path, err := s.stopTrace(result.Failed, base, stamp)
		if err != nil {
			errs = append(errs, err)
		} else if path != "" {
			artifacts.Trace = path
			s.logger.Errorf("Trace saved: %s", path)
		}
	}

	var video playwright.Video
	if s.cfg.RecordVideo {
		video = s.page.Video()
	}

	if err := ignoreClosed(s.page.Close()); err != nil {
		errs = append(errs, fmt.Errorf("failed to close page: %w", err))
	}
	if err := ignoreClosed(s.context.Close()); err != nil {
		errs = append(errs, fmt.Errorf("failed to close context: %w", err))
	}

	if video != nil {
		if result.Failed {
			if path, err := video.Path(); err == nil {
				artifacts.Video = path
				s.logger.Errorf("Video saved: %s", path)
			}
		} else if err := video.Delete(); err != nil {
			s.logger.Warnf("failed to delete video: %v", err)
		}
	}

	return artifacts, errors.Join(errs...)
}

func (s *Session) screenshot(base, stamp string) (string, error) {
	if err := os.MkdirAll(s.cfg.ScreenshotDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	path := filepath.Join(s.cfg.ScreenshotDir, fmt.Sprintf("failure_%s_%s.png", base, stamp))
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to take screenshot: %w", err)
	}
	return path, nil
}

// stopTrace always stops tracing but only writes the archive when keep is set
func (s *Session) stopTrace(keep bool, base, stamp string) (string, error) {
	if !keep {
		if err := ignoreClosed(s.context.Tracing().Stop()); err != nil {
			return "", fmt.Errorf("failed to stop tracing: %w", err)
		}
		return "", nil
	}
	if err := os.MkdirAll(s.cfg.TraceDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create trace directory: %w", err)
	}
	path := filepath.Join(s.cfg.TraceDir, fmt.Sprintf("trace_%s_%s.zip", base, stamp))
	if err := s.context.Tracing().Stop(path); err != nil {
		return "", fmt.Errorf("failed to save trace: %w", err)
	}
	return path, nil
}

func browserType(pw *playwright.Playwright, engine string) (playwright.BrowserType, error) {
	switch engine {
	case "chromium", "":
		return pw.Chromium, nil
	case "firefox":
		return pw.Firefox, nil
	case "webkit":
		return pw.WebKit, nil
	default:
		return nil, fmt.Errorf("unsupported browser %q", engine)
	}
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// artifactName turns a test name such as "TestAdmin/create_user" into a file name part
func artifactName(name string) string {
	name = strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "_")
	if name == "" {
		return "session"
	}
	return name
}

func ignoreClosed(err error) error {
	if err == nil || errors.Is(err, playwright.ErrTargetClosed) {
		return nil
	}
	if strings.Contains(err.Error(), "target closed") {
		return nil
	}
	return err
}
