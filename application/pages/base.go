package pages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"iso2_automation/domain/entities"
	"iso2_automation/domain/errs"
	"iso2_automation/domain/interfaces"
	"iso2_automation/infrastructure/config"
)

// Base holds the primitives every page object is composed of. Page objects embed
// *Base and never touch the driver directly.
type Base struct {
	driver interfaces.Driver
	cfg    *config.Config
	log    *logrus.Entry
}

// NewBase binds a page named name to driver
func NewBase(driver interfaces.Driver, cfg *config.Config, logger *logrus.Logger, name string) *Base {
	return &Base{
		driver: driver,
		cfg:    cfg,
		log:    logger.WithField("page", name),
	}
}

// NavigateTo - navigates to url, paths resolve against the configured base URL
func (b *Base) NavigateTo(ctx context.Context, url string) error {
	target := b.cfg.URL(url)
	b.log.Debugf("navigate to %s", target)
	return b.driver.Navigate(ctx, target)
}

// WaitForElement - blocks until loc is visible, zero timeout means the default
func (b *Base) WaitForElement(ctx context.Context, loc entities.Locator, timeout time.Duration) error {
	return b.el(loc).WaitForVisible(ctx, b.timeout(timeout))
}

// ClickElement - clicks loc
func (b *Base) ClickElement(ctx context.Context, loc entities.Locator) error {
	b.log.Debugf("click %s", loc)
	return b.el(loc).Click(ctx)
}

// FillInput - replaces the value of loc with text
func (b *Base) FillInput(ctx context.Context, loc entities.Locator, text string) error {
	b.log.Debugf("fill %s", loc)
	return b.el(loc).Fill(ctx, text)
}

// GetText - returns the text content of loc
func (b *Base) GetText(ctx context.Context, loc entities.Locator) (string, error) {
	return b.el(loc).Text(ctx)
}

// IsVisible - reports whether loc is visible right now
func (b *Base) IsVisible(ctx context.Context, loc entities.Locator) bool {
	return b.el(loc).IsVisible(ctx)
}

// WaitForURL - blocks until the location matches pattern
func (b *Base) WaitForURL(ctx context.Context, pattern string, timeout time.Duration) error {
	return b.driver.WaitForURL(ctx, pattern, b.timeout(timeout))
}

// SelectOption - picks value in a select control
func (b *Base) SelectOption(ctx context.Context, loc entities.Locator, value string) error {
	b.log.Debugf("select %q in %s", value, loc)
	return b.el(loc).SelectOption(ctx, value)
}

// IsChecked - reads a checkbox state
func (b *Base) IsChecked(ctx context.Context, loc entities.Locator) (bool, error) {
	return b.el(loc).IsChecked(ctx)
}

// SetToggle - drives the checkbox at loc to want, see SetToggle
func (b *Base) SetToggle(ctx context.Context, loc entities.Locator, want bool) error {
	changed, err := SetToggle(ctx, b.el(loc), want)
	if err != nil {
		return err
	}
	if changed {
		b.log.Debugf("toggled %s to %t", loc, want)
	}
	return nil
}

// IsValid - reads the HTML constraint validity of a form control
func (b *Base) IsValid(ctx context.Context, loc entities.Locator) (bool, error) {
	return b.el(loc).IsValid(ctx)
}

// Count - number of elements matching loc
func (b *Base) Count(ctx context.Context, loc entities.Locator) (int, error) {
	return b.el(loc).Count(ctx)
}

// ExpectVisible waits for loc and reports a miss as an assertion failure
func (b *Base) ExpectVisible(ctx context.Context, loc entities.Locator, timeout time.Duration) error {
	if err := b.WaitForElement(ctx, loc, timeout); err != nil {
		return errs.Wrap(errs.Assertion, "expect visible", loc.String(), err)
	}
	return nil
}

// ExpectHidden waits until loc is hidden or detached
func (b *Base) ExpectHidden(ctx context.Context, loc entities.Locator, timeout time.Duration) error {
	if err := b.el(loc).WaitForHidden(ctx, b.timeout(timeout)); err != nil {
		return errs.Wrap(errs.Assertion, "expect hidden", loc.String(), err)
	}
	return nil
}

// ExpectText waits until the text of loc contains substr
func (b *Base) ExpectText(ctx context.Context, loc entities.Locator, substr string, timeout time.Duration) error {
	return b.el(loc).ExpectText(ctx, substr, b.timeout(timeout))
}

// AwaitSignal blocks until sig is observed. Toast signals need the target visible and,
// when sig.Text is set, containing that text.
func (b *Base) AwaitSignal(ctx context.Context, sig entities.Signal, timeout time.Duration) error {
	switch sig.Kind {
	case entities.SignalURL:
		return b.WaitForURL(ctx, sig.Pattern, timeout)
	case entities.SignalSuccess, entities.SignalError:
		if err := b.WaitForElement(ctx, sig.Target, timeout); err != nil {
			return fmt.Errorf("%s signal: %w", sig.Kind, err)
		}
		if sig.Text == "" {
			return nil
		}
		if err := b.ExpectText(ctx, sig.Target, sig.Text, timeout); err != nil {
			return fmt.Errorf("%s signal: %w", sig.Kind, err)
		}
		return nil
	default:
		return errs.New(errs.InvalidArgument, "await signal", string(sig.Kind), "unknown signal kind")
	}
}

// Title - returns the page title
func (b *Base) Title(ctx context.Context) (string, error) {
	return b.driver.Title(ctx)
}

// CurrentURL - returns the current location
func (b *Base) CurrentURL() string {
	return b.driver.URL()
}

// Reload - reloads the current page
func (b *Base) Reload(ctx context.Context) error {
	return b.driver.Reload(ctx)
}

// TakeScreenshot saves a full-page screenshot as <ScreenshotDir>/<name>_<ts>.png
func (b *Base) TakeScreenshot(ctx context.Context, name string) (string, error) {
	if err := os.MkdirAll(b.cfg.ScreenshotDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	path := filepath.Join(b.cfg.ScreenshotDir, fmt.Sprintf("%s_%s.png", name, time.Now().Format("20060102_150405")))
	if err := b.driver.Screenshot(ctx, path); err != nil {
		return "", err
	}
	b.log.Infof("screenshot saved: %s", path)
	return path, nil
}

// Config exposes the settings the page was built with
func (b *Base) Config() *config.Config {
	return b.cfg
}

func (b *Base) el(loc entities.Locator) interfaces.Element {
	return b.driver.Locate(loc.Selector)
}

func (b *Base) timeout(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return b.cfg.DefaultTimeout
}

func (b *Base) signalTimeout() time.Duration {
	return b.timeout(b.cfg.SignalTimeout)
}

// SetToggle drives a checkbox to want. It reads the current state first and only
// acts when it differs, so repeated calls never flip it back. changed reports
// whether an action was taken.
func SetToggle(ctx context.Context, el interfaces.Element, want bool) (changed bool, err error) {
	checked, err := el.IsChecked(ctx)
	if err != nil {
		return false, fmt.Errorf("read toggle state: %w", err)
	}
	if checked == want {
		return false, nil
	}
	if want {
		err = el.Check(ctx)
	} else {
		err = el.Uncheck(ctx)
	}
	if err != nil {
		return false, fmt.Errorf("set toggle to %t: %w", want, err)
	}
	return true, nil
}
