package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"iso2_automation/domain/errs"
	"iso2_automation/domain/interfaces"
)

type browserController struct {
	page              playwright.Page
	navigationTimeout time.Duration
	logger            *logrus.Entry
}

// NewController - wraps a playwright page into the driver capability
func NewController(page playwright.Page, navigationTimeout time.Duration, logger *logrus.Logger) interfaces.Driver {
	return &browserController{
		page:              page,
		navigationTimeout: navigationTimeout,
		logger:            logger.WithField("component", "driver"),
	}
}

// Navigate - navigates to the specified URL
func (b *browserController) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("navigate canceled: %w", err)
	}
	b.logger.Debugf("navigating to %s", url)

	_, err := b.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   millis(b.navigationTimeout),
	})
	return errs.Wrap(errs.Navigation, "navigate", url, err)
}

// Locate - returns a lazy element handle for selector
func (b *browserController) Locate(selector string) interfaces.Element {
	return &element{selector: selector, locator: b.page.Locator(selector), logger: b.logger}
}

// WaitForURL - waits until the location matches a glob pattern
func (b *browserController) WaitForURL(ctx context.Context, pattern string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("wait for url canceled: %w", err)
	}
	err := b.page.WaitForURL(pattern, playwright.PageWaitForURLOptions{Timeout: millis(timeout)})
	if err != nil {
		return errs.Wrap(classify(err, errs.Timeout), "wait for url", pattern,
			fmt.Errorf("current url %s: %w", b.page.URL(), err))
	}
	return nil
}

// URL - returns the current page URL
func (b *browserController) URL() string {
	return b.page.URL()
}

// Title - returns the current page title
func (b *browserController) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return b.page.Title()
}

// Reload - reloads the current page
func (b *browserController) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("reload canceled: %w", err)
	}
	_, err := b.page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   millis(b.navigationTimeout),
	})
	return errs.Wrap(errs.Navigation, "reload", b.page.URL(), err)
}

// Screenshot - takes a screenshot of the current page
func (b *browserController) Screenshot(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to take screenshot: %w", err)
	}
	return nil
}

type element struct {
	selector string
	locator  playwright.Locator
	logger   *logrus.Entry
}

func (e *element) Selector() string {
	return e.selector
}

func (e *element) First() interfaces.Element {
	return &element{selector: e.selector, locator: e.locator.First(), logger: e.logger}
}

func (e *element) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := e.locator.Count()
	if err != nil {
		return 0, errs.Wrap(errs.Internal, "count", e.selector, err)
	}
	return n, nil
}

func (e *element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("click canceled: %w", err)
	}
	e.logger.Debugf("click %s", e.selector)
	return errs.Wrap(errs.Interaction, "click", e.selector, e.locator.Click())
}

func (e *element) Fill(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("fill canceled: %w", err)
	}
	e.logger.Debugf("fill %s", e.selector)
	return errs.Wrap(errs.Interaction, "fill", e.selector, e.locator.Fill(text))
}

func (e *element) Text(ctx context.Context) (string, error) {
	if err := e.mustExist(ctx, "text"); err != nil {
		return "", err
	}
	text, err := e.locator.First().TextContent()
	if err != nil {
		return "", errs.Wrap(classify(err, errs.NotFound), "text", e.selector, err)
	}
	return text, nil
}

func (e *element) IsVisible(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	visible, err := e.locator.First().IsVisible()
	return err == nil && visible
}

func (e *element) IsChecked(ctx context.Context) (bool, error) {
	if err := e.mustExist(ctx, "is checked"); err != nil {
		return false, err
	}
	checked, err := e.locator.IsChecked()
	if err != nil {
		return false, errs.Wrap(classify(err, errs.Interaction), "is checked", e.selector, err)
	}
	return checked, nil
}

func (e *element) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("check canceled: %w", err)
	}
	return errs.Wrap(errs.Interaction, "check", e.selector, e.locator.Check())
}

func (e *element) Uncheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("uncheck canceled: %w", err)
	}
	return errs.Wrap(errs.Interaction, "uncheck", e.selector, e.locator.Uncheck())
}

func (e *element) SelectOption(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("select canceled: %w", err)
	}
	_, err := e.locator.SelectOption(playwright.SelectOptionValues{Values: &[]string{value}})
	return errs.Wrap(errs.Interaction, "select option", e.selector, err)
}

func (e *element) IsValid(ctx context.Context) (bool, error) {
	if err := e.mustExist(ctx, "validity"); err != nil {
		return false, err
	}
	res, err := e.locator.First().Evaluate("el => el.validity ? el.validity.valid : true", nil)
	if err != nil {
		return false, errs.Wrap(errs.Internal, "validity", e.selector, err)
	}
	valid, ok := res.(bool)
	if !ok {
		return false, errs.New(errs.Internal, "validity", e.selector, fmt.Sprintf("unexpected result %T", res))
	}
	return valid, nil
}

func (e *element) WaitForVisible(ctx context.Context, timeout time.Duration) error {
	return e.waitFor(ctx, playwright.WaitForSelectorStateVisible, timeout)
}

func (e *element) WaitForHidden(ctx context.Context, timeout time.Duration) error {
	return e.waitFor(ctx, playwright.WaitForSelectorStateHidden, timeout)
}

func (e *element) ExpectText(ctx context.Context, substr string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := playwright.NewPlaywrightAssertions().Locator(e.locator.First()).ToContainText(substr,
		playwright.LocatorAssertionsToContainTextOptions{Timeout: millis(timeout)})
	if err != nil {
		return errs.Wrap(errs.Assertion, "expect text "+fmt.Sprintf("%q", substr), e.selector, err)
	}
	return nil
}

func (e *element) waitFor(ctx context.Context, state *playwright.WaitForSelectorState, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("wait canceled: %w", err)
	}
	err := e.locator.First().WaitFor(playwright.LocatorWaitForOptions{
		State:   state,
		Timeout: millis(timeout),
	})
	if err != nil {
		return errs.Wrap(classify(err, errs.Timeout), "wait for "+string(*state), e.selector, err)
	}
	return nil
}

// mustExist - returns NotFound when nothing matches right now
func (e *element) mustExist(ctx context.Context, op string) error {
	n, err := e.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.New(errs.NotFound, op, e.selector, "no element matches")
	}
	return nil
}

// classify - maps playwright timeouts to Timeout, everything else to fallback
func classify(err error, fallback errs.Code) errs.Code {
	if errors.Is(err, playwright.ErrTimeout) {
		return errs.Timeout
	}
	return fallback
}

// millis - converts a duration into playwright's millisecond option, zero keeps the page default
func millis(d time.Duration) *float64 {
	if d <= 0 {
		return nil
	}
	return playwright.Float(float64(d.Milliseconds()))
}
