package interfaces

import (
	"context"
	"time"

	"iso2_automation/domain/entities"
)

// Driver is the capability of a single browser tab
type Driver interface {
	// Navigate navigates to a URL, relative URLs resolve against the context base URL
	Navigate(ctx context.Context, url string) error

	// Locate returns a lazy handle for every element matching selector
	Locate(selector string) Element

	// WaitForURL blocks until the location matches a glob pattern such as "**/stores"
	WaitForURL(ctx context.Context, pattern string, timeout time.Duration) error

	// URL returns the current location
	URL() string

	// Title returns the document title
	Title(ctx context.Context) (string, error)

	// Reload reloads the current page
	Reload(ctx context.Context) error

	// Screenshot writes a PNG of the page to path
	Screenshot(ctx context.Context, path string) error
}

// Element is a lazy handle on the elements matching one selector.
// Reads act on the first match.
type Element interface {
	Selector() string

	// First narrows the handle to the first match
	First() Element

	// Count returns the number of matches right now
	Count(ctx context.Context) (int, error)

	Click(ctx context.Context) error
	Fill(ctx context.Context, text string) error

	// Text returns text content, NotFound when nothing matches
	Text(ctx context.Context) (string, error)

	// IsVisible never fails, a missing element is not visible
	IsVisible(ctx context.Context) bool

	IsChecked(ctx context.Context) (bool, error)
	Check(ctx context.Context) error
	Uncheck(ctx context.Context) error
	SelectOption(ctx context.Context, value string) error

	// IsValid reports the HTML constraint validity of a form control
	IsValid(ctx context.Context) (bool, error)

	WaitForVisible(ctx context.Context, timeout time.Duration) error
	WaitForHidden(ctx context.Context, timeout time.Duration) error

	// ExpectText waits until the element text contains substr
	ExpectText(ctx context.Context, substr string, timeout time.Duration) error
}

// SessionProvider hands out one isolated browser session per test
type SessionProvider interface {
	NewSession(ctx context.Context, name string) (Session, error)
}

// Session owns a browser context and its page for the length of one test
type Session interface {
	Driver() Driver

	// Close tears the session down, capturing artifacts when result.Failed is set
	Close(result entities.TestResult) (entities.Artifacts, error)
}
