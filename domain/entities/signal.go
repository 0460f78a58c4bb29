package entities

// SignalKind is the class of UI side effect that marks a composite flow as complete
type SignalKind string

const (
	SignalSuccess SignalKind = "success"
	SignalError   SignalKind = "error"
	SignalURL     SignalKind = "url"
)

// Signal is the completion contract of one flow: a toast/banner with expected text,
// or a URL transition matching a glob pattern.
type Signal struct {
	Kind    SignalKind `json:"kind"`
	Target  Locator    `json:"target,omitempty"`
	Text    string     `json:"text,omitempty"`
	Pattern string     `json:"pattern,omitempty"`
}

// SuccessSignal expects target to show text
func SuccessSignal(target Locator, text string) Signal {
	return Signal{Kind: SignalSuccess, Target: target, Text: text}
}

// ErrorSignal expects target to show the error text
func ErrorSignal(target Locator, text string) Signal {
	return Signal{Kind: SignalError, Target: target, Text: text}
}

// URLSignal expects the location to match pattern
func URLSignal(pattern string) Signal {
	return Signal{Kind: SignalURL, Pattern: pattern}
}
