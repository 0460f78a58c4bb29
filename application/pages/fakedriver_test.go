package pages

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"iso2_automation/domain/errs"
	"iso2_automation/domain/interfaces"
)

// fakeNode is one element of the in-memory page
type fakeNode struct {
	visible bool
	checked bool
	valid   bool
	text    string
	value   string
	count   int

	// appearsIn and closesIn make the node show up or go away after a delay,
	// a wait with a long enough timeout observes the change
	appearsIn time.Duration
	closesIn  time.Duration
}

// fakeDriver is an in-memory interfaces.Driver. Every interaction is appended to
// actions as "<verb> <selector>[=<value>]".
type fakeDriver struct {
	mu      sync.Mutex
	url     string
	title   string
	nodes   map[string]*fakeNode
	actions []string
	hooks   map[string]func()
	fail    map[string]error
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		url:   "about:blank",
		nodes: map[string]*fakeNode{},
		hooks: map[string]func(){},
		fail:  map[string]error{},
	}
}

// show adds a visible node
func (d *fakeDriver) show(selector string) *fakeNode {
	n := &fakeNode{visible: true, valid: true, count: 1}
	d.nodes[selector] = n
	return n
}

// hide adds a node that exists but is not visible
func (d *fakeDriver) hide(selector string) *fakeNode {
	n := d.show(selector)
	n.visible = false
	return n
}

// on registers fn to run after the action "<verb> <selector>"
func (d *fakeDriver) on(verb, selector string, fn func()) {
	d.hooks[verb+" "+selector] = fn
}

// failOn makes the action "<verb> <selector>" return err
func (d *fakeDriver) failOn(verb, selector string, err error) {
	d.fail[verb+" "+selector] = err
}

func (d *fakeDriver) node(selector string) *fakeNode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.nodes[selector]
}

func (d *fakeDriver) record(verb, selector, value string) error {
	d.mu.Lock()
	entry := verb + " " + selector
	if value != "" {
		entry += "=" + value
	}
	d.actions = append(d.actions, entry)
	err := d.fail[verb+" "+selector]
	hook := d.hooks[verb+" "+selector]
	d.mu.Unlock()

	if err != nil {
		return err
	}
	if hook != nil {
		hook()
	}
	return nil
}

// recorded returns actions whose verb is one of verbs
func (d *fakeDriver) recorded(verbs ...string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var res []string
	for _, a := range d.actions {
		for _, v := range verbs {
			if strings.HasPrefix(a, v+" ") {
				res = append(res, a)
				break
			}
		}
	}
	return res
}

func (d *fakeDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.setURL(url)
	if err := d.record("navigate", url, ""); err != nil {
		return errs.Wrap(errs.Navigation, "navigate", url, err)
	}
	return nil
}

func (d *fakeDriver) Locate(selector string) interfaces.Element {
	return &fakeElement{d: d, selector: selector}
}

func (d *fakeDriver) WaitForURL(ctx context.Context, pattern string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_ = d.record("wait-url", pattern, "")
	if !MatchURL(pattern, d.URL()) {
		return errs.New(errs.Timeout, "wait for url", pattern, fmt.Sprintf("still at %s after %s", d.URL(), timeout))
	}
	return nil
}

func (d *fakeDriver) URL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url
}

func (d *fakeDriver) setURL(url string) {
	d.mu.Lock()
	d.url = url
	d.mu.Unlock()
}

func (d *fakeDriver) Title(ctx context.Context) (string, error) {
	return d.title, ctx.Err()
}

func (d *fakeDriver) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.record("reload", d.URL(), "")
}

func (d *fakeDriver) Screenshot(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.record("screenshot", path, "")
}

type fakeElement struct {
	d        *fakeDriver
	selector string
}

func (e *fakeElement) Selector() string {
	return e.selector
}

func (e *fakeElement) First() interfaces.Element {
	return e
}

func (e *fakeElement) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n := e.d.node(e.selector)
	if n == nil {
		return 0, nil
	}
	return n.count, nil
}

// actionable returns the node or an Interaction error
func (e *fakeElement) actionable(op string) (*fakeNode, error) {
	n := e.d.node(e.selector)
	if n == nil || !n.visible {
		return nil, errs.New(errs.Interaction, op, e.selector, "element is not visible")
	}
	return n, nil
}

func (e *fakeElement) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := e.actionable("click"); err != nil {
		return err
	}
	if err := e.d.record("click", e.selector, ""); err != nil {
		return errs.Wrap(errs.Interaction, "click", e.selector, err)
	}
	return nil
}

func (e *fakeElement) Fill(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := e.actionable("fill")
	if err != nil {
		return err
	}
	e.d.mu.Lock()
	n.value = text
	e.d.mu.Unlock()
	if err := e.d.record("fill", e.selector, text); err != nil {
		return errs.Wrap(errs.Interaction, "fill", e.selector, err)
	}
	return nil
}

func (e *fakeElement) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	n := e.d.node(e.selector)
	if n == nil {
		return "", errs.New(errs.NotFound, "text", e.selector, "no element matches")
	}
	return n.text, nil
}

func (e *fakeElement) IsVisible(ctx context.Context) bool {
	n := e.d.node(e.selector)
	return ctx.Err() == nil && n != nil && n.visible
}

func (e *fakeElement) IsChecked(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	n := e.d.node(e.selector)
	if n == nil {
		return false, errs.New(errs.NotFound, "is checked", e.selector, "no element matches")
	}
	return n.checked, nil
}

func (e *fakeElement) setChecked(ctx context.Context, verb string, want bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := e.actionable(verb)
	if err != nil {
		return err
	}
	if err := e.d.record(verb, e.selector, ""); err != nil {
		return errs.Wrap(errs.Interaction, verb, e.selector, err)
	}
	e.d.mu.Lock()
	n.checked = want
	e.d.mu.Unlock()
	return nil
}

func (e *fakeElement) Check(ctx context.Context) error {
	return e.setChecked(ctx, "check", true)
}

func (e *fakeElement) Uncheck(ctx context.Context) error {
	return e.setChecked(ctx, "uncheck", false)
}

func (e *fakeElement) SelectOption(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := e.actionable("select")
	if err != nil {
		return err
	}
	e.d.mu.Lock()
	n.value = value
	e.d.mu.Unlock()
	if err := e.d.record("select", e.selector, value); err != nil {
		return errs.Wrap(errs.Interaction, "select option", e.selector, err)
	}
	return nil
}

func (e *fakeElement) IsValid(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	n := e.d.node(e.selector)
	if n == nil {
		return false, errs.New(errs.NotFound, "validity", e.selector, "no element matches")
	}
	return n.valid, nil
}

func (e *fakeElement) WaitForVisible(ctx context.Context, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_ = e.d.record("wait-visible", e.selector, "")
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	n := e.d.nodes[e.selector]
	switch {
	case n == nil:
	case n.visible:
		return nil
	case n.appearsIn > 0 && n.appearsIn <= timeout:
		n.visible = true
		return nil
	}
	return errs.New(errs.Timeout, "wait for visible", e.selector, fmt.Sprintf("not visible after %s", timeout))
}

func (e *fakeElement) WaitForHidden(ctx context.Context, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_ = e.d.record("wait-hidden", e.selector, "")
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	n := e.d.nodes[e.selector]
	switch {
	case n == nil || !n.visible:
		return nil
	case n.closesIn > 0 && n.closesIn <= timeout:
		n.visible = false
		return nil
	}
	return errs.New(errs.Timeout, "wait for hidden", e.selector, fmt.Sprintf("still visible after %s", timeout))
}

func (e *fakeElement) ExpectText(ctx context.Context, substr string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n := e.d.node(e.selector)
	if n == nil || !n.visible {
		return errs.New(errs.Assertion, "expect text", e.selector, "element is not visible")
	}
	if !strings.Contains(n.text, substr) {
		return errs.Assertf("expect text", e.selector, "%q does not contain %q", n.text, substr)
	}
	return nil
}
