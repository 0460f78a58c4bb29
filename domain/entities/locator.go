package entities

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"iso2_automation/domain/errs"
)

// Locator is a named reference to a family of UI elements on a page
type Locator struct {
	Name     string `json:"name"`
	Selector string `json:"selector"`
}

// L creates a locator
func L(name, selector string) Locator {
	return Locator{Name: name, Selector: selector}
}

func (l Locator) String() string {
	if l.Name == "" {
		return l.Selector
	}
	return l.Name + " (" + l.Selector + ")"
}

// Within scopes child under l using a descendant combinator
func (l Locator) Within(child Locator) Locator {
	return Locator{Name: child.Name, Selector: l.Selector + " " + child.Selector}
}

var holeRe = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// LocatorTemplate is a selector pattern with named {holes}, e.g. `tr:has-text({email})`.
// Bound values are inserted as double-quoted strings.
type LocatorTemplate struct {
	Name    string
	Pattern string
}

// T creates a locator template
func T(name, pattern string) LocatorTemplate {
	return LocatorTemplate{Name: name, Pattern: pattern}
}

// Holes returns the placeholder names in order of appearance
func (t LocatorTemplate) Holes() []string {
	matches := holeRe.FindAllStringSubmatch(t.Pattern, -1)
	res := make([]string, 0, len(matches))
	for _, m := range matches {
		res = append(res, m[1])
	}
	return res
}

// Bind fills every hole from params. A missing or blank value is rejected so that a
// selector matching nothing is never produced.
func (t LocatorTemplate) Bind(params map[string]string) (Locator, error) {
	var missing []string
	for _, hole := range t.Holes() {
		if strings.TrimSpace(params[hole]) == "" {
			missing = append(missing, hole)
		}
	}
	if len(missing) > 0 {
		return Locator{}, errs.New(errs.InvalidArgument, "bind locator", t.Name,
			fmt.Sprintf("empty value for %s", strings.Join(missing, ", ")))
	}

	selector := holeRe.ReplaceAllStringFunc(t.Pattern, func(m string) string {
		return strconv.Quote(params[m[1:len(m)-1]])
	})
	return Locator{Name: t.Name, Selector: selector}, nil
}

// Bind1 binds a template with exactly one hole
func (t LocatorTemplate) Bind1(value string) (Locator, error) {
	holes := t.Holes()
	if len(holes) != 1 {
		return Locator{}, errs.New(errs.InvalidArgument, "bind locator", t.Name,
			fmt.Sprintf("template has %d holes, want 1", len(holes)))
	}
	return t.Bind(map[string]string{holes[0]: value})
}
