package browser

import (
	"context"
	"fmt"
	"time"
)

// By is the locator strategy used to resolve a selector against the DOM.
type By string

const (
	ByID              By = "id"
	ByName            By = "name"
	ByXPath           By = "xpath"
	ByLinkText        By = "link_text"
	ByPartialLinkText By = "partial_link_text"
	ByTagName         By = "tag_name"
	ByClassName       By = "class_name"
	ByCSSSelector     By = "css_selector"
)

// State is the target element condition a wait resolves on.
//
// StatePresent is the most permissive: the element merely exists in the DOM.
// StateVisible additionally requires it to be rendered with non-zero size.
// StateClickable requires visibility plus the engine's enabled heuristic,
// which is known to produce false negatives: an element the engine calls
// clickable can still fail an actual click. StateInvisible resolves when the
// element is absent or hidden and yields no element handle.
type State string

const (
	StatePresent   State = "present"
	StateVisible   State = "visible"
	StateClickable State = "clickable"
	StateInvisible State = "invisible"
)

// ParseState validates a wait state. Invalid values fail immediately with
// ErrInvalidState; no waiting happens.
func ParseState(s string) (State, error) {
	switch State(s) {
	case StatePresent, StateVisible, StateClickable, StateInvisible:
		return State(s), nil
	}
	return "", fmt.Errorf("%w, not: %q", ErrInvalidState, s)
}

// ParseBy validates a locator strategy name.
func ParseBy(s string) (By, error) {
	switch By(s) {
	case ByID, ByName, ByXPath, ByLinkText, ByPartialLinkText,
		ByTagName, ByClassName, ByCSSSelector:
		return By(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLocator, s)
}

// engineSelector translates a (by, selector) pair into the engine's native
// selector syntax.
func engineSelector(by By, selector string) (string, error) {
	switch by {
	case ByID:
		return "id=" + selector, nil
	case ByName:
		return fmt.Sprintf("css=[name=%q]", selector), nil
	case ByXPath:
		return "xpath=" + selector, nil
	case ByLinkText:
		return fmt.Sprintf("css=a:text-is(%q)", selector), nil
	case ByPartialLinkText:
		return fmt.Sprintf("css=a:has-text(%q)", selector), nil
	case ByTagName:
		return "css=" + selector, nil
	case ByClassName:
		return "css=." + selector, nil
	case ByCSSSelector:
		return "css=" + selector, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLocator, string(by))
}

// WaitDescriptor bundles the parameters of a single wait call.
type WaitDescriptor struct {
	By       By
	Selector string
	State    State
	Timeout  time.Duration
}

func (w WaitDescriptor) String() string {
	return fmt.Sprintf("%s=%q state=%s timeout=%s", w.By, w.Selector, w.State, w.Timeout)
}

// Convenience wrappers mirroring the supported locator strategies. Each
// delegates to Driver.WaitFor with the matching strategy.

func WaitForID(ctx context.Context, d Driver, selector string, state State, timeout time.Duration) (Element, error) {
	return d.WaitFor(ctx, ByID, selector, state, timeout)
}

func WaitForName(ctx context.Context, d Driver, selector string, state State, timeout time.Duration) (Element, error) {
	return d.WaitFor(ctx, ByName, selector, state, timeout)
}

func WaitForXPath(ctx context.Context, d Driver, selector string, state State, timeout time.Duration) (Element, error) {
	return d.WaitFor(ctx, ByXPath, selector, state, timeout)
}

func WaitForLinkText(ctx context.Context, d Driver, selector string, state State, timeout time.Duration) (Element, error) {
	return d.WaitFor(ctx, ByLinkText, selector, state, timeout)
}

func WaitForPartialLinkText(ctx context.Context, d Driver, selector string, state State, timeout time.Duration) (Element, error) {
	return d.WaitFor(ctx, ByPartialLinkText, selector, state, timeout)
}

func WaitForTagName(ctx context.Context, d Driver, selector string, state State, timeout time.Duration) (Element, error) {
	return d.WaitFor(ctx, ByTagName, selector, state, timeout)
}

func WaitForClassName(ctx context.Context, d Driver, selector string, state State, timeout time.Duration) (Element, error) {
	return d.WaitFor(ctx, ByClassName, selector, state, timeout)
}

func WaitForCSSSelector(ctx context.Context, d Driver, selector string, state State, timeout time.Duration) (Element, error) {
	return d.WaitFor(ctx, ByCSSSelector, selector, state, timeout)
}
