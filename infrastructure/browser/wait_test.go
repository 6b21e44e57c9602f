package browser

import (
	"errors"
	"testing"
)

func TestParseState(t *testing.T) {
	for _, valid := range []string{"present", "visible", "clickable", "invisible"} {
		if _, err := ParseState(valid); err != nil {
			t.Errorf("ParseState(%q) failed: %v", valid, err)
		}
	}

	for _, invalid := range []string{"", "Present", "hidden", "attached"} {
		_, err := ParseState(invalid)
		if !errors.Is(err, ErrInvalidState) {
			t.Errorf("ParseState(%q) error = %v, want ErrInvalidState", invalid, err)
		}
	}
}

func TestParseBy(t *testing.T) {
	valid := []string{
		"id", "name", "xpath", "link_text", "partial_link_text",
		"tag_name", "class_name", "css_selector",
	}
	for _, v := range valid {
		if _, err := ParseBy(v); err != nil {
			t.Errorf("ParseBy(%q) failed: %v", v, err)
		}
	}

	_, err := ParseBy("accessibility_id")
	if !errors.Is(err, ErrInvalidLocator) {
		t.Errorf("ParseBy(accessibility_id) error = %v, want ErrInvalidLocator", err)
	}
}

func TestEngineSelector(t *testing.T) {
	tests := []struct {
		by       By
		selector string
		want     string
	}{
		{ByID, "login-btn", `id=login-btn`},
		{ByName, "q", `css=[name="q"]`},
		{ByXPath, `//div[@id='x']`, `xpath=//div[@id='x']`},
		{ByLinkText, "Sign in", `css=a:text-is("Sign in")`},
		{ByPartialLinkText, "Sign", `css=a:has-text("Sign")`},
		{ByTagName, "button", `css=button`},
		{ByClassName, "nav-item", `css=.nav-item`},
		{ByCSSSelector, "div > a.active", `css=div > a.active`},
	}

	for _, tt := range tests {
		got, err := engineSelector(tt.by, tt.selector)
		if err != nil {
			t.Errorf("engineSelector(%s, %q) failed: %v", tt.by, tt.selector, err)
			continue
		}
		if got != tt.want {
			t.Errorf("engineSelector(%s, %q) = %q, want %q", tt.by, tt.selector, got, tt.want)
		}
	}

	if _, err := engineSelector(By("tag"), "button"); !errors.Is(err, ErrInvalidLocator) {
		t.Errorf("engineSelector with bad strategy error = %v, want ErrInvalidLocator", err)
	}
}

func TestWaitDescriptor_String(t *testing.T) {
	d := WaitDescriptor{By: ByXPath, Selector: "//a", State: StateVisible, Timeout: 0}
	s := d.String()
	if s == "" {
		t.Error("WaitDescriptor.String() returned empty string")
	}
}
