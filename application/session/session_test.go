package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"reqbridge/domain/cookie"
	"reqbridge/infrastructure/browser"
)

// mockDriver is an in-memory Driver for exercising the session and cookie
// bridge without a browser process.
type mockDriver struct {
	running    bool
	currentURL string
	pageSource string
	userAgent  string

	cookies []cookie.Cookie
	// rejectDomains lists cookie domains AddCookie silently drops, to
	// simulate a browser refusing a cookie.
	rejectDomains map[string]bool

	navigations []string
	addCalls    int
}

func (m *mockDriver) Start(ctx context.Context) error { m.running = true; return nil }
func (m *mockDriver) Stop() error                     { m.running = false; return nil }
func (m *mockDriver) IsRunning() bool                 { return m.running }

func (m *mockDriver) Navigate(ctx context.Context, u string) error {
	m.navigations = append(m.navigations, u)
	m.currentURL = u
	return nil
}

func (m *mockDriver) CurrentURL(ctx context.Context) (string, error) {
	return m.currentURL, nil
}

func (m *mockDriver) PageSource(ctx context.Context) (string, error) {
	return m.pageSource, nil
}

func (m *mockDriver) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	if strings.Contains(script, "navigator.userAgent") {
		return m.userAgent, nil
	}
	return nil, nil
}

func (m *mockDriver) Cookies(ctx context.Context) ([]cookie.Cookie, error) {
	out := make([]cookie.Cookie, len(m.cookies))
	copy(out, m.cookies)
	return out, nil
}

func (m *mockDriver) AddCookie(ctx context.Context, c cookie.Cookie) error {
	m.addCalls++
	if m.rejectDomains[c.Domain] {
		return nil // dropped without an error, like a real browser
	}
	m.cookies = append(m.cookies, c)
	return nil
}

func (m *mockDriver) WaitFor(ctx context.Context, by browser.By, selector string, state browser.State, timeout time.Duration) (browser.Element, error) {
	return nil, &browser.ElementNotFoundError{By: by, Selector: selector, State: state, Timeout: timeout}
}

// newTestSession builds a session whose driver factory hands out the given
// mock instead of launching a browser.
func newTestSession(t *testing.T, m *mockDriver) *Session {
	t.Helper()
	s, err := New(&Config{Browser: "firefox"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s.newDriver = func() (browser.Driver, error) { return m, nil }
	return s
}

func TestNew_RejectsUnknownBrowser(t *testing.T) {
	_, err := New(&Config{Browser: "edge"})
	if !errors.Is(err, browser.ErrInvalidEngine) {
		t.Fatalf("New(edge) error = %v, want ErrInvalidEngine", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) failed: %v", err)
	}
	if s.UserAgent() == "" {
		t.Error("default session has empty user-agent")
	}
	if s.LastURL() != "" {
		t.Errorf("fresh session LastURL = %q, want empty", s.LastURL())
	}
}

func TestSession_GetTracksLastURL(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		if r.URL.Path == "/start" {
			http.Redirect(w, r, "/landed", http.StatusFound)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "abc123", Path: "/"})
		fmt.Fprint(w, "<html><body>ok</body></html>")
	}))
	defer srv.Close()

	s := newTestSession(t, &mockDriver{})

	resp, err := s.Get(context.Background(), srv.URL+"/start")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if !strings.HasSuffix(s.LastURL(), "/landed") {
		t.Errorf("LastURL = %q, want post-redirect /landed", s.LastURL())
	}
	if gotUA != s.UserAgent() {
		t.Errorf("server saw user-agent %q, session has %q", gotUA, s.UserAgent())
	}

	all := s.Jar().All()
	if len(all) != 1 || all[0].Name != "sessionid" {
		t.Fatalf("jar contents = %+v, want one sessionid cookie", all)
	}
}

func TestSession_PostForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm failed: %v", err)
		}
		fmt.Fprintf(w, "user=%s", r.PostFormValue("user"))
	}))
	defer srv.Close()

	s := newTestSession(t, &mockDriver{})
	resp, err := s.PostForm(context.Background(), srv.URL, url.Values{"user": {"alice"}})
	if err != nil {
		t.Fatalf("PostForm failed: %v", err)
	}
	if resp.Text() != "user=alice" {
		t.Errorf("body = %q, want user=alice", resp.Text())
	}
}

func TestSession_DriverIsLazyAndCached(t *testing.T) {
	built := 0
	s, err := New(&Config{Browser: "chrome"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	m := &mockDriver{}
	s.newDriver = func() (browser.Driver, error) { built++; return m, nil }

	if built != 0 {
		t.Fatalf("driver built %d times before first access, want 0", built)
	}

	d1, err := s.Driver(context.Background())
	if err != nil {
		t.Fatalf("Driver failed: %v", err)
	}
	d2, err := s.Driver(context.Background())
	if err != nil {
		t.Fatalf("second Driver failed: %v", err)
	}

	if built != 1 {
		t.Errorf("driver built %d times, want 1", built)
	}
	if d1 != d2 {
		t.Error("Driver returned different instances")
	}
	if !m.running {
		t.Error("driver was not started")
	}
}

func TestSession_DriverStartFailureIsNotCached(t *testing.T) {
	s, err := New(&Config{Browser: "firefox"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	bootErr := fmt.Errorf("no browser binary")
	s.newDriver = func() (browser.Driver, error) { return nil, bootErr }

	if _, err := s.Driver(context.Background()); !errors.Is(err, bootErr) {
		t.Fatalf("Driver error = %v, want boot error", err)
	}

	// A later access must retry with the (now working) factory.
	m := &mockDriver{}
	s.newDriver = func() (browser.Driver, error) { return m, nil }
	if _, err := s.Driver(context.Background()); err != nil {
		t.Fatalf("Driver retry failed: %v", err)
	}
}

func TestSession_ExportRestore(t *testing.T) {
	s := newTestSession(t, &mockDriver{})
	if err := s.Jar().Set(cookie.Cookie{Name: "token", Value: "t1", Domain: "site.test"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	s.lastURL = "http://site.test/home"

	snap := s.Export("login-state")
	if snap.Name != "login-state" || len(snap.Cookies) != 1 {
		t.Fatalf("Export = %+v, want named snapshot with 1 cookie", snap)
	}

	other := newTestSession(t, &mockDriver{})
	if err := other.Restore(snap); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if other.LastURL() != "http://site.test/home" {
		t.Errorf("restored LastURL = %q", other.LastURL())
	}
	restored := other.Jar().All()
	if len(restored) != 1 || restored[0].Value != "t1" {
		t.Fatalf("restored jar = %+v", restored)
	}
}
