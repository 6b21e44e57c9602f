package session

import (
	"errors"
	"fmt"

	"reqbridge/domain/cookie"
)

// ErrMissingDomain is returned when a cookie transfer has no way to decide
// its target domain: no domain argument, and the session has not visited any
// URL yet.
var ErrMissingDomain = errors.New("no domain given and no previous request to infer it from")

// CookieInjectionError reports a cookie that the browser would not accept
// even after the widened-domain retry.
type CookieInjectionError struct {
	Cookie cookie.Cookie
}

func (e *CookieInjectionError) Error() string {
	return fmt.Sprintf("failed to inject cookie %s=%s (domain %q) into browser",
		e.Cookie.Name, e.Cookie.Value, e.Cookie.Domain)
}
