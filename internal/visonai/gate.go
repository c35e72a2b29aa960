package visonai

import (
	"crypto/subtle"
	"net/http"
	"net/url"
)

// Header names the gate reads.
const (
	HeaderAuthorization = "Authorization"
	HeaderReferer       = "Referer"
)

// Headers gives case-insensitive access to request headers.
// http.Header satisfies it.
type Headers interface {
	Get(key string) string
}

// HeaderFunc adapts a lookup function to Headers.
type HeaderFunc func(key string) string

// Get implements Headers.
func (f HeaderFunc) Get(key string) string {
	return f(key)
}

// Decision is the outcome of the gate for a single request.
// The zero value allows the request.
type Decision struct {
	Reason  string
	Message string
	Status  int
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return d.Reason == ""
}

// Err returns the denial as an APIError, or nil when the request is allowed.
func (d Decision) Err() *APIError {
	if d.Allowed() {
		return nil
	}

	return &APIError{Code: d.Reason, Message: d.Message, Status: d.Status}
}

func deny(reason, message string, status int) Decision {
	return Decision{Reason: reason, Message: message, Status: status}
}

// Gate authorizes inbound API calls against the stored token and allowed domain.
//
// The zero Gate compares the token with plain equality and accepts any referrer
// that contains the allowed domain, case-insensitively, anywhere in its value.
// That substring match lets "https://evil-example.com.attacker.net" through
// for "example.com"; StrictDomainMatch switches to a host comparison instead.
type Gate struct {
	// ConstantTimeToken compares tokens with crypto/subtle.
	ConstantTimeToken bool
	// StrictDomainMatch requires the referrer host to equal the allowed host.
	StrictDomainMatch bool
}

// Authorize runs the checks in order; the first failing one wins.
func (g Gate) Authorize(h Headers, s Settings) Decision {
	if s.Token == "" {
		return deny(CodeMissingToken, "API token is not configured.", http.StatusBadRequest)
	}

	if !g.tokenMatches(header(h, HeaderAuthorization), s.Token) {
		return deny(CodeUnauthorized, "Invalid API token.", http.StatusUnauthorized)
	}

	if s.AllowedDomain == "" {
		return deny(CodeMissingDomain, "Allowed domain is not configured.", http.StatusBadRequest)
	}

	if !g.domainMatches(header(h, HeaderReferer), s.AllowedDomain) {
		return deny(CodeForbidden, "Requests from this domain are not allowed.", http.StatusForbidden)
	}

	return Decision{}
}

// Authorize runs the default gate.
func Authorize(h Headers, s Settings) Decision {
	return Gate{}.Authorize(h, s)
}

func header(h Headers, key string) string {
	if h == nil {
		return ""
	}

	return h.Get(key)
}

func (g Gate) tokenMatches(given, stored string) bool {
	if g.ConstantTimeToken {
		return subtle.ConstantTimeCompare([]byte(given), []byte(stored)) == 1
	}

	return given == stored
}

func (g Gate) domainMatches(referer, allowed string) bool {
	if !g.StrictDomainMatch {
		return indexIgnoreCase(referer, allowed) >= 0
	}

	refHost := hostOf(referer)

	return refHost != "" && equalFoldASCII(refHost, hostOf(allowed))
}

// hostOf returns the host of a URL, or the value itself when it carries no scheme.
func hostOf(value string) string {
	u, err := url.Parse(value)
	if err != nil {
		return ""
	}

	if u.Host == "" {
		return value
	}

	return u.Hostname()
}
