package proxy

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Parse attempts to parse a raw proxy string into a *url.URL.
// It handles common formats like host:port, user:pass@host:port, or full URLs.
// Strings without a scheme get defaultScheme prepended.
func Parse(proxyStr string, defaultScheme string) (*url.URL, error) {
	if !strings.Contains(proxyStr, "://") {
		proxyStr = defaultScheme + "://" + proxyStr
	}
	parsedURL, err := url.Parse(proxyStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse proxy URL %s: %w", proxyStr, err)
	}
	if parsedURL.Host == "" {
		return nil, fmt.Errorf("proxy URL %s has no host", proxyStr)
	}
	// Ensure Userinfo is correctly parsed if present in host part, e.g. user:pass@host:port
	if parsedURL.User == nil && strings.Contains(parsedURL.Host, "@") {
		parts := strings.SplitN(parsedURL.Host, "@", 2)
		if len(parts) == 2 {
			userInfoStr := parts[0]
			hostStr := parts[1]

			userinfoParts := strings.SplitN(userInfoStr, ":", 2)
			username := userinfoParts[0]
			password := ""
			if len(userinfoParts) > 1 {
				password = userinfoParts[1]
			}
			parsedURL.User = url.UserPassword(username, password)
			parsedURL.Host = hostStr
		} else {
			return nil, fmt.Errorf("malformed user info in proxy string: %s", proxyStr)
		}
	}

	return parsedURL, nil
}

// Func returns a proxy selection function for http.Transport. The same proxy
// is applied to both HTTP and HTTPS traffic. A nil proxyURL yields a function
// that disables proxying entirely (rather than falling back to environment
// proxy settings, which would be hidden process-wide state).
func Func(proxyURL *url.URL) func(*http.Request) (*url.URL, error) {
	if proxyURL == nil {
		return func(*http.Request) (*url.URL, error) { return nil, nil }
	}
	return http.ProxyURL(proxyURL)
}
