// Package urlutil implements the URL-or-search heuristics used by command
// input: deciding whether typed text is a URL, a local file or a search
// query, and rewriting URLs for increment/decrement and path-up
// navigation.
package urlutil

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// InvalidURLError is returned when input cannot be turned into a URL
type InvalidURLError struct {
	Input  string
	Reason string
}

func (e *InvalidURLError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid URL %q", e.Input)
	}
	return fmt.Sprintf("invalid URL %q: %s", e.Input, e.Reason)
}

// Options controls FuzzyURL resolution
type Options struct {
	// ForceSearch treats the input as a search query even if it looks
	// like a URL or an existing path.
	ForceSearch bool

	// SearchEngines maps engine names to templates containing {}.
	// The "DEFAULT" entry is used when no engine prefix matches.
	SearchEngines map[string]string
}

var knownSchemes = map[string]bool{
	"http":    true,
	"https":   true,
	"file":    true,
	"ftp":     true,
	"about":   true,
	"data":    true,
	"tabdeck": true,
}

// IsURL reports whether input looks like a URL rather than a search term
func IsURL(input string) bool {
	s := strings.TrimSpace(input)
	if s == "" {
		return false
	}
	if strings.ContainsAny(s, " \t") {
		return false
	}
	if u, err := url.Parse(s); err == nil && knownSchemes[u.Scheme] {
		return true
	}
	host := s
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	if host == "localhost" {
		return true
	}
	// A dotted name with a non-empty last label passes for a host
	if strings.Contains(host, ".") && !strings.HasSuffix(host, ".") &&
		!strings.HasPrefix(host, ".") {
		return true
	}
	return false
}

// PathIfValid returns the absolute path if input names a local file,
// or "" otherwise. With checkExists the file must actually exist.
func PathIfValid(input string, checkExists bool) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		s = filepath.Join(home, strings.TrimPrefix(s, "~"))
	}
	if !filepath.IsAbs(s) && !strings.HasPrefix(s, "./") && !strings.HasPrefix(s, "../") {
		return ""
	}
	abs, err := filepath.Abs(s)
	if err != nil {
		return ""
	}
	if checkExists {
		if _, err := os.Stat(abs); err != nil {
			return ""
		}
	}
	return abs
}

// FuzzyURL turns user input into an openable URL: a real URL, a file://
// URL for an existing path, or a search engine query.
func FuzzyURL(input string, opts Options) (*url.URL, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, &InvalidURLError{Input: input, Reason: "empty input"}
	}

	if opts.ForceSearch {
		return SearchURL(s, opts.SearchEngines)
	}

	if path := PathIfValid(s, true); path != "" {
		return &url.URL{Scheme: "file", Path: path}, nil
	}

	if IsURL(s) {
		u, err := url.Parse(s)
		if err != nil {
			return nil, &InvalidURLError{Input: input, Reason: err.Error()}
		}
		if u.Scheme == "" {
			u, err = url.Parse("http://" + s)
			if err != nil {
				return nil, &InvalidURLError{Input: input, Reason: err.Error()}
			}
		}
		if u.Host == "" && u.Scheme != "file" && u.Scheme != "about" &&
			u.Scheme != "data" && u.Scheme != "tabdeck" {
			return nil, &InvalidURLError{Input: input, Reason: "no host"}
		}
		return u, nil
	}

	return SearchURL(s, opts.SearchEngines)
}

// SearchURL builds a search engine URL for the given term. A first word
// naming a configured engine selects it, otherwise DEFAULT is used.
func SearchURL(term string, engines map[string]string) (*url.URL, error) {
	if len(engines) == 0 {
		return nil, &InvalidURLError{Input: term, Reason: "no search engines configured"}
	}

	engine := "DEFAULT"
	query := term
	if first, rest, ok := strings.Cut(term, " "); ok {
		if _, found := engines[first]; found && first != "DEFAULT" {
			engine = first
			query = rest
		}
	}

	template, ok := engines[engine]
	if !ok {
		return nil, &InvalidURLError{Input: term, Reason: "no DEFAULT search engine"}
	}

	raw := strings.Replace(template, "{}", url.QueryEscape(query), 1)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &InvalidURLError{Input: term, Reason: err.Error()}
	}
	return u, nil
}

// Domain returns scheme://host[:port] for the given URL
func Domain(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// YankURL renders the URL for yanking: password stripped, configured
// query parameters removed. With pretty the URL is shown in decoded
// form.
func YankURL(u *url.URL, pretty bool, ignoredParams []string) string {
	c := *u
	if c.User != nil {
		// Keep the username, drop the password
		c.User = url.User(c.User.Username())
	}
	c.RawQuery = filterQuery(c.RawQuery, ignoredParams)
	if pretty {
		decoded, err := url.QueryUnescape(c.String())
		if err == nil {
			return decoded
		}
	}
	return c.String()
}

// filterQuery removes the named keys from a raw query string while
// preserving parameter order. Queries using ';' as a delimiter (and no
// '&') keep that delimiter.
func filterQuery(rawQuery string, ignored []string) string {
	if rawQuery == "" || len(ignored) == 0 {
		return rawQuery
	}
	delim := "&"
	if !strings.Contains(rawQuery, "&") && strings.Contains(rawQuery, ";") {
		delim = ";"
	}
	drop := make(map[string]bool, len(ignored))
	for _, k := range ignored {
		drop[k] = true
	}
	parts := strings.Split(rawQuery, delim)
	kept := parts[:0]
	for _, p := range parts {
		key := p
		if i := strings.Index(p, "="); i >= 0 {
			key = p[:i]
		}
		if unescaped, err := url.QueryUnescape(key); err == nil {
			key = unescaped
		}
		if !drop[key] {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, delim)
}
