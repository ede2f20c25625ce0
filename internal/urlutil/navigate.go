package urlutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// NavigateError is returned when a URL rewrite cannot be performed
type NavigateError struct {
	Msg string
}

func (e *NavigateError) Error() string { return e.Msg }

// Segment order matches the original lookup priority
var incdecOrder = []string{"port", "path", "query", "anchor"}

var lastNumberRe = regexp.MustCompile(`(\d+)(\D*)$`)

// Incdec increments or decrements the last number found in the URL.
// Which URL segments are searched is configurable; the first enabled
// segment containing a number wins. delta is negative for decrement.
func Incdec(u *url.URL, delta int, segments []string) (*url.URL, error) {
	if delta == 0 {
		return nil, &NavigateError{Msg: "no count given for increment"}
	}

	enabled := make(map[string]bool, len(segments))
	for _, s := range segments {
		enabled[s] = true
	}

	c := *u
	for _, seg := range incdecOrder {
		if !enabled[seg] {
			continue
		}
		switch seg {
		case "port":
			if p := c.Port(); p != "" {
				n, err := strconv.Atoi(p)
				if err != nil {
					continue
				}
				n += delta
				if n < 0 {
					return nil, &NavigateError{Msg: "number would go below zero"}
				}
				c.Host = c.Hostname() + ":" + strconv.Itoa(n)
				return &c, nil
			}
		case "path":
			if out, ok, err := incdecString(c.Path, delta); err != nil {
				return nil, err
			} else if ok {
				c.Path = out
				c.RawPath = ""
				return &c, nil
			}
		case "query":
			if out, ok, err := incdecString(c.RawQuery, delta); err != nil {
				return nil, err
			} else if ok {
				c.RawQuery = out
				return &c, nil
			}
		case "anchor":
			if out, ok, err := incdecString(c.Fragment, delta); err != nil {
				return nil, err
			} else if ok {
				c.Fragment = out
				c.RawFragment = ""
				return &c, nil
			}
		}
	}

	return nil, &NavigateError{Msg: fmt.Sprintf("no number found in %s", u.String())}
}

// incdecString adjusts the last number in s by delta, preserving zero
// padding. Reports whether a number was found.
func incdecString(s string, delta int) (string, bool, error) {
	m := lastNumberRe.FindStringSubmatchIndex(s)
	if m == nil {
		return "", false, nil
	}
	numStr := s[m[2]:m[3]]
	n, err := strconv.Atoi(numStr)
	if err != nil {
		// Number too large for int
		return "", false, &NavigateError{Msg: "number too large"}
	}
	n += delta
	if n < 0 {
		return "", false, &NavigateError{Msg: "number would go below zero"}
	}
	out := strconv.Itoa(n)
	if len(numStr) > 1 && numStr[0] == '0' {
		out = fmt.Sprintf("%0*d", len(numStr), n)
	}
	return s[:m[2]] + out + s[m[3]:], true, nil
}

// PathUp goes up the given number of levels in the URL path. Query and
// fragment are dropped.
func PathUp(u *url.URL, levels int) (*url.URL, error) {
	if levels < 1 {
		levels = 1
	}
	c := *u
	c.RawQuery = ""
	c.Fragment = ""
	c.RawFragment = ""

	old := c.Path
	p := c.Path
	for i := 0; i < levels; i++ {
		p = strings.TrimSuffix(p, "/")
		idx := strings.LastIndex(p, "/")
		if idx < 0 {
			p = "/"
			break
		}
		p = p[:idx+1]
	}
	if p == "" {
		p = "/"
	}
	if p == old {
		return nil, &NavigateError{Msg: "can't go up any further"}
	}
	c.Path = p
	c.RawPath = ""
	return &c, nil
}
