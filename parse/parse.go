// Package parse extracts IPv4 ranges, CIDR blocks and single addresses
// from free-form text.
package parse

import (
	"bufio"
	"io"
	"regexp"

	"github.com/pkg/errors"

	"github.com/iamainow/routes/common"
	"github.com/iamainow/routes/net/address"
)

const (
	maxLine   = 1 << 20
	ipPattern = `\d{1,3}(?:\.\d{1,3}){3}`
)

var (
	// token matches "a.b.c.d-a.b.c.d", "a.b.c.d/n" or "a.b.c.d"; the
	// submatches are the first address, the last address and the prefix.
	token = regexp.MustCompile(`(` + ipPattern + `)(?:\s*-\s*(` + ipPattern + `)|/(\d{1,3}))?`)
)

// Parse returns the ranges found in text, in order of appearance.
// Malformed tokens are skipped.
func Parse(text string) []address.Range {
	return appendTokens(nil, text)
}

// ParseReader is Parse for line-oriented input. A token never spans lines.
func ParseReader(r io.Reader) ([]address.Range, error) {
	var ranges []address.Range
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		ranges = appendTokens(ranges, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return ranges, errors.Wrap(err, "reading ranges")
	}
	return ranges, nil
}

func appendTokens(dst []address.Range, text string) []address.Range {
	for _, loc := range token.FindAllStringSubmatchIndex(text, -1) {
		match := text[loc[0]:loc[1]]
		if !delimited(text, loc[0], loc[1]) {
			common.Log.Debugf("[parse] skipping %q: part of a longer number", match)
			continue
		}
		r, err := parseToken(group(text, loc, 1), group(text, loc, 2), group(text, loc, 3))
		if err != nil {
			common.Log.Debugf("[parse] skipping %q: %s", match, err)
			continue
		}
		dst = append(dst, r)
	}
	return dst
}

func group(text string, loc []int, i int) string {
	if loc[2*i] < 0 {
		return ""
	}
	return text[loc[2*i]:loc[2*i+1]]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// delimited reports whether text[start:end] is not glued to more digits,
// either directly or across a dot ("11234.5.6.7", "1.2.3.4.5"). A dot
// followed by something else is punctuation.
func delimited(text string, start, end int) bool {
	if start > 0 {
		c := text[start-1]
		if isDigit(c) || (c == '.' && start > 1 && isDigit(text[start-2])) {
			return false
		}
	}
	if end < len(text) {
		c := text[end]
		if isDigit(c) || (c == '.' && end+1 < len(text) && isDigit(text[end+1])) {
			return false
		}
	}
	return true
}

func parseToken(first, last, prefix string) (address.Range, error) {
	switch {
	case last != "":
		return address.ParseRange(first + "-" + last)
	case prefix != "":
		_, subnet, err := address.ParseCIDR(first + "/" + prefix)
		if err != nil {
			return address.Range{}, err
		}
		return subnet.Range(), nil
	default:
		addr, err := address.ParseIP(first)
		if err != nil {
			return address.Range{}, err
		}
		return address.Single(addr), nil
	}
}
