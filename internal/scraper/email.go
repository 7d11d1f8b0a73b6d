package scraper

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const emailExpr = `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`

var (
	emailPattern = regexp.MustCompile(`(?i)` + emailExpr)
	emailExact   = regexp.MustCompile(`(?i)^` + emailExpr + `$`)
)

// IsEmail reports whether s is a single well-formed email address
func IsEmail(s string) bool {
	return emailExact.MatchString(s)
}

// ExtractEmails returns the sorted set of email addresses found in a page.
// Addresses come from mailto links and from a scan of the raw markup.
func ExtractEmails(html string) []string {
	seen := make(map[string]bool)

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			if addr, ok := mailtoAddress(href); ok {
				seen[addr] = true
			}
		})
	}

	for _, addr := range emailPattern.FindAllString(html, -1) {
		seen[addr] = true
	}

	emails := make([]string, 0, len(seen))
	for addr := range seen {
		emails = append(emails, addr)
	}
	sort.Strings(emails)
	return emails
}

// mailtoAddress extracts the address of a mailto link, e.g.
// "mailto:owner@example.com?subject=Hi" -> "owner@example.com"
func mailtoAddress(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if len(href) < len("mailto:") || !strings.EqualFold(href[:len("mailto:")], "mailto:") {
		return "", false
	}

	addr := href[len("mailto:"):]
	if i := strings.IndexByte(addr, '?'); i >= 0 {
		addr = addr[:i]
	}
	if unescaped, err := url.PathUnescape(addr); err == nil {
		addr = unescaped
	}
	addr = strings.TrimSpace(addr)

	if !IsEmail(addr) {
		return "", false
	}
	return addr, true
}
