package antispam

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"roster-bot/model"

	"github.com/samber/lo"
)

var urlPattern = regexp.MustCompile(`(?i)\bhttps?://[^\s<>]+`)

// ExtractURLs returns every URL carried by a message: links in the text,
// attachment URLs and embed link/image/thumbnail URLs, without duplicates.
func ExtractURLs(msg model.MessagePosted) []string {
	var urls []string
	for _, m := range urlPattern.FindAllString(msg.Content, -1) {
		urls = append(urls, strings.TrimRight(m, ".,;:!?)]}'\"*_~|>"))
	}
	urls = append(urls, msg.AttachmentURLs...)
	urls = append(urls, msg.EmbedURLs...)

	urls = lo.Filter(urls, func(u string, _ int) bool { return strings.TrimSpace(u) != "" })
	return lo.Uniq(urls)
}

// NormalizeDomain lowercases a host name, drops any port and trailing dot,
// and strips a leading "www.".
func NormalizeDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(host, ".")
	return strings.TrimPrefix(host, "www.")
}

// DomainOf returns the normalized domain of rawURL. It reports false for
// URLs that do not parse or carry no host.
func DomainOf(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	return NormalizeDomain(u.Hostname()), true
}

// IsWhitelisted reports whether domain equals a whitelist entry or is a
// subdomain of one.
func IsWhitelisted(domain string, whitelist []string) bool {
	domain = NormalizeDomain(domain)
	return lo.SomeBy(whitelist, func(entry string) bool {
		entry = NormalizeDomain(entry)
		if entry == "" {
			return false
		}
		return domain == entry || strings.HasSuffix(domain, "."+entry)
	})
}

// Offending returns the URLs whose domain is not whitelisted. URLs that fail
// to parse are skipped.
func Offending(urls []string, whitelist []string) []string {
	return lo.Filter(urls, func(raw string, _ int) bool {
		domain, ok := DomainOf(raw)
		return ok && !IsWhitelisted(domain, whitelist)
	})
}
