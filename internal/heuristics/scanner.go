package heuristics

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/phishdrill/phishdrill/internal/core"
)

// email is the parsed view of one message the rule table evaluates against.
type email struct {
	senderEmail  string
	senderName   string
	senderDomain string
	textLower    string // subject + body, lowercased, markup stripped
	links        []link
}

// link is one hyperlink found in the body markup.
type link struct {
	href   string
	text   string
	scheme string
	host   string
}

var (
	anchorRe  = regexp.MustCompile(`(?is)<a\s[^>]*href\s*=\s*["']([^"']+)["'][^>]*>(.*?)</a>`)
	bareURLRe = regexp.MustCompile(`(?i)\bhttps?://[^\s"'<>]+`)
	tagRe     = regexp.MustCompile(`(?s)<[^>]+>`)
)

// Scanner evaluates the fixed rule table against an email's content. It is
// stateless and safe for concurrent use.
type Scanner struct{}

// NewScanner creates a new rule scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan runs every rule in table order and returns the triggered flags in
// detection order. No rule contributes more than one flag per call.
func (s *Scanner) Scan(subject, bodyMarkup, senderEmail, senderName string) []core.Flag {
	e := parseEmail(subject, bodyMarkup, senderEmail, senderName)

	var flags []core.Flag
	for _, r := range ruleTable {
		hit, detail := r.check(e)
		if !hit {
			continue
		}
		flags = append(flags, core.Flag{
			Key:    r.key,
			Label:  r.label,
			Detail: detail,
			Weight: r.weight,
		})
	}
	return flags
}

// parseEmail builds the scan view: lowercased text with markup stripped,
// the sender domain, and every link in the body.
func parseEmail(subject, bodyMarkup, senderEmail, senderName string) *email {
	e := &email{
		senderEmail: senderEmail,
		senderName:  senderName,
	}

	if at := strings.LastIndex(senderEmail, "@"); at >= 0 && at < len(senderEmail)-1 {
		e.senderDomain = strings.ToLower(senderEmail[at+1:])
	}

	plain := tagRe.ReplaceAllString(bodyMarkup, " ")
	e.textLower = strings.ToLower(subject + " " + plain)

	seen := make(map[string]bool)
	for _, m := range anchorRe.FindAllStringSubmatch(bodyMarkup, -1) {
		href, text := m[1], strings.TrimSpace(tagRe.ReplaceAllString(m[2], " "))
		e.links = append(e.links, parseLink(href, text))
		seen[href] = true
	}
	// Bare URLs outside of anchors count as links too.
	for _, href := range bareURLRe.FindAllString(tagRe.ReplaceAllString(bodyMarkup, " "), -1) {
		href = strings.TrimRight(href, ".,;:)")
		if !seen[href] {
			e.links = append(e.links, parseLink(href, ""))
			seen[href] = true
		}
	}

	return e
}

func parseLink(href, text string) link {
	l := link{href: href, text: text}
	if u, err := url.Parse(strings.TrimSpace(href)); err == nil {
		l.scheme = strings.ToLower(u.Scheme)
		l.host = strings.ToLower(u.Hostname())
	}
	return l
}
