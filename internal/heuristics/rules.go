package heuristics

import (
	"fmt"
	"strings"
)

// rule is one atomic suspicion check. Rules are evaluated in table order and
// each contributes at most one flag per email.
type rule struct {
	key    string
	label  string
	weight int
	check  func(e *email) (bool, string)
}

// freeMailDomains are public providers a legitimate business would not send
// transactional mail from.
var freeMailDomains = map[string]bool{
	"gmail.com":      true,
	"yahoo.com":      true,
	"hotmail.com":    true,
	"outlook.com":    true,
	"aol.com":        true,
	"mail.com":       true,
	"gmx.com":        true,
	"proton.me":      true,
	"protonmail.com": true,
	"icloud.com":     true,
	"yandex.com":     true,
}

// suspiciousInfixes are domain fragments typical of lookalike domains
// (amazon-verify.com, paypal-security.net, ...).
var suspiciousInfixes = []string{
	"-verify",
	"-support",
	"-security",
	"-secure",
	"-billing",
	"-account",
	"-update",
	"-official",
	"-login",
	"-alert",
}

// brandDomains maps a brand token to the canonical domains that brand
// legitimately sends from.
var brandDomains = map[string][]string{
	"amazon":        {"amazon.com"},
	"paypal":        {"paypal.com"},
	"apple":         {"apple.com", "icloud.com"},
	"microsoft":     {"microsoft.com", "outlook.com", "live.com"},
	"google":        {"google.com", "gmail.com"},
	"netflix":       {"netflix.com"},
	"facebook":      {"facebook.com"},
	"instagram":     {"instagram.com"},
	"linkedin":      {"linkedin.com"},
	"dropbox":       {"dropbox.com"},
	"docusign":      {"docusign.com", "docusign.net"},
	"chase":         {"chase.com"},
	"wells fargo":   {"wellsfargo.com"},
	"wellsfargo":    {"wellsfargo.com"},
	"bank of america": {"bankofamerica.com"},
	"venmo":         {"venmo.com"},
	"irs":           {"irs.gov"},
	"fedex":         {"fedex.com"},
	"ups":           {"ups.com"},
	"dhl":           {"dhl.com"},
}

// shortenerHosts are known URL-shortener services.
var shortenerHosts = map[string]bool{
	"bit.ly":      true,
	"tinyurl.com": true,
	"goo.gl":      true,
	"t.co":        true,
	"ow.ly":       true,
	"is.gd":       true,
	"buff.ly":     true,
	"rb.gy":       true,
	"cutt.ly":     true,
	"rebrand.ly":  true,
}

// misspellings are common phishing typos and sloppy spellings.
var misspellings = []string{
	"acount",
	"verifiy",
	"immediatly",
	"recieve",
	"securty",
	"pasword",
	"informations",
	"untill",
	"clik here",
	"confirmation needed imediately",
}

// urgencyPhrases pressure the reader into acting without thinking.
var urgencyPhrases = []string{
	"urgent",
	"within 24 hours",
	"within 48 hours",
	"act now",
	"act immediately",
	"immediate action",
	"right away",
	"final notice",
	"expires soon",
	"last chance",
	"suspended",
	"don't delay",
}

// casualPhrases clash with the register of a formal corporate sender.
var casualPhrases = []string{
	"hey there",
	"hey,",
	"wanna",
	"gonna",
	"btw",
	"thx",
	"lol",
	"super quick",
	"real quick",
}

// genericAnchors are anchor texts that hide the destination.
var genericAnchors = []string{
	"click here",
	"click now",
	"tap here",
	"here",
	"this link",
	"login now",
	"verify now",
}

// attachmentKeywords hint at a payload the reader is asked to open.
var attachmentKeywords = []string{
	"attachment",
	"attached",
	"download",
	"open the file",
	".zip",
	".exe",
	".scr",
	".docm",
}

// credentialKeywords ask for data a legitimate sender never requests by mail.
var credentialKeywords = []string{
	"password",
	"passcode",
	"social security",
	"ssn",
	"pin number",
	"your pin",
	"bank account number",
	"credit card number",
	"card details",
	"cvv",
	"security question",
	"login credentials",
	"date of birth",
}

// paymentKeywords signal a payment demand.
var paymentKeywords = []string{
	"invoice",
	"wire transfer",
	"payment required",
	"outstanding payment",
	"amount due",
	"pay now",
	"bitcoin",
	"cryptocurrency",
	"gift card",
	"money order",
}

// threatKeywords signal a threatened negative consequence.
var threatKeywords = []string{
	"suspended",
	"suspension",
	"account will be closed",
	"account closure",
	"legal action",
	"lawsuit",
	"arrest",
	"prosecut",
	"penalty",
	"law enforcement",
	"report you",
}

// ruleTable is the full ordered rule set. Expressing it as data keeps each
// rule independently testable and lets the set evolve without touching the
// aggregation or ranking logic.
var ruleTable = []rule{
	{
		key:    "freemail_sender",
		label:  "Sender uses a free public mail provider",
		weight: 1,
		check: func(e *email) (bool, string) {
			if e.senderDomain == "" {
				return false, ""
			}
			if freeMailDomains[e.senderDomain] {
				return true, e.senderDomain
			}
			return false, ""
		},
	},
	{
		key:    "suspicious_sender_domain",
		label:  "Sender domain looks like a lookalike domain",
		weight: 3,
		check: func(e *email) (bool, string) {
			for _, infix := range suspiciousInfixes {
				if strings.Contains(e.senderDomain, infix) {
					return true, fmt.Sprintf("%q in %s", infix, e.senderDomain)
				}
			}
			return false, ""
		},
	},
	{
		key:    "brand_impersonation",
		label:  "Display name claims a brand the sender domain does not match",
		weight: 2,
		check: func(e *email) (bool, string) {
			if e.senderName == "" || e.senderDomain == "" {
				return false, ""
			}
			name := strings.ToLower(e.senderName)
			for brand, domains := range brandDomains {
				if !strings.Contains(name, brand) {
					continue
				}
				if !domainMatchesBrand(e.senderDomain, domains) {
					return true, fmt.Sprintf("%q sent from %s", e.senderName, e.senderDomain)
				}
			}
			return false, ""
		},
	},
	{
		key:    "misspelling",
		label:  "Contains common misspellings",
		weight: 1,
		check: func(e *email) (bool, string) {
			return containsAny(e.textLower, misspellings)
		},
	},
	{
		key:    "urgent_language",
		label:  "Uses urgent or pressuring language",
		weight: 2,
		check: func(e *email) (bool, string) {
			return containsAny(e.textLower, urgencyPhrases)
		},
	},
	{
		key:    "tone_mismatch",
		label:  "Casual tone clashes with a formal brand mention",
		weight: 2,
		check: func(e *email) (bool, string) {
			casual, detail := containsAny(e.textLower, casualPhrases)
			if !casual {
				return false, ""
			}
			for brand := range brandDomains {
				if strings.Contains(e.textLower, brand) {
					return true, fmt.Sprintf("%s alongside %q", detail, brand)
				}
			}
			return false, ""
		},
	},
	{
		key:    "link_brand_mismatch",
		label:  "Link text names a brand its destination does not belong to",
		weight: 3,
		check: func(e *email) (bool, string) {
			for _, l := range e.links {
				text := strings.ToLower(l.text)
				for brand, domains := range brandDomains {
					if !strings.Contains(text, brand) {
						continue
					}
					if l.host != "" && !domainMatchesBrand(l.host, domains) {
						return true, fmt.Sprintf("%q points to %s", l.text, l.host)
					}
				}
			}
			return false, ""
		},
	},
	{
		key:    "generic_link",
		label:  "Generic link text hides a suspicious destination",
		weight: 3,
		check: func(e *email) (bool, string) {
			for _, l := range e.links {
				text := strings.TrimSpace(strings.ToLower(l.text))
				generic := false
				for _, anchor := range genericAnchors {
					if text == anchor {
						generic = true
						break
					}
				}
				if !generic {
					continue
				}
				if l.scheme != "http" && l.scheme != "https" {
					return true, l.href
				}
				if shortenerHosts[l.host] || isIPHost(l.host) {
					return true, l.href
				}
			}
			return false, ""
		},
	},
	{
		key:    "shortener_link",
		label:  "Links through a URL shortener",
		weight: 2,
		check: func(e *email) (bool, string) {
			for _, l := range e.links {
				if shortenerHosts[l.host] {
					return true, l.host
				}
			}
			return false, ""
		},
	},
	{
		key:    "insecure_link",
		label:  "Contains a link without TLS",
		weight: 2,
		check: func(e *email) (bool, string) {
			for _, l := range e.links {
				if l.scheme == "http" && !isLocalHost(l.host) {
					return true, l.href
				}
			}
			return false, ""
		},
	},
	{
		key:    "attachment_mention",
		label:  "Pushes the reader toward an attachment or download",
		weight: 3,
		check: func(e *email) (bool, string) {
			return containsAny(e.textLower, attachmentKeywords)
		},
	},
	{
		key:    "credential_request",
		label:  "Asks for credentials or sensitive personal data",
		weight: 3,
		check: func(e *email) (bool, string) {
			return containsAny(e.textLower, credentialKeywords)
		},
	},
	{
		key:    "payment_request",
		label:  "Demands a payment",
		weight: 3,
		check: func(e *email) (bool, string) {
			return containsAny(e.textLower, paymentKeywords)
		},
	},
	{
		key:    "threat_language",
		label:  "Threatens a negative consequence",
		weight: 3,
		check: func(e *email) (bool, string) {
			return containsAny(e.textLower, threatKeywords)
		},
	},
}

// containsAny returns the first needle found in haystack.
func containsAny(haystack string, needles []string) (bool, string) {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true, fmt.Sprintf("%q", n)
		}
	}
	return false, ""
}

// domainMatchesBrand reports whether host is one of the brand's canonical
// domains or a subdomain of one.
func domainMatchesBrand(host string, domains []string) bool {
	host = strings.ToLower(host)
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// isLocalHost reports whether host refers to the local machine. Insecure
// localhost links are common in development fixtures and are not flagged.
func isLocalHost(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1" ||
		strings.HasSuffix(host, ".localhost")
}

// isIPHost reports whether host is a bare IPv4 address.
func isIPHost(host string) bool {
	if host == "" {
		return false
	}
	parts := strings.Split(host, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
