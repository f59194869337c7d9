package identity

import (
	"net/url"
	"regexp"
	"strings"
)

// Resolver derives the stable conversation id for a page. The overlay
// reports the page URL it is running on; everything page-specific stays
// behind this interface.
type Resolver interface {
	Resolve(pageURL string) (string, error)
}

const (
	// maxFallbackIDLen caps sanitized-URL ids so they stay usable as
	// document names in the remote store.
	maxFallbackIDLen = 200

	// DefaultConversationID is used when a page yields no usable id at
	// all (e.g. an empty URL after sanitizing).
	DefaultConversationID = "default_page"
)

var (
	messengerThreadRe = regexp.MustCompile(`/t/(\d+)`)
	discordChannelRe  = regexp.MustCompile(`/channels/(\d+)/(\d+)`)
	nonAlnumRe        = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// URLResolver resolves conversation ids from URL shape alone. Sites whose
// conversation identity is only visible in the DOM need their own
// Resolver in the overlay layer.
type URLResolver struct{}

func NewURLResolver() *URLResolver { return &URLResolver{} }

func (*URLResolver) Resolve(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}

	// Messenger-style thread URLs: /t/<digits>
	if m := messengerThreadRe.FindStringSubmatch(u.Path); m != nil {
		return m[1], nil
	}

	// Discord-style channel URLs: /channels/<server>/<channel>
	if m := discordChannelRe.FindStringSubmatch(u.Path); m != nil {
		return "discord_" + m[1] + "_" + m[2], nil
	}

	return sanitizeURL(pageURL), nil
}

// sanitizeURL turns an arbitrary URL into a storable id: protocol and
// fragment dropped, every other non-alphanumeric collapsed to an
// underscore, length capped.
func sanitizeURL(raw string) string {
	s := raw
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.Index(s, "#"); i >= 0 {
		s = s[:i]
	}
	s = nonAlnumRe.ReplaceAllString(s, "_")
	if len(s) > maxFallbackIDLen {
		s = s[:maxFallbackIDLen]
	}
	if s == "" {
		return DefaultConversationID
	}
	return s
}

// SiteKey is the key a site's position set is stored under inside the
// remote settings document. The prefix is kept for compatibility with
// documents written by earlier clients.
func SiteKey(hostname string) string {
	return "uiPositions_" + hostname
}

// SiteOf extracts the hostname a position set is scoped to.
func SiteOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
