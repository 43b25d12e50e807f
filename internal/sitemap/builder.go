// Package sitemap turns classified routes into a sitemap document and
// reads previously written sitemaps back.
package sitemap

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/romangod6/route-sitemap/internal/classify"
	"github.com/romangod6/route-sitemap/internal/models"
	"golang.org/x/net/idna"
)

// DateLayout is the lastmod format (W3C date, day precision).
const DateLayout = "2006-01-02"

var ErrInvalidBaseURL = errors.New("base URL must be absolute")

// hostProfile is idna.Lookup without the STD3 hostname rules, so internal
// hosts such as my_host still resolve.
var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.BidiRule(),
	idna.StrictDomainName(false),
)

// ParseBaseURL validates base and returns it with an ASCII host.
func ParseBaseURL(base string) (*url.URL, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, base)
	}

	hostname := u.Hostname()
	if net.ParseIP(hostname) == nil {
		ascii, err := hostProfile.ToASCII(hostname)
		if err != nil {
			return nil, fmt.Errorf("%w: host %q: %v", ErrInvalidBaseURL, hostname, err)
		}
		hostname = ascii
	}

	switch {
	case u.Port() != "":
		u.Host = net.JoinHostPort(hostname, u.Port())
	case strings.Contains(hostname, ":"):
		u.Host = "[" + hostname + "]"
	default:
		u.Host = hostname
	}

	return u, nil
}

// Build creates one entry per route, in the given order.
func Build(routes []string, table *classify.Table, baseURL string, now time.Time) (*models.URLSet, error) {
	base, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	lastMod := now.Format(DateLayout)
	set := models.NewURLSet()
	set.URLs = make([]models.URL, 0, len(routes))

	for _, route := range routes {
		class := table.Classify(route)
		set.URLs = append(set.URLs, models.URL{
			Loc:        Resolve(base, route),
			LastMod:    lastMod,
			ChangeFreq: string(class.ChangeFreq),
			Priority:   class.Priority,
		})
	}

	return set, nil
}

// Resolve joins route onto base using RFC 3986 reference resolution. The
// empty route resolves to base itself.
func Resolve(base *url.URL, route string) string {
	return base.ResolveReference(&url.URL{Path: route}).String()
}
