// internal/models/sitemap.go
package models

import "encoding/xml"

// SitemapNamespace is the schema every generated urlset declares.
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URLSet represents the root of an XML sitemap.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr,omitempty"`
	URLs    []URL    `xml:"url"`
}

// URL represents a single URL entry in the sitemap.
type URL struct {
	Loc        string `xml:"loc" json:"loc"`
	LastMod    string `xml:"lastmod,omitempty" json:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty" json:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty" json:"priority,omitempty"`
}

// NewURLSet returns an empty urlset bound to the sitemap namespace.
func NewURLSet() *URLSet {
	return &URLSet{Xmlns: SitemapNamespace}
}

// Locs returns the loc of every entry in document order.
func (s *URLSet) Locs() []string {
	locs := make([]string, 0, len(s.URLs))
	for _, u := range s.URLs {
		locs = append(locs, u.Loc)
	}
	return locs
}
