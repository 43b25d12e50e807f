// Package routes finds page files in a file-based routing tree and derives
// the public route each one serves.
package routes

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Options controls which files count as pages and which routes are dropped.
type Options struct {
	// PageName is the file name, without extension, that defines a page.
	PageName string
	// Extensions lists accepted page extensions, each with its leading dot.
	Extensions []string
	// Exclude drops every route that starts with one of these prefixes.
	Exclude []string
}

// DefaultOptions matches the Next.js app router conventions.
func DefaultOptions() Options {
	return Options{
		PageName:   "page",
		Extensions: []string{".tsx", ".ts", ".jsx", ".js"},
	}
}

// Discover walks root and returns the sorted, deduplicated set of static
// routes defined under it. The site root ("") is always present.
func Discover(root string, opts Options) ([]string, error) {
	if opts.PageName == "" {
		opts.PageName = "page"
	}

	seen := map[string]struct{}{"": {}}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}
		if d.IsDir() || !opts.isPage(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}

		route := strings.TrimSuffix(rel, filepath.Ext(rel))
		route = filepath.ToSlash(route)

		if IsDynamic(route) {
			return nil
		}

		route = Clean(route)
		if opts.excluded(route) {
			return nil
		}

		seen[route] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	found := make([]string, 0, len(seen))
	for route := range seen {
		found = append(found, route)
	}
	sort.Strings(found)

	return found, nil
}

// IsDynamic reports whether a raw route contains a bracketed parameter segment.
func IsDynamic(route string) bool {
	return strings.ContainsAny(route, "[]")
}

func (o Options) isPage(name string) bool {
	ext := filepath.Ext(name)
	if strings.TrimSuffix(name, ext) != o.PageName {
		return false
	}
	for _, allowed := range o.Extensions {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}

func (o Options) excluded(route string) bool {
	for _, prefix := range o.Exclude {
		if strings.HasPrefix(route, prefix) {
			return true
		}
	}
	return false
}
