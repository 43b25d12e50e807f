package routes

import "strings"

// Clean normalizes a raw page path (relative, slash separated, extension
// stripped) into a public route.
func Clean(route string) string {
	if strings.ContainsAny(route, "()") {
		parts := strings.Split(route, "/")
		kept := parts[:0]
		for _, part := range parts {
			// Route groups only organize files.
			if strings.ContainsAny(part, "()") {
				continue
			}
			kept = append(kept, part)
		}
		route = strings.Join(kept, "/")
	}

	switch {
	case strings.HasSuffix(route, "/page"):
		route = strings.TrimSuffix(route, "/page")
	case route == "page":
		route = ""
	}

	switch {
	case strings.HasSuffix(route, "/index"):
		route = strings.TrimSuffix(route, "/index")
	case route == "index":
		route = ""
	}

	for strings.Contains(route, "//") {
		route = strings.ReplaceAll(route, "//", "/")
	}

	return strings.Trim(route, "/")
}
