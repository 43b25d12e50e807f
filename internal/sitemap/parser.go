package sitemap

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/romangod6/route-sitemap/internal/models"
)

// Parse decodes a sitemap document.
func Parse(r io.Reader) (*models.URLSet, error) {
	var set models.URLSet
	if err := xml.NewDecoder(r).Decode(&set); err != nil {
		return nil, fmt.Errorf("decode sitemap: %w", err)
	}
	return &set, nil
}

// ReadFile parses the sitemap at path. A missing file yields (nil, nil).
func ReadFile(path string) (*models.URLSet, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Diff lists the locs present only in next (added) and only in prev
// (removed), each in document order. A nil prev counts as empty.
func Diff(prev, next *models.URLSet) (added, removed []string) {
	before := make(map[string]bool)
	if prev != nil {
		for _, u := range prev.URLs {
			before[u.Loc] = true
		}
	}

	after := make(map[string]bool)
	if next != nil {
		for _, u := range next.URLs {
			after[u.Loc] = true
			if !before[u.Loc] {
				added = append(added, u.Loc)
			}
		}
	}

	if prev != nil {
		for _, u := range prev.URLs {
			if !after[u.Loc] {
				removed = append(removed, u.Loc)
			}
		}
	}

	return added, removed
}
