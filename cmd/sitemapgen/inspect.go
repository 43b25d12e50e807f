package main

import (
	"fmt"
	"sort"

	"github.com/romangod6/route-sitemap/internal/models"
	"github.com/romangod6/route-sitemap/internal/sitemap"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [sitemap.xml]",
	Short: "Summarize an existing sitemap and compare it with the source tree",
	Long: `Read a sitemap file (the configured output by default), print totals per
change frequency and priority, and list locs that would be added or removed
by the next generation.

Examples:
  sitemapgen inspect
  sitemapgen inspect public/sitemap.xml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	path := a.gen.OutputPath()
	if len(args) == 1 {
		path = args[0]
	}

	current, err := sitemap.ReadFile(path)
	if err != nil {
		a.logger.LogError("Error reading sitemap %s: %v", path, err)
		return err
	}
	if current == nil {
		return fmt.Errorf("no sitemap at %s", path)
	}

	urls, err := a.gen.Preview(cmd.Context())
	if err != nil {
		a.logger.LogError("Error discovering routes: %v", err)
		return err
	}
	added, removed := sitemap.Diff(current, &models.URLSet{URLs: urls})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sitemap: %s\n", path)
	fmt.Fprintf(out, "Total URLs: %d\n\n", len(current.URLs))

	printCounts(cmd, "Change frequency", current.URLs, func(u models.URL) string { return u.ChangeFreq })
	printCounts(cmd, "Priority", current.URLs, func(u models.URL) string { return u.Priority })

	fmt.Fprintf(out, "Pending changes: %d added, %d removed\n", len(added), len(removed))
	for _, loc := range added {
		fmt.Fprintf(out, "  + %s\n", loc)
	}
	for _, loc := range removed {
		fmt.Fprintf(out, "  - %s\n", loc)
	}
	return nil
}

func printCounts(cmd *cobra.Command, title string, urls []models.URL, key func(models.URL) string) {
	counts := make(map[string]int)
	for _, u := range urls {
		counts[key(u)]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s:\n", title)
	for _, k := range keys {
		label := k
		if label == "" {
			label = "(unset)"
		}
		fmt.Fprintf(out, "  %-8s %d\n", label, counts[k])
	}
	fmt.Fprintln(out)
}
