package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List discovered routes with their priority and change frequency",
	Long: `Print the entries the next sitemap would contain without writing it.

Examples:
  sitemapgen routes
  sitemapgen routes --config config/staging.yaml`,
	Args: cobra.NoArgs,
	RunE: runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)
}

func runRoutes(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	urls, err := a.gen.Preview(cmd.Context())
	if err != nil {
		a.logger.LogError("Error discovering routes: %v", err)
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LOC\tPRIORITY\tCHANGEFREQ")
	for _, u := range urls {
		fmt.Fprintf(w, "%s\t%s\t%s\n", u.Loc, u.Priority, u.ChangeFreq)
	}
	return w.Flush()
}
