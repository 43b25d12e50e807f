package main

import (
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the sitemap once and exit",
	Long: `Discover routes, classify them and write the sitemap file.

Exits with a non-zero status if discovery, serialization or the write fails;
no partial sitemap is left behind.

Examples:
  sitemapgen generate
  sitemapgen generate --config deploy/sitemap.yaml -v`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	_, err = a.gen.Generate(cmd.Context())
	return err
}
