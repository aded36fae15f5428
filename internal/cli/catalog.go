package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/existflow/ironlist/internal/dispatch"
	"github.com/existflow/ironlist/internal/view"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Aliases: []string{"products"},
	Short:   "List products that can be added to the cart",
	Long: `List the product catalog, optionally limited to one category.

The catalog is read from products.json in the data directory, or from
catalog_path in the config file.

Examples:
  ironlist catalog
  ironlist catalog --category drinks`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

var catalogCategory string

func init() {
	catalogCmd.Flags().StringVarP(&catalogCategory, "category", "c", "", "Only show this category")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *dispatch.App) error {
		w := cmd.OutOrStdout()

		if app.Catalog.Len() == 0 {
			fmt.Fprintf(w, "No products. Put a catalog at %s\n", cfg.Catalog())
			return nil
		}

		products := app.Catalog.ByCategory(catalogCategory)
		title := "all"
		if catalogCategory != "" {
			title = catalogCategory
		}

		fmt.Fprintf(w, "\n🏷  Products [%s]  categories: %s\n", title, strings.Join(app.Catalog.Categories(), ", "))
		fmt.Fprintln(w, strings.Repeat("─", 60))
		if len(products) == 0 {
			fmt.Fprintln(w, "  No products in this category.")
		}
		for _, p := range products {
			fmt.Fprintf(w, "  %-6s  %-28s  %-12s  %s\n", p.ID, p.Name, view.FormatMoney(cfg.Currency, p.Price), p.Category)
		}
		fmt.Fprintln(w)
		return nil
	})
}
