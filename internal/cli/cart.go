package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/existflow/ironlist/internal/dispatch"
	"github.com/existflow/ironlist/internal/model"
	"github.com/existflow/ironlist/internal/view"
	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the shopping cart",
	Long: `Manage the shopping cart. Products come from the catalog; see 'ironlist catalog'.

Examples:
  ironlist cart add 1
  ironlist cart inc 1
  ironlist cart show`,
	Args: cobra.NoArgs,
	RunE: runCartShow,
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart",
	Args:  cobra.NoArgs,
	RunE:  runCartShow,
}

var cartAddCmd = &cobra.Command{
	Use:   "add [product-id]",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartAdd,
}

var cartIncCmd = &cobra.Command{
	Use:   "inc [product-id]",
	Short: "Increase a line's quantity by one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCartQuantity(cmd, args[0], 1)
	},
}

var cartDecCmd = &cobra.Command{
	Use:   "dec [product-id]",
	Short: "Decrease a line's quantity by one, removing it at zero",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCartQuantity(cmd, args[0], -1)
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:     "rm [product-id]",
	Aliases: []string{"remove"},
	Short:   "Remove a line from the cart",
	Args:    cobra.ExactArgs(1),
	RunE:    runCartRemove,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE:  runCartClear,
}

var cartCheckoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place the order and empty the cart",
	Args:  cobra.NoArgs,
	RunE:  runCartCheckout,
}

func init() {
	cartClearCmd.Flags().Bool("force", false, "Do not ask for confirmation")

	cartCmd.AddCommand(cartShowCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartIncCmd)
	cartCmd.AddCommand(cartDecCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartClearCmd)
	cartCmd.AddCommand(cartCheckoutCmd)
}

func runCartShow(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *dispatch.App) error {
		printCartView(cmd.OutOrStdout(), app.Cart.View())
		return nil
	})
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *dispatch.App) error {
		v, err := app.Cart.Dispatch(ctx, dispatch.AddToCart{ProductID: model.ParseProductID(args[0])})
		if errors.Is(err, model.ErrCatalogLookup) {
			return fmt.Errorf("product %s is not in the catalog", args[0])
		}
		if v.Notice != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "🛒 %s\n", v.Notice)
		}
		printCartView(cmd.OutOrStdout(), v)
		return dispatchErr(cmd, err)
	})
}

func runCartQuantity(cmd *cobra.Command, id string, delta int) error {
	return withApp(cmd, func(ctx context.Context, app *dispatch.App) error {
		if !inCart(app, model.ParseProductID(id)) {
			return fmt.Errorf("product %s is not in the cart", id)
		}
		v, err := app.Cart.Dispatch(ctx, dispatch.UpdateQuantity{ID: model.ParseProductID(id), Delta: delta})
		printCartView(cmd.OutOrStdout(), v)
		return dispatchErr(cmd, err)
	})
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *dispatch.App) error {
		id := model.ParseProductID(args[0])
		if !inCart(app, id) {
			return fmt.Errorf("product %s is not in the cart", id)
		}
		v, err := app.Cart.Dispatch(ctx, dispatch.RemoveFromCart{ID: id})
		printCartView(cmd.OutOrStdout(), v)
		return dispatchErr(cmd, err)
	})
}

func runCartClear(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	if cfg.ConfirmClear && !force {
		fmt.Fprint(cmd.OutOrStdout(), "Are you sure you want to empty the cart? (y/N): ")
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if strings.ToLower(strings.TrimSpace(response)) != "y" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	return withApp(cmd, func(ctx context.Context, app *dispatch.App) error {
		_, err := app.Cart.Dispatch(ctx, dispatch.ClearCart{})
		fmt.Fprintln(cmd.OutOrStdout(), "🧹 Cart emptied")
		return dispatchErr(cmd, err)
	})
}

func runCartCheckout(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *dispatch.App) error {
		before := app.Cart.View()
		_, err := app.Cart.Dispatch(ctx, dispatch.Checkout{})
		if errors.Is(err, model.ErrEmptyCart) {
			return fmt.Errorf("your cart is empty")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Order placed: %d item(s), %s\n", before.ItemCount, before.Total)
		return dispatchErr(cmd, err)
	})
}

func inCart(app *dispatch.App, id model.ProductID) bool {
	for _, it := range app.Cart.Items() {
		if it.ID == id {
			return true
		}
	}
	return false
}

func printCartView(w io.Writer, v view.CartView) {
	fmt.Fprintf(w, "\n🛒 Cart (%d item(s))\n", v.ItemCount)
	fmt.Fprintln(w, strings.Repeat("─", 60))

	if v.Empty {
		fmt.Fprintln(w, "  Your cart is empty. Add a product with: ironlist cart add <product-id>")
		fmt.Fprintln(w)
		return
	}

	for _, it := range v.Items {
		name := it.Name
		if len([]rune(name)) > 28 {
			name = string([]rune(name)[:25]) + "..."
		}
		fmt.Fprintf(w, "  %-6s  %-28s  %3d × %-12s  %s\n", it.ID, name, it.Quantity, it.Price, it.LineTotal)
	}
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "  Total: %s\n\n", v.Total)
}
