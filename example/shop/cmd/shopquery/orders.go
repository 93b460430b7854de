package main

import (
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/query-criteria-go/example/shop"
)

// OrdersOptions holds flags for the orders command.
type OrdersOptions struct {
	*RootOptions
	Status        string
	StatusIn      []string
	NoteNull      bool
	SortByID      bool
	FetchItems    bool
	FetchProducts bool
	Limit         uint
	Offset        uint
}

// NewOrdersCommand creates the orders command.
func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OrdersOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Query orders",
		Long: `Query orders, optionally with their items and the items' products.

Examples:
  shopquery orders --status PENDING
  shopquery orders --status-in SHIPPED,COMPLETED --sort-id --fetch-items --fetch-products`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOrders(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "order status")
	cmd.Flags().StringSliceVar(&opts.StatusIn, "status-in", nil, "comma separated order statuses")
	cmd.Flags().BoolVar(&opts.NoteNull, "note-null", false, "only orders without a note")
	cmd.Flags().BoolVar(&opts.SortByID, "sort-id", false, "sort by order id")
	cmd.Flags().BoolVar(&opts.FetchItems, "fetch-items", false, "load the items of every order")
	cmd.Flags().BoolVar(&opts.FetchProducts, "fetch-products", false, "load the items together with their products")
	cmd.Flags().UintVar(&opts.Limit, "limit", 0, "page size, 0 for all")
	cmd.Flags().UintVar(&opts.Offset, "offset", 0, "page offset, needs --limit")

	return cmd
}

func runOrders(cmd *cobra.Command, opts *OrdersOptions) error {
	repo, err := shop.NewOrderRepository(opts.engine())
	if err != nil {
		return err
	}

	flags := cmd.Flags()

	query := repo.Query(func(p *shop.OrderParams) {
		if flags.Changed("status") {
			p.Status(opts.Status)
		}

		if flags.Changed("status-in") {
			p.StatusIn(opts.StatusIn)
		}

		if opts.NoteNull {
			p.NoteNull()
		}

		if opts.SortByID {
			p.SortByID()
		}

		if opts.FetchItems {
			p.FetchItems()
		}

		if opts.FetchProducts {
			p.FetchItemsProduct()
		}
	})

	if opts.Limit > 0 {
		query = query.Page(opts.Limit, opts.Offset)
	}

	orders, err := query.List(cmd.Context())
	if err != nil {
		return err
	}

	return writeOrders(cmd.OutOrStdout(), opts.Format, orders)
}
