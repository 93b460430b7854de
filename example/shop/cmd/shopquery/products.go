package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/query-criteria-go/criteria"
	"github.com/AntonStoeckl/query-criteria-go/example/shop"
)

const (
	sortByID        = "id"
	sortByName      = "name"
	sortByNameDesc  = "name_desc"
	sortByPrice     = "price"
	sortByPriceDesc = "price_desc"
)

// ProductsOptions holds flags for the products command.
type ProductsOptions struct {
	*RootOptions
	ID              int64
	DescriptionLike string
	Category        string
	PriceGt         float64
	MinQuantity     int
	Sort            string
	FetchCategory   bool
	First           bool
	Limit           uint
	Offset          uint
}

// NewProductsCommand creates the products command.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "products",
		Short: "Query products",
		Long: `Query products. Every flag that is set becomes one criterion, all of them must match.

Examples:
  shopquery products --description-like %phone% --price-gt 700
  shopquery products --category Electronics --sort id --fetch-category
  shopquery products --min-quantity 12 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProducts(cmd, opts)
		},
	}

	cmd.Flags().Int64Var(&opts.ID, "id", 0, "product id")
	cmd.Flags().StringVar(&opts.DescriptionLike, "description-like", "", "LIKE pattern for the description")
	cmd.Flags().StringVar(&opts.Category, "category", "", "category name")
	cmd.Flags().Float64Var(&opts.PriceGt, "price-gt", 0, "minimum price, exclusive")
	cmd.Flags().IntVar(&opts.MinQuantity, "min-quantity", 0, "ordered at least once with this quantity or more")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "sort by id|name|name_desc|price|price_desc")
	cmd.Flags().BoolVar(&opts.FetchCategory, "fetch-category", false, "load the category of every product")
	cmd.Flags().BoolVar(&opts.First, "first", false, "return only the first match")
	cmd.Flags().UintVar(&opts.Limit, "limit", 0, "page size, 0 for all")
	cmd.Flags().UintVar(&opts.Offset, "offset", 0, "page offset, needs --limit")

	return cmd
}

func runProducts(cmd *cobra.Command, opts *ProductsOptions) error {
	repo, err := shop.NewProductRepository(opts.engine())
	if err != nil {
		return err
	}

	declare, err := opts.declare(cmd)
	if err != nil {
		return err
	}

	query := repo.Query(declare)

	if opts.First {
		product, found, getErr := query.Get(cmd.Context())
		if getErr != nil {
			return getErr
		}

		if !found {
			return writeProducts(cmd.OutOrStdout(), opts.Format, nil)
		}

		return writeProducts(cmd.OutOrStdout(), opts.Format, []shop.Product{product})
	}

	if opts.Limit > 0 {
		query = query.Page(opts.Limit, opts.Offset)
	}

	products, err := query.List(cmd.Context())
	if err != nil {
		return err
	}

	return writeProducts(cmd.OutOrStdout(), opts.Format, products)
}

func (o *ProductsOptions) declare(cmd *cobra.Command) (func(p *shop.ProductParams), error) {
	flags := cmd.Flags()

	var sort func(p *shop.ProductParams)

	switch o.Sort {
	case "":
	case sortByID:
		sort = (*shop.ProductParams).SortByID
	case sortByName:
		sort = func(p *shop.ProductParams) { p.SortByName(criteria.Asc) }
	case sortByNameDesc:
		sort = func(p *shop.ProductParams) { p.SortByName(criteria.Desc) }
	case sortByPrice:
		sort = (*shop.ProductParams).SortByPrice
	case sortByPriceDesc:
		sort = (*shop.ProductParams).SortByPriceDesc
	default:
		return nil, fmt.Errorf("invalid sort %q", o.Sort)
	}

	return func(p *shop.ProductParams) {
		if flags.Changed("id") {
			p.ID(o.ID)
		}

		if flags.Changed("description-like") {
			p.DescriptionLike(o.DescriptionLike)
		}

		if flags.Changed("category") {
			p.CategoryName(o.Category)
		}

		if flags.Changed("price-gt") {
			p.PriceGt(o.PriceGt)
		}

		if flags.Changed("min-quantity") {
			p.OrderMinimumQuantityExists(o.MinQuantity)
		}

		if sort != nil {
			sort(p)
		}

		if o.FetchCategory {
			p.FetchCategory()
		}
	}, nil
}
