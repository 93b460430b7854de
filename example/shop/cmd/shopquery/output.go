package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/query-criteria-go/example/shop"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w io.Writer, value any) error {
	encoder := jsonAPI.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(value)
}

func writeProducts(w io.Writer, format string, products []shop.Product) error {
	if products == nil {
		products = []shop.Product{}
	}

	if format == formatJSON {
		return writeJSON(w, products)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tPRICE\tCATEGORY\tDESCRIPTION")

	for _, product := range products {
		category := "-"
		if product.Category != nil {
			category = product.Category.Name
		}

		_, _ = fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\t%s\n",
			product.ID, product.Name, product.Price, category, product.Description)
	}

	return tw.Flush()
}

func writeOrders(w io.Writer, format string, orders []shop.Order) error {
	if orders == nil {
		orders = []shop.Order{}
	}

	if format == formatJSON {
		return writeJSON(w, orders)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tNOTE\tITEMS")

	for _, order := range orders {
		note := "-"
		if order.Note != nil {
			note = *order.Note
		}

		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", order.ID, order.Status, note, describeItems(order.Items))
	}

	return tw.Flush()
}

func describeItems(items []shop.OrderItem) string {
	if len(items) == 0 {
		return "-"
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		name := fmt.Sprintf("#%d", item.ID)
		if item.Product != nil {
			name = item.Product.Name
		}

		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, name))
	}

	return strings.Join(parts, ", ")
}
