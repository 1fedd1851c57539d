package seed

import (
	"context"
	"fmt"
)

// Product is a catalog entry that seeds one shipment.
type Product struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// ProductSource yields the products the initial shipments are built from.
type ProductSource interface {
	Name() string
	Products(ctx context.Context) ([]Product, error)
}

const localCopies = 10

var localProducts = []Product{
	{Title: "Sample Widget", Price: 19.99, Category: "gadgets", Description: "Reliable sample widget for demos."},
	{Title: "Portable Charger", Price: 29.95, Category: "electronics", Description: "Compact power bank."},
	{Title: "Wireless Mouse", Price: 24.5, Category: "electronics", Description: "Ergonomic wireless mouse."},
	{Title: "Travel Backpack", Price: 59.99, Category: "accessories", Description: "Spacious and durable."},
	{Title: "Noise-Cancelling Headphones", Price: 129.0, Category: "electronics", Description: "Enjoy your music."},
	{Title: "Coffee Mug", Price: 12.5, Category: "home", Description: "Ceramic mug with logo."},
	{Title: "Desk Lamp", Price: 34.99, Category: "home", Description: "LED desk lamp."},
	{Title: "Running Shoes", Price: 89.99, Category: "apparel", Description: "Comfortable running shoes."},
	{Title: "Bluetooth Speaker", Price: 49.99, Category: "electronics", Description: "Portable speaker."},
	{Title: "Stainless Steel Water Bottle", Price: 22.0, Category: "home", Description: "Keeps drinks cold."},
}

// LocalCatalog is the built-in product list, repeated ten times with each
// title suffixed by its position, e.g. "Coffee Mug (16)".
type LocalCatalog struct{}

func (LocalCatalog) Name() string { return "Local sample data" }

func (LocalCatalog) Products(ctx context.Context) ([]Product, error) {
	out := make([]Product, 0, len(localProducts)*localCopies)
	for i := 0; i < localCopies; i++ {
		for idx, p := range localProducts {
			p.Title = fmt.Sprintf("%s (%d)", p.Title, i*len(localProducts)+idx+1)
			out = append(out, p)
		}
	}
	return out, nil
}
