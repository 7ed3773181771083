package viewmodel

import (
	"fmt"
	"math"

	"github.com/kawuz/kawuz-backend/internal/app/model"
)

// Amount is a monetary value in grosz (1/100 PLN). Cart totals accumulate in
// integer grosz so repeated float additions cannot drift.
type Amount int64

// AmountFromPrice converts a PLN price to grosz, rounding to the nearest
// grosz once per conversion.
func AmountFromPrice(price float64) Amount {
	return Amount(math.Round(price * 100))
}

// Zloty returns the amount as a PLN float, for JSON responses that carry
// prices the same way the catalog does.
func (a Amount) Zloty() float64 {
	return float64(a) / 100
}

// String formats the amount with two fraction digits, e.g. "26.00".
func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Cart is the flat sequence of product snapshots a shopper has added, one
// entry per unit. Duplicate ids are expected: they are how quantity is
// represented. The slice is treated as immutable; AddOne and RemoveOne return
// fresh carts.
type Cart []model.Product

// LineItem is one grouped cart row: all units of a single product with the
// derived quantity and subtotal. Never persisted, always recomputed.
type LineItem struct {
	model.Product
	Quantity  int    `json:"quantity"`
	LineTotal Amount `json:"line_total"`
}

// CheckoutItem is the shape submitted to order creation: one pair per
// distinct product, in first-occurrence order.
type CheckoutItem struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gte=1"`
}

// AddOne appends one unit of p. No deduplication and no cap: stock limits are
// enforced at order placement, the storefront button is only advisory.
func (c Cart) AddOne(p model.Product) Cart {
	out := make(Cart, 0, len(c)+1)
	out = append(out, c...)
	return append(out, p)
}

// RemoveOne removes the first entry with the given id, keeping the order and
// count of everything else, including further units of the same product.
// A missing id is a no-op.
func (c Cart) RemoveOne(id uint) Cart {
	for i, p := range c {
		if p.ID == id {
			out := make(Cart, 0, len(c)-1)
			out = append(out, c[:i]...)
			return append(out, c[i+1:]...)
		}
	}
	return c
}

// Group collapses the flat cart into line items, one per distinct id, in
// first-occurrence order. Non-derived fields come from the first occurrence;
// quantity counts every entry with that id.
func (c Cart) Group() []LineItem {
	index := make(map[uint]int, len(c))
	items := make([]LineItem, 0, len(c))

	for _, p := range c {
		if i, ok := index[p.ID]; ok {
			items[i].Quantity++
			continue
		}
		index[p.ID] = len(items)
		items = append(items, LineItem{Product: p, Quantity: 1})
	}

	for i := range items {
		items[i].LineTotal = AmountFromPrice(items[i].Price) * Amount(items[i].Quantity)
	}
	return items
}

// Total is the grand total across all line items.
func (c Cart) Total() Amount {
	var total Amount
	for _, item := range c.Group() {
		total += item.LineTotal
	}
	return total
}

// CheckoutItems derives the order-creation payload using the same grouping
// rule as Group, so the quantities shown before checkout exactly match what
// is submitted.
func (c Cart) CheckoutItems() []CheckoutItem {
	groups := c.Group()
	items := make([]CheckoutItem, 0, len(groups))
	for _, g := range groups {
		items = append(items, CheckoutItem{ProductID: g.ID, Quantity: g.Quantity})
	}
	return items
}

// Refresh re-derives every snapshot from the latest catalog copy by id, so a
// product edited between two adds displays its current data instead of
// whichever snapshot happened to come first. Entries whose product no longer
// exists in the catalog keep their snapshot.
func (c Cart) Refresh(catalog []model.Product) Cart {
	byID := make(map[uint]model.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	out := make(Cart, len(c))
	for i, p := range c {
		if latest, ok := byID[p.ID]; ok {
			out[i] = latest
		} else {
			out[i] = p
		}
	}
	return out
}
