package viewmodel

import (
	"testing"

	"github.com/kawuz/kawuz-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func cartProduct(id uint, name string, price float64) model.Product {
	return model.Product{ID: id, Name: name, Price: price, Weight: model.Weight500g}
}

func TestCart_AddOne(t *testing.T) {
	var cart Cart

	cart = cart.AddOne(cartProduct(1, "Brazylia", 39.99))
	cart = cart.AddOne(cartProduct(1, "Brazylia", 39.99))
	cart = cart.AddOne(cartProduct(2, "Etiopia", 54.50))

	require.Len(t, cart, 3)
	assert.Equal(t, uint(1), cart[0].ID)
	assert.Equal(t, uint(1), cart[1].ID)
	assert.Equal(t, uint(2), cart[2].ID)
}

func TestCart_AddOneDoesNotAliasOriginal(t *testing.T) {
	cart := Cart{cartProduct(1, "Brazylia", 39.99)}
	grown := cart.AddOne(cartProduct(2, "Etiopia", 54.50))

	assert.Len(t, cart, 1)
	assert.Len(t, grown, 2)
}

func TestCart_Group(t *testing.T) {
	cart := Cart{
		cartProduct(1, "Brazylia", 39.99),
		cartProduct(2, "Etiopia", 54.50),
		cartProduct(1, "Brazylia", 39.99),
		cartProduct(1, "Brazylia", 39.99),
	}

	items := cart.Group()
	require.Len(t, items, 2)

	assert.Equal(t, uint(1), items[0].ID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "119.97", items[0].LineTotal.String())

	assert.Equal(t, uint(2), items[1].ID)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, "54.50", items[1].LineTotal.String())
}

func TestCart_GroupFieldsFromFirstOccurrence(t *testing.T) {
	first := cartProduct(1, "Brazylia", 39.99)
	first.Description = "pierwszy zrzut"
	second := cartProduct(1, "Brazylia", 44.99)
	second.Description = "drugi zrzut"

	items := Cart{first, second}.Group()
	require.Len(t, items, 1)
	assert.Equal(t, "pierwszy zrzut", items[0].Description)
	assert.Equal(t, 2, items[0].Quantity)
	// Subtotal follows the first snapshot's price as well.
	assert.Equal(t, "79.98", items[0].LineTotal.String())
}

func TestCart_RemoveOne(t *testing.T) {
	a := cartProduct(1, "Brazylia", 39.99)
	b := cartProduct(2, "Etiopia", 54.50)
	x := cartProduct(3, "Kolumbia", 41.00)
	c := cartProduct(4, "Gwatemala", 47.00)

	tests := []struct {
		name   string
		cart   Cart
		remove uint
		want   []uint
	}{
		{
			name:   "removes exactly the first occurrence",
			cart:   Cart{a, b, x, x, c},
			remove: 3,
			want:   []uint{1, 2, 3, 4},
		},
		{
			name:   "missing id is a no-op",
			cart:   Cart{a, b},
			remove: 99,
			want:   []uint{1, 2},
		},
		{
			name:   "empty cart is a no-op",
			cart:   Cart{},
			remove: 1,
			want:   []uint{},
		},
		{
			name:   "removing the only unit empties the cart",
			cart:   Cart{a},
			remove: 1,
			want:   []uint{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cart.RemoveOne(tt.remove)
			gotIDs := make([]uint, 0, len(got))
			for _, p := range got {
				gotIDs = append(gotIDs, p.ID)
			}
			assert.Equal(t, tt.want, gotIDs)
		})
	}
}

func TestCart_Total(t *testing.T) {
	cart := Cart{
		cartProduct(1, "Brazylia", 10.50),
		cartProduct(1, "Brazylia", 10.50),
		cartProduct(2, "Etiopia", 5.00),
	}

	assert.Equal(t, "26.00", cart.Total().String())
	assert.Equal(t, 26.00, cart.Total().Zloty())
}

func TestCart_TotalAccumulatesWithoutDrift(t *testing.T) {
	// 100 units at 0.10 PLN: naive float accumulation lands on 9.99...,
	// integer grosz lands exactly on 10.00.
	var cart Cart
	for i := 0; i < 100; i++ {
		cart = append(cart, cartProduct(1, "Brazylia", 0.10))
	}
	assert.Equal(t, "10.00", cart.Total().String())
}

func TestCart_EmptyCart(t *testing.T) {
	var cart Cart
	assert.Empty(t, cart.Group())
	assert.Equal(t, Amount(0), cart.Total())
	assert.Empty(t, cart.CheckoutItems())
}

func TestCart_CheckoutItems(t *testing.T) {
	cart := Cart{
		cartProduct(1, "Brazylia", 39.99),
		cartProduct(1, "Brazylia", 39.99),
		cartProduct(2, "Etiopia", 54.50),
	}

	assert.Equal(t, []CheckoutItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}, cart.CheckoutItems())
}

func TestCart_Refresh(t *testing.T) {
	stale := cartProduct(1, "Brazylia", 39.99)
	cart := Cart{stale, cartProduct(9, "Wycofana", 20.00), stale}

	current := cartProduct(1, "Brazylia", 44.99)
	current.StockQuantity = 3

	refreshed := cart.Refresh([]model.Product{current})
	require.Len(t, refreshed, 3)
	assert.Equal(t, 44.99, refreshed[0].Price)
	assert.Equal(t, 3, refreshed[0].StockQuantity)
	assert.Equal(t, 44.99, refreshed[2].Price)
	// Products gone from the catalog keep their snapshot.
	assert.Equal(t, "Wycofana", refreshed[1].Name)
}

func TestAmount_String(t *testing.T) {
	tests := []struct {
		amount Amount
		want   string
	}{
		{amount: 0, want: "0.00"},
		{amount: 5, want: "0.05"},
		{amount: 2600, want: "26.00"},
		{amount: 10997, want: "109.97"},
		{amount: -150, want: "-1.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.amount.String())
	}
}

func rapidCart(t *rapid.T) Cart {
	n := rapid.IntRange(0, 40).Draw(t, "n")
	cart := make(Cart, 0, n)
	for i := 0; i < n; i++ {
		id := uint(rapid.IntRange(1, 8).Draw(t, "id"))
		cart = append(cart, cartProduct(id, "Kawa", float64(rapid.IntRange(100, 9999).Draw(t, "grosz"))/100))
	}
	return cart
}

func TestCart_GroupingConservation_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cart := rapidCart(t)
		items := cart.Group()

		counts := make(map[uint]int)
		for _, p := range cart {
			counts[p.ID]++
		}

		totalQuantity := 0
		seen := make(map[uint]bool)
		for _, item := range items {
			assert.False(t, seen[item.ID], "each id appears exactly once")
			seen[item.ID] = true
			assert.Equal(t, counts[item.ID], item.Quantity)
			totalQuantity += item.Quantity
		}
		assert.Equal(t, len(cart), totalQuantity)
	})
}

func TestCart_RemoveOneDecrementsByExactlyOne_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cart := rapidCart(t)
		target := uint(rapid.IntRange(1, 8).Draw(t, "target"))

		before := 0
		for _, p := range cart {
			if p.ID == target {
				before++
			}
		}

		after := cart.RemoveOne(target)
		got := 0
		for _, p := range after {
			if p.ID == target {
				got++
			}
		}

		if before == 0 {
			assert.Len(t, after, len(cart))
			assert.Zero(t, got)
		} else {
			assert.Len(t, after, len(cart)-1)
			assert.Equal(t, before-1, got)
		}
	})
}

func TestCart_CheckoutMatchesDisplayGrouping_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cart := rapidCart(t)
		items := cart.Group()
		payload := cart.CheckoutItems()

		require.Len(t, payload, len(items))
		for i := range items {
			assert.Equal(t, items[i].ID, payload[i].ProductID)
			assert.Equal(t, items[i].Quantity, payload[i].Quantity)
		}
	})
}
