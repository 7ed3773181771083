// Package viewmodel derives what the storefront renders from raw catalog and
// cart state. Every function here is pure: same inputs, same outputs, no I/O.
// The product list, the admin table and the cart view all share these
// derivations instead of re-implementing them per screen.
package viewmodel

import (
	"sort"
	"strconv"
	"strings"

	"github.com/kawuz/kawuz-backend/internal/app/model"
)

// Attribute names a product column that can be searched, filtered or sorted.
type Attribute string

const (
	AttrID            Attribute = "id"
	AttrName          Attribute = "name"
	AttrPrice         Attribute = "price"
	AttrRoastLevel    Attribute = "roastLevel"
	AttrAcidity       Attribute = "acidity"
	AttrCaffeineLevel Attribute = "caffeineLevel"
	AttrSweetness     Attribute = "sweetness"
	AttrWeight        Attribute = "weight"
	AttrStockQuantity Attribute = "stockQuantity"
	AttrSales         Attribute = "sales"
)

// FilterState maps an attribute to its single accepted value, kept in the
// canonical string form the UI submits ("2", "500g"). An absent attribute
// imposes no constraint.
type FilterState map[Attribute]string

// NewFilterState returns a state with no constraints.
func NewFilterState() FilterState {
	return make(FilterState)
}

// Set replaces the constraint for attr. An empty value clears it, which is
// how the UI encodes the "all" option.
func (f FilterState) Set(attr Attribute, value string) {
	if value == "" {
		delete(f, attr)
		return
	}
	f[attr] = value
}

// Clear removes the constraint for attr.
func (f FilterState) Clear(attr Attribute) {
	delete(f, attr)
}

// Reset removes every constraint.
func (f FilterState) Reset() {
	for attr := range f {
		delete(f, attr)
	}
}

// SortState holds the active sort column and direction. A zero Key means no
// sorting: the post-filter order (the catalog order) is kept.
type SortState struct {
	Key       Attribute
	Ascending bool
}

// Toggle returns the state after a click on column clicked: a second click on
// an ascending column flips it to descending, anything else lands on
// ascending.
func (s SortState) Toggle(clicked Attribute) SortState {
	if s.Key == clicked && s.Ascending {
		return SortState{Key: clicked, Ascending: false}
	}
	return SortState{Key: clicked, Ascending: true}
}

// Query is the full view state one screen holds over the catalog.
type Query struct {
	Search  string
	MatchID bool // admin table also matches the id rendered as decimal text
	Filters FilterState
	Sort    SortState
}

// Apply runs the search/filter/sort pipeline over products and returns the
// sequence to render. The input slice is never mutated; with no constraints
// and no sort key the result equals the input order.
func Apply(products []model.Product, q Query) []model.Product {
	out := make([]model.Product, 0, len(products))

	term := strings.ToLower(q.Search)
	for _, p := range products {
		if term != "" && !matchesSearch(p, term, q.MatchID) {
			continue
		}
		if !matchesFilters(p, q.Filters) {
			continue
		}
		out = append(out, p)
	}

	if q.Sort.Key == "" {
		return out
	}

	// Descending flips the comparison, not the final sequence, so equal keys
	// keep their catalog order in both directions.
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j], q.Sort.Key)
		if !q.Sort.Ascending {
			c = -c
		}
		return c < 0
	})
	return out
}

func matchesSearch(p model.Product, lowerTerm string, matchID bool) bool {
	if strings.Contains(strings.ToLower(p.Name), lowerTerm) {
		return true
	}
	if matchID && strings.Contains(strconv.FormatUint(uint64(p.ID), 10), lowerTerm) {
		return true
	}
	return false
}

// matchesFilters applies every constraint with AND semantics. A constraint on
// an attribute the product cannot expose counts as a non-match.
func matchesFilters(p model.Product, filters FilterState) bool {
	for attr, want := range filters {
		got, ok := attributeString(p, attr)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// attributeString renders a product attribute in the same canonical form the
// UI submits filter values in.
func attributeString(p model.Product, attr Attribute) (string, bool) {
	switch attr {
	case AttrID:
		return strconv.FormatUint(uint64(p.ID), 10), true
	case AttrName:
		return p.Name, true
	case AttrWeight:
		return string(p.Weight), true
	case AttrRoastLevel:
		return strconv.Itoa(p.RoastLevel), true
	case AttrAcidity:
		return strconv.Itoa(p.Acidity), true
	case AttrCaffeineLevel:
		return strconv.Itoa(p.CaffeineLevel), true
	case AttrSweetness:
		return strconv.Itoa(p.Sweetness), true
	default:
		return "", false
	}
}

// compare is the three-way comparison behind sorting. Numeric attributes
// compare numerically, name and weight by their natural string order. Unknown
// keys compare equal, so the stable sort leaves the order untouched.
func compare(a, b model.Product, key Attribute) int {
	switch key {
	case AttrName:
		return strings.Compare(a.Name, b.Name)
	case AttrWeight:
		return strings.Compare(string(a.Weight), string(b.Weight))
	case AttrID:
		return compareInt(int(a.ID), int(b.ID))
	case AttrPrice:
		switch {
		case a.Price < b.Price:
			return -1
		case a.Price > b.Price:
			return 1
		}
		return 0
	case AttrRoastLevel:
		return compareInt(a.RoastLevel, b.RoastLevel)
	case AttrAcidity:
		return compareInt(a.Acidity, b.Acidity)
	case AttrCaffeineLevel:
		return compareInt(a.CaffeineLevel, b.CaffeineLevel)
	case AttrSweetness:
		return compareInt(a.Sweetness, b.Sweetness)
	case AttrStockQuantity:
		return compareInt(a.StockQuantity, b.StockQuantity)
	case AttrSales:
		return compareInt(a.Sales, b.Sales)
	default:
		return 0
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
