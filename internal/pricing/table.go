package pricing

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Rate is the price of one SMS part for destinations starting with Prefix.
type Rate struct {
	Prefix       string `json:"prefix"`
	CoinsPerPart int64  `json:"coinsPerPart"`
	Country      string `json:"country,omitempty"`
}

// Table resolves a normalized destination to its per-part price.
// Prefixes are kept longest first, so a specific prefix such as "+1809"
// is always tried before the broader "+1".
type Table struct {
	rates        []Rate
	defaultPrice int64
}

// ReferenceRates is the built-in tier structure used when no rates are
// configured in storage.
var ReferenceRates = []Rate{
	{Prefix: "+53", CoinsPerPart: 1, Country: "Cuba"},
	{Prefix: "+1", CoinsPerPart: 1, Country: "United States / Canada"},
	{Prefix: "+34", CoinsPerPart: 2, Country: "Spain"},
	{Prefix: "+52", CoinsPerPart: 2, Country: "Mexico"},
	{Prefix: "+54", CoinsPerPart: 2, Country: "Argentina"},
	{Prefix: "+56", CoinsPerPart: 2, Country: "Chile"},
	{Prefix: "+57", CoinsPerPart: 2, Country: "Colombia"},
	{Prefix: "+58", CoinsPerPart: 2, Country: "Venezuela"},
	{Prefix: "+51", CoinsPerPart: 2, Country: "Peru"},
	{Prefix: "+1809", CoinsPerPart: 2, Country: "Dominican Republic"},
}

// DefaultPrice applies to destinations no prefix matches.
const DefaultPrice int64 = 3

// NewTable validates rates and orders them most specific first.
func NewTable(rates []Rate, defaultPrice int64) (*Table, error) {
	if defaultPrice <= 0 {
		return nil, errors.New("default price must be > 0")
	}

	seen := make(map[string]struct{}, len(rates))
	sorted := make([]Rate, 0, len(rates))

	for _, r := range rates {
		if !validPrefix(r.Prefix) {
			return nil, fmt.Errorf("invalid prefix %q", r.Prefix)
		}
		if r.CoinsPerPart <= 0 {
			return nil, fmt.Errorf("prefix %q: price must be > 0", r.Prefix)
		}
		if _, dup := seen[r.Prefix]; dup {
			return nil, fmt.Errorf("duplicate prefix %q", r.Prefix)
		}

		seen[r.Prefix] = struct{}{}
		sorted = append(sorted, r)
	}

	slices.SortStableFunc(sorted, func(a, b Rate) int {
		if len(a.Prefix) != len(b.Prefix) {
			return len(b.Prefix) - len(a.Prefix)
		}

		return strings.Compare(a.Prefix, b.Prefix)
	})

	return &Table{rates: sorted, defaultPrice: defaultPrice}, nil
}

// ReferenceTable returns the built-in table.
func ReferenceTable() *Table {
	t, err := NewTable(ReferenceRates, DefaultPrice)
	if err != nil {
		panic(fmt.Sprintf("reference rates: %v", err))
	}

	return t
}

// Match returns the rate whose prefix matches phone, or false when the
// default price applies.
func (t *Table) Match(phone string) (Rate, bool) {
	for _, r := range t.rates {
		if strings.HasPrefix(phone, r.Prefix) {
			return r, true
		}
	}

	return Rate{}, false
}

// PricePerPart returns the coin price of one part to phone.
func (t *Table) PricePerPart(phone string) int64 {
	r, ok := t.Match(phone)
	if !ok {
		return t.defaultPrice
	}

	return r.CoinsPerPart
}

// Rates returns a copy of the entries in evaluation order.
func (t *Table) Rates() []Rate {
	return slices.Clone(t.rates)
}

func (t *Table) DefaultPrice() int64 {
	return t.defaultPrice
}

func validPrefix(p string) bool {
	if len(p) < 2 || p[0] != '+' {
		return false
	}

	for _, c := range p[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}
