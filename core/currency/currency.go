package currency

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ScrapPerRefined is the number of scrap metal in one refined metal.
const ScrapPerRefined = 9

// Currencies is a price expressed in keys and refined metal.
type Currencies struct {
	Keys  float64 `json:"keys"`
	Metal float64 `json:"metal"`
}

// New returns a price of the given keys and refined metal.
func New(keys, metal float64) Currencies {
	return Currencies{Keys: keys, Metal: metal}
}

// IsZero reports whether the price is empty.
func (c Currencies) IsZero() bool {
	return c.Keys == 0 && c.Metal == 0
}

// ToValue converts the price to scrap using keyPrice (refined per key).
func (c Currencies) ToValue(keyPrice float64) int {
	return toScrap(c.Keys*keyPrice) + toScrap(c.Metal)
}

// FromValue builds a price from a scrap value. Whole keys are extracted when
// keyPrice is positive, the remainder is kept as metal.
func FromValue(scrap int, keyPrice float64) Currencies {
	keyScrap := toScrap(keyPrice)
	if keyScrap <= 0 {
		return Currencies{Metal: toRefined(scrap)}
	}

	keys := scrap / keyScrap
	return Currencies{
		Keys:  float64(keys),
		Metal: toRefined(scrap - keys*keyScrap),
	}
}

// Add returns the sum of both prices, normalizing metal to refined precision.
func (c Currencies) Add(other Currencies) Currencies {
	return Currencies{
		Keys:  c.Keys + other.Keys,
		Metal: toRefined(toScrap(c.Metal) + toScrap(other.Metal)),
	}
}

// Equal compares two prices at scrap precision.
func (c Currencies) Equal(other Currencies) bool {
	return c.Keys == other.Keys && toScrap(c.Metal) == toScrap(other.Metal)
}

// String formats the price the way the marketplace displays it,
// e.g. "1 key, 51.77 ref" or "0 keys, 0 ref" for an empty price.
func (c Currencies) String() string {
	var parts []string

	if c.Keys != 0 {
		unit := "keys"
		if c.Keys == 1 {
			unit = "key"
		}
		parts = append(parts, formatNumber(c.Keys)+" "+unit)
	}
	if c.Metal != 0 {
		parts = append(parts, formatNumber(c.Metal)+" ref")
	}

	if len(parts) == 0 {
		return "0 keys, 0 ref"
	}
	return strings.Join(parts, ", ")
}

func toScrap(refined float64) int {
	return int(math.Round(refined * ScrapPerRefined))
}

// toRefined keeps two decimals, truncated, so 466 scrap reads as 51.77.
func toRefined(scrap int) float64 {
	refined := float64(scrap) / ScrapPerRefined
	return math.Trunc(refined*100+1e-9) / 100
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Parse reads a price formatted by String.
func Parse(s string) (Currencies, error) {
	var c Currencies
	for _, part := range strings.Split(s, ",") {
		fields := strings.Fields(part)
		if len(fields) != 2 {
			return Currencies{}, fmt.Errorf("invalid price %q", s)
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return Currencies{}, fmt.Errorf("invalid price %q: %w", s, err)
		}
		switch fields[1] {
		case "key", "keys":
			c.Keys = v
		case "ref":
			c.Metal = v
		default:
			return Currencies{}, fmt.Errorf("invalid price unit %q", fields[1])
		}
	}
	return c, nil
}
