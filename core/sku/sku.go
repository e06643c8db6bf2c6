package sku

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultQuality is the Unique quality, assumed when a descriptor omits one.
const DefaultQuality = 6

// ErrInvalidSKU is returned when a SKU string cannot be parsed.
var ErrInvalidSKU = errors.New("invalid sku")

// Item is a fully normalized item descriptor.
// Zero values of the optional attributes mean "not present".
type Item struct {
	Defindex   int  `json:"defindex"`
	Quality    int  `json:"quality"`
	Craftable  bool `json:"craftable"`
	Killstreak int  `json:"killstreak"`
	Australium bool `json:"australium"`
	Effect     int  `json:"effect"`
	Paintkit   int  `json:"paintkit"`
	Wear       int  `json:"wear"`
}

// Descriptor is a loose item descriptor where omitted fields take their defaults.
type Descriptor struct {
	Defindex   int   `json:"defindex"`
	Quality    *int  `json:"quality,omitempty"`
	Craftable  *bool `json:"craftable,omitempty"`
	Killstreak int   `json:"killstreak,omitempty"`
	Australium bool  `json:"australium,omitempty"`
	Effect     *int  `json:"effect,omitempty"`
	Paintkit   *int  `json:"paintkit,omitempty"`
	Wear       *int  `json:"wear,omitempty"`
}

// Normalize fills in defaults: quality 6, craftable true.
func (d Descriptor) Normalize() Item {
	item := Item{
		Defindex:   d.Defindex,
		Quality:    DefaultQuality,
		Craftable:  true,
		Killstreak: d.Killstreak,
		Australium: d.Australium,
	}
	if d.Quality != nil {
		item.Quality = *d.Quality
	}
	if d.Craftable != nil {
		item.Craftable = *d.Craftable
	}
	if d.Effect != nil {
		item.Effect = *d.Effect
	}
	if d.Paintkit != nil {
		item.Paintkit = *d.Paintkit
	}
	if d.Wear != nil {
		item.Wear = *d.Wear
	}
	return item
}

// UnmarshalJSON decodes a loose descriptor, so omitted quality and
// craftable take their defaults.
func (i *Item) UnmarshalJSON(data []byte) error {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	*i = d.Normalize()
	return nil
}

// String formats the item as a SKU, e.g. "5021;6" or "200;5;u13;uncraftable".
func (i Item) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(i.Defindex))
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(i.Quality))

	if i.Effect != 0 {
		fmt.Fprintf(&b, ";u%d", i.Effect)
	}
	if i.Australium {
		b.WriteString(";australium")
	}
	if !i.Craftable {
		b.WriteString(";uncraftable")
	}
	if i.Wear != 0 {
		fmt.Fprintf(&b, ";w%d", i.Wear)
	}
	if i.Paintkit != 0 {
		fmt.Fprintf(&b, ";pk%d", i.Paintkit)
	}
	if i.Killstreak != 0 {
		fmt.Fprintf(&b, ";kt-%d", i.Killstreak)
	}
	return b.String()
}

// Parse parses a SKU string. Attributes may appear in any order after the
// mandatory defindex and quality.
func Parse(s string) (Item, error) {
	parts := strings.Split(strings.TrimSpace(s), ";")
	if len(parts) < 2 {
		return Item{}, fmt.Errorf("%w: %q", ErrInvalidSKU, s)
	}

	defindex, err := strconv.Atoi(parts[0])
	if err != nil {
		return Item{}, fmt.Errorf("%w: defindex %q", ErrInvalidSKU, parts[0])
	}
	quality, err := strconv.Atoi(parts[1])
	if err != nil {
		return Item{}, fmt.Errorf("%w: quality %q", ErrInvalidSKU, parts[1])
	}

	item := Item{Defindex: defindex, Quality: quality, Craftable: true}

	for _, attr := range parts[2:] {
		switch {
		case attr == "australium":
			item.Australium = true
		case attr == "uncraftable":
			item.Craftable = false
		case strings.HasPrefix(attr, "kt-"):
			item.Killstreak, err = strconv.Atoi(attr[3:])
		case strings.HasPrefix(attr, "pk"):
			item.Paintkit, err = strconv.Atoi(attr[2:])
		case strings.HasPrefix(attr, "u"):
			item.Effect, err = strconv.Atoi(attr[1:])
		case strings.HasPrefix(attr, "w"):
			item.Wear, err = strconv.Atoi(attr[1:])
		default:
			return Item{}, fmt.Errorf("%w: unknown attribute %q", ErrInvalidSKU, attr)
		}
		if err != nil {
			return Item{}, fmt.Errorf("%w: attribute %q", ErrInvalidSKU, attr)
		}
	}

	return item, nil
}

// MustParse is like Parse but panics on error. Intended for constants in tests.
func MustParse(s string) Item {
	item, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return item
}
