package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"listing-manager/core/sku"
)

// Quality ids with naming rules of their own.
const (
	QualityUnusual   = 5
	QualityUnique    = 6
	QualityDecorated = 15
)

// Item is one entry of the item schema.
type Item struct {
	Defindex   int    `json:"defindex"`
	ItemName   string `json:"item_name"`
	ProperName bool   `json:"proper_name"`
}

// Lookup resolves item metadata. Implementations must be local and cheap:
// the listing manager calls them while holding its queue lock.
type Lookup interface {
	// GetItemByDefindex returns the schema item or nil when unknown.
	GetItemByDefindex(defindex int) *Item
	// GetName returns the display name of an item, optionally with the
	// leading article for items that have a proper name.
	GetName(item sku.Item, proper bool) string
	// GetQualityName returns the label of a quality id.
	GetQualityName(quality int) string
}

// Data is the on-disk representation loaded by LoadFile.
type Data struct {
	Items     []Item            `json:"items"`
	Qualities map[string]string `json:"qualities"`
	Effects   map[string]string `json:"effects"`
	Paintkits map[string]string `json:"paintkits"`
}

// Static is an in-memory Lookup built from Data.
type Static struct {
	items     map[int]Item
	qualities map[int]string
	effects   map[int]string
	paintkits map[int]string
}

var killstreakNames = map[int]string{
	1: "Killstreak",
	2: "Specialized Killstreak",
	3: "Professional Killstreak",
}

var wearNames = map[int]string{
	1: "Factory New",
	2: "Minimal Wear",
	3: "Field-Tested",
	4: "Well-Worn",
	5: "Battle Scarred",
}

// NewStatic builds a Lookup from already decoded data.
func NewStatic(data Data) (*Static, error) {
	s := &Static{
		items:     make(map[int]Item, len(data.Items)),
		qualities: make(map[int]string, len(data.Qualities)),
		effects:   make(map[int]string, len(data.Effects)),
		paintkits: make(map[int]string, len(data.Paintkits)),
	}

	for _, item := range data.Items {
		s.items[item.Defindex] = item
	}

	for name, src := range map[string]struct {
		in  map[string]string
		out map[int]string
	}{
		"qualities": {data.Qualities, s.qualities},
		"effects":   {data.Effects, s.effects},
		"paintkits": {data.Paintkits, s.paintkits},
	} {
		for k, v := range src.in {
			id, err := strconv.Atoi(k)
			if err != nil {
				return nil, fmt.Errorf("schema %s: invalid id %q", name, k)
			}
			src.out[id] = v
		}
	}

	return s, nil
}

// LoadFile reads a JSON schema file.
func LoadFile(path string) (*Static, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	return NewStatic(data)
}

// GetItemByDefindex implements Lookup.
func (s *Static) GetItemByDefindex(defindex int) *Item {
	item, ok := s.items[defindex]
	if !ok {
		return nil
	}
	return &item
}

// GetQualityName implements Lookup.
func (s *Static) GetQualityName(quality int) string {
	return s.qualities[quality]
}

// GetName implements Lookup. Unknown items produce an empty name.
func (s *Static) GetName(item sku.Item, proper bool) string {
	schemaItem, ok := s.items[item.Defindex]
	if !ok {
		return ""
	}

	var parts []string

	if !item.Craftable {
		parts = append(parts, "Non-Craftable")
	}

	// Unusuals show their effect and decorated weapons their paint instead of the quality.
	showQuality := item.Quality != QualityUnique &&
		!(item.Quality == QualityUnusual && item.Effect != 0) &&
		!(item.Quality == QualityDecorated && item.Paintkit != 0)
	if showQuality {
		if q := s.qualities[item.Quality]; q != "" {
			parts = append(parts, q)
		}
	}

	if item.Effect != 0 {
		if e := s.effects[item.Effect]; e != "" {
			parts = append(parts, e)
		}
	}
	if k := killstreakNames[item.Killstreak]; k != "" {
		parts = append(parts, k)
	}
	if item.Australium {
		parts = append(parts, "Australium")
	}
	if item.Paintkit != 0 {
		if p := s.paintkits[item.Paintkit]; p != "" {
			parts = append(parts, p)
		}
	}

	if proper && len(parts) == 0 && schemaItem.ProperName {
		parts = append(parts, "The")
	}

	parts = append(parts, schemaItem.ItemName)
	name := strings.Join(parts, " ")

	if w := wearNames[item.Wear]; w != "" {
		name += " (" + w + ")"
	}

	return name
}
