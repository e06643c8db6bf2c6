package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"listing-manager/core/schema"
	"listing-manager/core/sku"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "items": [
    {"defindex": 5021, "item_name": "Mann Co. Supply Crate Key"},
    {"defindex": 378, "item_name": "Team Captain", "proper_name": true},
    {"defindex": 205, "item_name": "Rocket Launcher"},
    {"defindex": 15013, "item_name": "Sniper Rifle"}
  ],
  "qualities": {"5": "Unusual", "6": "Unique", "11": "Strange", "15": "Decorated Weapon"},
  "effects": {"13": "Burning Flames"},
  "paintkits": {"43": "Night Owl"}
}`

func loadTestSchema(t *testing.T) *schema.Static {
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(testSchema), 0o644))

	s, err := schema.LoadFile(path)
	require.NoError(t, err)
	return s
}

func TestStatic_GetName(t *testing.T) {
	s := loadTestSchema(t)

	tests := []struct {
		name   string
		sku    string
		proper bool
		want   string
	}{
		{"Key", "5021;6", false, "Mann Co. Supply Crate Key"},
		{"Proper name with article", "378;6", true, "The Team Captain"},
		{"Proper name without article", "378;6", false, "Team Captain"},
		{"Unusual shows effect", "378;5;u13", true, "Burning Flames Team Captain"},
		{"Non-Craftable", "5021;6;uncraftable", false, "Non-Craftable Mann Co. Supply Crate Key"},
		{"Strange killstreak australium", "205;11;australium;kt-3", false, "Strange Professional Killstreak Australium Rocket Launcher"},
		{"Decorated with wear", "15013;15;w1;pk43", false, "Night Owl Sniper Rifle (Factory New)"},
		{"Unknown item", "1;6", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.GetName(sku.MustParse(tt.sku), tt.proper))
		})
	}
}

func TestStatic_Lookups(t *testing.T) {
	s := loadTestSchema(t)

	item := s.GetItemByDefindex(5021)
	require.NotNil(t, item)
	assert.Equal(t, "Mann Co. Supply Crate Key", item.ItemName)
	assert.Nil(t, s.GetItemByDefindex(99999))
	assert.Equal(t, "Strange", s.GetQualityName(11))
}

func TestNewStatic_InvalidID(t *testing.T) {
	_, err := schema.NewStatic(schema.Data{Effects: map[string]string{"abc": "Nope"}})
	assert.Error(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := schema.LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
