// Package schema provides the item schema lookup consumed by the listing
// manager.
//
// The real item schema is maintained elsewhere; this package only defines the
// Lookup capability and a Static implementation backed by a JSON export:
//
//	{
//	  "items":     [{"defindex": 5021, "item_name": "Mann Co. Supply Crate Key"}],
//	  "qualities": {"6": "Unique", "11": "Strange"},
//	  "effects":   {"13": "Burning Flames"},
//	  "paintkits": {"43": "Night Owl"}
//	}
//
// # Usage
//
//	lookup, err := schema.LoadFile(cfg.Schema.Path)
//	name := lookup.GetName(sku.MustParse("5021;6"), false)
package schema
