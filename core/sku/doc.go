// Package sku implements the compact item descriptor used throughout the
// listing manager.
//
// A SKU has the form
//
//	defindex;quality[;u<effect>][;australium][;uncraftable][;w<wear>][;pk<paintkit>][;kt-<tier>]
//
// Descriptor is the loose form callers build by hand (omitted fields take
// their defaults), Item is the normalized form every other package works with.
package sku
