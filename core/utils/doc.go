// Package utils provides conversion helpers for the loosely typed JSON the
// marketplace returns (flags as 0/1, ids as numbers or strings).
package utils
