// Package normalize holds the row-level reconciliation primitives shared by
// the source adapters.
//
// Every function is pure and tolerant: a value that cannot be interpreted
// becomes missing instead of failing the batch. How optionality composes:
//
//	Prefer      first present candidate wins, all missing stays missing
//	UserType    missing passes through as missing, unknown labels pass through lowered
//	Timestamps  unparseable values become missing
//	CityIDs     non-numeric values become missing
//
// Adapters then drop any row that is still missing an essential field.
package normalize
