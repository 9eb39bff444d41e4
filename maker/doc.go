// Package maker synthesizes instances from schemas: a deterministic
// default variant filling required structure with fixed sentinels, and a
// randomized fake variant sharing all structural logic. Callers may supply
// overrides that are merged into the built result.
package maker
