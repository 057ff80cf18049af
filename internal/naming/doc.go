// Package naming implements the canonical volume filename grammar.
//
// Normalize maps arbitrary messy volume filenames such as
// "Naruto (CM) v55.CBZ" or "Berserk v71_1_1.cbz" to the canonical
// "<series> v<NNN>.<ext>" form. Parsing is pure and total: a filename
// without a volume marker yields ok=false, never an error.
package naming
