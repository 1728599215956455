package transport

// Category separates the tag namespaces of concurrent exchange types so that
// e.g. flux-correction and cell-centered variable messages never alias.
type Category int

const (
	FluxCorrection Category = iota
	CellCentered
)

const slotBits = 6 // buffer slot indices fit in 6 bits (48 < 64)

// Tag derives the deterministic message tag for a buffer slot on the
// receiving rank. lid is the *receiver's* local block ID, slot its
// destination buffer index. Unique per (category, lid, slot).
func Tag(cat Category, lid, slot int) int {
	if slot < 0 || slot >= (1<<slotBits) {
		panic("buffer slot out of tag range")
	}
	return int(cat)<<28 | lid<<slotBits | slot
}
