package decal

// List is an unordered set of live decals. Removal swaps the last decal
// into the freed slot, so indices are not stable across Age calls.
type List struct {
	decals []Decal
	limit  int
}

// NewList returns a list holding at most limit decals; 0 means unbounded.
// When full, Add replaces the decal with the least intensity left.
func NewList(limit int) *List {
	return &List{limit: limit}
}

// Add inserts d.
func (l *List) Add(d Decal) {
	if l.limit > 0 && len(l.decals) >= l.limit {
		weakest := 0
		for i := range l.decals {
			if l.decals[i].Intensity < l.decals[weakest].Intensity {
				weakest = i
			}
		}
		l.decals[weakest] = d
		return
	}
	l.decals = append(l.decals, d)
}

// Age subtracts dt from every decal's intensity and drops the ones at or
// below zero. It returns the number removed.
func (l *List) Age(dt float32) int {
	removed := 0
	for i := len(l.decals) - 1; i >= 0; i-- {
		l.decals[i].Intensity -= dt
		if l.decals[i].Intensity <= 0 {
			last := len(l.decals) - 1
			l.decals[i] = l.decals[last]
			l.decals = l.decals[:last]
			removed++
		}
	}
	return removed
}

// Len returns the number of live decals.
func (l *List) Len() int {
	return len(l.decals)
}

// At returns the decal in slot i.
func (l *List) At(i int) Decal {
	return l.decals[i]
}

// Decals returns the live decals. The slice is valid until the next Add or Age.
func (l *List) Decals() []Decal {
	return l.decals
}

// Clear removes every decal.
func (l *List) Clear() {
	l.decals = l.decals[:0]
}
