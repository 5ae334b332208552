package fleet

// Lot is a parking lot keyed by a capacity constraint. It holds at most
// Limit trucks across its waiting and ready sections.
type Lot struct {
	Key   int
	Limit int

	waiting Queue[Truck]
	ready   Queue[Truck]
}

// NewLot creates an empty lot.
func NewLot(key, limit int) *Lot {
	return &Lot{Key: key, Limit: limit}
}

// Occupancy returns the number of trucks in both sections.
func (l *Lot) Occupancy() int {
	return l.waiting.Len() + l.ready.Len()
}

// HasSpare reports whether one more truck fits.
func (l *Lot) HasSpare() bool {
	return l.Occupancy() < l.Limit
}

// WaitingLen returns the size of the waiting section.
func (l *Lot) WaitingLen() int { return l.waiting.Len() }

// ReadyLen returns the size of the ready section.
func (l *Lot) ReadyLen() int { return l.ready.Len() }

// TryEnqueueWaiting appends t to the waiting section if the lot has room.
// Returns false, leaving the lot unchanged, when the lot is full.
func (l *Lot) TryEnqueueWaiting(t Truck) bool {
	if !l.HasSpare() {
		return false
	}
	l.waiting.Push(t)
	return true
}

// PromoteOneWaiting moves the front waiting truck to the back of the ready
// section and returns it. Returns false if nothing is waiting.
func (l *Lot) PromoteOneWaiting() (Truck, bool) {
	t, ok := l.waiting.Pop()
	if !ok {
		return Truck{}, false
	}
	l.ready.Push(t)
	return t, true
}

// PopReady removes the front ready truck, handing ownership to the caller.
func (l *Lot) PopReady() (Truck, bool) {
	return l.ready.Pop()
}

// WaitingIDs returns the IDs of waiting trucks, front first.
func (l *Lot) WaitingIDs() []int {
	return collectIDs(&l.waiting)
}

// ReadyIDs returns the IDs of ready trucks, front first.
func (l *Lot) ReadyIDs() []int {
	return collectIDs(&l.ready)
}

// Discard drops every truck in the lot and returns how many were dropped.
func (l *Lot) Discard() int {
	return l.waiting.Clear() + l.ready.Clear()
}

func collectIDs(q *Queue[Truck]) []int {
	ids := make([]int, 0, q.Len())
	q.Each(func(t Truck) { ids = append(ids, t.ID) })
	return ids
}
