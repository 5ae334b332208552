package fleet

// Truck is a mobile unit with a fixed capacity and a current load.
// Invariant: 0 <= Load <= MaxCapacity.
type Truck struct {
	ID          int
	MaxCapacity int
	Load        int
}

// NewTruck creates an empty truck.
func NewTruck(id, maxCapacity int) Truck {
	return Truck{ID: id, MaxCapacity: maxCapacity}
}

// RemainingCapacity returns how much more load the truck can take.
func (t Truck) RemainingCapacity() int {
	return t.MaxCapacity - t.Load
}

// IsFull reports whether the truck has reached its maximum capacity.
func (t Truck) IsFull() bool {
	return t.Load >= t.MaxCapacity
}
