package correction

import "fmt"

// Quantity is one of the three algebraically linked output quantities.
// capacity = power × COP.
type Quantity int

const (
	Capacity Quantity = iota
	Power
	COP
)

// Quantities lists every Quantity in column order.
var Quantities = []Quantity{Capacity, Power, COP}

func (q Quantity) String() string {
	switch q {
	case Capacity:
		return "capacity"
	case Power:
		return "power"
	case COP:
		return "COP"
	}
	return fmt.Sprintf("Quantity(%d)", int(q))
}

// ParseQuantity maps a column name to its Quantity.
func ParseQuantity(name string) (Quantity, error) {
	for _, q := range Quantities {
		if q.String() == name {
			return q, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownQuantity, name)
}

// IsQuantity reports whether name is capacity, power or COP.
func IsQuantity(name string) bool {
	_, err := ParseQuantity(name)
	return err == nil
}
