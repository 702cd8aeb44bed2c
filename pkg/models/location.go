package models

// Location is a named point in the transport network. Only Terminal
// locations may appear as an intermediate stop inside a traject; Shipper
// and EmptyDepot locations may only be an order's origin or destination.
type Location struct {
	ID   int          `json:"id"`
	Name string       `json:"name"`
	Role LocationRole `json:"role"`
}

// IsTerminal reports whether the location may be used as an intermediate
// stop.
func (l Location) IsTerminal() bool {
	return l.Role == Terminal
}

// IsShipper reports whether the location is a shipper (only origin/destination).
func (l Location) IsShipper() bool {
	return l.Role == Shipper
}

// IsEmptyDepot reports whether the location is an empty depot (only origin/destination).
func (l Location) IsEmptyDepot() bool {
	return l.Role == EmptyDepot
}

func (l Location) String() string {
	return l.Name + " " + l.Role.String()
}

// Validate checks that the location is internally consistent.
func (l Location) Validate() error {
	var errs ValidationErrors
	errs.AddIf(l.Name == "", "Name", l.Name, "Name cannot be empty")
	errs.AddIf(!l.Role.IsValid(), "Role", l.Role, "Role must be one of terminal, shipper, empty_depot")
	if errs.HasErrors() {
		return errs
	}
	return nil
}
