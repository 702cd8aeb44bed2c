package models

// ContainerType identifies a class of container by its tare weight, used
// to compute ad-hoc leg emissions (kg CO2/tonne-km * weight).
type ContainerType struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"` // tare weight, tonnes
}

func (ct ContainerType) String() string {
	return ct.Name
}

// Validate checks that the container type has sane fields.
func (ct ContainerType) Validate() error {
	var errs ValidationErrors
	errs.AddIf(ct.Name == "", "Name", ct.Name, "Name cannot be empty")
	errs.AddIf(ct.Weight < 0, "Weight", ct.Weight, "Weight must be non-negative")
	if errs.HasErrors() {
		return errs
	}
	return nil
}
