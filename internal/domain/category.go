package domain

import "time"

// Category is a user-defined spending bucket. Categories are listed by Position.
type Category struct {
	ID        string
	Name      string
	Color     string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the category fields.
func (c *Category) Validate() error {
	if err := ValidateName(c.Name); err != nil {
		return err
	}
	return ValidateColor(c.Color)
}

// CategoryNames returns the names in list order.
func CategoryNames(categories []*Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}
