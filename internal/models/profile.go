package models

// UserProfile represents the user-facing profile stored alongside the
// commitment record. Age and country are optional.
type UserProfile struct {
	// Name is the display name of the user
	Name string `json:"name" validate:"required,max=100"`

	// Age is the user's age in years, omitted when not provided
	Age int `json:"age,omitempty" validate:"omitempty,min=1,max=150"`

	// Country is the user's country, omitted when not provided
	Country string `json:"country,omitempty" validate:"omitempty,max=100"`
}

// ProfileUpdate represents the data that can be updated on a profile.
// Only fields present in the request are applied.
type ProfileUpdate struct {
	// Name is the new display name
	Name *string `json:"name" validate:"omitempty,max=100"`

	// Age is the new age in years
	Age *int `json:"age" validate:"omitempty,min=1,max=150"`

	// Country is the new country
	Country *string `json:"country" validate:"omitempty,max=100"`
}

// Apply updates the UserProfile with values from the update request,
// leaving absent fields unchanged.
func (p *UserProfile) Apply(update *ProfileUpdate) {
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Age != nil {
		p.Age = *update.Age
	}
	if update.Country != nil {
		p.Country = *update.Country
	}
}
