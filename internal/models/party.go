package models

// Architect is a marketplace architect profile.
type Architect struct {
	ID             FlexInt   `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Specialization string    `json:"specialization"`
	Experience     FlexInt   `json:"experience"`
	Rating         FlexFloat `json:"rating"`
	PortfolioURL   string    `json:"portfolio_url"`
}

// Contractor is a marketplace contractor profile.
type Contractor struct {
	ID            FlexInt   `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	LicenseNumber string    `json:"license_number"`
	Rating        FlexFloat `json:"rating"`
	Location      string    `json:"location"`
}

// Layout is an entry in the prebuilt layout library.
type Layout struct {
	ID          FlexInt   `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Sqft        FlexFloat `json:"sqft"`
	Bedrooms    FlexInt   `json:"bedrooms"`
	Bathrooms   FlexInt   `json:"bathrooms"`
	Floors      FlexInt   `json:"floors"`
	ImageURL    string    `json:"image_url"`
	Style       string    `json:"style"`
}
