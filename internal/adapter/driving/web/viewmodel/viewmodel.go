// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// FlashViewModel is a one-shot notice rendered at the top of a page.
type FlashViewModel struct {
	Category string
	Message  string
}

// UserViewModel is the logged-in beneficiary as cached in the session.
type UserViewModel struct {
	Rut  string
	Name string
	Tier string
}

// PageViewModel holds what the layout needs on every page.
type PageViewModel struct {
	Title     string
	CSRFToken string
	Flashes   []FlashViewModel
	User      *UserViewModel
}

// LoggedIn reports whether the page is rendered for an authenticated user.
func (p PageViewModel) LoggedIn() bool {
	return p.User != nil
}

// ProfileViewModel holds the values of the profile update form.
type ProfileViewModel struct {
	Rut  string
	Name string
	Tier string
}

// PhysicianViewModel is one row of the physician search results.
type PhysicianViewModel struct {
	Rut       string
	Name      string
	Specialty string
	Commune   string
}

// OptionViewModel is one entry of a <select>.
type OptionViewModel struct {
	Value    string
	Selected bool
}

// SearchViewModel holds the physician search form, its results, and the
// purchase form shown alongside them.
type SearchViewModel struct {
	Kind        string
	Value       string
	Specialties []OptionViewModel
	Communes    []OptionViewModel
	Physicians  []PhysicianViewModel
	Filtered    bool
	Today       string
}

// VoucherViewModel holds presentation-ready data for one voucher row.
type VoucherViewModel struct {
	ID              string
	IssueDate       string
	DescriptionHTML string
	Total           string
	Copay           string
	Payable         string
	PhysicianRut    string
}
