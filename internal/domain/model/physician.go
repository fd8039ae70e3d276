package model

import "strings"

// Physician is a doctor that vouchers can be purchased for.
type Physician struct {
	Rut       string
	Name      string
	Specialty string
	Commune   string
}

// PhysicianQuery is the raw search input as submitted by the search form.
type PhysicianQuery struct {
	Kind      SearchKind
	Value     string
	Specialty string
	Commune   string
}

// PhysicianFilter is a conjunction of optional predicates. Empty fields are
// absent and must not restrict the result.
type PhysicianFilter struct {
	NameContains string
	RutContains  string
	Specialty    string
	Commune      string
}

// IsEmpty reports whether no predicate is set.
func (f PhysicianFilter) IsEmpty() bool {
	return f == PhysicianFilter{}
}

// Filter normalises the query into a PhysicianFilter. The free-text value is
// applied to exactly one column selected by Kind; an unknown kind yields no
// name or RUT predicate.
func (q PhysicianQuery) Filter() PhysicianFilter {
	f := PhysicianFilter{
		Specialty: strings.TrimSpace(q.Specialty),
		Commune:   strings.TrimSpace(q.Commune),
	}

	value := strings.TrimSpace(q.Value)
	if value == "" {
		return f
	}

	switch SearchKind(strings.TrimSpace(string(q.Kind))) {
	case SearchKindName:
		f.NameContains = value
	case SearchKindRut:
		f.RutContains = value
	}

	return f
}
