package model

// Beneficiary is an account holder of the benefits portal, identified by RUT.
type Beneficiary struct {
	Rut      string
	Name     string
	Tier     string // tramo de ingreso; opaque to the portal beyond storage and display
	Password string
}
