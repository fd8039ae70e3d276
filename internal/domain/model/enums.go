package model

// SearchKind selects which physician column the free-text search applies to.
type SearchKind string

const (
	SearchKindName SearchKind = "nombre"
	SearchKindRut  SearchKind = "rut"
)

// FlashCategory classifies a one-shot notice shown on the next rendered page.
type FlashCategory string

const (
	FlashSuccess FlashCategory = "success"
	FlashError   FlashCategory = "error"
	FlashInfo    FlashCategory = "info"
)
