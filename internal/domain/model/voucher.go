package model

import "time"

// IssueDateLayout is the wire and storage format of Voucher.IssueDate.
const IssueDateLayout = "2006-01-02"

// Voucher is a purchased bono. It is immutable once stored.
type Voucher struct {
	ID             string
	IssueDate      time.Time
	Description    string
	TotalAmount    int64
	CopayAmount    int64
	PayableAmount  int64
	BeneficiaryRut string
	PhysicianRut   string
}
