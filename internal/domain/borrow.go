package domain

import "time"

type BorrowStatus string

const (
	BorrowStatusPending               BorrowStatus = "PENDING"
	BorrowStatusApproved              BorrowStatus = "APPROVED"
	BorrowStatusBorrowed              BorrowStatus = "BORROWED"
	BorrowStatusRejected              BorrowStatus = "REJECTED"
	BorrowStatusCancelled             BorrowStatus = "CANCELLED"
	BorrowStatusReturned              BorrowStatus = "RETURNED"
	BorrowStatusReturnedWithViolation BorrowStatus = "RETURNED_WITH_VIOLATION"
	BorrowStatusDamaged               BorrowStatus = "DAMAGED"
	BorrowStatusDamagedHeavy          BorrowStatus = "DAMAGED_HEAVY"
	BorrowStatusLost                  BorrowStatus = "LOST"

	// BorrowStatusOverdue is a derived read-time label over BORROWED
	// records whose due date has passed. It is never persisted.
	BorrowStatusOverdue BorrowStatus = "OVERDUE"
)

// severityRank orders statuses so a record's overall status is always the
// most severe status among its lines.
var severityRank = map[BorrowStatus]int{
	BorrowStatusLost:                  8,
	BorrowStatusDamagedHeavy:          7,
	BorrowStatusReturnedWithViolation: 6,
	BorrowStatusDamaged:               6,
	BorrowStatusReturned:              5,
	BorrowStatusBorrowed:              4,
	BorrowStatusApproved:              3,
	BorrowStatusPending:               2,
	BorrowStatusRejected:              1,
	BorrowStatusCancelled:             1,
}

// Severity returns the severity rank of a status. Unknown statuses rank lowest.
func (s BorrowStatus) Severity() int {
	return severityRank[s]
}

// Terminal reports whether the status is absorbing. Transition operations
// re-invoked on a terminal record are idempotent no-ops (Return errors instead).
func (s BorrowStatus) Terminal() bool {
	switch s {
	case BorrowStatusRejected, BorrowStatusCancelled, BorrowStatusReturned,
		BorrowStatusReturnedWithViolation, BorrowStatusLost, BorrowStatusDamagedHeavy:
		return true
	}
	return false
}

// Closed reports whether the record went through a Return (as opposed to
// being rejected or cancelled before issuance).
func (s BorrowStatus) Closed() bool {
	switch s {
	case BorrowStatusReturned, BorrowStatusReturnedWithViolation,
		BorrowStatusLost, BorrowStatusDamagedHeavy:
		return true
	}
	return false
}

// BorrowLine is one book entry within a borrow record. Its status mirrors the
// record's status but can diverge on return, e.g. one book lost while the
// others come back fine.
type BorrowLine struct {
	ID           int32        `json:"id"`
	BorrowID     int32        `json:"borrow_id"`
	BookID       int32        `json:"book_id"`
	Book         *Book        `json:"book,omitempty"` // populated on detail reads
	Status       BorrowStatus `json:"status"`
	ReturnDate   *time.Time   `json:"return_date,omitempty"`
	RenewalCount int32        `json:"renewal_count"`
	FineAmount   int64        `json:"fine_amount"`
	FineReason   string       `json:"fine_reason,omitempty"`
}

// BorrowRecord is one circulation transaction for a reader, covering 1-5 books
// requested together under one session id.
type BorrowRecord struct {
	ID         int32        `json:"id"`
	ReaderID   int32        `json:"reader_id"`
	StaffID    *int32       `json:"staff_id,omitempty"` // nil until a staff member acts on the record
	SessionID  string       `json:"session_id"`
	Lines      []BorrowLine `json:"lines"`
	BorrowDate time.Time    `json:"borrow_date"`
	DueDate    time.Time    `json:"due_date"`
	ReturnDate *time.Time   `json:"return_date,omitempty"`
	Status     BorrowStatus `json:"status"`
	// DisplayStatus is the read-time status with the derived OVERDUE label
	// applied. Filled by Decorate on read paths, never persisted.
	DisplayStatus BorrowStatus `json:"display_status,omitempty"`
	RenewalCount  int32        `json:"renewal_count"`
	MaxRenewals   int32        `json:"max_renewals"`
	FineAmount    int64        `json:"fine_amount"`
	FineReason    string       `json:"fine_reason,omitempty"`
	FinePaid      bool         `json:"fine_paid"`
	Notes         string       `json:"notes,omitempty"`
	CreatedOn     time.Time    `json:"created_on"`
	UpdatedOn     time.Time    `json:"updated_on"`
}

// Overdue reports whether the record is past due at the given instant.
// Overdue is derived, not stored: only BORROWED records can be overdue.
func (r *BorrowRecord) Overdue(now time.Time) bool {
	return r.Status == BorrowStatusBorrowed && now.After(r.DueDate)
}

// Decorate fills DisplayStatus for a read response.
func (r *BorrowRecord) Decorate(now time.Time) {
	if r.Overdue(now) {
		r.DisplayStatus = BorrowStatusOverdue
		return
	}
	r.DisplayStatus = r.Status
}
