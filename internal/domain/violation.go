package domain

import "time"

// Violation is a monetary penalty tied to a reader and, usually, a borrow
// record. Created once per fining return/rejection event; never mutated
// afterwards except to flip the paid flag.
type Violation struct {
	ID        int32      `json:"id"`
	ReaderID  int32      `json:"reader_id"`
	BorrowID  *int32     `json:"borrow_id,omitempty"`
	Amount    int64      `json:"amount"`
	Reason    string     `json:"reason"`
	Paid      bool       `json:"paid"`
	CreatedOn time.Time  `json:"created_on"`
	PaidOn    *time.Time `json:"paid_on,omitempty"`
}
