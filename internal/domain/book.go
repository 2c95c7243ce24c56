package domain

type BookStatus string

const (
	BookStatusAvailable   BookStatus = "AVAILABLE"
	BookStatusUnavailable BookStatus = "UNAVAILABLE"
	BookStatusLost        BookStatus = "LOST"
	BookStatusDamaged     BookStatus = "DAMAGED"
)

type Book struct {
	ID            int32      `json:"id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	ISBN          string     `json:"isbn"`
	Publisher     string     `json:"publisher"`
	PublishedYear int32      `json:"published_year"`
	Categories    []string   `json:"categories"`
	Description   string     `json:"description"`
	// Inventory counters. Mutated only through the circulation paths
	// (reserve on borrow, restock on return/reject/cancel, write-off on loss).
	Available     int32      `json:"available"`
	Borrowed      int32      `json:"borrowed"`
	TotalBorrowed int32      `json:"total_borrowed"`
	Status        BookStatus `json:"status"`
	CreatedOn     string     `json:"created_on"`
	DeletedOn     *string    `json:"deleted_on,omitempty"`
}
