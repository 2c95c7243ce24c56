package utils

import (
	"strings"
	"time"

	"libraflow-backend/internal/domain"
)

// OverdueDays returns the number of chargeable late days at the given
// instant. Any fraction of a day counts as a full day; zero when the record
// is not yet past due.
func OverdueDays(dueDate, now time.Time) int64 {
	if !now.After(dueDate) {
		return 0
	}
	late := now.Sub(dueDate)
	days := int64(late / (24 * time.Hour))
	if late%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// OverdueFee computes the automatic late fee: chargeable days times the
// configured per-day fine.
func OverdueFee(dueDate, now time.Time, finePerDay int64) int64 {
	return OverdueDays(dueDate, now) * finePerDay
}

// AggregateStatus returns the most severe status among the given lines.
// Ties keep the first line's status.
func AggregateStatus(lines []domain.BorrowLine) domain.BorrowStatus {
	if len(lines) == 0 {
		return domain.BorrowStatusPending
	}
	result := lines[0].Status
	for _, ln := range lines[1:] {
		if ln.Status.Severity() > result.Severity() {
			result = ln.Status
		}
	}
	return result
}

// JoinReasons joins distinct non-empty reason strings in order of first
// appearance, for the aggregated violation reason.
func JoinReasons(reasons []string) string {
	seen := make(map[string]bool, len(reasons))
	var out []string
	for _, r := range reasons {
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return strings.Join(out, "; ")
}
