package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"libraflow-backend/internal/domain"
)

func TestOverdueDays(t *testing.T) {
	due := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int64
	}{
		{"BeforeDue", due.Add(-time.Hour), 0},
		{"ExactlyDue", due, 0},
		{"OneHourLate", due.Add(time.Hour), 1},
		{"ExactlyOneDay", due.Add(24 * time.Hour), 1},
		{"OneDayAndAMinute", due.Add(24*time.Hour + time.Minute), 2},
		{"ThreeDays", due.Add(72 * time.Hour), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverdueDays(due, tt.now))
		})
	}
}

func TestOverdueFee(t *testing.T) {
	due := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, int64(0), OverdueFee(due, due, 5000))
	assert.Equal(t, int64(15000), OverdueFee(due, due.Add(72*time.Hour), 5000))
}

func TestAggregateStatus(t *testing.T) {
	lines := func(statuses ...domain.BorrowStatus) []domain.BorrowLine {
		var out []domain.BorrowLine
		for _, s := range statuses {
			out = append(out, domain.BorrowLine{Status: s})
		}
		return out
	}

	tests := []struct {
		name  string
		lines []domain.BorrowLine
		want  domain.BorrowStatus
	}{
		{"Empty", nil, domain.BorrowStatusPending},
		{"AllReturned", lines(domain.BorrowStatusReturned, domain.BorrowStatusReturned), domain.BorrowStatusReturned},
		{"LostWins", lines(domain.BorrowStatusReturned, domain.BorrowStatusLost), domain.BorrowStatusLost},
		{"HeavyDamageOverDamage", lines(domain.BorrowStatusDamaged, domain.BorrowStatusDamagedHeavy), domain.BorrowStatusDamagedHeavy},
		{"TieKeepsFirst", lines(domain.BorrowStatusDamaged, domain.BorrowStatusReturnedWithViolation), domain.BorrowStatusDamaged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AggregateStatus(tt.lines))
		})
	}
}

func TestJoinReasons(t *testing.T) {
	assert.Equal(t, "", JoinReasons(nil))
	assert.Equal(t, "a; b", JoinReasons([]string{"a", "", "b", "a"}))
}
