package jobs

import (
	"context"
	"fmt"
	"time"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/logger"
	"libraflow-backend/internal/utils"
)

// SendDueDateReminders emails every reader whose loan falls due within the
// next two days. Read-only over borrow records; the derived overdue label
// never touches the stored status.
func (jr *JobRunner) SendDueDateReminders() {
	jr.runWithRecovery("SendDueDateReminders", func() {
		ctx := context.Background()
		now := time.Now()

		records, err := jr.store.BorrowRepository.ListDueBetween(ctx, now, now.Add(48*time.Hour))
		if err != nil {
			logger.Error("Failed to list records due soon", "error", err)
			return
		}

		sent := 0
		for _, record := range records {
			reader, err := jr.store.ReaderRepository.GetByID(ctx, record.ReaderID)
			if err != nil {
				logger.Error("Failed to load reader for due reminder", "reader_id", record.ReaderID, "error", err)
				continue
			}

			dueDate := record.DueDate.Format("2006-01-02")
			if err := jr.services.Email.SendDueReminderNotification(ctx, reader.Email, reader.Name, dueDate); err != nil {
				logger.Error("Failed to send due reminder", "reader_id", reader.ID, "error", err)
				continue
			}

			_ = jr.store.NotificationRepository.Create(ctx, &domain.Notification{
				ReaderID: reader.ID,
				Title:    "Books due soon",
				Message:  fmt.Sprintf("Your borrowed books are due on %s", dueDate),
				Attributes: map[string]string{
					"type":      "DUE_REMINDER",
					"borrow_id": fmt.Sprintf("%d", record.ID),
				},
			})
			sent++
		}

		logger.Info("Due date reminders sent", "count", sent, "candidates", len(records))
	})
}

// SendOverdueNotices emails every reader holding a record past its due date,
// with the late fee accrued so far.
func (jr *JobRunner) SendOverdueNotices() {
	jr.runWithRecovery("SendOverdueNotices", func() {
		ctx := context.Background()
		now := time.Now()

		// Anything still out with a due date before now.
		records, err := jr.store.BorrowRepository.ListDueBetween(ctx, time.Time{}, now)
		if err != nil {
			logger.Error("Failed to list overdue records", "error", err)
			return
		}

		finePerDay := jr.config.Circulation.FinePerDay
		sent := 0
		for _, record := range records {
			reader, err := jr.store.ReaderRepository.GetByID(ctx, record.ReaderID)
			if err != nil {
				logger.Error("Failed to load reader for overdue notice", "reader_id", record.ReaderID, "error", err)
				continue
			}

			daysLate := utils.OverdueDays(record.DueDate, now)
			fine := utils.OverdueFee(record.DueDate, now, finePerDay)
			if err := jr.services.Email.SendOverdueNotification(ctx, reader.Email, reader.Name, daysLate, fine); err != nil {
				logger.Error("Failed to send overdue notice", "reader_id", reader.ID, "error", err)
				continue
			}

			_ = jr.store.NotificationRepository.Create(ctx, &domain.Notification{
				ReaderID: reader.ID,
				Title:    "Overdue books",
				Message:  fmt.Sprintf("Your books are %d day(s) overdue; the accrued fee is %d", daysLate, fine),
				Attributes: map[string]string{
					"type":      "OVERDUE_NOTICE",
					"borrow_id": fmt.Sprintf("%d", record.ID),
				},
			})
			sent++
		}

		logger.Info("Overdue notices sent", "count", sent, "candidates", len(records))
	})
}
