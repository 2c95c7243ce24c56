package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"libraflow-backend/internal/config"
	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"
	"libraflow-backend/internal/utils"
)

type circulationService struct {
	borrowRepo    repository.BorrowRepository
	bookRepo      repository.BookRepository
	readerRepo    repository.ReaderRepository
	violationRepo repository.ViolationRepository
	noteRepo      repository.NotificationRepository
	emailSvc      EmailService
	txm           repository.TxManager
	policy        config.CirculationConfig
	now           func() time.Time
}

func NewCirculationService(
	borrowRepo repository.BorrowRepository,
	bookRepo repository.BookRepository,
	readerRepo repository.ReaderRepository,
	violationRepo repository.ViolationRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	txm repository.TxManager,
	policy config.CirculationConfig,
) CirculationService {
	return &circulationService{
		borrowRepo:    borrowRepo,
		bookRepo:      bookRepo,
		readerRepo:    readerRepo,
		violationRepo: violationRepo,
		noteRepo:      noteRepo,
		emailSvc:      emailSvc,
		txm:           txm,
		policy:        policy,
		now:           time.Now,
	}
}

func (s *circulationService) Create(ctx context.Context, input CreateBorrowInput) (*domain.BorrowRecord, error) {
	if len(input.BookIDs) == 0 {
		return nil, &domain.ValidationError{Field: "book_ids", Reason: "at least one book is required"}
	}
	if len(input.BookIDs) > s.policy.MaxBooksPerBorrow {
		return nil, &domain.ValidationError{Field: "book_ids",
			Reason: fmt.Sprintf("at most %d books per borrow", s.policy.MaxBooksPerBorrow)}
	}

	now := s.now()

	reader, err := s.readerRepo.GetByID(ctx, input.ReaderID)
	if err != nil {
		return nil, err
	}
	if reader.Status != domain.ReaderStatusActive {
		return nil, domain.Businessf("reader account is %s and cannot borrow", reader.Status)
	}

	overdue, err := s.borrowRepo.HasOverdue(ctx, reader.ID, now)
	if err != nil {
		return nil, err
	}
	if overdue {
		return nil, domain.Businessf("reader has an overdue record; return it before borrowing again")
	}

	// Trailing 7-day window, lower bound inclusive.
	sessions, err := s.borrowRepo.CountSessionsSince(ctx, reader.ID, now.Add(-7*24*time.Hour))
	if err != nil {
		return nil, err
	}
	if sessions >= s.policy.MaxSessionsPerWeek {
		return nil, domain.Businessf("reader already started %d borrow sessions in the past week (limit %d)",
			sessions, s.policy.MaxSessionsPerWeek)
	}

	if reader.UnpaidViolations > s.policy.DebtThreshold {
		return nil, domain.Businessf("reader owes %d in unpaid fines (threshold %d)",
			reader.UnpaidViolations, s.policy.DebtThreshold)
	}

	count := int32(len(input.BookIDs))
	if reader.CurrentBorrowCount+count > reader.BorrowLimit {
		return nil, domain.Businessf("borrow limit exceeded: holding %d, requesting %d, limit %d",
			reader.CurrentBorrowCount, count, reader.BorrowLimit)
	}

	// Availability is re-checked atomically inside the transaction; this
	// pass exists only to fail early with a readable reason.
	titles := make([]string, 0, len(input.BookIDs))
	for _, bookID := range input.BookIDs {
		book, err := s.bookRepo.GetByID(ctx, bookID)
		if err != nil {
			return nil, err
		}
		if book.Status != domain.BookStatusAvailable || book.Available < 1 {
			return nil, domain.Businessf("book %q has no available copy", book.Title)
		}
		titles = append(titles, book.Title)
	}

	duration := input.DurationDays
	if duration <= 0 {
		duration = s.policy.LoanPeriodDays
	}

	status := domain.BorrowStatusPending
	if input.StaffID != nil {
		// Walk-in issue at the desk skips the approval queue.
		status = domain.BorrowStatusBorrowed
	}

	record := &domain.BorrowRecord{
		ReaderID:    reader.ID,
		StaffID:     input.StaffID,
		SessionID:   uuid.NewString(),
		BorrowDate:  now,
		DueDate:     now.AddDate(0, 0, duration),
		Status:      status,
		MaxRenewals: s.policy.MaxRenewals,
	}
	for _, bookID := range input.BookIDs {
		record.Lines = append(record.Lines, domain.BorrowLine{BookID: bookID, Status: status})
	}

	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		for _, bookID := range input.BookIDs {
			if err := s.bookRepo.ReserveCopy(ctx, bookID); err != nil {
				return err
			}
		}
		if err := s.readerRepo.AdjustCounters(ctx, reader.ID, count, count, 0, 0); err != nil {
			return err
		}
		return s.borrowRepo.Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, reader.ID, "Borrow request received",
		fmt.Sprintf("Your borrow request for %d book(s) was recorded with status %s", count, record.Status),
		record.ID)
	if s.emailSvc != nil {
		_ = s.emailSvc.SendBorrowRequestedNotification(ctx, reader.Email, reader.Name, titles)
	}
	return record, nil
}

func (s *circulationService) Approve(ctx context.Context, recordID, staffID int32) (*domain.BorrowRecord, error) {
	record, err := s.borrowRepo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.Status == domain.BorrowStatusApproved {
		return record, nil // idempotent
	}
	if record.Status != domain.BorrowStatusPending {
		return nil, domain.Businessf("cannot approve a record in status %s", record.Status)
	}

	record.Status = domain.BorrowStatusApproved
	record.StaffID = &staffID
	for i := range record.Lines {
		record.Lines[i].Status = domain.BorrowStatusApproved
	}
	if err := s.borrowRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	s.notify(ctx, record.ReaderID, "Borrow request approved",
		"Your borrow request was approved; pick up the books at the desk", record.ID)
	if reader, rerr := s.readerRepo.GetByID(ctx, record.ReaderID); rerr == nil && s.emailSvc != nil {
		_ = s.emailSvc.SendBorrowApprovedNotification(ctx, reader.Email, reader.Name)
	}
	return record, nil
}

func (s *circulationService) Issue(ctx context.Context, recordID, staffID int32) (*domain.BorrowRecord, error) {
	record, err := s.borrowRepo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.Status == domain.BorrowStatusBorrowed {
		return record, nil // idempotent
	}
	if record.Status != domain.BorrowStatusPending && record.Status != domain.BorrowStatusApproved {
		return nil, domain.Businessf("cannot issue a record in status %s", record.Status)
	}

	// The loan clock starts at pickup, not at request time.
	now := s.now()
	record.Status = domain.BorrowStatusBorrowed
	record.StaffID = &staffID
	record.BorrowDate = now
	record.DueDate = now.AddDate(0, 0, s.policy.LoanPeriodDays)
	for i := range record.Lines {
		record.Lines[i].Status = domain.BorrowStatusBorrowed
	}
	if err := s.borrowRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	s.notify(ctx, record.ReaderID, "Books issued",
		fmt.Sprintf("Your books were issued; due back on %s", record.DueDate.Format("2006-01-02")), record.ID)
	if reader, rerr := s.readerRepo.GetByID(ctx, record.ReaderID); rerr == nil && s.emailSvc != nil {
		_ = s.emailSvc.SendBorrowIssuedNotification(ctx, reader.Email, reader.Name, record.DueDate.Format("2006-01-02"))
	}
	return record, nil
}

func (s *circulationService) Reject(ctx context.Context, recordID, staffID int32, notes string) (*domain.BorrowRecord, error) {
	record, err := s.borrowRepo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.Status == domain.BorrowStatusRejected || record.Status == domain.BorrowStatusCancelled {
		return record, nil // idempotent
	}
	if record.Status != domain.BorrowStatusPending && record.Status != domain.BorrowStatusApproved {
		return nil, domain.Businessf("cannot reject a record in status %s", record.Status)
	}

	record.Status = domain.BorrowStatusRejected
	record.StaffID = &staffID
	if notes != "" {
		record.Notes = notes
	}
	for i := range record.Lines {
		record.Lines[i].Status = domain.BorrowStatusRejected
	}
	if err := s.release(ctx, record); err != nil {
		return nil, err
	}

	s.notify(ctx, record.ReaderID, "Borrow request rejected", notes, record.ID)
	if reader, rerr := s.readerRepo.GetByID(ctx, record.ReaderID); rerr == nil && s.emailSvc != nil {
		_ = s.emailSvc.SendBorrowRejectedNotification(ctx, reader.Email, reader.Name, notes)
	}
	return record, nil
}

func (s *circulationService) Cancel(ctx context.Context, recordID int32, actor domain.Principal) (*domain.BorrowRecord, error) {
	record, err := s.borrowRepo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && actor.ID != record.ReaderID {
		return nil, domain.ErrUnauthorized
	}
	if record.Status == domain.BorrowStatusCancelled || record.Status == domain.BorrowStatusRejected {
		return record, nil // idempotent
	}
	if record.Status != domain.BorrowStatusPending && record.Status != domain.BorrowStatusApproved {
		return nil, domain.Businessf("cannot cancel a record in status %s", record.Status)
	}

	record.Status = domain.BorrowStatusCancelled
	for i := range record.Lines {
		record.Lines[i].Status = domain.BorrowStatusCancelled
	}
	if err := s.release(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// release restocks every line and rolls the reader's counters back, for
// reject and cancel. Inventory returns exactly to its pre-create state.
func (s *circulationService) release(ctx context.Context, record *domain.BorrowRecord) error {
	count := int32(len(record.Lines))
	return s.txm.WithinTx(ctx, func(ctx context.Context) error {
		for _, ln := range record.Lines {
			if err := s.bookRepo.RestockCopy(ctx, ln.BookID); err != nil {
				return err
			}
		}
		if err := s.readerRepo.AdjustCounters(ctx, record.ReaderID, -count, -count, 0, 0); err != nil {
			return err
		}
		return s.borrowRepo.Update(ctx, record)
	})
}

func (s *circulationService) Renew(ctx context.Context, recordID int32, actor domain.Principal) (*domain.BorrowRecord, error) {
	record, err := s.borrowRepo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && actor.ID != record.ReaderID {
		return nil, domain.ErrUnauthorized
	}
	if record.Status != domain.BorrowStatusBorrowed {
		return nil, domain.Businessf("cannot renew a record in status %s", record.Status)
	}

	now := s.now()
	if now.After(record.DueDate) {
		return nil, domain.Businessf("record is overdue and cannot be renewed")
	}
	if record.RenewalCount >= record.MaxRenewals {
		return nil, domain.Businessf("renewal limit reached (%d of %d)", record.RenewalCount, record.MaxRenewals)
	}

	bookIDs := make([]int32, 0, len(record.Lines))
	for _, ln := range record.Lines {
		bookIDs = append(bookIDs, ln.BookID)
	}
	held, err := s.borrowRepo.HasPendingForBooks(ctx, bookIDs, record.ID)
	if err != nil {
		return nil, err
	}
	if held {
		return nil, domain.Businessf("a book on this record is requested by another pending borrow")
	}

	record.DueDate = record.DueDate.AddDate(0, 0, s.policy.LoanPeriodDays)
	record.RenewalCount++
	for i := range record.Lines {
		record.Lines[i].RenewalCount++
	}
	if err := s.borrowRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	s.notify(ctx, record.ReaderID, "Loan renewed",
		fmt.Sprintf("Your loan was renewed; new due date %s", record.DueDate.Format("2006-01-02")), record.ID)
	return record, nil
}

func (s *circulationService) Return(ctx context.Context, recordID, staffID int32, input ReturnInput) (*domain.BorrowRecord, *domain.Violation, error) {
	record, err := s.borrowRepo.GetByID(ctx, recordID)
	if err != nil {
		return nil, nil, err
	}
	if record.Status.Terminal() {
		return nil, nil, domain.Businessf("record is already closed with status %s", record.Status)
	}
	if record.Status != domain.BorrowStatusBorrowed {
		return nil, nil, domain.Businessf("cannot return a record in status %s", record.Status)
	}

	reader, err := s.readerRepo.GetByID(ctx, record.ReaderID)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	overdue := now.After(record.DueDate)
	daysLate := utils.OverdueDays(record.DueDate, now)
	autoFee := utils.OverdueFee(record.DueDate, now, s.policy.FinePerDay)

	// A manually assessed general amount overrides the automatic late fee.
	generalFee := autoFee
	if input.ViolationAmount > 0 {
		generalFee = input.ViolationAmount
	}

	var reasons []string
	if overdue {
		reasons = append(reasons, fmt.Sprintf("overdue by %d day(s)", daysLate))
	}
	if input.ViolationReason != "" {
		reasons = append(reasons, input.ViolationReason)
	}

	// Updates queue up per book id and are consumed one per line, so a
	// repeated book id charges each of its lines at most once.
	updates := make(map[int32][]ReturnLineUpdate, len(input.Lines))
	for _, u := range input.Lines {
		updates[u.BookID] = append(updates[u.BookID], u)
	}

	var lineFees int64
	for i := range record.Lines {
		ln := &record.Lines[i]
		lineStatus := domain.BorrowStatusReturned
		if pending := updates[ln.BookID]; len(pending) > 0 {
			u := pending[0]
			updates[ln.BookID] = pending[1:]
			if u.Status != "" {
				switch u.Status {
				case domain.BorrowStatusReturned, domain.BorrowStatusDamaged,
					domain.BorrowStatusDamagedHeavy, domain.BorrowStatusLost:
					lineStatus = u.Status
				default:
					return nil, nil, &domain.ValidationError{Field: "lines",
						Reason: fmt.Sprintf("illegal return status %s for book %d", u.Status, ln.BookID)}
				}
			}
			ln.FineAmount = u.Fee
			ln.FineReason = u.Reason
			lineFees += u.Fee
			if u.Reason != "" {
				reasons = append(reasons, u.Reason)
			}
		}
		ln.Status = lineStatus
		ln.ReturnDate = &now
	}

	totalFine := generalFee + lineFees

	finalStatus := utils.AggregateStatus(record.Lines)
	if finalStatus == domain.BorrowStatusDamaged {
		finalStatus = domain.BorrowStatusReturnedWithViolation
	}
	if finalStatus == domain.BorrowStatusReturned && totalFine > 0 {
		finalStatus = domain.BorrowStatusReturnedWithViolation
	}

	record.Status = finalStatus
	record.StaffID = &staffID
	record.ReturnDate = &now
	record.FineAmount = totalFine
	record.FineReason = utils.JoinReasons(reasons)
	record.FinePaid = totalFine == 0
	if input.Notes != "" {
		record.Notes = input.Notes
	}

	var violation *domain.Violation
	var overdueDelta int32
	if overdue {
		overdueDelta = 1
	}

	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		for _, ln := range record.Lines {
			switch ln.Status {
			case domain.BorrowStatusLost:
				if err := s.bookRepo.WriteOffCopy(ctx, ln.BookID, domain.BookStatusLost); err != nil {
					return err
				}
			case domain.BorrowStatusDamagedHeavy:
				if err := s.bookRepo.WriteOffCopy(ctx, ln.BookID, domain.BookStatusDamaged); err != nil {
					return err
				}
			default:
				if err := s.bookRepo.RestockCopy(ctx, ln.BookID); err != nil {
					return err
				}
			}
		}

		if err := s.borrowRepo.Update(ctx, record); err != nil {
			return err
		}

		count := int32(len(record.Lines))
		if err := s.readerRepo.AdjustCounters(ctx, reader.ID, -count, 0, overdueDelta, totalFine); err != nil {
			return err
		}

		if totalFine > 0 {
			violation = &domain.Violation{
				ReaderID: reader.ID,
				BorrowID: &record.ID,
				Amount:   totalFine,
				Reason:   record.FineReason,
			}
			if err := s.violationRepo.Create(ctx, violation); err != nil {
				return err
			}
		}

		return s.applyStandingRules(ctx, reader, overdueDelta, totalFine, now)
	})
	if err != nil {
		return nil, nil, err
	}

	s.notify(ctx, reader.ID, "Books returned",
		fmt.Sprintf("Your return was processed with status %s; fine: %d", record.Status, totalFine), record.ID)
	if s.emailSvc != nil {
		_ = s.emailSvc.SendReturnReceiptNotification(ctx, reader.Email, reader.Name, totalFine)
	}
	return record, violation, nil
}

// applyStandingRules applies auto-suspension and auto-reactivation after a
// return has been recorded. Called inside the return transaction.
func (s *circulationService) applyStandingRules(ctx context.Context, reader *domain.Reader, overdueDelta int32, fineDelta int64, now time.Time) error {
	overdueCount := reader.OverdueCount + overdueDelta
	unpaid := reader.UnpaidViolations + fineDelta

	if overdueDelta > 0 && overdueCount >= s.policy.SuspendAfter {
		if reader.Status != domain.ReaderStatusSuspended {
			if err := s.readerRepo.SetStatus(ctx, reader.ID, domain.ReaderStatusSuspended); err != nil {
				return err
			}
			if s.emailSvc != nil {
				_ = s.emailSvc.SendSuspensionNotification(ctx, reader.Email, reader.Name,
					fmt.Sprintf("account suspended after %d overdue returns", overdueCount))
			}
		}
		return nil
	}

	if reader.Status == domain.ReaderStatusSuspended && unpaid <= s.policy.DebtThreshold {
		stillOverdue, err := s.borrowRepo.HasOverdue(ctx, reader.ID, now)
		if err != nil {
			return err
		}
		if !stillOverdue {
			return s.readerRepo.SetStatus(ctx, reader.ID, domain.ReaderStatusActive)
		}
	}
	return nil
}

func (s *circulationService) GetReaderHistory(ctx context.Context, readerID int32) ([]domain.BorrowRecord, error) {
	if _, err := s.readerRepo.GetByID(ctx, readerID); err != nil {
		return nil, err
	}
	records, err := s.borrowRepo.ListByReader(ctx, readerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range records {
		records[i].Decorate(now)
	}
	return records, nil
}

func (s *circulationService) List(ctx context.Context, status string, page, pageSize int32) ([]domain.BorrowRecord, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	now := s.now()

	// OVERDUE is derived, never stored: the filter translates to BORROWED
	// records already past due.
	var dueBefore time.Time
	if status == string(domain.BorrowStatusOverdue) {
		status = string(domain.BorrowStatusBorrowed)
		dueBefore = now
	}

	records, total, err := s.borrowRepo.List(ctx, status, dueBefore, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	for i := range records {
		records[i].Decorate(now)
	}
	return records, total, nil
}

// notify writes a best-effort in-app notification. Failures are logged by
// the repository and otherwise ignored; circulation never fails on them.
func (s *circulationService) notify(ctx context.Context, readerID int32, title, message string, recordID int32) {
	if s.noteRepo == nil {
		return
	}
	note := &domain.Notification{
		ReaderID: readerID,
		Title:    title,
		Message:  message,
		Attributes: map[string]string{
			"type":      "CIRCULATION",
			"borrow_id": fmt.Sprintf("%d", recordID),
		},
	}
	_ = s.noteRepo.Create(ctx, note)
}
