package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendgridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendgridEmailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendgridEmailService) send(to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}

	return nil
}

func (s *sendgridEmailService) SendBorrowRequestedNotification(ctx context.Context, readerEmail, readerName string, bookTitles []string) error {
	body := fmt.Sprintf("Hello %s,\n\nWe received your borrow request for:\n\n%s\n\nYou will be notified once a librarian reviews it.",
		readerName, "- "+strings.Join(bookTitles, "\n- "))
	return s.send(readerEmail, readerName, "Borrow request received", body)
}

func (s *sendgridEmailService) SendBorrowApprovedNotification(ctx context.Context, readerEmail, readerName string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour borrow request has been approved. Please pick up your books at the front desk.", readerName)
	return s.send(readerEmail, readerName, "Borrow request approved", body)
}

func (s *sendgridEmailService) SendBorrowIssuedNotification(ctx context.Context, readerEmail, readerName, dueDate string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour books have been issued. They are due back on %s.", readerName, dueDate)
	return s.send(readerEmail, readerName, "Books issued", body)
}

func (s *sendgridEmailService) SendBorrowRejectedNotification(ctx context.Context, readerEmail, readerName, notes string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour borrow request has been rejected.", readerName)
	if notes != "" {
		body += fmt.Sprintf("\n\nReason: %s", notes)
	}
	return s.send(readerEmail, readerName, "Borrow request rejected", body)
}

func (s *sendgridEmailService) SendDueReminderNotification(ctx context.Context, readerEmail, readerName, dueDate string) error {
	body := fmt.Sprintf("Hello %s,\n\nThis is a friendly reminder that your borrowed books are due on %s. Renew or return them to avoid late fees.", readerName, dueDate)
	return s.send(readerEmail, readerName, "Books due soon", body)
}

func (s *sendgridEmailService) SendOverdueNotification(ctx context.Context, readerEmail, readerName string, daysLate int64, fine int64) error {
	body := fmt.Sprintf("Hello %s,\n\nYour borrowed books are %d day(s) overdue. The accrued late fee is currently %d. Please return them as soon as possible.", readerName, daysLate, fine)
	return s.send(readerEmail, readerName, "Overdue books", body)
}

func (s *sendgridEmailService) SendReturnReceiptNotification(ctx context.Context, readerEmail, readerName string, fine int64) error {
	body := fmt.Sprintf("Hello %s,\n\nYour return has been processed.", readerName)
	if fine > 0 {
		body += fmt.Sprintf("\n\nAn outstanding fine of %d was recorded. Please settle it at the front desk.", fine)
	}
	return s.send(readerEmail, readerName, "Return receipt", body)
}

func (s *sendgridEmailService) SendSuspensionNotification(ctx context.Context, readerEmail, readerName, reason string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour library account has been suspended.\n\nReason: %s\n\nPlease contact the library to restore your account.", readerName, reason)
	return s.send(readerEmail, readerName, "Account suspended", body)
}
