package service

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"libraflow-backend/internal/config"
)

// NewEmailService builds the outbound mail implementation selected by
// config. Unknown providers fall back to SMTP; config validation rejects
// them before we get here.
func NewEmailService(cfg config.EmailConfig) EmailService {
	if cfg.Provider == "sendgrid" {
		return NewSendGridEmailService(cfg.SendGridAPIKey, cfg.From, cfg.FromName)
	}
	return &smtpEmailService{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.User,
		password: cfg.Password,
		from:     cfg.From,
	}
}

type smtpEmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func (s *smtpEmailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}

	return nil
}

func (s *smtpEmailService) SendBorrowRequestedNotification(ctx context.Context, readerEmail, readerName string, bookTitles []string) error {
	body := fmt.Sprintf("Hello %s,\n\nWe received your borrow request for:\n\n%s\n\nYou will be notified once a librarian reviews it.\n\nBest regards,\nThe LibraFlow Team",
		readerName, "- "+strings.Join(bookTitles, "\n- "))
	return s.send(readerEmail, "Borrow request received", body)
}

func (s *smtpEmailService) SendBorrowApprovedNotification(ctx context.Context, readerEmail, readerName string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour borrow request has been approved. Please pick up your books at the front desk.\n\nBest regards,\nThe LibraFlow Team", readerName)
	return s.send(readerEmail, "Borrow request approved", body)
}

func (s *smtpEmailService) SendBorrowIssuedNotification(ctx context.Context, readerEmail, readerName, dueDate string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour books have been issued. They are due back on %s.\n\nBest regards,\nThe LibraFlow Team", readerName, dueDate)
	return s.send(readerEmail, "Books issued", body)
}

func (s *smtpEmailService) SendBorrowRejectedNotification(ctx context.Context, readerEmail, readerName, notes string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour borrow request has been rejected.", readerName)
	if notes != "" {
		body += fmt.Sprintf("\n\nReason: %s", notes)
	}
	body += "\n\nBest regards,\nThe LibraFlow Team"
	return s.send(readerEmail, "Borrow request rejected", body)
}

func (s *smtpEmailService) SendDueReminderNotification(ctx context.Context, readerEmail, readerName, dueDate string) error {
	body := fmt.Sprintf("Hello %s,\n\nThis is a friendly reminder that your borrowed books are due on %s. Renew or return them to avoid late fees.\n\nBest regards,\nThe LibraFlow Team", readerName, dueDate)
	return s.send(readerEmail, "Books due soon", body)
}

func (s *smtpEmailService) SendOverdueNotification(ctx context.Context, readerEmail, readerName string, daysLate int64, fine int64) error {
	body := fmt.Sprintf("Hello %s,\n\nYour borrowed books are %d day(s) overdue. The accrued late fee is currently %d. Please return them as soon as possible.\n\nBest regards,\nThe LibraFlow Team", readerName, daysLate, fine)
	return s.send(readerEmail, "Overdue books", body)
}

func (s *smtpEmailService) SendReturnReceiptNotification(ctx context.Context, readerEmail, readerName string, fine int64) error {
	body := fmt.Sprintf("Hello %s,\n\nYour return has been processed.", readerName)
	if fine > 0 {
		body += fmt.Sprintf("\n\nAn outstanding fine of %d was recorded. Please settle it at the front desk.", fine)
	}
	body += "\n\nBest regards,\nThe LibraFlow Team"
	return s.send(readerEmail, "Return receipt", body)
}

func (s *smtpEmailService) SendSuspensionNotification(ctx context.Context, readerEmail, readerName, reason string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour library account has been suspended.\n\nReason: %s\n\nPlease contact the library to restore your account.\n\nBest regards,\nThe LibraFlow Team", readerName, reason)
	return s.send(readerEmail, "Account suspended", body)
}
