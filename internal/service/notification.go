package service

import (
	"context"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, readerID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, readerID, pageSize, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, readerID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, readerID)
}
