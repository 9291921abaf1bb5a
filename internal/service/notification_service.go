package service

import (
	"context"
	"errors"
	"time"

	"keymarket/internal/dto"
	"keymarket/internal/model"
	"keymarket/internal/repository"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService interface {
	List(ctx context.Context, userID uint, unreadOnly bool, page, limit int) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, userID, id uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) List(ctx context.Context, userID uint, unreadOnly bool, page, limit int) (*dto.NotificationListResponse, error) {
	rows, total, err := s.repo.ListByUser(ctx, userID, unreadOnly, page, limit)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	items := make([]dto.NotificationResponse, 0, len(rows))
	for i := range rows {
		item, err := notificationToResponse(&rows[i])
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return &dto.NotificationListResponse{
		Data:   items,
		Total:  total,
		Unread: unread,
		Page:   page,
		Limit:  limit,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id uint) error {
	err := s.repo.MarkRead(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func notificationToResponse(n *model.Notification) (*dto.NotificationResponse, error) {
	related, err := n.Related()
	if err != nil {
		return nil, err
	}
	resp := &dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}
	if related != nil {
		resp.Related = &dto.ReferenceDTO{Kind: string(related.Kind), ID: related.ID}
	}
	return resp, nil
}
