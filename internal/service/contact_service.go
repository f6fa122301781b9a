package service

import (
	"fmt"
	"strings"

	"github.com/foodshare-next/internal/constants"
	"github.com/foodshare-next/internal/logger"
	"github.com/foodshare-next/internal/models"
	"github.com/foodshare-next/internal/repository"
)

// ContactService 联系表单
type ContactService struct {
	repo repository.ContactMessageRepository
}

// NewContactService 创建留言服务
func NewContactService(repo repository.ContactMessageRepository) *ContactService {
	return &ContactService{repo: repo}
}

// ContactInput 留言参数
type ContactInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=200"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Submit 保存留言
func (s *ContactService) Submit(input ContactInput) (*models.ContactMessage, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Subject = strings.TrimSpace(input.Subject)
	input.Message = strings.TrimSpace(input.Message)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	message := &models.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Subject: input.Subject,
		Message: input.Message,
		Status:  constants.ContactStatusNew,
	}
	if err := s.repo.Create(message); err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	logger.Infow("contact_message_received", "message_id", message.ID)
	return message, nil
}

// List 管理端留言列表
func (s *ContactService) List(filter repository.ContactMessageListFilter) ([]models.ContactMessage, int64, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	return s.repo.List(filter)
}

// MarkHandled 标记留言已处理
func (s *ContactService) MarkHandled(id uint) error {
	affected, err := s.repo.UpdateStatus(id, constants.ContactStatusHandled)
	if err != nil {
		return fmt.Errorf("update contact message: %w", err)
	}
	if affected == 0 {
		return ErrContactMessageNotFound
	}
	return nil
}
