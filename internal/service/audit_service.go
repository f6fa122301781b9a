package service

import (
	"strings"
	"time"

	"github.com/foodshare-next/internal/models"
	"github.com/foodshare-next/internal/repository"
)

// AuditRecordInput 审计记录输入
type AuditRecordInput struct {
	OperatorID    uint
	OperatorEmail string
	Action        string
	TargetType    string
	TargetID      uint
	Role          string
	Object        string
	Method        string
	RequestID     string
	Detail        models.JSON
}

// AuditService 管理端审计服务
type AuditService struct {
	repo repository.AuditLogRepository
}

// NewAuditService 创建审计服务
func NewAuditService(repo repository.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record 写入审计日志，缺少操作人或动作时忽略
func (s *AuditService) Record(input AuditRecordInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if input.OperatorID == 0 || strings.TrimSpace(input.Action) == "" {
		return nil
	}
	return s.repo.Create(&models.AdminAuditLog{
		OperatorID:    input.OperatorID,
		OperatorEmail: strings.ToLower(strings.TrimSpace(input.OperatorEmail)),
		Action:        strings.TrimSpace(input.Action),
		TargetType:    strings.TrimSpace(input.TargetType),
		TargetID:      input.TargetID,
		Role:          strings.TrimSpace(input.Role),
		Object:        strings.TrimSpace(input.Object),
		Method:        strings.ToUpper(strings.TrimSpace(input.Method)),
		RequestID:     strings.TrimSpace(input.RequestID),
		DetailJSON:    input.Detail,
		CreatedAt:     time.Now(),
	})
}

// List 管理端查询审计日志
func (s *AuditService) List(filter repository.AuditLogListFilter) ([]models.AdminAuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AdminAuditLog{}, 0, nil
	}
	filter.Action = strings.TrimSpace(filter.Action)
	filter.TargetType = strings.TrimSpace(filter.TargetType)
	return s.repo.List(filter)
}
