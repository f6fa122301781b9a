package repository

import (
	"time"

	"github.com/foodshare-next/internal/models"

	"gorm.io/gorm"
)

// ContactMessageRepository 留言数据访问接口
type ContactMessageRepository interface {
	Create(message *models.ContactMessage) error
	List(filter ContactMessageListFilter) ([]models.ContactMessage, int64, error)
	UpdateStatus(id uint, status string) (int64, error)
}

// GormContactMessageRepository GORM 实现
type GormContactMessageRepository struct {
	db *gorm.DB
}

// NewContactMessageRepository 创建留言仓库
func NewContactMessageRepository(db *gorm.DB) *GormContactMessageRepository {
	return &GormContactMessageRepository{db: db}
}

// Create 保存留言
func (r *GormContactMessageRepository) Create(message *models.ContactMessage) error {
	return r.db.Create(message).Error
}

// List 留言列表
func (r *GormContactMessageRepository) List(filter ContactMessageListFilter) ([]models.ContactMessage, int64, error) {
	query := r.db.Model(&models.ContactMessage{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)
	var messages []models.ContactMessage
	if err := query.Order("id DESC").Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// UpdateStatus 更新留言状态
func (r *GormContactMessageRepository) UpdateStatus(id uint, status string) (int64, error) {
	result := r.db.Model(&models.ContactMessage{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	return result.RowsAffected, result.Error
}
