package models

import "time"

// Listing 餐品表
// status 只由认领流程改写，普通编辑接口不开放该字段。
type Listing struct {
	ID          uint       `gorm:"primarykey" json:"id"`                                      // 主键
	DonorID     uint       `gorm:"index;not null" json:"donor_id"`                            // 发布商家
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`                   // 标题
	Description string     `gorm:"type:text" json:"description"`                              // 描述
	Quantity    int        `gorm:"not null;default:1" json:"quantity"`                        // 份数
	Price       Money      `gorm:"type:decimal(20,2);not null;default:0" json:"price"`        // 价格
	PickupAt    time.Time  `gorm:"index" json:"pickup_at"`                                    // 取餐时间
	ExpiresAt   *time.Time `gorm:"index" json:"expires_at"`                                   // 过期时间
	Address     string     `gorm:"type:varchar(255);not null;default:''" json:"address"`      // 取餐地址
	City        string     `gorm:"type:varchar(100);index;not null;default:''" json:"city"`   // 城市
	ImageURL    string     `gorm:"type:varchar(500);default:''" json:"image_url"`             // 图片地址
	Status      string     `gorm:"type:varchar(20);index;not null" json:"status"`             // 状态
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt   time.Time  `gorm:"index" json:"updated_at"`                                   // 更新时间

	Donor *User `gorm:"foreignKey:DonorID" json:"donor,omitempty"` // 商家
}

// TableName 指定表名
func (Listing) TableName() string {
	return "listings"
}
