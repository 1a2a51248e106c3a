package model

import (
	"time"

	"gorm.io/gorm"
)

// History 用户提交过的代码记录，创建后不可修改，删除为物理删除
// swagger:model
type History struct {
	// Seq 仅用于同一时间戳下的插入顺序
	Seq       uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	ID        string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"_id"`
	UserID    string    `gorm:"size:128;not null;index:idx_histories_user_created,priority:1" json:"user_id"`
	Code      string    `gorm:"type:text;not null" json:"code"`
	Language  string    `gorm:"size:20;not null" json:"language"`
	CreatedAt time.Time `gorm:"index:idx_histories_user_created,priority:2;index" json:"created_at"`
}

func (History) TableName() string {
	return "histories"
}

func (h *History) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == "" {
		h.ID = GenerateUUID()
	}
	return
}
