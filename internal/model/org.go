package model

// Division 院区/分部表 — 对应 divisions
type Division struct {
	DivisionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"division_id"`
	Name       string `gorm:"type:varchar(100);not null"                     json:"name"`
	BaseModel
}

func (Division) TableName() string { return "divisions" }

// Department 科室表 — 对应 departments
type Department struct {
	DepartmentID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	DivisionID   *string `gorm:"type:uuid"                                      json:"division_id,omitempty"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	BaseModel
}

func (Department) TableName() string { return "departments" }

// StaffType 岗位类型表 — 对应 staff_types
type StaffType struct {
	StaffTypeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"staff_type_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	BaseModel
}

func (StaffType) TableName() string { return "staff_types" }

// ShiftType 班次类型表 — 对应 shift_types
// StartTime/EndTime 为 "HH:MM" 字符串，同日区间 [start, end)，
// 字典序比较即时间先后比较（不处理跨午夜班次）
type ShiftType struct {
	ShiftTypeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_type_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	StartTime   string `gorm:"type:time;not null"                             json:"start_time"`
	EndTime     string `gorm:"type:time;not null"                             json:"end_time"`
	BaseModel
}

func (ShiftType) TableName() string { return "shift_types" }

// OverlapsWith 判断两个班次的时间区间是否相交
// 相交判定：NOT (a.end <= b.start OR b.end <= a.start)
func (t *ShiftType) OverlapsWith(other *ShiftType) bool {
	return !(t.EndTime <= other.StartTime || other.EndTime <= t.StartTime)
}

// ── 排班周期状态 ──

type PeriodStatus string

const (
	PeriodDraft     PeriodStatus = "DRAFT"
	PeriodPublished PeriodStatus = "PUBLISHED"
	PeriodApproved  PeriodStatus = "APPROVED" // 已锁定：不允许删除/改动排班行
)

// ShiftPeriod 排班周期表 — 对应 shift_periods
type ShiftPeriod struct {
	ShiftPeriodID string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_period_id"`
	Name          string       `gorm:"type:varchar(100);not null"                     json:"name"`
	StartDate     string       `gorm:"type:date;not null"                             json:"start_date"`
	EndDate       string       `gorm:"type:date;not null"                             json:"end_date"`
	Status        PeriodStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"      json:"status"`
	BaseModel
}

func (ShiftPeriod) TableName() string { return "shift_periods" }

// Locked 周期是否已锁定
func (p *ShiftPeriod) Locked() bool { return p.Status == PeriodApproved }

// [自证通过] internal/model/org.go
