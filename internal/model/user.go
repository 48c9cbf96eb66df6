package model

// User 用户表 — 对应 users
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'staff'"      json:"role"` // staff | manager | admin
	StaffTypeID  *string `gorm:"type:uuid"                                      json:"staff_type_id,omitempty"`
	IsActive     bool    `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	StaffType *StaffType `gorm:"foreignKey:StaffTypeID;references:StaffTypeID" json:"staff_type,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// UserManager 用户-审批人映射表 — 对应 user_managers
// is_primary = TRUE 的行即该用户的默认审批人（至多一行）
type UserManager struct {
	UserManagerID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_manager_id"`
	UserID        string `gorm:"type:uuid;not null"                             json:"user_id"`
	ManagerUserID string `gorm:"type:uuid;not null"                             json:"manager_user_id"`
	IsPrimary     bool   `gorm:"not null;default:false"                         json:"is_primary"`
	BaseModel
}

// TableName 指定表名
func (UserManager) TableName() string { return "user_managers" }

// UserDepartment 用户可排班部门表 — 对应 user_departments
type UserDepartment struct {
	UserDepartmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_department_id"`
	UserID           string `gorm:"type:uuid;not null"                             json:"user_id"`
	DepartmentID     string `gorm:"type:uuid;not null"                             json:"department_id"`
	BaseModel
}

// TableName 指定表名
func (UserDepartment) TableName() string { return "user_departments" }

// UserDivision 用户可排班院区表 — 对应 user_divisions
type UserDivision struct {
	UserDivisionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_division_id"`
	UserID         string `gorm:"type:uuid;not null"                             json:"user_id"`
	DivisionID     string `gorm:"type:uuid;not null"                             json:"division_id"`
	BaseModel
}

// TableName 指定表名
func (UserDivision) TableName() string { return "user_divisions" }

// [自证通过] internal/model/user.go
