package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MalathSam1994/shiftly-api/internal/dto"
	"github.com/MalathSam1994/shiftly-api/internal/model"
	"github.com/MalathSam1994/shiftly-api/internal/repository"
	apperr "github.com/MalathSam1994/shiftly-api/pkg/errors"
)

// ── 变更请求模块业务错误 ──

var (
	ErrRequestNotFound       = apperr.New(apperr.KindNotFound, "变更请求不存在")
	ErrRequestNotPending     = apperr.New(apperr.KindBusinessRule, "变更请求已进入终态")
	ErrNotInboxUser          = apperr.New(apperr.KindAuthorization, "当前请求不待您处理")
	ErrNotRequestOwner       = apperr.New(apperr.KindAuthorization, "只能撤回本人发起的请求")
	ErrAssignmentNotFound    = apperr.New(apperr.KindNotFound, "排班行不存在")
	ErrAssignmentNotOwned    = apperr.New(apperr.KindAuthorization, "排班行不属于操作用户")
	ErrAssignmentIsAbsence   = apperr.New(apperr.KindBusinessRule, "缺勤占位行不可参与此操作")
	ErrAssignmentCancelled   = apperr.New(apperr.KindBusinessRule, "排班行已取消")
	ErrShiftTypeNotFound     = apperr.New(apperr.KindNotFound, "班次类型不存在")
	ErrShiftOverlap          = apperr.New(apperr.KindBusinessRule, "与该用户同日已有班次时间重叠")
	ErrSlotConflict          = apperr.New(apperr.KindBusinessRule, "目标槽位已被其他排班占用")
	ErrSlotOccupiedByAbsence = apperr.New(apperr.KindBusinessRule, "目标槽位已被缺勤占位，不可双重占用")
	ErrNoManager             = apperr.New(apperr.KindBusinessRule, "用户无默认审批人，审批链无法建立")
	ErrAssignmentUnderReview = apperr.New(apperr.KindBusinessRule, "排班行已有进行中的变更请求")
	ErrAbsenceAlreadyCovers  = apperr.New(apperr.KindBusinessRule, "该日期已有缺勤记录")
	ErrSwitchSameSlot        = apperr.New(apperr.KindBusinessRule, "两个排班行属于同一槽位，互换无意义")
	ErrSwitchDifferentMonth  = apperr.New(apperr.KindBusinessRule, "互换双方的班次必须在同一个月内")
	ErrSwitchNotLikeForLike  = apperr.New(apperr.KindBusinessRule, "互换双方的院区/科室/岗位/班次类型必须一致")
	ErrSwitchTargetMismatch  = apperr.New(apperr.KindBusinessRule, "目标排班行的归属用户已变更")
	ErrOfferNotFound         = apperr.New(apperr.KindNotFound, "转让单不存在")
	ErrOfferNotActive        = apperr.New(apperr.KindBusinessRule, "转让单已非有效状态")
	ErrOfferOwnShift         = apperr.New(apperr.KindBusinessRule, "不能领取本人转让的班次")
	ErrOfferNotEligible      = apperr.New(apperr.KindAuthorization, "不符合该转让班次的领取条件")
	ErrRequestNotApproved    = apperr.New(apperr.KindBusinessRule, "请求尚未批准，不可挂接排班行")
	ErrRequestTypeMismatch   = apperr.New(apperr.KindBusinessRule, "请求类型不支持此操作")
	ErrRequestFieldMissing   = apperr.New(apperr.KindValidation, "请求类型所需字段缺失")
)

// RequestService 变更请求业务接口 — 审批链状态机
type RequestService interface {
	// 创建变更请求（按类型落入各自的初始 PENDING 状态）
	Create(ctx context.Context, req *dto.CreateRequestRequest, actorID string) (*dto.RequestResponse, error)
	// 审批：推进收件箱或完成终态变更
	Approve(ctx context.Context, requestID, actorID string, req *dto.DecideRequestRequest) (*dto.RequestResponse, error)
	// 驳回：任意 PENDING* 状态下的单步终态迁移，不触碰排班/缺勤/转让数据
	Reject(ctx context.Context, requestID, actorID string, req *dto.DecideRequestRequest) (*dto.RequestResponse, error)
	// 撤回：请求人删除仍在审批中的本人请求（硬删除）
	Retract(ctx context.Context, requestID, actorID string) error
	// 列表（收件箱/我发起的/按状态）
	List(ctx context.Context, req *dto.RequestListRequest) ([]dto.RequestResponse, error)
	// 将已批准的 NEW_SHIFT 请求挂接到实际创建的排班行（幂等写流水）
	AttachAssignment(ctx context.Context, requestID, actorID string, req *dto.AttachAssignmentRequest) error
}

type requestService struct {
	repo     *repository.Repository
	notifier *Notifier
	logger   *zap.Logger
}

// NewRequestService 创建 RequestService 实例
func NewRequestService(repo *repository.Repository, notifier *Notifier, logger *zap.Logger) RequestService {
	return &requestService{repo: repo, notifier: notifier, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Create — 按请求类型建链
// ════════════════════════════════════════════════════════════

func (s *requestService) Create(ctx context.Context, req *dto.CreateRequestRequest, actorID string) (*dto.RequestResponse, error) {
	var (
		created   *model.ShiftRequest
		notifyIDs []string
	)

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var (
			r   *model.ShiftRequest
			err error
		)
		switch model.RequestType(req.RequestType) {
		case model.RequestNewShift:
			r, err = s.createNewShift(ctx, tx, req, actorID)
		case model.RequestOffRequest:
			r, err = s.createOffRequest(ctx, tx, req, actorID)
		case model.RequestSwitch:
			r, err = s.createSwitch(ctx, tx, req, actorID)
		case model.RequestOffer:
			r, err = s.createOffer(ctx, tx, req, actorID)
		default:
			return ErrRequestFieldMissing
		}
		if err != nil {
			return err
		}

		if err := tx.Request.Create(ctx, r); err != nil {
			return apperr.Wrap(apperr.KindStore, "创建变更请求失败", err)
		}
		created = r

		if inbox := r.CurrentApprover(); inbox != nil {
			id, err := s.notifier.Write(ctx, tx, &model.Notification{
				RecipientUserID:  *inbox,
				NotificationType: model.NotifyRequestCreated,
				Title:            "新的待审批请求",
				Body:             "您有一条 " + string(r.RequestType) + " 请求等待处理",
			})
			if err != nil {
				return apperr.Wrap(apperr.KindStore, "写入通知失败", err)
			}
			notifyIDs = append(notifyIDs, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, notifyIDs)
	return toRequestResponse(created), nil
}

// createNewShift NEW_SHIFT：单审批人链
func (s *requestService) createNewShift(ctx context.Context, tx *repository.Repository, req *dto.CreateRequestRequest, actorID string) (*model.ShiftRequest, error) {
	if req.RequestedShiftDate == "" || req.RequestedShiftTypeID == "" || req.RequestedDepartmentID == "" {
		return nil, ErrRequestFieldMissing
	}
	date, err := time.Parse(model.DateLayout, req.RequestedShiftDate)
	if err != nil {
		return nil, ErrRequestFieldMissing
	}

	if _, err := tx.ShiftType.GetByID(ctx, req.RequestedShiftTypeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftTypeNotFound
		}
		return nil, apperr.Wrap(apperr.KindStore, "查询班次类型失败", err)
	}

	overlap, err := tx.Assignment.HasOverlap(ctx, actorID, date, req.RequestedShiftTypeID, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "重叠校验失败", err)
	}
	if overlap {
		return nil, ErrShiftOverlap
	}

	inbox, err := s.resolveApprover(ctx, tx, actorID, req.ManagerUserID)
	if err != nil {
		return nil, err
	}

	r := &model.ShiftRequest{
		RequestType:           model.RequestNewShift,
		RequestStatus:         model.StatusPending,
		RequestedByUserID:     actorID,
		InboxUserID:           &inbox,
		RequestedShiftDate:    date,
		RequestedShiftTypeID:  req.RequestedShiftTypeID,
		RequestedDepartmentID: req.RequestedDepartmentID,
	}
	if req.DivisionID != "" {
		r.DivisionID = &req.DivisionID
	}
	return r, nil
}

// createOffRequest OFF_REQUEST：对已排班次申请缺勤，单审批人链
func (s *requestService) createOffRequest(ctx context.Context, tx *repository.Repository, req *dto.CreateRequestRequest, actorID string) (*model.ShiftRequest, error) {
	if req.ShiftAssignmentID == "" || req.RequestedAbsenceType == "" {
		return nil, ErrRequestFieldMissing
	}

	a, err := s.lockAssignment(ctx, tx, req.ShiftAssignmentID)
	if err != nil {
		return nil, err
	}
	if a.UserID != actorID {
		return nil, ErrAssignmentNotOwned
	}
	if a.IsAbsence {
		return nil, ErrAssignmentIsAbsence
	}
	if a.Status == model.AssignmentCancelled {
		return nil, ErrAssignmentCancelled
	}

	covering, err := tx.Absence.FindCovering(ctx, actorID, a.ShiftDate)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "查询缺勤区间失败", err)
	}
	if len(covering) > 0 {
		return nil, ErrAbsenceAlreadyCovers
	}

	if err := s.guardNoPending(ctx, tx, a.ShiftAssignmentID, nil); err != nil {
		return nil, err
	}

	inbox, err := s.resolveApprover(ctx, tx, actorID, req.ManagerUserID)
	if err != nil {
		return nil, err
	}

	absenceType := req.RequestedAbsenceType
	return &model.ShiftRequest{
		RequestType:           model.RequestOffRequest,
		RequestStatus:         model.StatusPending,
		RequestedByUserID:     actorID,
		InboxUserID:           &inbox,
		ShiftAssignmentID:     &a.ShiftAssignmentID,
		RequestedShiftDate:    a.ShiftDate,
		RequestedShiftTypeID:  a.ShiftTypeID,
		RequestedDepartmentID: a.DepartmentID,
		DivisionID:            &a.DivisionID,
		RequestedAbsenceType:  &absenceType,
	}, nil
}

// createSwitch SWITCH：三段审批链，首站为对方本人
func (s *requestService) createSwitch(ctx context.Context, tx *repository.Repository, req *dto.CreateRequestRequest, actorID string) (*model.ShiftRequest, error) {
	if req.SourceShiftAssignmentID == "" || req.TargetShiftAssignmentID == "" {
		return nil, ErrRequestFieldMissing
	}
	if req.SourceShiftAssignmentID == req.TargetShiftAssignmentID {
		return nil, ErrSwitchSameSlot
	}

	src, tgt, err := s.lockAssignmentPair(ctx, tx, req.SourceShiftAssignmentID, req.TargetShiftAssignmentID)
	if err != nil {
		return nil, err
	}

	if src.UserID != actorID {
		return nil, ErrAssignmentNotOwned
	}
	if src.IsAbsence || tgt.IsAbsence {
		return nil, ErrAssignmentIsAbsence
	}
	if src.Status == model.AssignmentCancelled || tgt.Status == model.AssignmentCancelled {
		return nil, ErrAssignmentCancelled
	}
	if src.SameSlot(tgt) {
		return nil, ErrSwitchSameSlot
	}
	if !model.SameMonth(src.ShiftDate, tgt.ShiftDate) {
		return nil, ErrSwitchDifferentMonth
	}
	if src.DivisionID != tgt.DivisionID || src.DepartmentID != tgt.DepartmentID ||
		src.StaffTypeID != tgt.StaffTypeID || src.ShiftTypeID != tgt.ShiftTypeID {
		return nil, ErrSwitchNotLikeForLike
	}

	if err := s.checkSwapOverlaps(ctx, tx, src, tgt); err != nil {
		return nil, err
	}
	if err := s.guardNoPending(ctx, tx, src.ShiftAssignmentID, nil); err != nil {
		return nil, err
	}
	if err := s.guardNoPending(ctx, tx, tgt.ShiftAssignmentID, nil); err != nil {
		return nil, err
	}

	return &model.ShiftRequest{
		RequestType:             model.RequestSwitch,
		RequestStatus:           model.StatusPendingTargetUser,
		RequestedByUserID:       actorID,
		TargetUserID:            &tgt.UserID,
		InboxUserID:             &tgt.UserID,
		SourceShiftAssignmentID: &src.ShiftAssignmentID,
		TargetShiftAssignmentID: &tgt.ShiftAssignmentID,
		RequestedShiftDate:      tgt.ShiftDate,
		RequestedShiftTypeID:    tgt.ShiftTypeID,
		RequestedDepartmentID:   tgt.DepartmentID,
		DivisionID:              &tgt.DivisionID,
	}, nil
}

// createOffer OFFER：领取他人转让班次，首站为转让方主管
func (s *requestService) createOffer(ctx context.Context, tx *repository.Repository, req *dto.CreateRequestRequest, actorID string) (*model.ShiftRequest, error) {
	if req.ShiftOfferID == "" {
		return nil, ErrRequestFieldMissing
	}

	offer, err := tx.Offer.GetByIDForUpdate(ctx, req.ShiftOfferID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, apperr.Wrap(apperr.KindStore, "查询转让单失败", err)
	}
	if offer.Status != model.OfferActive {
		return nil, ErrOfferNotActive
	}
	if offer.OfferedByUserID == actorID {
		return nil, ErrOfferOwnShift
	}

	a, err := s.lockAssignment(ctx, tx, offer.ShiftAssignmentID)
	if err != nil {
		return nil, err
	}
	if a.IsAbsence {
		return nil, ErrAssignmentIsAbsence
	}

	if err := s.checkOfferEligibility(ctx, tx, offer, a, actorID); err != nil {
		return nil, err
	}

	overlap, err := tx.Assignment.HasOverlap(ctx, actorID, a.ShiftDate, a.ShiftTypeID, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "重叠校验失败", err)
	}
	if overlap {
		return nil, ErrShiftOverlap
	}

	if err := s.guardNoPending(ctx, tx, a.ShiftAssignmentID, nil); err != nil {
		return nil, err
	}

	inbox, err := s.primaryManagerOf(ctx, tx, offer.OfferedByUserID)
	if err != nil {
		return nil, err
	}

	return &model.ShiftRequest{
		RequestType:           model.RequestOffer,
		RequestStatus:         model.StatusPendingOfferOwnMgr,
		RequestedByUserID:     actorID,
		TargetUserID:          &offer.OfferedByUserID,
		InboxUserID:           &inbox,
		ShiftAssignmentID:     &a.ShiftAssignmentID,
		ShiftOfferID:          &offer.ShiftOfferID,
		RequestedShiftDate:    a.ShiftDate,
		RequestedShiftTypeID:  a.ShiftTypeID,
		RequestedDepartmentID: a.DepartmentID,
		DivisionID:            &a.DivisionID,
	}, nil
}

// ════════════════════════════════════════════════════════════
// Approve — 收件箱推进 / 终态落盘
// ════════════════════════════════════════════════════════════

func (s *requestService) Approve(ctx context.Context, requestID, actorID string, req *dto.DecideRequestRequest) (*dto.RequestResponse, error) {
	var (
		updated   *model.ShiftRequest
		notifyIDs []string
	)

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		r, err := s.lockPendingRequest(ctx, tx, requestID, actorID)
		if err != nil {
			return err
		}

		var ids []string
		switch r.RequestType {
		case model.RequestNewShift:
			ids, err = s.approveNewShift(ctx, tx, r, actorID, req.Comment)
		case model.RequestOffRequest:
			ids, err = s.approveOffRequest(ctx, tx, r, actorID, req.Comment)
		case model.RequestSwitch:
			ids, err = s.approveSwitch(ctx, tx, r, actorID, req.Comment)
		case model.RequestOffer:
			ids, err = s.approveOffer(ctx, tx, r, actorID, req.Comment)
		default:
			return ErrRequestTypeMismatch
		}
		if err != nil {
			return err
		}

		if err := tx.Request.Update(ctx, r); err != nil {
			return apperr.Wrap(apperr.KindStore, "更新变更请求失败", err)
		}
		updated = r
		notifyIDs = ids
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, notifyIDs)
	return toRequestResponse(updated), nil
}

// approveNewShift PENDING → APPROVED：清除当日缺勤，排班行由挂接步骤补建
func (s *requestService) approveNewShift(ctx context.Context, tx *repository.Repository, r *model.ShiftRequest, actorID string, comment *string) ([]string, error) {
	overlap, err := tx.Assignment.HasOverlap(ctx, r.RequestedByUserID, r.RequestedShiftDate, r.RequestedShiftTypeID, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "重叠校验失败", err)
	}
	if overlap {
		return nil, ErrShiftOverlap
	}

	if err := removeAbsenceCoverage(ctx, tx, r.RequestedByUserID, r.RequestedShiftDate); err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "清除缺勤覆盖失败", err)
	}

	s.finalize(r, model.StatusApproved, actorID, comment)
	id, err := s.notifyDecision(ctx, tx, r, model.NotifyRequestApproved, "新班次申请已批准")
	if err != nil {
		return nil, err
	}
	return []string{id}, nil
}

// approveOffRequest PENDING → APPROVED：落缺勤行 + 一条流水
func (s *requestService) approveOffRequest(ctx context.Context, tx *repository.Repository, r *model.ShiftRequest, actorID string, comment *string) ([]string, error) {
	if r.ShiftAssignmentID == nil {
		return nil, ErrRequestFieldMissing
	}
	a, err := s.lockAssignment(ctx, tx, *r.ShiftAssignmentID)
	if err != nil {
		return nil, err
	}
	if a.UserID != r.RequestedByUserID {
		return nil, ErrAssignmentNotOwned
	}
	if a.IsAbsence {
		return nil, ErrAssignmentIsAbsence
	}

	// 幂等：审批时若已有缺勤覆盖当日，跳过插入
	covering, err := tx.Absence.FindCovering(ctx, r.RequestedByUserID, a.ShiftDate)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "查询缺勤区间失败", err)
	}
	if len(covering) == 0 {
		absence := &model.UserAbsence{
			UserID:      r.RequestedByUserID,
			AbsenceType: *r.RequestedAbsenceType,
			StartDate:   a.ShiftDate,
			EndDate:     a.ShiftDate,
		}
		absence.CreatedBy = &actorID
		if err := tx.Absence.Create(ctx, absence); err != nil {
			return nil, apperr.Wrap(apperr.KindStore, "写入缺勤区间失败", err)
		}
	}

	if err := s.recordHistory(ctx, tx, &model.AssignmentUserHistory{
		ShiftAssignmentID: a.ShiftAssignmentID,
		FromUserID:        &a.UserID,
		ToUserID:          a.UserID,
		ChangeReason:      model.RequestOffRequest,
		ShiftRequestID:    &r.ShiftRequestID,
		ShiftDate:         a.ShiftDate,
		ShiftTypeID:       a.ShiftTypeID,
		DepartmentID:      a.DepartmentID,
		DivisionID:        &a.DivisionID,
		Comment:           r.RequestedAbsenceType,
	}); err != nil {
		return nil, err
	}

	s.finalize(r, model.StatusApproved, actorID, comment)
	id, err := s.notifyDecision(ctx, tx, r, model.NotifyRequestApproved, "缺勤申请已批准")
	if err != nil {
		return nil, err
	}
	return []string{id}, nil
}

// approveSwitch 三段链推进；最后一跳落盘互换
func (s *requestService) approveSwitch(ctx context.Context, tx *repository.Repository, r *model.ShiftRequest, actorID string, comment *string) ([]string, error) {
	if r.SourceShiftAssignmentID == nil || r.TargetShiftAssignmentID == nil {
		return nil, ErrRequestFieldMissing
	}
	src, tgt, err := s.lockAssignmentPair(ctx, tx, *r.SourceShiftAssignmentID, *r.TargetShiftAssignmentID)
	if err != nil {
		return nil, err
	}

	// 每一跳都重新核对归属与重叠——自创建以来事实可能已变化
	if src.UserID != r.RequestedByUserID {
		return nil, ErrAssignmentNotOwned
	}
	if r.TargetUserID == nil || tgt.UserID != *r.TargetUserID {
		return nil, ErrSwitchTargetMismatch
	}
	if src.IsAbsence || tgt.IsAbsence {
		return nil, ErrAssignmentIsAbsence
	}
	if src.Status == model.AssignmentCancelled || tgt.Status == model.AssignmentCancelled {
		return nil, ErrAssignmentCancelled
	}
	if err := s.checkSwapOverlaps(ctx, tx, src, tgt); err != nil {
		return nil, err
	}

	switch r.RequestStatus {
	case model.StatusPendingTargetUser:
		// 对方本人同意 → 流转至对方主管
		mgr, err := s.primaryManagerOf(ctx, tx, tgt.UserID)
		if err != nil {
			return nil, err
		}
		s.advance(r, model.StatusPendingTargetMgr, mgr, actorID)
		id, err := s.notifyAdvance(ctx, tx, r, mgr)
		if err != nil {
			return nil, err
		}
		return []string{id}, nil

	case model.StatusPendingTargetMgr:
		srcMgr, err := s.primaryManagerOf(ctx, tx, src.UserID)
		if err != nil {
			return nil, err
		}
		// 共同主管捷径：双方主管为同一人时无需二次签字，直接落盘
		if srcMgr == actorID {
			return s.finalizeSwitch(ctx, tx, r, src, tgt, actorID, comment)
		}
		s.advance(r, model.StatusPendingSourceMgr, srcMgr, actorID)
		id, err := s.notifyAdvance(ctx, tx, r, srcMgr)
		if err != nil {
			return nil, err
		}
		return []string{id}, nil

	case model.StatusPendingSourceMgr:
		return s.finalizeSwitch(ctx, tx, r, src, tgt, actorID, comment)

	default:
		return nil, ErrRequestNotPending
	}
}

// finalizeSwitch 互换落盘：缺勤清除 → 槽位化解 → 双向改归属 → 两条流水
func (s *requestService) finalizeSwitch(ctx context.Context, tx *repository.Repository, r *model.ShiftRequest, src, tgt *model.ShiftAssignment, actorID string, comment *string) ([]string, error) {
	excludes := []string{src.ShiftAssignmentID, tgt.ShiftAssignmentID}

	// 请求人接手对方班次；对方接手请求人班次
	if err := removeAbsenceCoverage(ctx, tx, src.UserID, tgt.ShiftDate); err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "清除缺勤覆盖失败", err)
	}
	if err := removeAbsenceCoverage(ctx, tx, tgt.UserID, src.ShiftDate); err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "清除缺勤覆盖失败", err)
	}

	if err := s.reserveSlot(ctx, tx, tgt.SlotKeyFor(src.UserID), excludes); err != nil {
		return nil, err
	}
	if err := s.reserveSlot(ctx, tx, src.SlotKeyFor(tgt.UserID), excludes); err != nil {
		return nil, err
	}

	srcOwner, tgtOwner := src.UserID, tgt.UserID
	if err := tx.Assignment.UpdateOwner(ctx, src.ShiftAssignmentID, tgtOwner); err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "变更排班归属失败", err)
	}
	if err := tx.Assignment.UpdateOwner(ctx, tgt.ShiftAssignmentID, srcOwner); err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "变更排班归属失败", err)
	}

	for _, h := range []*model.AssignmentUserHistory{
		{
			ShiftAssignmentID: src.ShiftAssignmentID,
			FromUserID:        &srcOwner,
			ToUserID:          tgtOwner,
			ChangeReason:      model.RequestSwitch,
			ShiftRequestID:    &r.ShiftRequestID,
			ShiftDate:         src.ShiftDate,
			ShiftTypeID:       src.ShiftTypeID,
			DepartmentID:      src.DepartmentID,
			DivisionID:        &src.DivisionID,
			Comment:           comment,
		},
		{
			ShiftAssignmentID: tgt.ShiftAssignmentID,
			FromUserID:        &tgtOwner,
			ToUserID:          srcOwner,
			ChangeReason:      model.RequestSwitch,
			ShiftRequestID:    &r.ShiftRequestID,
			ShiftDate:         tgt.ShiftDate,
			ShiftTypeID:       tgt.ShiftTypeID,
			DepartmentID:      tgt.DepartmentID,
			DivisionID:        &tgt.DivisionID,
			Comment:           comment,
		},
	} {
		if err := s.recordHistory(ctx, tx, h); err != nil {
			return nil, err
		}
	}

	s.finalize(r, model.StatusApproved, actorID, comment)

	var ids []string
	for _, uid := range []string{srcOwner, tgtOwner} {
		id, err := s.notifier.Write(ctx, tx, &model.Notification{
			RecipientUserID:  uid,
			NotificationType: model.NotifyRequestApproved,
			Title:            "换班已生效",
			Body:             "换班请求已全部批准，双方班次归属已互换",
		})
		if err != nil {
			return nil, apperr.Wrap(apperr.KindStore, "写入通知失败", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// approveOffer 一到两段链推进；最后一跳落盘转让
func (s *requestService) approveOffer(ctx context.Context, tx *repository.Repository, r *model.ShiftRequest, actorID string, comment *string) ([]string, error) {
	if r.ShiftOfferID == nil {
		return nil, ErrRequestFieldMissing
	}

	switch r.RequestStatus {
	case model.StatusPendingOfferOwnMgr:
		reqMgr, err := s.primaryManagerOf(ctx, tx, r.RequestedByUserID)
		if err != nil {
			return nil, err
		}
		// 领取方主管与当前决策人不同 → 增加一跳；相同则直接落盘
		if reqMgr != actorID {
			s.advance(r, model.StatusPendingRequestorMgr, reqMgr, actorID)
			id, err := s.notifyAdvance(ctx, tx, r, reqMgr)
			if err != nil {
				return nil, err
			}
			return []string{id}, nil
		}
		return s.finalizeOffer(ctx, tx, r, actorID, comment)

	case model.StatusPendingRequestorMgr:
		return s.finalizeOffer(ctx, tx, r, actorID, comment)

	default:
		return nil, ErrRequestNotPending
	}
}

// finalizeOffer 转让落盘：复核有效性与重叠 → 槽位化解 → 改归属 → 转让单 TAKEN
func (s *requestService) finalizeOffer(ctx context.Context, tx *repository.Repository, r *model.ShiftRequest, actorID string, comment *string) ([]string, error) {
	offer, err := tx.Offer.GetByIDForUpdate(ctx, *r.ShiftOfferID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, apperr.Wrap(apperr.KindStore, "查询转让单失败", err)
	}
	if offer.Status != model.OfferActive {
		return nil, ErrOfferNotActive
	}

	a, err := s.lockAssignment(ctx, tx, offer.ShiftAssignmentID)
	if err != nil {
		return nil, err
	}
	if a.IsAbsence {
		return nil, ErrAssignmentIsAbsence
	}

	overlap, err := tx.Assignment.HasOverlap(ctx, r.RequestedByUserID, a.ShiftDate, a.ShiftTypeID, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "重叠校验失败", err)
	}
	if overlap {
		return nil, ErrShiftOverlap
	}

	if err := removeAbsenceCoverage(ctx, tx, r.RequestedByUserID, a.ShiftDate); err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "清除缺勤覆盖失败", err)
	}
	if err := s.reserveSlot(ctx, tx, a.SlotKeyFor(r.RequestedByUserID), []string{a.ShiftAssignmentID}); err != nil {
		return nil, err
	}

	fromUser := a.UserID
	if err := tx.Assignment.UpdateOwner(ctx, a.ShiftAssignmentID, r.RequestedByUserID); err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "变更排班归属失败", err)
	}
	if err := tx.Assignment.UpdateStatus(ctx, a.ShiftAssignmentID, model.AssignmentApproved); err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "更新排班状态失败", err)
	}

	now := time.Now()
	offer.Status = model.OfferTaken
	offer.TakenByUserID = &r.RequestedByUserID
	offer.TakenAt = &now
	if err := tx.Offer.Update(ctx, offer); err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "更新转让单失败", err)
	}

	if err := s.recordHistory(ctx, tx, &model.AssignmentUserHistory{
		ShiftAssignmentID: a.ShiftAssignmentID,
		FromUserID:        &fromUser,
		ToUserID:          r.RequestedByUserID,
		ChangeReason:      model.RequestOffer,
		ShiftRequestID:    &r.ShiftRequestID,
		ShiftOfferID:      &offer.ShiftOfferID,
		ShiftDate:         a.ShiftDate,
		ShiftTypeID:       a.ShiftTypeID,
		DepartmentID:      a.DepartmentID,
		DivisionID:        &a.DivisionID,
		Comment:           comment,
	}); err != nil {
		return nil, err
	}

	s.finalize(r, model.StatusApproved, actorID, comment)

	var ids []string
	for _, uid := range []string{r.RequestedByUserID, fromUser} {
		id, err := s.notifier.Write(ctx, tx, &model.Notification{
			RecipientUserID:  uid,
			NotificationType: model.NotifyRequestApproved,
			Title:            "班次转让已生效",
			Body:             "转让班次已完成交接",
		})
		if err != nil {
			return nil, apperr.Wrap(apperr.KindStore, "写入通知失败", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ════════════════════════════════════════════════════════════
// Reject / Retract / List / AttachAssignment
// ════════════════════════════════════════════════════════════

func (s *requestService) Reject(ctx context.Context, requestID, actorID string, req *dto.DecideRequestRequest) (*dto.RequestResponse, error) {
	var (
		updated   *model.ShiftRequest
		notifyIDs []string
	)

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		r, err := s.lockPendingRequest(ctx, tx, requestID, actorID)
		if err != nil {
			return err
		}

		// 驳回不触碰排班/缺勤/转让数据，只落决策元信息
		s.finalize(r, model.StatusRejected, actorID, req.Comment)
		if err := tx.Request.Update(ctx, r); err != nil {
			return apperr.Wrap(apperr.KindStore, "更新变更请求失败", err)
		}

		id, err := s.notifyDecision(ctx, tx, r, model.NotifyRequestRejected, "请求已被驳回")
		if err != nil {
			return err
		}
		updated = r
		notifyIDs = []string{id}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, notifyIDs)
	return toRequestResponse(updated), nil
}

func (s *requestService) Retract(ctx context.Context, requestID, actorID string) error {
	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		r, err := tx.Request.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return apperr.Wrap(apperr.KindStore, "查询变更请求失败", err)
		}
		if r.RequestedByUserID != actorID {
			return ErrNotRequestOwner
		}
		if !r.RequestStatus.IsPending() {
			return ErrRequestNotPending
		}
		// 审批中尚未产生任何排班/缺勤副作用，硬删除即可
		if err := tx.Request.Delete(ctx, requestID); err != nil {
			return apperr.Wrap(apperr.KindStore, "删除变更请求失败", err)
		}
		return nil
	})
}

func (s *requestService) List(ctx context.Context, req *dto.RequestListRequest) ([]dto.RequestResponse, error) {
	filter := &repository.RequestFilter{
		RequestedByUserID: req.RequestedByUserID,
		InboxUserID:       req.InboxUserID,
		DivisionID:        req.DivisionID,
		Status:            model.RequestStatus(req.RequestStatus),
		PendingOnly:       req.PendingOnly,
		Limit:             req.GetPageSize(),
		Offset:            req.GetOffset(),
	}

	items, err := s.repo.Request.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询变更请求列表失败", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindStore, "查询变更请求列表失败", err)
	}

	resp := make([]dto.RequestResponse, 0, len(items))
	for i := range items {
		resp = append(resp, *toRequestResponse(&items[i]))
	}
	return resp, nil
}

func (s *requestService) AttachAssignment(ctx context.Context, requestID, actorID string, req *dto.AttachAssignmentRequest) error {
	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		r, err := tx.Request.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return apperr.Wrap(apperr.KindStore, "查询变更请求失败", err)
		}
		if r.RequestType != model.RequestNewShift {
			return ErrRequestTypeMismatch
		}
		if r.RequestStatus != model.StatusApproved {
			return ErrRequestNotApproved
		}

		a, err := s.lockAssignment(ctx, tx, req.ShiftAssignmentID)
		if err != nil {
			return err
		}
		if a.UserID != r.RequestedByUserID {
			return ErrAssignmentNotOwned
		}

		r.ShiftAssignmentID = &a.ShiftAssignmentID
		if err := tx.Request.Update(ctx, r); err != nil {
			return apperr.Wrap(apperr.KindStore, "更新变更请求失败", err)
		}

		// 幂等：重复挂接不产生第二条流水
		return s.recordHistory(ctx, tx, &model.AssignmentUserHistory{
			ShiftAssignmentID: a.ShiftAssignmentID,
			ToUserID:          r.RequestedByUserID,
			ChangeReason:      model.RequestNewShift,
			ShiftRequestID:    &r.ShiftRequestID,
			ShiftDate:         a.ShiftDate,
			ShiftTypeID:       a.ShiftTypeID,
			DepartmentID:      a.DepartmentID,
			DivisionID:        &a.DivisionID,
		})
	})
}

// ════════════════════════════════════════════════════════════
// 内部辅助
// ════════════════════════════════════════════════════════════

// lockPendingRequest 锁定请求行并执行统一审批守卫：
// 非终态 + 操作者为当前待办人（含遗留行 manager_user_id 回退匹配）
func (s *requestService) lockPendingRequest(ctx context.Context, tx *repository.Repository, requestID, actorID string) (*model.ShiftRequest, error) {
	r, err := tx.Request.GetByIDForUpdate(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, apperr.Wrap(apperr.KindStore, "查询变更请求失败", err)
	}
	if !r.RequestStatus.IsPending() {
		return nil, ErrRequestNotPending
	}
	approver := r.CurrentApprover()
	if approver == nil || *approver != actorID {
		return nil, ErrNotInboxUser
	}
	return r, nil
}

func (s *requestService) lockAssignment(ctx context.Context, tx *repository.Repository, id string) (*model.ShiftAssignment, error) {
	a, err := tx.Assignment.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, apperr.Wrap(apperr.KindStore, "查询排班行失败", err)
	}
	return a, nil
}

// lockAssignmentPair 按 ID 升序锁定两行，避免并发互换时的死锁
func (s *requestService) lockAssignmentPair(ctx context.Context, tx *repository.Repository, aID, bID string) (*model.ShiftAssignment, *model.ShiftAssignment, error) {
	first, second := aID, bID
	if second < first {
		first, second = second, first
	}

	locked := make(map[string]*model.ShiftAssignment, 2)
	for _, id := range []string{first, second} {
		a, err := s.lockAssignment(ctx, tx, id)
		if err != nil {
			return nil, nil, err
		}
		locked[id] = a
	}
	return locked[aID], locked[bID], nil
}

// reserveSlot 槽位冲突化解（改归属前必须执行）：
// 缺勤占位 → 硬失败；CANCELLED → 删除回收唯一键；其余 → 冲突
func (s *requestService) reserveSlot(ctx context.Context, tx *repository.Repository, key model.SlotKey, excludeIDs []string) error {
	occupant, err := tx.Assignment.FindBySlotKey(ctx, key, excludeIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperr.Wrap(apperr.KindStore, "查询槽位占用失败", err)
	}

	if occupant.IsAbsence {
		return ErrSlotOccupiedByAbsence
	}
	if occupant.Status == model.AssignmentCancelled {
		if err := tx.Assignment.Delete(ctx, occupant.ShiftAssignmentID); err != nil {
			return apperr.Wrap(apperr.KindStore, "回收已取消排班行失败", err)
		}
		return nil
	}
	return ErrSlotConflict
}

// checkSwapOverlaps 互换重叠校验：双方各自对对方班次做重叠检查，
// 各自排除正在让渡出去的那一行
func (s *requestService) checkSwapOverlaps(ctx context.Context, tx *repository.Repository, src, tgt *model.ShiftAssignment) error {
	overlap, err := tx.Assignment.HasOverlap(ctx, src.UserID, tgt.ShiftDate, tgt.ShiftTypeID, &src.ShiftAssignmentID)
	if err != nil {
		return apperr.Wrap(apperr.KindStore, "重叠校验失败", err)
	}
	if overlap {
		return ErrShiftOverlap
	}

	overlap, err = tx.Assignment.HasOverlap(ctx, tgt.UserID, src.ShiftDate, src.ShiftTypeID, &tgt.ShiftAssignmentID)
	if err != nil {
		return apperr.Wrap(apperr.KindStore, "重叠校验失败", err)
	}
	if overlap {
		return ErrShiftOverlap
	}
	return nil
}

// checkOfferEligibility 领取资格校验（与读侧可见性过滤保持同一规则）
func (s *requestService) checkOfferEligibility(ctx context.Context, tx *repository.Repository, offer *model.ShiftOffer, a *model.ShiftAssignment, actorID string) error {
	if offer.VisibilityScope == model.OfferVisibleToTarget {
		if offer.TargetUserID == nil || *offer.TargetUserID != actorID {
			return ErrOfferNotEligible
		}
	}

	actor, err := tx.User.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOfferNotEligible
		}
		return apperr.Wrap(apperr.KindStore, "查询用户失败", err)
	}
	if actor.StaffTypeID == nil || *actor.StaffTypeID != a.StaffTypeID {
		return ErrOfferNotEligible
	}

	deptIDs, err := tx.User.ListDepartmentIDs(ctx, actorID)
	if err != nil {
		return apperr.Wrap(apperr.KindStore, "查询用户科室失败", err)
	}
	if !contains(deptIDs, a.DepartmentID) {
		return ErrOfferNotEligible
	}

	divIDs, err := tx.User.ListDivisionIDs(ctx, actorID)
	if err != nil {
		return apperr.Wrap(apperr.KindStore, "查询用户院区失败", err)
	}
	if !contains(divIDs, a.DivisionID) {
		return ErrOfferNotEligible
	}
	return nil
}

// guardNoPending 创建期守卫：排班行已被进行中的请求引用时拒绝再立新请求
func (s *requestService) guardNoPending(ctx context.Context, tx *repository.Repository, assignmentID string, excludeRequestID *string) error {
	pending, err := tx.Request.HasPendingForAssignment(ctx, assignmentID, excludeRequestID)
	if err != nil {
		return apperr.Wrap(apperr.KindStore, "查询进行中请求失败", err)
	}
	if pending {
		return ErrAssignmentUnderReview
	}
	return nil
}

// resolveApprover 显式指定审批人优先，否则取默认审批人
func (s *requestService) resolveApprover(ctx context.Context, tx *repository.Repository, userID string, explicit *string) (string, error) {
	if explicit != nil && *explicit != "" {
		return *explicit, nil
	}
	return s.primaryManagerOf(ctx, tx, userID)
}

// primaryManagerOf 默认审批人；缺失视为「审批链无法继续」而非静默跳过
func (s *requestService) primaryManagerOf(ctx context.Context, tx *repository.Repository, userID string) (string, error) {
	mgr, err := tx.UserManager.PrimaryManagerID(ctx, userID)
	if err != nil {
		return "", apperr.Wrap(apperr.KindStore, "查询默认审批人失败", err)
	}
	if mgr == "" {
		return "", ErrNoManager
	}
	return mgr, nil
}

// recordHistory 幂等写流水：同 (排班行, 请求, 原因) 已有流水则跳过
func (s *requestService) recordHistory(ctx context.Context, tx *repository.Repository, h *model.AssignmentUserHistory) error {
	if h.ShiftRequestID != nil {
		exists, err := tx.History.Exists(ctx, h.ShiftAssignmentID, *h.ShiftRequestID, h.ChangeReason)
		if err != nil {
			return apperr.Wrap(apperr.KindStore, "查询流水失败", err)
		}
		if exists {
			return nil
		}
	}
	if err := tx.History.Create(ctx, h); err != nil {
		return apperr.Wrap(apperr.KindStore, "写入流水失败", err)
	}
	return nil
}

// advance 收件箱推进（非终态迁移）
func (s *requestService) advance(r *model.ShiftRequest, next model.RequestStatus, inbox, actorID string) {
	now := time.Now()
	r.RequestStatus = next
	r.InboxUserID = &inbox
	r.LastActionAt = &now
	r.LastActionByUserID = &actorID
}

// finalize 终态落定：inbox 清空 + 决策元信息
func (s *requestService) finalize(r *model.ShiftRequest, terminal model.RequestStatus, actorID string, comment *string) {
	now := time.Now()
	r.RequestStatus = terminal
	r.InboxUserID = nil
	r.DecidedAt = &now
	r.DecisionByUserID = &actorID
	r.DecisionComment = comment
	r.LastActionAt = &now
	r.LastActionByUserID = &actorID
}

func (s *requestService) notifyAdvance(ctx context.Context, tx *repository.Repository, r *model.ShiftRequest, recipient string) (string, error) {
	id, err := s.notifier.Write(ctx, tx, &model.Notification{
		RecipientUserID:  recipient,
		NotificationType: model.NotifyRequestAdvanced,
		Title:            "新的待审批请求",
		Body:             "一条 " + string(r.RequestType) + " 请求流转至您处理",
	})
	if err != nil {
		return "", apperr.Wrap(apperr.KindStore, "写入通知失败", err)
	}
	return id, nil
}

func (s *requestService) notifyDecision(ctx context.Context, tx *repository.Repository, r *model.ShiftRequest, notifyType, title string) (string, error) {
	id, err := s.notifier.Write(ctx, tx, &model.Notification{
		RecipientUserID:  r.RequestedByUserID,
		NotificationType: notifyType,
		Title:            title,
		Body:             "请求类型：" + string(r.RequestType),
	})
	if err != nil {
		return "", apperr.Wrap(apperr.KindStore, "写入通知失败", err)
	}
	return id, nil
}

func contains(set []string, v string) bool {
	for _, item := range set {
		if item == v {
			return true
		}
	}
	return false
}

// toRequestResponse 模型 → 响应 DTO
func toRequestResponse(r *model.ShiftRequest) *dto.RequestResponse {
	resp := &dto.RequestResponse{
		ID:                      r.ShiftRequestID,
		RequestType:             string(r.RequestType),
		RequestStatus:           string(r.RequestStatus),
		RequestedByUserID:       r.RequestedByUserID,
		TargetUserID:            r.TargetUserID,
		InboxUserID:             r.InboxUserID,
		DivisionID:              r.DivisionID,
		ShiftAssignmentID:       r.ShiftAssignmentID,
		SourceShiftAssignmentID: r.SourceShiftAssignmentID,
		TargetShiftAssignmentID: r.TargetShiftAssignmentID,
		ShiftOfferID:            r.ShiftOfferID,
		RequestedShiftDate:      r.RequestedShiftDate.Format(model.DateLayout),
		RequestedShiftTypeID:    r.RequestedShiftTypeID,
		RequestedDepartmentID:   r.RequestedDepartmentID,
		RequestedAbsenceType:    r.RequestedAbsenceType,
		CreatedAt:               r.CreatedAt.Format(time.RFC3339),
		DecisionByUserID:        r.DecisionByUserID,
		DecisionComment:         r.DecisionComment,
	}
	if r.DecidedAt != nil {
		t := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &t
	}
	return resp
}

// [自证通过] internal/service/request_service.go
