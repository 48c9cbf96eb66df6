package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/MalathSam1994/shiftly-api/internal/model"
	"github.com/MalathSam1994/shiftly-api/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users       map[string]*model.User
	departments map[string][]string // user_id → 科室集合
	divisions   map[string][]string // user_id → 院区集合
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:       make(map[string]*model.User),
		departments: make(map[string][]string),
		divisions:   make(map[string][]string),
	}
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email && u.IsActive {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListDepartmentIDs(_ context.Context, userID string) ([]string, error) {
	return m.departments[userID], nil
}

func (m *mockUserRepo) ListDivisionIDs(_ context.Context, userID string) ([]string, error) {
	return m.divisions[userID], nil
}

// ── Mock UserManagerRepository ──

type mockUserManagerRepo struct {
	primary map[string]string // user_id → manager_user_id
}

func newMockUserManagerRepo() *mockUserManagerRepo {
	return &mockUserManagerRepo{primary: make(map[string]string)}
}

func (m *mockUserManagerRepo) PrimaryManagerID(_ context.Context, userID string) (string, error) {
	return m.primary[userID], nil
}

// ── Mock ShiftTypeRepository ──

type mockShiftTypeRepo struct {
	types map[string]*model.ShiftType
}

func newMockShiftTypeRepo() *mockShiftTypeRepo {
	return &mockShiftTypeRepo{types: make(map[string]*model.ShiftType)}
}

func (m *mockShiftTypeRepo) GetByID(_ context.Context, id string) (*model.ShiftType, error) {
	if t, ok := m.types[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftTypeRepo) List(_ context.Context) ([]model.ShiftType, error) {
	var result []model.ShiftType
	for _, t := range m.types {
		result = append(result, *t)
	}
	return result, nil
}

// ── Mock ShiftPeriodRepository ──

type mockShiftPeriodRepo struct {
	periods map[string]*model.ShiftPeriod
}

func newMockShiftPeriodRepo() *mockShiftPeriodRepo {
	return &mockShiftPeriodRepo{periods: make(map[string]*model.ShiftPeriod)}
}

func (m *mockShiftPeriodRepo) GetByID(_ context.Context, id string) (*model.ShiftPeriod, error) {
	if p, ok := m.periods[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.ShiftAssignment
	shiftTypes  *mockShiftTypeRepo // 重叠判定需要班次时间
	seq         int
}

func newMockAssignmentRepo(types *mockShiftTypeRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{
		assignments: make(map[string]*model.ShiftAssignment),
		shiftTypes:  types,
	}
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.ShiftAssignment) error {
	if a.ShiftAssignmentID == "" {
		m.seq++
		a.ShiftAssignmentID = fmt.Sprintf("sa-%03d", m.seq)
	}
	m.assignments[a.ShiftAssignmentID] = a
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.ShiftAssignment, error) {
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) GetByIDForUpdate(_ context.Context, id string) (*model.ShiftAssignment, error) {
	// 模拟真实数据库的行读取：返回副本，避免服务层持有的指针与存储行互相别名
	if a, ok := m.assignments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) List(_ context.Context, filter *repository.AssignmentFilter) ([]model.ShiftAssignment, error) {
	var result []model.ShiftAssignment
	for _, a := range m.assignments {
		if filter.ShiftPeriodID != "" && a.ShiftPeriodID != filter.ShiftPeriodID {
			continue
		}
		if filter.UserID != "" && a.UserID != filter.UserID {
			continue
		}
		day := a.ShiftDate.Format(model.DateLayout)
		if filter.StartDate != "" && day < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && day > filter.EndDate {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAssignmentRepo) UpdateOwner(_ context.Context, id, userID string) error {
	a, ok := m.assignments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.UserID = userID
	return nil
}

func (m *mockAssignmentRepo) UpdateStatus(_ context.Context, id string, status model.AssignmentStatus) error {
	a, ok := m.assignments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Status = status
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	delete(m.assignments, id)
	return nil
}

func (m *mockAssignmentRepo) HasOverlap(_ context.Context, userID string, date time.Time, shiftTypeID string, excludeID *string) (bool, error) {
	candidate, ok := m.shiftTypes.types[shiftTypeID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	for _, a := range m.assignments {
		if a.UserID != userID || !model.DateEqual(a.ShiftDate, date) {
			continue
		}
		if a.IsAbsence || a.Status == model.AssignmentCancelled {
			continue
		}
		if excludeID != nil && a.ShiftAssignmentID == *excludeID {
			continue
		}
		existing, ok := m.shiftTypes.types[a.ShiftTypeID]
		if !ok {
			continue
		}
		if existing.OverlapsWith(candidate) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAssignmentRepo) FindBySlotKey(_ context.Context, key model.SlotKey, excludeIDs []string) (*model.ShiftAssignment, error) {
	for _, a := range m.assignments {
		if a.ShiftPeriodID != key.ShiftPeriodID ||
			!model.DateEqual(a.ShiftDate, key.ShiftDate) ||
			a.UserID != key.UserID ||
			a.ShiftTypeID != key.ShiftTypeID ||
			a.DepartmentID != key.DepartmentID ||
			a.DivisionID != key.DivisionID {
			continue
		}
		excluded := false
		for _, id := range excludeIDs {
			if a.ShiftAssignmentID == id {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListUpcomingByUser(_ context.Context, userID string, from time.Time) ([]model.ShiftAssignment, error) {
	var result []model.ShiftAssignment
	day := from.Format(model.DateLayout)
	for _, a := range m.assignments {
		if a.UserID != userID || a.IsAbsence || a.Status == model.AssignmentCancelled {
			continue
		}
		if a.ShiftDate.Format(model.DateLayout) < day {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

// ── Mock AbsenceRepository ──

type mockAbsenceRepo struct {
	absences map[string]*model.UserAbsence
	seq      int
}

func newMockAbsenceRepo() *mockAbsenceRepo {
	return &mockAbsenceRepo{absences: make(map[string]*model.UserAbsence)}
}

func (m *mockAbsenceRepo) Create(_ context.Context, a *model.UserAbsence) error {
	if a.UserAbsenceID == "" {
		m.seq++
		a.UserAbsenceID = fmt.Sprintf("ab-%03d", m.seq)
	}
	m.absences[a.UserAbsenceID] = a
	return nil
}

func (m *mockAbsenceRepo) GetByID(_ context.Context, id string) (*model.UserAbsence, error) {
	if a, ok := m.absences[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAbsenceRepo) List(_ context.Context, userID string) ([]model.UserAbsence, error) {
	var result []model.UserAbsence
	for _, a := range m.absences {
		if userID != "" && a.UserID != userID {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAbsenceRepo) UpdateRange(_ context.Context, id string, start, end time.Time) error {
	a, ok := m.absences[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.StartDate = start
	a.EndDate = end
	return nil
}

func (m *mockAbsenceRepo) Delete(_ context.Context, id string) error {
	delete(m.absences, id)
	return nil
}

func (m *mockAbsenceRepo) FindCovering(_ context.Context, userID string, d time.Time) ([]model.UserAbsence, error) {
	var result []model.UserAbsence
	for _, a := range m.absences {
		if a.UserID == userID && a.Covers(d) {
			result = append(result, *a)
		}
	}
	return result, nil
}

// ── Mock OfferRepository ──

type mockOfferRepo struct {
	offers      map[string]*model.ShiftOffer
	assignments *mockAssignmentRepo // ListActive/GetByID 预加载排班行
	seq         int
}

func newMockOfferRepo(assignments *mockAssignmentRepo) *mockOfferRepo {
	return &mockOfferRepo{
		offers:      make(map[string]*model.ShiftOffer),
		assignments: assignments,
	}
}

func (m *mockOfferRepo) Upsert(_ context.Context, o *model.ShiftOffer) error {
	for _, existing := range m.offers {
		if existing.ShiftAssignmentID == o.ShiftAssignmentID {
			o.ShiftOfferID = existing.ShiftOfferID
			m.offers[o.ShiftOfferID] = o
			return nil
		}
	}
	if o.ShiftOfferID == "" {
		m.seq++
		o.ShiftOfferID = fmt.Sprintf("of-%03d", m.seq)
	}
	m.offers[o.ShiftOfferID] = o
	return nil
}

func (m *mockOfferRepo) GetByID(_ context.Context, id string) (*model.ShiftOffer, error) {
	o, ok := m.offers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if a, found := m.assignments.assignments[o.ShiftAssignmentID]; found {
		o.Assignment = a
	}
	return o, nil
}

func (m *mockOfferRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.ShiftOffer, error) {
	return m.GetByID(ctx, id)
}

func (m *mockOfferRepo) GetByAssignment(_ context.Context, assignmentID string) (*model.ShiftOffer, error) {
	for _, o := range m.offers {
		if o.ShiftAssignmentID == assignmentID {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOfferRepo) ListActive(_ context.Context, filter *repository.OfferFilter) ([]model.ShiftOffer, error) {
	var result []model.ShiftOffer
	for _, o := range m.offers {
		if o.Status != model.OfferActive {
			continue
		}
		if filter.OfferedByUserID != "" && o.OfferedByUserID != filter.OfferedByUserID {
			continue
		}
		copied := *o
		if a, found := m.assignments.assignments[o.ShiftAssignmentID]; found {
			copied.Assignment = a
		}
		result = append(result, copied)
	}
	return result, nil
}

func (m *mockOfferRepo) Update(_ context.Context, o *model.ShiftOffer) error {
	if _, ok := m.offers[o.ShiftOfferID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.offers[o.ShiftOfferID] = o
	return nil
}

// ── Mock RequestRepository ──

type mockRequestRepo struct {
	requests map[string]*model.ShiftRequest
	seq      int
}

func newMockRequestRepo() *mockRequestRepo {
	return &mockRequestRepo{requests: make(map[string]*model.ShiftRequest)}
}

func (m *mockRequestRepo) Create(_ context.Context, req *model.ShiftRequest) error {
	if req.ShiftRequestID == "" {
		m.seq++
		req.ShiftRequestID = fmt.Sprintf("req-%03d", m.seq)
	}
	m.requests[req.ShiftRequestID] = req
	return nil
}

func (m *mockRequestRepo) GetByID(_ context.Context, id string) (*model.ShiftRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRequestRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.ShiftRequest, error) {
	return m.GetByID(ctx, id)
}

func (m *mockRequestRepo) Update(_ context.Context, req *model.ShiftRequest) error {
	if _, ok := m.requests[req.ShiftRequestID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.requests[req.ShiftRequestID] = req
	return nil
}

func (m *mockRequestRepo) Delete(_ context.Context, id string) error {
	delete(m.requests, id)
	return nil
}

func (m *mockRequestRepo) List(_ context.Context, filter *repository.RequestFilter) ([]model.ShiftRequest, error) {
	var result []model.ShiftRequest
	for _, r := range m.requests {
		if filter.RequestedByUserID != "" && r.RequestedByUserID != filter.RequestedByUserID {
			continue
		}
		if filter.InboxUserID != "" {
			approver := r.CurrentApprover()
			if approver == nil || *approver != filter.InboxUserID {
				continue
			}
		}
		if filter.DivisionID != "" && (r.DivisionID == nil || *r.DivisionID != filter.DivisionID) {
			continue
		}
		if filter.Status != "" && r.RequestStatus != filter.Status {
			continue
		}
		if filter.PendingOnly && !r.RequestStatus.IsPending() {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockRequestRepo) HasPendingForAssignment(_ context.Context, assignmentID string, excludeID *string) (bool, error) {
	refs := func(p *string) bool { return p != nil && *p == assignmentID }
	for _, r := range m.requests {
		if excludeID != nil && r.ShiftRequestID == *excludeID {
			continue
		}
		if !r.RequestStatus.IsPending() {
			continue
		}
		if refs(r.ShiftAssignmentID) || refs(r.SourceShiftAssignmentID) || refs(r.TargetShiftAssignmentID) {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock HistoryRepository ──

type mockHistoryRepo struct {
	rows []model.AssignmentUserHistory
	seq  int
}

func newMockHistoryRepo() *mockHistoryRepo {
	return &mockHistoryRepo{}
}

func (m *mockHistoryRepo) Create(_ context.Context, h *model.AssignmentUserHistory) error {
	if h.HistoryID == "" {
		m.seq++
		h.HistoryID = fmt.Sprintf("his-%03d", m.seq)
	}
	m.rows = append(m.rows, *h)
	return nil
}

func (m *mockHistoryRepo) Exists(_ context.Context, assignmentID, requestID string, reason model.RequestType) (bool, error) {
	for _, h := range m.rows {
		if h.ShiftAssignmentID == assignmentID &&
			h.ShiftRequestID != nil && *h.ShiftRequestID == requestID &&
			h.ChangeReason == reason {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockHistoryRepo) ListByAssignment(_ context.Context, assignmentID string) ([]model.AssignmentUserHistory, error) {
	var result []model.AssignmentUserHistory
	for _, h := range m.rows {
		if h.ShiftAssignmentID == assignmentID {
			result = append(result, h)
		}
	}
	return result, nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications map[string]*model.Notification
	seq           int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[string]*model.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if n.NotificationID == "" {
		m.seq++
		n.NotificationID = fmt.Sprintf("ntf-%03d", m.seq)
	}
	m.notifications[n.NotificationID] = n
	return nil
}

func (m *mockNotificationRepo) ListByRecipient(_ context.Context, userID string, unreadOnly bool, limit, offset int) ([]model.Notification, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.RecipientUserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		result = append(result, *n)
	}
	return result, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, recipientUserID string) error {
	n, ok := m.notifications[id]
	if !ok || n.RecipientUserID != recipientUserID {
		return gorm.ErrRecordNotFound
	}
	n.IsRead = true
	return nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.RecipientUserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// ── 测试用仓储聚合 ──

// mockRepos 把全部 mock 仓储装入无底层连接的 Repository：
// Transaction 直接透传执行，行为与单连接串行场景一致
type mockRepos struct {
	users         *mockUserRepo
	managers      *mockUserManagerRepo
	shiftTypes    *mockShiftTypeRepo
	periods       *mockShiftPeriodRepo
	assignments   *mockAssignmentRepo
	absences      *mockAbsenceRepo
	offers        *mockOfferRepo
	requests      *mockRequestRepo
	history       *mockHistoryRepo
	notifications *mockNotificationRepo
}

func newMockRepos() *mockRepos {
	types := newMockShiftTypeRepo()
	assignments := newMockAssignmentRepo(types)
	return &mockRepos{
		users:         newMockUserRepo(),
		managers:      newMockUserManagerRepo(),
		shiftTypes:    types,
		periods:       newMockShiftPeriodRepo(),
		assignments:   assignments,
		absences:      newMockAbsenceRepo(),
		offers:        newMockOfferRepo(assignments),
		requests:      newMockRequestRepo(),
		history:       newMockHistoryRepo(),
		notifications: newMockNotificationRepo(),
	}
}

func (m *mockRepos) repository() *repository.Repository {
	return &repository.Repository{
		User:         m.users,
		UserManager:  m.managers,
		ShiftType:    m.shiftTypes,
		ShiftPeriod:  m.periods,
		Assignment:   m.assignments,
		Absence:      m.absences,
		Offer:        m.offers,
		Request:      m.requests,
		History:      m.history,
		Notification: m.notifications,
	}
}

// [自证通过] internal/service/mock_repos_test.go
