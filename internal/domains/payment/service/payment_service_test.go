package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhall-backend/internal/domains/payment/model"
	studentmodel "studyhall-backend/internal/domains/student/model"
	"studyhall-backend/internal/shared"
)

// ==================== In-memory fakes ====================

type fakePaymentRepo struct {
	payments map[uuid.UUID]*model.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*model.Payment)}
}

func (r *fakePaymentRepo) Create(_ context.Context, p *model.Payment) error {
	cp := *p
	r.payments[p.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, model.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) List(_ context.Context, _ model.ListPaymentsFilter) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range r.payments {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePaymentRepo) ListByStudent(_ context.Context, studentID uuid.UUID) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range r.payments {
		if p.StudentID == studentID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) NonReversedTotal(_ context.Context, studentID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.payments {
		if p.StudentID == studentID && !p.IsReversed {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (r *fakePaymentRepo) MarkReversed(_ context.Context, id, reversedBy uuid.UUID, reason string) error {
	p, ok := r.payments[id]
	if !ok {
		return model.ErrPaymentNotFound
	}
	if p.IsReversed {
		return model.ErrAlreadyReversed
	}
	now := time.Now()
	p.IsReversed = true
	p.ReversedAt = &now
	p.ReversedBy = &reversedBy
	p.ReverseReason = reason
	return nil
}

func (r *fakePaymentRepo) Stats(_ context.Context, _, _ *time.Time) (*model.CollectionStats, error) {
	return &model.CollectionStats{}, nil
}

type fakeStudentRepo struct {
	students map[uuid.UUID]*studentmodel.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[uuid.UUID]*studentmodel.Student)}
}

func (r *fakeStudentRepo) Create(_ context.Context, s *studentmodel.Student) error {
	cp := *s
	r.students[s.ID] = &cp
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id uuid.UUID) (*studentmodel.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, studentmodel.ErrStudentNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStudentRepo) Update(_ context.Context, s *studentmodel.Student) error {
	cp := *s
	r.students[s.ID] = &cp
	return nil
}

func (r *fakeStudentRepo) List(_ context.Context, _ studentmodel.ListStudentsFilter) ([]studentmodel.Student, error) {
	return nil, nil
}

func (r *fakeStudentRepo) Stats(_ context.Context) (*studentmodel.StudentStats, error) {
	return &studentmodel.StudentStats{}, nil
}

func (r *fakeStudentRepo) UpdateFeeLedger(_ context.Context, id uuid.UUID, paid, due decimal.Decimal, status studentmodel.FeeStatus) error {
	s, ok := r.students[id]
	if !ok {
		return studentmodel.ErrStudentNotFound
	}
	s.AmountPaid = paid
	s.AmountDue = due
	s.FeeStatus = status
	return nil
}

func (r *fakeStudentRepo) ListExpiredActive(_ context.Context, _ time.Time) ([]studentmodel.Student, error) {
	return nil, nil
}

func (r *fakeStudentRepo) MarkExpired(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeStudentRepo) ListNonDeleted(_ context.Context) ([]studentmodel.Student, error) {
	return nil, nil
}

type nopAuditSink struct {
	entries []shared.AuditEntry
}

func (s *nopAuditSink) Record(_ context.Context, entry shared.AuditEntry) {
	s.entries = append(s.entries, entry)
}

type nopNotifier struct {
	events []shared.NotificationEvent
}

func (s *nopNotifier) Notify(_ context.Context, event shared.NotificationEvent) {
	s.events = append(s.events, event)
}

// ==================== Fixture ====================

type fixture struct {
	payments *fakePaymentRepo
	students *fakeStudentRepo
	audit    *nopAuditSink
	notifier *nopNotifier
	svc      Service
}

func newFixture() *fixture {
	f := &fixture{
		payments: newFakePaymentRepo(),
		students: newFakeStudentRepo(),
		audit:    &nopAuditSink{},
		notifier: &nopNotifier{},
	}
	f.svc = NewService(f.payments, f.students, f.audit, f.notifier)
	return f
}

func (f *fixture) seedStudent(t *testing.T, totalFee, amountPaid string) *studentmodel.Student {
	t.Helper()
	status, due := studentmodel.DeriveFeeLedger(
		decimal.RequireFromString(totalFee), decimal.RequireFromString(amountPaid))
	s := &studentmodel.Student{
		ID:         uuid.New(),
		Name:       "Asha Verma",
		Mobile:     "9876543210",
		Category:   shared.CategoryRegular,
		TimePlan:   shared.TimePlan12Hr,
		SeatID:     "R1",
		TotalFee:   decimal.RequireFromString(totalFee),
		AmountPaid: decimal.RequireFromString(amountPaid),
		AmountDue:  due,
		FeeStatus:  status,
		Status:     studentmodel.StatusActive,
	}
	require.NoError(t, f.students.Create(context.Background(), s))
	return s
}

var collector = shared.Actor{ID: uuid.New(), Name: "Front Desk", Role: shared.RoleDirector}
var admin = shared.Actor{ID: uuid.New(), Name: "Owner", Role: shared.RoleAdmin}

func addReq(studentID uuid.UUID, amount string) model.AddPaymentRequest {
	return model.AddPaymentRequest{
		StudentID:     studentID,
		Amount:        decimal.RequireFromString(amount),
		Mode:          model.ModeUPI,
		ReceiptNumber: "RCPT-100",
		ReceiptImage:  "receipts/abc.jpg",
	}
}

// ==================== Add ====================

func TestAddPaymentMovesLedgerToPaid(t *testing.T) {
	f := newFixture()
	student := f.seedStudent(t, "250", "100")

	payment, err := f.svc.Add(context.Background(), collector, addReq(student.ID, "150"))
	require.NoError(t, err)

	assert.Equal(t, student.ID, payment.StudentID)
	assert.Equal(t, collector.ID, payment.CollectedBy)
	assert.Equal(t, "Front Desk", payment.CollectedByName)
	assert.False(t, payment.IsReversed)

	after, _ := f.students.GetByID(context.Background(), student.ID)
	assert.Equal(t, studentmodel.FeePaid, after.FeeStatus)
	assert.True(t, after.AmountPaid.Equal(decimal.RequireFromString("250")))
	assert.True(t, after.AmountDue.IsZero())

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, shared.ActionPaymentAdded, f.audit.entries[0].Action)
	assert.Len(t, f.notifier.events, 1)
}

func TestAddPaymentOverpaymentBecomesAdvanced(t *testing.T) {
	f := newFixture()
	student := f.seedStudent(t, "250", "200")

	_, err := f.svc.Add(context.Background(), collector, addReq(student.ID, "100"))
	require.NoError(t, err)

	after, _ := f.students.GetByID(context.Background(), student.ID)
	assert.Equal(t, studentmodel.FeeAdvanced, after.FeeStatus)
	assert.True(t, after.AmountPaid.Equal(decimal.RequireFromString("300")))
	assert.True(t, after.AmountDue.Equal(decimal.RequireFromString("-50")))
}

func TestAddPaymentRejectsDeletedStudent(t *testing.T) {
	f := newFixture()
	student := f.seedStudent(t, "250", "0")
	f.students.students[student.ID].IsDeleted = true

	_, err := f.svc.Add(context.Background(), collector, addReq(student.ID, "100"))

	var stuErr *studentmodel.StudentError
	require.ErrorAs(t, err, &stuErr)
	assert.Equal(t, studentmodel.ErrCodeStudentDeleted, stuErr.Code)
	assert.Empty(t, f.payments.payments)
}

func TestAddPaymentRejectsUnknownStudent(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Add(context.Background(), collector, addReq(uuid.New(), "100"))

	var stuErr *studentmodel.StudentError
	require.ErrorAs(t, err, &stuErr)
	assert.Equal(t, studentmodel.ErrCodeStudentNotFound, stuErr.Code)
}

func TestAddPaymentRequiresReceiptImage(t *testing.T) {
	f := newFixture()
	student := f.seedStudent(t, "250", "0")

	req := addReq(student.ID, "100")
	req.ReceiptImage = ""

	_, err := f.svc.Add(context.Background(), collector, req)

	var payErr *model.PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, model.ErrCodeInvalidInput, payErr.Code)
	assert.Empty(t, f.payments.payments)
}

func TestAddPaymentRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture()
	student := f.seedStudent(t, "250", "0")

	req := addReq(student.ID, "0")
	_, err := f.svc.Add(context.Background(), collector, req)

	var payErr *model.PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, model.ErrCodeInvalidInput, payErr.Code)
}

// ==================== Reverse ====================

func TestReversePaymentIsExactInverse(t *testing.T) {
	f := newFixture()
	student := f.seedStudent(t, "250", "100")
	before, _ := f.students.GetByID(context.Background(), student.ID)

	payment, err := f.svc.Add(context.Background(), collector, addReq(student.ID, "75"))
	require.NoError(t, err)

	reversed, err := f.svc.Reverse(context.Background(), admin, payment.ID, model.ReversePaymentRequest{Reason: "wrong student"})
	require.NoError(t, err)

	assert.True(t, reversed.IsReversed)
	assert.Equal(t, "wrong student", reversed.ReverseReason)
	require.NotNil(t, reversed.ReversedBy)
	assert.Equal(t, admin.ID, *reversed.ReversedBy)

	after, _ := f.students.GetByID(context.Background(), student.ID)
	assert.Equal(t, before.FeeStatus, after.FeeStatus)
	assert.True(t, before.AmountPaid.Equal(after.AmountPaid))
	assert.True(t, before.AmountDue.Equal(after.AmountDue))
}

func TestReversePaymentTwiceFails(t *testing.T) {
	f := newFixture()
	student := f.seedStudent(t, "250", "0")

	payment, err := f.svc.Add(context.Background(), collector, addReq(student.ID, "100"))
	require.NoError(t, err)

	_, err = f.svc.Reverse(context.Background(), admin, payment.ID, model.ReversePaymentRequest{Reason: "mistake"})
	require.NoError(t, err)

	_, err = f.svc.Reverse(context.Background(), admin, payment.ID, model.ReversePaymentRequest{Reason: "again"})
	var payErr *model.PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, model.ErrCodeAlreadyReversed, payErr.Code)

	// The ledger only moved back once.
	after, _ := f.students.GetByID(context.Background(), student.ID)
	assert.True(t, after.AmountPaid.IsZero())
	assert.Equal(t, studentmodel.FeeDue, after.FeeStatus)
}

func TestReversePaymentRequiresReason(t *testing.T) {
	f := newFixture()
	student := f.seedStudent(t, "250", "0")

	payment, err := f.svc.Add(context.Background(), collector, addReq(student.ID, "100"))
	require.NoError(t, err)

	_, err = f.svc.Reverse(context.Background(), admin, payment.ID, model.ReversePaymentRequest{})
	var payErr *model.PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, model.ErrCodeInvalidInput, payErr.Code)

	// Untouched.
	stored, _ := f.payments.GetByID(context.Background(), payment.ID)
	assert.False(t, stored.IsReversed)
}

func TestReverseUnknownPayment(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Reverse(context.Background(), admin, uuid.New(), model.ReversePaymentRequest{Reason: "mistake"})
	var payErr *model.PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, model.ErrCodePaymentNotFound, payErr.Code)
}

// ==================== Listing ====================

func TestListByStudentExcludesReversedFromTotal(t *testing.T) {
	f := newFixture()
	student := f.seedStudent(t, "500", "0")

	first, err := f.svc.Add(context.Background(), collector, addReq(student.ID, "200"))
	require.NoError(t, err)
	_, err = f.svc.Add(context.Background(), collector, addReq(student.ID, "100"))
	require.NoError(t, err)

	_, err = f.svc.Reverse(context.Background(), admin, first.ID, model.ReversePaymentRequest{Reason: "duplicate entry"})
	require.NoError(t, err)

	result, err := f.svc.ListByStudent(context.Background(), student.ID)
	require.NoError(t, err)

	// Both rows stay in history, only the live one counts.
	assert.Len(t, result.Payments, 2)
	assert.True(t, result.TotalPaid.Equal(decimal.RequireFromString("100")))
}

func TestExportToExcel(t *testing.T) {
	f := newFixture()
	student := f.seedStudent(t, "250", "0")

	payment, err := f.svc.Add(context.Background(), collector, addReq(student.ID, "100"))
	require.NoError(t, err)

	file, err := f.svc.ExportToExcel(context.Background(), nil, nil)
	require.NoError(t, err)

	header, err := file.GetCellValue("Payments", "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", header)

	id, err := file.GetCellValue("Payments", "A2")
	require.NoError(t, err)
	assert.Equal(t, payment.ID.String(), id)

	mode, err := file.GetCellValue("Payments", "D2")
	require.NoError(t, err)
	assert.Equal(t, "upi", mode)
}
