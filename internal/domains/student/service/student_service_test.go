package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pricingmodel "studyhall-backend/internal/domains/pricing/model"
	seatmodel "studyhall-backend/internal/domains/seat/model"
	"studyhall-backend/internal/domains/student/model"
	"studyhall-backend/internal/shared"
)

// ==================== In-memory fakes ====================

type fakeStudentRepo struct {
	students   map[uuid.UUID]*model.Student
	lastFilter model.ListStudentsFilter
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[uuid.UUID]*model.Student)}
}

func (r *fakeStudentRepo) Create(_ context.Context, s *model.Student) error {
	cp := *s
	r.students[s.ID] = &cp
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, model.ErrStudentNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStudentRepo) Update(_ context.Context, s *model.Student) error {
	if _, ok := r.students[s.ID]; !ok {
		return model.ErrStudentNotFound
	}
	cp := *s
	r.students[s.ID] = &cp
	return nil
}

func (r *fakeStudentRepo) List(_ context.Context, filter model.ListStudentsFilter) ([]model.Student, error) {
	r.lastFilter = filter
	var out []model.Student
	for _, s := range r.students {
		if s.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeStudentRepo) Stats(_ context.Context) (*model.StudentStats, error) {
	return &model.StudentStats{Total: len(r.students)}, nil
}

func (r *fakeStudentRepo) UpdateFeeLedger(_ context.Context, id uuid.UUID, paid, due decimal.Decimal, status model.FeeStatus) error {
	s, ok := r.students[id]
	if !ok {
		return model.ErrStudentNotFound
	}
	s.AmountPaid = paid
	s.AmountDue = due
	s.FeeStatus = status
	return nil
}

func (r *fakeStudentRepo) ListExpiredActive(_ context.Context, cutoff time.Time) ([]model.Student, error) {
	var out []model.Student
	for _, s := range r.students {
		if s.Status == model.StatusActive && !s.IsDeleted && s.ExpiryDate.Before(cutoff) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) MarkExpired(_ context.Context, id uuid.UUID) error {
	s, ok := r.students[id]
	if !ok {
		return model.ErrStudentNotFound
	}
	s.Status = model.StatusExpired
	s.SeatID = ""
	return nil
}

func (r *fakeStudentRepo) ListNonDeleted(_ context.Context) ([]model.Student, error) {
	var out []model.Student
	for _, s := range r.students {
		if !s.IsDeleted {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeSeatRepo struct {
	seats map[string]*seatmodel.Seat
}

func newFakeSeatRepo() *fakeSeatRepo {
	return &fakeSeatRepo{seats: make(map[string]*seatmodel.Seat)}
}

func (r *fakeSeatRepo) add(seatID string, category shared.StudentCategory) {
	r.seats[seatID] = &seatmodel.Seat{
		SeatID:       seatID,
		SeatCategory: category,
		Status:       seatmodel.StatusAvailable,
	}
}

func (r *fakeSeatRepo) GetByID(_ context.Context, seatID string) (*seatmodel.Seat, error) {
	s, ok := r.seats[seatID]
	if !ok {
		return nil, seatmodel.ErrSeatNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSeatRepo) List(_ context.Context, _ seatmodel.ListSeatsFilter) ([]seatmodel.Seat, error) {
	var out []seatmodel.Seat
	for _, s := range r.seats {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSeatRepo) ListAvailable(_ context.Context, category shared.StudentCategory) ([]seatmodel.Seat, error) {
	var out []seatmodel.Seat
	for _, s := range r.seats {
		if s.Status == seatmodel.StatusAvailable && s.SeatCategory == category {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSeatRepo) Stats(_ context.Context) (*seatmodel.SeatStats, error) {
	return &seatmodel.SeatStats{Total: len(r.seats)}, nil
}

func (r *fakeSeatRepo) Occupy(_ context.Context, seatID string, studentID uuid.UUID) error {
	s, ok := r.seats[seatID]
	if !ok {
		return seatmodel.ErrSeatNotFound
	}
	if s.Status != seatmodel.StatusAvailable {
		return seatmodel.ErrSeatOccupied
	}
	now := time.Now()
	s.Status = seatmodel.StatusOccupied
	s.OccupiedBy = &studentID
	s.LastOccupiedAt = &now
	return nil
}

func (r *fakeSeatRepo) Release(_ context.Context, seatID string) error {
	s, ok := r.seats[seatID]
	if !ok {
		return seatmodel.ErrSeatNotFound
	}
	s.Status = seatmodel.StatusAvailable
	s.OccupiedBy = nil
	return nil
}

type fakePricingRepo struct {
	active map[string]*pricingmodel.Pricing
}

func newFakePricingRepo() *fakePricingRepo {
	return &fakePricingRepo{active: make(map[string]*pricingmodel.Pricing)}
}

func (r *fakePricingRepo) set(category shared.StudentCategory, plan shared.TimePlan, price string) {
	r.active[string(category)+"/"+string(plan)] = &pricingmodel.Pricing{
		ID:              uuid.New(),
		StudentCategory: category,
		TimePlan:        plan,
		Price:           decimal.RequireFromString(price),
		IsActive:        true,
	}
}

func (r *fakePricingRepo) Create(_ context.Context, _ *pricingmodel.Pricing) error { return nil }

func (r *fakePricingRepo) GetByID(_ context.Context, _ uuid.UUID) (*pricingmodel.Pricing, error) {
	return nil, pricingmodel.ErrPricingNotFound
}

func (r *fakePricingRepo) FindActive(_ context.Context, category shared.StudentCategory, plan shared.TimePlan) (*pricingmodel.Pricing, error) {
	p, ok := r.active[string(category)+"/"+string(plan)]
	if !ok {
		return nil, pricingmodel.ErrPricingNotFound
	}
	return p, nil
}

func (r *fakePricingRepo) ListActive(_ context.Context) ([]pricingmodel.Pricing, error) {
	return nil, nil
}

func (r *fakePricingRepo) UpdatePrice(_ context.Context, _ uuid.UUID, _ decimal.Decimal, _ uuid.UUID) error {
	return nil
}

func (r *fakePricingRepo) Deactivate(_ context.Context, _ uuid.UUID) error { return nil }

type recordingAuditSink struct {
	entries []shared.AuditEntry
}

func (s *recordingAuditSink) Record(_ context.Context, entry shared.AuditEntry) {
	s.entries = append(s.entries, entry)
}

func (s *recordingAuditSink) actions() []string {
	var out []string
	for _, e := range s.entries {
		out = append(out, e.Action)
	}
	return out
}

type recordingNotifier struct {
	events []shared.NotificationEvent
}

func (s *recordingNotifier) Notify(_ context.Context, event shared.NotificationEvent) {
	s.events = append(s.events, event)
}

// ==================== Fixture ====================

type fixture struct {
	students *fakeStudentRepo
	seats    *fakeSeatRepo
	pricing  *fakePricingRepo
	audit    *recordingAuditSink
	notifier *recordingNotifier
	svc      Service
}

func newFixture() *fixture {
	f := &fixture{
		students: newFakeStudentRepo(),
		seats:    newFakeSeatRepo(),
		pricing:  newFakePricingRepo(),
		audit:    &recordingAuditSink{},
		notifier: &recordingNotifier{},
	}
	f.svc = NewService(f.students, f.seats, f.pricing, f.audit, f.notifier)
	return f
}

func (f *fixture) seed(t *testing.T, fn func(s *model.Student)) *model.Student {
	t.Helper()
	s := &model.Student{
		ID:         uuid.New(),
		Name:       "Asha Verma",
		Mobile:     "9876543210",
		Category:   shared.CategoryRegular,
		TimePlan:   shared.TimePlan12Hr,
		SeatID:     "R1",
		JoinDate:   time.Now().Add(-10 * 24 * time.Hour),
		ExpiryDate: time.Now().Add(20 * 24 * time.Hour),
		TotalFee:   decimal.RequireFromString("250"),
		AmountPaid: decimal.Zero,
		AmountDue:  decimal.RequireFromString("250"),
		FeeStatus:  model.FeeDue,
		Status:     model.StatusActive,
	}
	if fn != nil {
		fn(s)
	}
	require.NoError(t, f.students.Create(context.Background(), s))
	if s.SeatID != "" && !s.IsDeleted {
		if _, ok := f.seats.seats[s.SeatID]; !ok {
			f.seats.add(s.SeatID, s.Category)
		}
		require.NoError(t, f.seats.Occupy(context.Background(), s.SeatID, s.ID))
	}
	return s
}

var admin = shared.Actor{ID: uuid.New(), Name: "Owner", Role: shared.RoleAdmin}
var director = shared.Actor{ID: uuid.New(), Name: "Front Desk", Role: shared.RoleDirector}

func strPtr(s string) *string { return &s }

func catPtr(c shared.StudentCategory) *shared.StudentCategory { return &c }

func planPtr(p shared.TimePlan) *shared.TimePlan { return &p }

// ==================== Create ====================

func TestCreateStudent(t *testing.T) {
	f := newFixture()
	f.pricing.set(shared.CategoryRegular, shared.TimePlan12Hr, "250")
	f.seats.add("R5", shared.CategoryRegular)

	student, err := f.svc.Create(context.Background(), admin, model.CreateStudentRequest{
		Name:     "Ravi Kumar",
		Mobile:   "9000000001",
		Category: shared.CategoryRegular,
		TimePlan: shared.TimePlan12Hr,
		SeatID:   "r5",
	})
	require.NoError(t, err)

	assert.Equal(t, "R5", student.SeatID)
	assert.Equal(t, model.FeeDue, student.FeeStatus)
	assert.True(t, student.TotalFee.Equal(decimal.RequireFromString("250")))
	assert.True(t, student.AmountDue.Equal(decimal.RequireFromString("250")))
	assert.True(t, student.AmountPaid.IsZero())
	assert.WithinDuration(t, student.JoinDate.Add(shared.MembershipDuration), student.ExpiryDate, time.Second)

	seat := f.seats.seats["R5"]
	assert.Equal(t, seatmodel.StatusOccupied, seat.Status)
	require.NotNil(t, seat.OccupiedBy)
	assert.Equal(t, student.ID, *seat.OccupiedBy)

	assert.Equal(t, []string{shared.ActionStudentAdded, shared.ActionSeatAssigned}, f.audit.actions())
	assert.Len(t, f.notifier.events, 1)
}

func TestCreateStudentRejectsOccupiedSeat(t *testing.T) {
	f := newFixture()
	f.pricing.set(shared.CategoryRegular, shared.TimePlan12Hr, "250")
	existing := f.seed(t, nil)

	_, err := f.svc.Create(context.Background(), admin, model.CreateStudentRequest{
		Name:     "Ravi Kumar",
		Mobile:   "9000000001",
		Category: shared.CategoryRegular,
		TimePlan: shared.TimePlan12Hr,
		SeatID:   existing.SeatID,
	})

	var seatErr *seatmodel.SeatError
	require.ErrorAs(t, err, &seatErr)
	assert.Equal(t, seatmodel.ErrCodeSeatOccupied, seatErr.Code)

	// Nothing was written.
	assert.Len(t, f.students.students, 1)
	assert.Empty(t, f.audit.entries)
	assert.Equal(t, existing.ID, *f.seats.seats[existing.SeatID].OccupiedBy)
}

func TestCreateStudentRejectsCategoryMismatch(t *testing.T) {
	f := newFixture()
	f.pricing.set(shared.CategoryPremium, shared.TimePlan24Hr, "500")
	f.seats.add("R5", shared.CategoryRegular)

	_, err := f.svc.Create(context.Background(), admin, model.CreateStudentRequest{
		Name:     "Ravi Kumar",
		Mobile:   "9000000001",
		Category: shared.CategoryPremium,
		TimePlan: shared.TimePlan24Hr,
		SeatID:   "R5",
	})

	var seatErr *seatmodel.SeatError
	require.ErrorAs(t, err, &seatErr)
	assert.Equal(t, seatmodel.ErrCodeSeatTypeMismatch, seatErr.Code)
	assert.Empty(t, f.students.students)
	assert.Equal(t, seatmodel.StatusAvailable, f.seats.seats["R5"].Status)
}

func TestCreateStudentRequiresActivePricing(t *testing.T) {
	f := newFixture()
	f.seats.add("R5", shared.CategoryRegular)

	_, err := f.svc.Create(context.Background(), admin, model.CreateStudentRequest{
		Name:     "Ravi Kumar",
		Mobile:   "9000000001",
		Category: shared.CategoryRegular,
		TimePlan: shared.TimePlan12Hr,
		SeatID:   "R5",
	})

	var stuErr *model.StudentError
	require.ErrorAs(t, err, &stuErr)
	assert.Equal(t, model.ErrCodePricingNotFound, stuErr.Code)
	assert.Empty(t, f.students.students)
}

func TestCreateStudentValidatesInput(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), admin, model.CreateStudentRequest{
		Name:     "Ravi Kumar",
		Mobile:   "12345", // not 10 digits
		Category: shared.CategoryRegular,
		TimePlan: shared.TimePlan12Hr,
		SeatID:   "R5",
	})

	var stuErr *model.StudentError
	require.ErrorAs(t, err, &stuErr)
	assert.Equal(t, model.ErrCodeInvalidInput, stuErr.Code)
}

// ==================== Update ====================

func TestUpdateStudentSwapsSeat(t *testing.T) {
	f := newFixture()
	existing := f.seed(t, nil)
	f.seats.add("R9", shared.CategoryRegular)

	updated, err := f.svc.Update(context.Background(), admin, existing.ID, model.UpdateStudentRequest{
		SeatID: strPtr("r9"),
	})
	require.NoError(t, err)

	assert.Equal(t, "R9", updated.SeatID)
	assert.Equal(t, seatmodel.StatusAvailable, f.seats.seats["R1"].Status)
	assert.Equal(t, seatmodel.StatusOccupied, f.seats.seats["R9"].Status)
	assert.Contains(t, f.audit.actions(), shared.ActionSeatChanged)
}

func TestUpdateStudentRejectedSwapLeavesSeatsUntouched(t *testing.T) {
	f := newFixture()
	existing := f.seed(t, nil)
	other := f.seed(t, func(s *model.Student) {
		s.ID = uuid.New()
		s.Name = "Meena Joshi"
		s.SeatID = "R2"
	})

	_, err := f.svc.Update(context.Background(), admin, existing.ID, model.UpdateStudentRequest{
		SeatID: strPtr("R2"),
	})

	var seatErr *seatmodel.SeatError
	require.ErrorAs(t, err, &seatErr)
	assert.Equal(t, seatmodel.ErrCodeSeatOccupied, seatErr.Code)

	// The old seat was never released and the target is still the other
	// student's.
	assert.Equal(t, existing.ID, *f.seats.seats["R1"].OccupiedBy)
	assert.Equal(t, other.ID, *f.seats.seats["R2"].OccupiedBy)

	persisted, _ := f.students.GetByID(context.Background(), existing.ID)
	assert.Equal(t, "R1", persisted.SeatID)
	assert.Empty(t, f.audit.entries)
}

func TestUpdateStudentRepricesOnPlanChange(t *testing.T) {
	f := newFixture()
	f.pricing.set(shared.CategoryRegular, shared.TimePlan24Hr, "400")
	existing := f.seed(t, func(s *model.Student) {
		s.AmountPaid = decimal.RequireFromString("250")
		s.AmountDue = decimal.Zero
		s.FeeStatus = model.FeePaid
	})

	updated, err := f.svc.Update(context.Background(), admin, existing.ID, model.UpdateStudentRequest{
		TimePlan: planPtr(shared.TimePlan24Hr),
	})
	require.NoError(t, err)

	assert.Equal(t, shared.TimePlan24Hr, updated.TimePlan)
	assert.True(t, updated.TotalFee.Equal(decimal.RequireFromString("400")))
	assert.Equal(t, model.FeePartial, updated.FeeStatus)
	assert.True(t, updated.AmountDue.Equal(decimal.RequireFromString("150")))
}

func TestUpdateStudentPlanChangeWithoutPricingIsNoOp(t *testing.T) {
	f := newFixture()
	existing := f.seed(t, nil)

	updated, err := f.svc.Update(context.Background(), admin, existing.ID, model.UpdateStudentRequest{
		Name:     strPtr("Asha V"),
		TimePlan: planPtr(shared.TimePlan24Hr),
	})
	require.NoError(t, err)

	// No active pricing for regular/24hr: the plan and fee stay put, the
	// rest of the edit still lands.
	assert.Equal(t, shared.TimePlan12Hr, updated.TimePlan)
	assert.True(t, updated.TotalFee.Equal(existing.TotalFee))
	assert.Equal(t, "Asha V", updated.Name)
}

func TestUpdateStudentRejectsDeleted(t *testing.T) {
	f := newFixture()
	existing := f.seed(t, func(s *model.Student) {
		s.IsDeleted = true
		s.Status = model.StatusDeleted
		s.SeatID = ""
	})

	_, err := f.svc.Update(context.Background(), admin, existing.ID, model.UpdateStudentRequest{
		Name: strPtr("New Name"),
	})

	var stuErr *model.StudentError
	require.ErrorAs(t, err, &stuErr)
	assert.Equal(t, model.ErrCodeStudentDeleted, stuErr.Code)
}

func TestUpdateStudentCategoryChangeKeepsSeat(t *testing.T) {
	f := newFixture()
	existing := f.seed(t, nil)

	updated, err := f.svc.Update(context.Background(), admin, existing.ID, model.UpdateStudentRequest{
		Category: catPtr(shared.CategoryPremium),
	})
	require.NoError(t, err)

	// Category edits never touch the current seat assignment.
	assert.Equal(t, shared.CategoryPremium, updated.Category)
	assert.Equal(t, "R1", updated.SeatID)
	assert.Equal(t, existing.ID, *f.seats.seats["R1"].OccupiedBy)
}

// ==================== Delete / Restore ====================

func TestDeleteStudentFreesSeat(t *testing.T) {
	f := newFixture()
	existing := f.seed(t, nil)

	deleted, err := f.svc.Delete(context.Background(), admin, existing.ID, "moved cities")
	require.NoError(t, err)

	assert.True(t, deleted.IsDeleted)
	assert.Equal(t, model.StatusDeleted, deleted.Status)
	assert.Equal(t, "moved cities", deleted.DeleteReason)
	assert.Empty(t, deleted.SeatID)
	require.NotNil(t, deleted.DeletedBy)
	assert.Equal(t, admin.ID, *deleted.DeletedBy)
	assert.Equal(t, seatmodel.StatusAvailable, f.seats.seats["R1"].Status)

	// Fee ledger stays as it was.
	assert.True(t, deleted.AmountDue.Equal(existing.AmountDue))
}

func TestDeleteStudentDefaultsReason(t *testing.T) {
	f := newFixture()
	existing := f.seed(t, nil)

	deleted, err := f.svc.Delete(context.Background(), admin, existing.ID, "   ")
	require.NoError(t, err)
	assert.Equal(t, "no reason provided", deleted.DeleteReason)
}

func TestDeleteStudentTwiceFails(t *testing.T) {
	f := newFixture()
	existing := f.seed(t, nil)

	_, err := f.svc.Delete(context.Background(), admin, existing.ID, "gone")
	require.NoError(t, err)

	_, err = f.svc.Delete(context.Background(), admin, existing.ID, "gone again")
	var stuErr *model.StudentError
	require.ErrorAs(t, err, &stuErr)
	assert.Equal(t, model.ErrCodeAlreadyDeleted, stuErr.Code)
}

func TestRestoreStudent(t *testing.T) {
	f := newFixture()
	existing := f.seed(t, func(s *model.Student) {
		s.IsDeleted = true
		s.Status = model.StatusDeleted
		s.SeatID = ""
		s.ExpiryDate = time.Now().Add(-5 * 24 * time.Hour)
	})
	f.seats.add("R3", shared.CategoryRegular)

	restored, err := f.svc.Restore(context.Background(), admin, existing.ID, model.RestoreStudentRequest{SeatID: "r3"})
	require.NoError(t, err)

	assert.False(t, restored.IsDeleted)
	assert.Equal(t, model.StatusActive, restored.Status)
	assert.Equal(t, "R3", restored.SeatID)
	require.NotNil(t, restored.RestoredBy)
	assert.Equal(t, admin.ID, *restored.RestoredBy)
	assert.WithinDuration(t, time.Now().Add(shared.MembershipDuration), restored.ExpiryDate, time.Minute)
	assert.Equal(t, seatmodel.StatusOccupied, f.seats.seats["R3"].Status)
}

func TestRestoreRequiresDeletedStudent(t *testing.T) {
	f := newFixture()
	existing := f.seed(t, nil)
	f.seats.add("R3", shared.CategoryRegular)

	_, err := f.svc.Restore(context.Background(), admin, existing.ID, model.RestoreStudentRequest{SeatID: "R3"})

	var stuErr *model.StudentError
	require.ErrorAs(t, err, &stuErr)
	assert.Equal(t, model.ErrCodeNotDeleted, stuErr.Code)
}

func TestRestoreRejectsMismatchedSeatLeavingStudentDeleted(t *testing.T) {
	f := newFixture()
	existing := f.seed(t, func(s *model.Student) {
		s.IsDeleted = true
		s.Status = model.StatusDeleted
		s.SeatID = ""
	})
	f.seats.add("P1", shared.CategoryPremium)

	_, err := f.svc.Restore(context.Background(), admin, existing.ID, model.RestoreStudentRequest{SeatID: "P1"})

	var seatErr *seatmodel.SeatError
	require.ErrorAs(t, err, &seatErr)
	assert.Equal(t, seatmodel.ErrCodeSeatTypeMismatch, seatErr.Code)

	persisted, _ := f.students.GetByID(context.Background(), existing.ID)
	assert.True(t, persisted.IsDeleted)
	assert.Equal(t, seatmodel.StatusAvailable, f.seats.seats["P1"].Status)
}

// ==================== Visibility ====================

func TestGetByIDHidesDeletedFromDirectors(t *testing.T) {
	f := newFixture()
	existing := f.seed(t, func(s *model.Student) {
		s.IsDeleted = true
		s.Status = model.StatusDeleted
		s.SeatID = ""
	})

	_, err := f.svc.GetByID(context.Background(), director, existing.ID)
	var stuErr *model.StudentError
	require.ErrorAs(t, err, &stuErr)
	assert.Equal(t, model.ErrCodeStudentNotFound, stuErr.Code)

	got, err := f.svc.GetByID(context.Background(), admin, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)
}

func TestListForcesDeletedOutForDirectors(t *testing.T) {
	f := newFixture()
	f.seed(t, nil)

	_, err := f.svc.List(context.Background(), director, model.ListStudentsFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.False(t, f.students.lastFilter.IncludeDeleted)

	_, err = f.svc.List(context.Background(), admin, model.ListStudentsFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.True(t, f.students.lastFilter.IncludeDeleted)
}

// ==================== Maintenance passes ====================

func TestRepairFeeStatuses(t *testing.T) {
	f := newFixture()
	drifted := f.seed(t, func(s *model.Student) {
		// Ledger out of line with what the amounts derive to.
		s.AmountPaid = decimal.RequireFromString("250")
		s.AmountDue = decimal.RequireFromString("250")
		s.FeeStatus = model.FeeDue
	})
	consistent := f.seed(t, func(s *model.Student) {
		s.ID = uuid.New()
		s.Name = "Meena Joshi"
		s.SeatID = "R2"
	})

	fixed, err := f.svc.RepairFeeStatuses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)

	repaired, _ := f.students.GetByID(context.Background(), drifted.ID)
	assert.Equal(t, model.FeePaid, repaired.FeeStatus)
	assert.True(t, repaired.AmountDue.IsZero())

	untouched, _ := f.students.GetByID(context.Background(), consistent.ID)
	assert.Equal(t, model.FeeDue, untouched.FeeStatus)
}

func TestSweepExpiredMemberships(t *testing.T) {
	f := newFixture()
	expired := f.seed(t, func(s *model.Student) {
		s.ExpiryDate = time.Now().Add(-24 * time.Hour)
	})
	current := f.seed(t, func(s *model.Student) {
		s.ID = uuid.New()
		s.Name = "Meena Joshi"
		s.SeatID = "R2"
	})

	swept, err := f.svc.SweepExpiredMemberships(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	gone, _ := f.students.GetByID(context.Background(), expired.ID)
	assert.Equal(t, model.StatusExpired, gone.Status)
	assert.Equal(t, seatmodel.StatusAvailable, f.seats.seats["R1"].Status)

	kept, _ := f.students.GetByID(context.Background(), current.ID)
	assert.Equal(t, model.StatusActive, kept.Status)
	assert.Equal(t, seatmodel.StatusOccupied, f.seats.seats["R2"].Status)
}

func TestSweepKeepsFeeDataOnExpiredStudents(t *testing.T) {
	f := newFixture()
	expired := f.seed(t, func(s *model.Student) {
		s.ExpiryDate = time.Now().Add(-24 * time.Hour)
		s.AmountPaid = decimal.RequireFromString("100")
		s.AmountDue = decimal.RequireFromString("150")
		s.FeeStatus = model.FeePartial
	})

	_, err := f.svc.SweepExpiredMemberships(context.Background())
	require.NoError(t, err)

	after, _ := f.students.GetByID(context.Background(), expired.ID)
	assert.False(t, after.IsDeleted)
	assert.Equal(t, model.FeePartial, after.FeeStatus)
	assert.True(t, after.AmountPaid.Equal(decimal.RequireFromString("100")))
}
