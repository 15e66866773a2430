package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	directormodel "studyhall-backend/internal/domains/director/model"
	"studyhall-backend/internal/domains/notification/model"
	"studyhall-backend/internal/shared"
)

type fakeNotificationRepo struct {
	inserted  []*model.Notification
	insertErr error
	lastLimit int
}

func (r *fakeNotificationRepo) Insert(_ context.Context, n *model.Notification) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	cp := *n
	r.inserted = append(r.inserted, &cp)
	return nil
}

func (r *fakeNotificationRepo) ListForRecipient(_ context.Context, _ uuid.UUID, _ bool, limit int) ([]model.View, error) {
	r.lastLimit = limit
	return nil, nil
}

func (r *fakeNotificationRepo) UnreadCount(_ context.Context, _ uuid.UUID) (int, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, _, _ uuid.UUID) error { return nil }

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeNotificationRepo) SoftDelete(_ context.Context, _ uuid.UUID) error { return nil }

// fakeUserRepo only serves recipient resolution; the rest of the interface
// is unused by the notification service.
type fakeUserRepo struct {
	activeIDs []uuid.UUID
}

func (r *fakeUserRepo) Create(_ context.Context, _ *directormodel.User) error { return nil }

func (r *fakeUserRepo) GetByID(_ context.Context, _ uuid.UUID) (*directormodel.User, error) {
	return nil, directormodel.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, _ string) (*directormodel.User, error) {
	return nil, directormodel.ErrUserNotFound
}

func (r *fakeUserRepo) ListDirectors(_ context.Context) ([]directormodel.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, _ *directormodel.User) error { return nil }

func (r *fakeUserRepo) SetActive(_ context.Context, _ uuid.UUID, _ bool) error { return nil }

func (r *fakeUserRepo) TouchLastLogin(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeUserRepo) ActiveRecipients(_ context.Context, exclude uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, id := range r.activeIDs {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out, nil
}

func TestNotifyFansOutToEveryoneButTheActor(t *testing.T) {
	actor := shared.Actor{ID: uuid.New(), Name: "Owner", Role: shared.RoleAdmin}
	other1, other2 := uuid.New(), uuid.New()

	repo := &fakeNotificationRepo{}
	users := &fakeUserRepo{activeIDs: []uuid.UUID{actor.ID, other1, other2}}
	svc := NewService(repo, users)

	related := uuid.New()
	svc.Notify(context.Background(), shared.NotificationEvent{
		Type:        shared.ActionStudentAdded,
		Title:       "New student admitted",
		Message:     "Asha Verma was admitted to seat R1",
		Actor:       actor,
		RelatedID:   related,
		RelatedType: shared.TargetStudent,
	})

	require.Len(t, repo.inserted, 1)
	n := repo.inserted[0]
	assert.ElementsMatch(t, []uuid.UUID{other1, other2}, n.Recipients)
	assert.NotContains(t, n.Recipients, actor.ID)
	require.NotNil(t, n.RelatedID)
	assert.Equal(t, related, *n.RelatedID)
	assert.Equal(t, actor.Name, n.ActorName)
}

func TestNotifySkipsWhenNoRecipients(t *testing.T) {
	actor := shared.Actor{ID: uuid.New(), Name: "Owner", Role: shared.RoleAdmin}

	repo := &fakeNotificationRepo{}
	users := &fakeUserRepo{activeIDs: []uuid.UUID{actor.ID}}
	svc := NewService(repo, users)

	svc.Notify(context.Background(), shared.NotificationEvent{
		Type:  shared.ActionStudentAdded,
		Title: "New student admitted",
		Actor: actor,
	})

	assert.Empty(t, repo.inserted)
}

func TestNotifySwallowsPersistenceFailures(t *testing.T) {
	actor := shared.Actor{ID: uuid.New(), Name: "Owner", Role: shared.RoleAdmin}

	repo := &fakeNotificationRepo{insertErr: errors.New("connection refused")}
	users := &fakeUserRepo{activeIDs: []uuid.UUID{uuid.New()}}
	svc := NewService(repo, users)

	// Must not panic or propagate anything.
	svc.Notify(context.Background(), shared.NotificationEvent{
		Type:  shared.ActionPaymentAdded,
		Title: "Payment collected",
		Actor: actor,
	})

	assert.Empty(t, repo.inserted)
}

func TestNotifyLeavesRelatedIDNilWhenAbsent(t *testing.T) {
	actor := shared.Actor{ID: uuid.New(), Name: "Owner", Role: shared.RoleAdmin}

	repo := &fakeNotificationRepo{}
	users := &fakeUserRepo{activeIDs: []uuid.UUID{uuid.New()}}
	svc := NewService(repo, users)

	svc.Notify(context.Background(), shared.NotificationEvent{
		Type:  shared.ActionPricingChanged,
		Title: "Pricing changed",
		Actor: actor,
	})

	require.Len(t, repo.inserted, 1)
	assert.Nil(t, repo.inserted[0].RelatedID)
}

func TestListForRecipientClampsLimit(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo, &fakeUserRepo{})

	_, err := svc.ListForRecipient(context.Background(), uuid.New(), false, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastLimit)

	_, err = svc.ListForRecipient(context.Background(), uuid.New(), false, 500)
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastLimit)

	_, err = svc.ListForRecipient(context.Background(), uuid.New(), false, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, repo.lastLimit)
}
