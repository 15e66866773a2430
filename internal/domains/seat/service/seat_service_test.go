package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhall-backend/internal/domains/seat/model"
	"studyhall-backend/internal/shared"
)

type fakeSeatRepo struct {
	seats      map[string]*model.Seat
	statsCalls int
}

func newFakeSeatRepo() *fakeSeatRepo {
	return &fakeSeatRepo{seats: make(map[string]*model.Seat)}
}

func (r *fakeSeatRepo) add(seatID string, category shared.StudentCategory, status model.SeatStatus) {
	r.seats[seatID] = &model.Seat{SeatID: seatID, SeatCategory: category, Status: status}
}

func (r *fakeSeatRepo) GetByID(_ context.Context, seatID string) (*model.Seat, error) {
	s, ok := r.seats[seatID]
	if !ok {
		return nil, model.ErrSeatNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSeatRepo) List(_ context.Context, filter model.ListSeatsFilter) ([]model.Seat, error) {
	var out []model.Seat
	for _, s := range r.seats {
		if filter.Category != nil && s.SeatCategory != *filter.Category {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSeatRepo) ListAvailable(_ context.Context, category shared.StudentCategory) ([]model.Seat, error) {
	var out []model.Seat
	for _, s := range r.seats {
		if s.Status == model.StatusAvailable && s.SeatCategory == category {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSeatRepo) Stats(_ context.Context) (*model.SeatStats, error) {
	r.statsCalls++
	stats := &model.SeatStats{Total: len(r.seats)}
	for _, s := range r.seats {
		if s.Status == model.StatusOccupied {
			stats.Occupied++
		} else {
			stats.Available++
		}
	}
	return stats, nil
}

func (r *fakeSeatRepo) Occupy(_ context.Context, seatID string, studentID uuid.UUID) error {
	s, ok := r.seats[seatID]
	if !ok {
		return model.ErrSeatNotFound
	}
	if s.Status != model.StatusAvailable {
		return model.ErrSeatOccupied
	}
	s.Status = model.StatusOccupied
	s.OccupiedBy = &studentID
	return nil
}

func (r *fakeSeatRepo) Release(_ context.Context, seatID string) error {
	s, ok := r.seats[seatID]
	if !ok {
		return model.ErrSeatNotFound
	}
	s.Status = model.StatusAvailable
	s.OccupiedBy = nil
	return nil
}

type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func (c *fakeCache) Ping(_ context.Context) error { return nil }

func TestGetByIDUnknownSeat(t *testing.T) {
	svc := NewService(newFakeSeatRepo(), nil)

	_, err := svc.GetByID(context.Background(), "Z99")
	var seatErr *model.SeatError
	require.ErrorAs(t, err, &seatErr)
	assert.Equal(t, model.ErrCodeSeatNotFound, seatErr.Code)
}

func TestListAvailableFiltersByCategory(t *testing.T) {
	repo := newFakeSeatRepo()
	repo.add("R1", shared.CategoryRegular, model.StatusAvailable)
	repo.add("R2", shared.CategoryRegular, model.StatusOccupied)
	repo.add("P1", shared.CategoryPremium, model.StatusAvailable)
	svc := NewService(repo, nil)

	seats, err := svc.ListAvailable(context.Background(), shared.CategoryRegular)
	require.NoError(t, err)
	require.Len(t, seats, 1)
	assert.Equal(t, "R1", seats[0].SeatID)
}

func TestStatsServedFromCache(t *testing.T) {
	repo := newFakeSeatRepo()
	repo.add("R1", shared.CategoryRegular, model.StatusAvailable)
	repo.add("R2", shared.CategoryRegular, model.StatusOccupied)
	svc := NewService(repo, newFakeCache())

	first, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Total)
	assert.Equal(t, 1, repo.statsCalls)

	second, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, 1, repo.statsCalls, "second read must come from the cache")
}

func TestStatsWorksWithoutCache(t *testing.T) {
	repo := newFakeSeatRepo()
	repo.add("R1", shared.CategoryRegular, model.StatusAvailable)
	svc := NewService(repo, nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Available)
}
