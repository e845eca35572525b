package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"taskpal/config"
	"taskpal/infras/otel/mocks"
	"taskpal/infras/realtime"
	realtimeMocks "taskpal/infras/realtime/mocks"
	announcementMocks "taskpal/internal/domains/announcement/mocks"
	"taskpal/internal/domains/announcement/model"
	"taskpal/internal/domains/announcement/model/dto"
	"taskpal/internal/domains/announcement/service"
	cacheMocks "taskpal/shared/cache/mocks"
	gDto "taskpal/shared/dto"
	"taskpal/shared/failure"
)

type announcementServiceFixture struct {
	repo        *announcementMocks.MockAnnouncement
	broadcaster *realtimeMocks.MockBroadcaster
	cache       *cacheMocks.MockRedisCache
	svc         service.Announcement
}

func newFixture(t *testing.T) announcementServiceFixture {
	ctrl := gomock.NewController(t)

	f := announcementServiceFixture{
		repo:        announcementMocks.NewMockAnnouncement(ctrl),
		broadcaster: realtimeMocks.NewMockBroadcaster(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	f.svc = service.New(f.repo, f.broadcaster, f.cache, cfg, mocks.NewOtel())

	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func TestAnnouncementService_Create(t *testing.T) {
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	before := start.Add(-24 * time.Hour)

	t.Run("end before start", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), dto.CreateAnnouncementRequest{Title: "Outage", Content: "x", StartDate: &start, EndDate: &before})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("created as pending", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Create(context.Background(), dto.CreateAnnouncementRequest{Title: "Holiday hours", Content: "Closed on Nov 1", StartDate: &start})

		assert.NoError(t, err)
		assert.Nil(t, res.IsActive)
		assert.Equal(t, model.StatePending, res.State)
	})
}

func TestAnnouncementService_Activate(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Announcement{ID: "a1", Title: "Holiday hours"}, nil)
	f.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, true, fields[model.FieldIsActive])

			return nil
		})
	f.broadcaster.EXPECT().
		Emit(gomock.Any(), realtime.RoomAnnouncements, realtime.EventAnnouncementActivated, gomock.Any()).
		Do(func(_ context.Context, _, _ string, data any) {
			announcement, ok := data.(dto.AnnouncementResponse)
			assert.True(t, ok)
			assert.Equal(t, "a1", announcement.ID)
			assert.Equal(t, model.StateActive, announcement.State)
		})

	res, err := f.svc.Activate(context.Background(), "a1")

	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.True(t, *res.IsActive)
}

func TestAnnouncementService_Complete(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Announcement{ID: "a1"}, nil)
	f.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, false, fields[model.FieldIsActive])

			return nil
		})
	f.broadcaster.EXPECT().Emit(gomock.Any(), realtime.RoomAnnouncements, realtime.EventAnnouncementCompleted, gomock.Any())

	res, err := f.svc.Complete(context.Background(), "a1")

	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, model.StateCompleted, res.State)
}

func TestAnnouncementService_Delete(t *testing.T) {
	t.Run("unknown", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Announcement{}, nil)

		err := f.svc.Delete(context.Background(), "a1")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("emits deletion", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Announcement{ID: "a1"}, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.broadcaster.EXPECT().Emit(gomock.Any(), realtime.RoomAnnouncements, realtime.EventAnnouncementDeleted, dto.DeletedEvent{ID: "a1"})

		err := f.svc.Delete(context.Background(), "a1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})
}

func TestAnnouncementService_GetAll_State(t *testing.T) {
	tests := []struct {
		name      string
		state     string
		wantWhere string
		wantCode  int
	}{
		{name: "all", state: "", wantWhere: ""},
		{name: "pending", state: model.StatePending, wantWhere: "(announcements.is_active IS NULL)"},
		{name: "active", state: model.StateActive, wantWhere: "(announcements.is_active = :is_active)"},
		{name: "invalid", state: "archived", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			if tt.wantCode == 0 {
				f.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
						where, _ := filter.GetWhereClause()
						assert.Equal(t, tt.wantWhere, where)

						return 1, nil
					})
				f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Announcement{{ID: "a1"}}, nil)
			}

			res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, tt.state)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Len(t, res.Announcements, 1)
		})
	}
}

func TestAnnouncementService_GetActive(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().
			Get(gomock.Any(), "announcement:active", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				*value.(*[]dto.AnnouncementResponse) = []dto.AnnouncementResponse{{ID: "a1"}}

				return nil
			})

		res, err := f.svc.GetActive(context.Background())

		assert.NoError(t, err)
		assert.Len(t, res, 1)
	})

	t.Run("cache miss", func(t *testing.T) {
		f := newFixture(t)
		active := true
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis: nil"))
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Announcement{{ID: "a1", IsActive: &active}}, nil)

		res, err := f.svc.GetActive(context.Background())

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, model.StateActive, res[0].State)
	})
}
