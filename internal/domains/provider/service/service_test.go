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
	s3Mocks "taskpal/infras/s3/mocks"
	notificationDto "taskpal/internal/domains/notification/model/dto"
	notificationMocks "taskpal/internal/domains/notification/service/mocks"
	providerMocks "taskpal/internal/domains/provider/mocks"
	"taskpal/internal/domains/provider/model"
	"taskpal/internal/domains/provider/model/dto"
	"taskpal/internal/domains/provider/service"
	cacheMocks "taskpal/shared/cache/mocks"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/failure"
)

type providerServiceFixture struct {
	repo         *providerMocks.MockProvider
	notification *notificationMocks.MockNotification
	s3           *s3Mocks.MockS3
	cache        *cacheMocks.MockRedisCache
	svc          service.Provider
}

func newFixture(t *testing.T) providerServiceFixture {
	ctrl := gomock.NewController(t)

	f := providerServiceFixture{
		repo:         providerMocks.NewMockProvider(ctrl),
		notification: notificationMocks.NewMockNotification(ctrl),
		s3:           s3Mocks.NewMockS3(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.notification, f.s3, cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func providerContext(id string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleProvider)
}

func TestProviderService_GetApproved(t *testing.T) {
	t.Run("cache hit skips the repository", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, dest any) error {
				res, _ := dest.(*dto.GetProvidersResponse)
				res.TotalData = 4

				return nil
			})

		res, err := f.svc.GetApproved(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Equal(t, 4, res.TotalData)
	})

	t.Run("cache miss only lists approved providers", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				where, args := filter.GetWhereClause()
				assert.Contains(t, where, model.FieldStatus)
				assert.Equal(t, model.StatusApproved, args[model.FieldStatus])

				return 1, nil
			})
		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Provider{{ID: "provider-1", Status: model.StatusApproved}}, nil)

		res, err := f.svc.GetApproved(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Len(t, res.Providers, 1)
		assert.Equal(t, 1, res.TotalPage)
		time.Sleep(10 * time.Millisecond)
	})
}

func TestProviderService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f providerServiceFixture)
		wantCode  int
	}{
		{
			name: "found",
			setupMock: func(f providerServiceFixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Provider{ID: "provider-1"}, nil)
			},
		},
		{
			name: "unknown provider",
			setupMock: func(f providerServiceFixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Provider{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), "provider-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "provider-1", res.ID)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestProviderService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		setupMock func(f providerServiceFixture)
		wantCode  int
	}{
		{
			name:    "approves a pending provider and notifies them",
			current: model.StatusPending,
			setupMock: func(f providerServiceFixture) {
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusApproved, fields[model.FieldStatus])

						return nil
					})
				f.notification.EXPECT().
					Notify(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req notificationDto.NotifyRequest) error {
						assert.Equal(t, "provider-1", req.RecipientID)
						assert.Equal(t, constant.RoleProvider, req.RecipientRole)

						return nil
					})
			},
		},
		{
			name:      "same status is a no-op",
			current:   model.StatusApproved,
			setupMock: func(providerServiceFixture) {},
		},
		{
			name:    "notification failure does not fail the update",
			current: model.StatusSuspended,
			setupMock: func(f providerServiceFixture) {
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.notification.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Provider{ID: "provider-1", Status: tt.current}, nil)
			tt.setupMock(f)

			err := f.svc.UpdateStatus(context.Background(), dto.UpdateStatusRequest{Status: model.StatusApproved}, "provider-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestProviderService_UploadProfilePicture(t *testing.T) {
	f := newFixture(t)
	previous := "https://cdn/profile-pictures/old.png"

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Provider{ID: "provider-1", ProfilePicture: &previous}, nil)
	f.s3.EXPECT().UploadFile(gomock.Any(), "profile-pictures", gomock.Any(), gomock.Any()).Return("https://cdn/profile-pictures/new.png", nil)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.s3.EXPECT().DeleteByURL(gomock.Any(), previous).Return(nil)

	res, err := f.svc.UploadProfilePicture(providerContext("provider-1"), gDto.UploadImageRequest{})

	assert.NoError(t, err)
	assert.Equal(t, "https://cdn/profile-pictures/new.png", res.URL)
	time.Sleep(20 * time.Millisecond)
}

func TestProviderService_UpdateMe(t *testing.T) {
	f := newFixture(t)

	err := f.svc.UpdateMe(providerContext("provider-1"), dto.UpdateProfileRequest{})

	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}
