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
	notificationMocks "taskpal/internal/domains/notification/service/mocks"
	userMocks "taskpal/internal/domains/user/mocks"
	"taskpal/internal/domains/user/model"
	"taskpal/internal/domains/user/model/dto"
	"taskpal/internal/domains/user/service"
	cacheMocks "taskpal/shared/cache/mocks"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/failure"
)

type userServiceFixture struct {
	repo         *userMocks.MockUser
	notification *notificationMocks.MockNotification
	s3           *s3Mocks.MockS3
	cache        *cacheMocks.MockRedisCache
	svc          service.User
}

func newFixture(t *testing.T) userServiceFixture {
	ctrl := gomock.NewController(t)

	f := userServiceFixture{
		repo:         userMocks.NewMockUser(ctrl),
		notification: notificationMocks.NewMockNotification(ctrl),
		s3:           s3Mocks.NewMockS3(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.notification, f.s3, cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func clientContext(id string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleClient)
}

func TestUserService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f userServiceFixture)
		wantCode  int
		wantID    string
	}{
		{
			name: "cache miss reads the repository",
			setupMock: func(f userServiceFixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "client-1", FirstName: "Lola"}, nil)
			},
			wantID: "client-1",
		},
		{
			name: "unknown user",
			setupMock: func(f userServiceFixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository error",
			setupMock: func(f userServiceFixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), "client-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, res.ID)
				assert.NotNil(t, res.Documents)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestUserService_UpdateMe(t *testing.T) {
	t.Run("empty request", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.UpdateMe(clientContext("client-1"), dto.UpdateProfileRequest{})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("updates only provided fields", func(t *testing.T) {
		f := newFixture(t)
		phone := "09171234567"

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, phone, fields[model.FieldPhone])
				assert.NotContains(t, fields, model.FieldFirstName)
				assert.Equal(t, "client-1", fields[constant.FieldModifiedBy])

				return nil
			})

		err := f.svc.UpdateMe(clientContext("client-1"), dto.UpdateProfileRequest{Phone: &phone})

		assert.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	})
}

func TestUserService_UploadDocument(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(model.User{ID: "client-1", Documents: []string{"https://cdn/doc-1.pdf"}}, nil)

	f.s3.EXPECT().
		UploadFile(gomock.Any(), "documents", gomock.Any(), gomock.Any()).
		Return("https://cdn/doc-2.pdf", nil)

	f.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.ElementsMatch(t, []string{"https://cdn/doc-1.pdf", "https://cdn/doc-2.pdf"}, fields[model.FieldDocuments])

			return nil
		})

	res, err := f.svc.UploadDocument(clientContext("client-1"), gDto.UploadDocumentRequest{})

	assert.NoError(t, err)
	assert.Equal(t, "https://cdn/doc-2.pdf", res.URL)
	time.Sleep(10 * time.Millisecond)
}

func TestUserService_Verify(t *testing.T) {
	f := newFixture(t)
	verified := true

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "client-1"}, nil)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.notification.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

	err := f.svc.Verify(context.Background(), dto.VerifyUserRequest{IsVerified: &verified}, "client-1")

	assert.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
}

func TestUserService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f userServiceFixture)
		wantCode  int
	}{
		{
			name: "deletes an existing user",
			setupMock: func(f userServiceFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "unknown user",
			setupMock: func(f userServiceFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(context.Background(), "client-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}
}
