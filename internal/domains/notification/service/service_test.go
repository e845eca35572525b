package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"taskpal/config"
	"taskpal/infras/otel/mocks"
	"taskpal/infras/realtime"
	realtimeMocks "taskpal/infras/realtime/mocks"
	notificationMocks "taskpal/internal/domains/notification/mocks"
	"taskpal/internal/domains/notification/model"
	"taskpal/internal/domains/notification/model/dto"
	"taskpal/internal/domains/notification/service"
	"taskpal/shared/constant"
	gDto "taskpal/shared/dto"
	"taskpal/shared/failure"
)

func userContext(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleClient)
}

func TestNotificationService_Notify(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := notificationMocks.NewMockNotification(ctrl)
	mockBroadcaster := realtimeMocks.NewMockBroadcaster(ctrl)

	svc := service.New(mockRepo, mockBroadcaster, &config.Config{}, mocks.NewOtel())

	tests := []struct {
		name      string
		req       dto.NotifyRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "stores and pushes to the recipient room",
			req: dto.NotifyRequest{
				RecipientID:   "provider-1",
				RecipientRole: constant.RoleProvider,
				Type:          model.TypeBooking,
				Title:         "New booking",
				Message:       "You have a new booking request",
				ReferenceID:   "booking-1",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, n model.Notification) error {
						assert.Equal(t, "provider-1", n.RecipientID)
						assert.False(t, n.IsRead)
						assert.Equal(t, "booking-1", *n.ReferenceID)

						return nil
					})

				mockBroadcaster.EXPECT().
					Emit(gomock.Any(), realtime.UserRoom("provider-1"), realtime.EventNotificationNew, gomock.Any())
			},
		},
		{
			name:      "missing recipient",
			req:       dto.NotifyRequest{Title: "x"},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "insert error does not emit",
			req:  dto.NotifyRequest{RecipientID: "client-1", Title: "x"},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Notify(userContext("client-1"), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotificationService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := notificationMocks.NewMockNotification(ctrl)
	svc := service.New(mockRepo, realtimeMocks.NewMockBroadcaster(ctrl), &config.Config{}, mocks.NewOtel())

	unread := false

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, "client-1", args[model.FieldRecipientID])
			assert.Equal(t, false, args[model.FieldIsRead])

			return 2, nil
		})

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Notification{{ID: "n-1"}, {ID: "n-2"}}, nil)

	res, err := svc.GetAll(userContext("client-1"), gDto.QueryParams{Page: 1, Limit: 10}, &unread)

	assert.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
	assert.Len(t, res.Notifications, 2)
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := notificationMocks.NewMockNotification(ctrl)
	svc := service.New(mockRepo, realtimeMocks.NewMockBroadcaster(ctrl), &config.Config{}, mocks.NewOtel())

	tests := []struct {
		name      string
		setupMock func()
		wantCode  int
	}{
		{
			name: "marks own notification",
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, true, fields[model.FieldIsRead])

						return nil
					})
			},
		},
		{
			name: "someone else's notification",
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.MarkRead(userContext("client-1"), "n-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := notificationMocks.NewMockNotification(ctrl)
	svc := service.New(mockRepo, realtimeMocks.NewMockBroadcaster(ctrl), &config.Config{}, mocks.NewOtel())

	mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
			_, args := filter.GetWhereClause()

			assert.Equal(t, true, fields[model.FieldIsRead])
			assert.Equal(t, false, args["was_read"])
			assert.NotContains(t, args, model.FieldIsRead)

			return nil
		})

	assert.NoError(t, svc.MarkAllRead(userContext("client-1")))
}

func TestNotificationService_UnreadCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := notificationMocks.NewMockNotification(ctrl)
	svc := service.New(mockRepo, realtimeMocks.NewMockBroadcaster(ctrl), &config.Config{}, mocks.NewOtel())

	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)

	res, err := svc.UnreadCount(userContext("client-1"))

	assert.NoError(t, err)
	assert.Equal(t, 3, res.Unread)
}
