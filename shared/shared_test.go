package shared_test

import (
	"context"
	"errors"
	"taskpal/shared"
	"taskpal/shared/cache/mocks"
	"taskpal/shared/constant"
	"taskpal/shared/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func boolPtr(value bool) *bool {
	return &value
}

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		input string
		want  *bool
	}{
		{input: "", want: nil},
		{input: "true", want: boolPtr(true)},
		{input: "0", want: boolPtr(false)},
		{input: "FALSE", want: boolPtr(false)},
		{input: "maybe", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name         string
		total, limit int
		want         int
	}{
		{name: "no data", total: 0, limit: 10, want: 1},
		{name: "exact fit", total: 20, limit: 10, want: 2},
		{name: "partial last page", total: 21, limit: 10, want: 3},
		{name: "no limit", total: 21, limit: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type fields struct {
		Status    string   `db:"status"`
		Price     *float64 `db:"price"`
		Signed    *bool    `db:"agreement_signed_by_client"`
		Notes     string   `db:"notes"`
		Untagged  string
		Transient string `db:"-"`
	}

	price := 1500.0

	got := shared.TransformFields(fields{
		Status:    "negotiating",
		Price:     &price,
		Signed:    boolPtr(false),
		Untagged:  "skipped",
		Transient: "skipped",
	}, "client-1")

	modifiedAt, ok := got[constant.FieldModifiedAt].(time.Time)
	require.True(t, ok)
	assert.False(t, modifiedAt.IsZero())

	delete(got, constant.FieldModifiedAt)

	assert.Equal(t, map[string]any{
		"status":                     "negotiating",
		"price":                      1500.0,
		"agreement_signed_by_client": false,
		constant.FieldModifiedBy:     "client-1",
	}, got)
}

func TestFilterByFields(t *testing.T) {
	group := shared.FilterByFields("bookings", "id", "b-1", "client_id", "c-1", "dangling")

	where, args := group.GetWhereClause()

	assert.Equal(t, "(bookings.id = :id AND bookings.client_id = :client_id)", where)
	assert.Equal(t, map[string]any{"id": "b-1", "client_id": "c-1"}, args)
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("p-1", "id", "providers")

	where, args := group.GetWhereClause()

	assert.Equal(t, "(providers.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "p-1"}, args)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "providers", shared.BuildCacheKey("providers"))
	assert.Equal(t, "providers:p-1:reviews", shared.BuildCacheKey("providers", "p-1", "reviews"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	plumbing := shared.FilterByField("service_type", "plumbing", "providers")
	cleaning := shared.FilterByField("service_type", "cleaning", "providers")

	first := shared.BuildCacheKeyWithQuery("providers", params, plumbing)

	assert.Equal(t, first, shared.BuildCacheKeyWithQuery("providers", params, plumbing))
	assert.NotEqual(t, first, shared.BuildCacheKeyWithQuery("providers", params, cleaning))
	assert.NotEqual(t, first, shared.BuildCacheKeyWithQuery("providers", dto.QueryParams{Page: 2, Limit: 10}, plumbing))
	assert.Regexp(t, `^providers:[0-9a-f]{64}$`, first)
}

func TestInvalidateCaches(t *testing.T) {
	redisCache := mocks.NewMockRedisCache(gomock.NewController(t))

	redisCache.EXPECT().Clear(gomock.Any(), "providers*").Return(errors.New("connection refused"))

	shared.InvalidateCaches(context.Background(), redisCache, "providers")
}

func TestActorFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, constant.ContextGuest, shared.ActorFromContext(ctx))

	ctx = context.WithValue(ctx, constant.ContextKeyUserID, "client-1")
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAuthorized)
	assert.Equal(t, "client-1", shared.ActorFromContext(ctx))

	userID, role := shared.UserFromContext(ctx)
	assert.Equal(t, "client-1", userID)
	assert.Equal(t, constant.RoleAuthorized, role)

	ctx = context.WithValue(ctx, constant.ContextKeyDelegateID, "delegate-1")
	assert.Equal(t, "delegate-1", shared.ActorFromContext(ctx))
}

func TestRoles(t *testing.T) {
	tests := []struct {
		role       string
		wantAdmin  bool
		wantClient bool
	}{
		{role: constant.RoleSuperAdmin, wantAdmin: true},
		{role: constant.RoleAdmin, wantAdmin: true},
		{role: constant.RoleClient, wantClient: true},
		{role: constant.RoleAuthorized, wantClient: true},
		{role: constant.RoleProvider},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.wantAdmin, shared.IsAdmin(tt.role))
			assert.Equal(t, tt.wantClient, shared.IsClient(tt.role))
		})
	}
}
