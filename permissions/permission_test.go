package permissions_test

import (
	"net/http"
	"strings"
	"taskpal/permissions"
	"taskpal/shared/constant"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	assert.False(t, data.Skip)
	assert.NotEmpty(t, data.Endpoints)

	seen := make(map[string]struct{}, len(data.Endpoints))

	for _, endpoint := range data.Endpoints {
		key := endpoint.Method + " " + endpoint.Path

		_, duplicate := seen[key]
		assert.False(t, duplicate, "duplicate endpoint %s", key)
		seen[key] = struct{}{}

		assert.False(t, endpoint.Path != "/" && strings.HasSuffix(endpoint.Path, "/"), "trailing slash on %s", key)
		assert.Contains(t, []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete}, endpoint.Method, key)

		if endpoint.Skip {
			assert.Empty(t, endpoint.Permissions, key)

			continue
		}

		assert.NotEmpty(t, endpoint.Permissions, key)

		if endpoint.Scope != "" {
			assert.Contains(t, endpoint.Permissions, constant.RoleAuthorized, key)
			assert.Contains(t, []string{constant.ScopeBookings, constant.ScopePayments, constant.ScopeChat, constant.ScopeReviews}, endpoint.Scope, key)
		}
	}
}

func TestPermissionData_FindPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name      string
		path      string
		method    string
		wantSkip  bool
		wantRoles []string
		wantScope string
		wantFound bool
	}{
		{
			name:     "public login",
			path:     "/api/auth/login",
			method:    http.MethodPost,
			wantSkip:  true,
			wantFound: true,
		},
		{
			name:      "superadmin only",
			path:      "/api/admin/admins",
			method:    http.MethodPost,
			wantRoles: []string{"superadmin"},
			wantFound: true,
		},
		{
			name:      "delegate scoped",
			path:      "/api/payments/checkout",
			method:    http.MethodPost,
			wantRoles: []string{"client", "authorized"},
			wantScope: "payments",
			wantFound: true,
		},
		{
			name:      "collection route without trailing slash",
			path:      "/api/announcements",
			method:    http.MethodPost,
			wantRoles: []string{"admin", "superadmin"},
			wantFound: true,
		},
		{
			name:      "collection route with trailing slash",
			path:      "/api/announcements/",
			method:    http.MethodPost,
			wantRoles: []string{"admin", "superadmin"},
			wantFound: true,
		},
		{
			name:   "unknown route",
			path:   "/api/unknown",
			method: http.MethodGet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantSkip, got.Skip)
			assert.ElementsMatch(t, tt.wantRoles, got.Permissions)
			assert.Equal(t, tt.wantScope, got.Scope)
		})
	}
}

func TestParse(t *testing.T) {
	data, err := permissions.Parse([]byte(`{"endpoints":[
		{"path":"/api/bookings","method":"GET","permissions":["client"]},
		{"path":"/api/bookings","method":"GET","permissions":["admin"]}
	]}`))
	require.NoError(t, err)

	got, found := data.FindPermissions("/api/bookings/", http.MethodGet)
	require.True(t, found)
	assert.Equal(t, []string{"client"}, got.Permissions, "first entry wins")

	_, err = permissions.Parse([]byte(`{"endpoints":`))
	require.Error(t, err)
}

func TestPermission_Allows(t *testing.T) {
	empty := permissions.Permission{}
	assert.False(t, empty.Allows("provider"))

	clientsOnly := permissions.Permission{Permissions: []string{"client", "authorized"}}
	assert.True(t, clientsOnly.Allows("authorized"))
	assert.False(t, clientsOnly.Allows("provider"))
	assert.False(t, clientsOnly.Allows(""))
}
