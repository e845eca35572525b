// Package permissions holds the route access table embedded from
// permissions.json. Each entry names the roles allowed on a chi route pattern
// and, for delegated access, the scope an authorized user must have been granted.
package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

type Permission struct {
	Permissions []string `json:"permissions"`
	Scope       string   `json:"scope,omitempty"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role is listed on the endpoint.
func (p Permission) Allows(role string) bool {
	return slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

// normalize drops the trailing slash chi leaves on subrouter index routes, so
// "/api/bookings" and "/api/bookings/" share one entry.
func normalize(path string) string {
	if len(path) > 1 {
		return strings.TrimSuffix(path, "/")
	}

	return path
}

func key(method, path string) string {
	return method + " " + normalize(path)
}

// FindPermissions returns the entry for a route pattern and whether one exists.
func (r *PermissionData) FindPermissions(path, method string) (Permission, bool) {
	if r.index != nil {
		permission, ok := r.index[key(method, path)]

		return permission, ok
	}

	idx := slices.IndexFunc(r.Endpoints, func(rp Permission) bool {
		return key(rp.Method, rp.Path) == key(method, path)
	})
	if idx == -1 {
		return Permission{}, false
	}

	return r.Endpoints[idx], true
}

// Parse decodes a permission table and indexes it by method and path.
func Parse(raw []byte) (*PermissionData, error) {
	var data PermissionData

	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err //nolint:wrapcheck
	}

	data.index = make(map[string]Permission, len(data.Endpoints))
	for _, endpoint := range data.Endpoints {
		k := key(endpoint.Method, endpoint.Path)
		if _, exists := data.index[k]; exists {
			log.Warn().Str("endpoint", k).Msg("Duplicate permission entry, keeping the first")

			continue
		}

		data.index[k] = endpoint
	}

	return &data, nil
}

// Get loads the embedded table. A table that fails to decode yields nil, which
// the RBAC middleware treats as deny-all.
func Get() *PermissionData {
	data, err := Parse(permissionsData)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(data.Endpoints)).Msg("Successfully loaded embedded permissions")

	return data
}
