package repository

import (
	"taskpal/infras/otel/mocks"
	"taskpal/shared/dto"
	"taskpal/shared/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

type widget struct {
	ID        string  `db:"id"`
	Name      string  `db:"name"`
	Price     float64 `db:"price"`
	OwnerName string  `db:"owner_name" table:"owners" column:"name"`
	Transient string  `db:"-"`
	Unmapped  string
	model.Metadata
}

func (widget) GetJoinQuery() string {
	return "JOIN owners ON owners.id = widgets.owner_id"
}

func newWidgetRepository() Repository[widget] {
	return NewRepository[widget]("widget", "widgets", "id", nil, mocks.NewOtel())
}

func TestNewRepository_Columns(t *testing.T) {
	repo := newWidgetRepository()

	assert.Equal(t, []string{"id", "name", "price", "created_at", "modified_at", "created_by", "modified_by"}, repo.InsertColumns)
	assert.Equal(t, "JOIN owners ON owners.id = widgets.owner_id", repo.join)
	assert.Equal(t,
		"widgets.id, widgets.name, widgets.price, owners.name AS owner_name, widgets.created_at, widgets.modified_at, widgets.created_by, widgets.modified_by",
		repo.selectList(),
	)
	assert.Equal(t, "widgets.id, widgets.name", repo.selectList("id", "name"))
	assert.Equal(t, "widgets.id, owners.name AS owner_name", repo.selectList("id", "owner_name"))
}

func TestRepository_InsertQuery(t *testing.T) {
	repo := NewRepository[struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}]("thing", "things", "id", nil, mocks.NewOtel())

	assert.Equal(t, "INSERT INTO things (id, name) VALUES (:id, :name)", repo.insertQuery(""))
	assert.Equal(t, "INSERT INTO things (id, name) VALUES (:id, :name) ON CONFLICT (id) DO NOTHING", repo.insertQuery("ON CONFLICT (id) DO NOTHING"))
}

func TestRepository_OrderBy(t *testing.T) {
	repo := newWidgetRepository()

	tests := []struct {
		name   string
		params dto.QueryParams
		want   string
	}{
		{name: "known column", params: dto.QueryParams{SortBy: "price", SortDir: "ASC"}, want: "ORDER BY widgets.price ASC"},
		{name: "joined column by alias", params: dto.QueryParams{SortBy: "owner_name", SortDir: "DESC"}, want: "ORDER BY owners.name DESC"},
		{name: "missing direction sorts descending", params: dto.QueryParams{SortBy: "name"}, want: "ORDER BY widgets.name DESC"},
		{name: "no sort falls back to newest first", params: dto.QueryParams{}, want: "ORDER BY widgets.created_at DESC"},
		{name: "unknown column is ignored", params: dto.QueryParams{SortBy: "price; DROP TABLE widgets", SortDir: "ASC"}, want: "ORDER BY widgets.created_at DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repo.orderBy(tt.params))
		})
	}
}

func TestRepository_OrderBy_WithoutCreatedAt(t *testing.T) {
	repo := NewRepository[struct {
		ID string `db:"id"`
	}]("thing", "things", "id", nil, mocks.NewOtel())

	assert.Empty(t, repo.orderBy(dto.QueryParams{}))
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name     string
		params   dto.QueryParams
		want     string
		wantArgs map[string]any
	}{
		{name: "no limit", params: dto.QueryParams{Page: 2}, want: "", wantArgs: map[string]any{}},
		{name: "limit only", params: dto.QueryParams{Limit: 5}, want: "LIMIT :limit", wantArgs: map[string]any{"limit": 5}},
		{name: "page and limit", params: dto.QueryParams{Page: 3, Limit: 10}, want: "LIMIT :limit OFFSET :offset", wantArgs: map[string]any{"limit": 10, "offset": 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]any{}

			assert.Equal(t, tt.want, paginate(tt.params, args))
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildWhereClause(t *testing.T) {
	where, args := BuildWhereClause(dto.FilterGroup{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = BuildWhereClause(dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Table: "widgets", Field: "id", Value: "w-1", Operator: dto.FilterOperatorEq},
		},
	})
	assert.Equal(t, " WHERE (widgets.id = :id) ", where)
	assert.Equal(t, map[string]any{"id": "w-1"}, args)
}
