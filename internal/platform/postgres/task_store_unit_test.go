package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariascm/task-manager-api/internal/store"
)

func boolPtr(b bool) *bool { return &b }

func TestBuildListQuery(t *testing.T) {
	t.Parallel()

	owner := uuid.New()

	tests := []struct {
		name         string
		opts         store.TaskListOptions
		wantContains []string
		wantArgs     int
		wantErr      bool
	}{
		{
			name:         "zero options default to creation order",
			opts:         store.TaskListOptions{},
			wantContains: []string{"ORDER BY created_at ASC"},
			wantArgs:     1,
		},
		{
			name:         "completed filter adds predicate",
			opts:         store.TaskListOptions{Completed: boolPtr(true)},
			wantContains: []string{"AND completed = $2"},
			wantArgs:     2,
		},
		{
			name: "descending sort",
			opts: store.TaskListOptions{
				SortField: store.TaskSortCreatedAt,
				SortDesc:  true,
			},
			wantContains: []string{"ORDER BY created_at DESC"},
			wantArgs:     1,
		},
		{
			name:         "limit and skip become bind parameters",
			opts:         store.TaskListOptions{Limit: 2, Skip: 1},
			wantContains: []string{"LIMIT $2", "OFFSET $3"},
			wantArgs:     3,
		},
		{
			name:         "non-positive limit and skip are ignored",
			opts:         store.TaskListOptions{Limit: -5, Skip: 0},
			wantContains: []string{"ORDER BY created_at ASC"},
			wantArgs:     1,
		},
		{
			name: "all options combined",
			opts: store.TaskListOptions{
				Completed: boolPtr(false),
				SortField: store.TaskSortDescription,
				SortDesc:  true,
				Limit:     10,
				Skip:      20,
			},
			wantContains: []string{
				"AND completed = $2",
				"ORDER BY description DESC",
				"LIMIT $3",
				"OFFSET $4",
			},
			wantArgs: 4,
		},
		{
			name:    "unknown sort field rejected",
			opts:    store.TaskListOptions{SortField: "owner_id; DROP TABLE tasks"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			query, args, err := buildListQuery(owner, tt.opts)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, store.ErrInvalidEntity)
				return
			}

			require.NoError(t, err)
			assert.Contains(t, query, "WHERE owner_id = $1")
			for _, fragment := range tt.wantContains {
				assert.Contains(t, query, fragment)
			}
			assert.Len(t, args, tt.wantArgs)
			assert.Equal(t, owner, args[0])
		})
	}
}

func TestValidTaskSortField(t *testing.T) {
	t.Parallel()

	for _, field := range []string{"created_at", "updated_at", "completed", "description"} {
		assert.True(t, store.ValidTaskSortField(field), field)
	}
	for _, field := range []string{"", "owner_id", "id", "createdAt"} {
		assert.False(t, store.ValidTaskSortField(field), field)
	}
}
