// Package docstoretest holds the behavioural contract every docstore backend
// must satisfy.
package docstoretest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbtypes "github.com/angelmondragon/storyboard-backend/pkg/db/types"
	"github.com/angelmondragon/storyboard-backend/pkg/docstore"
)

// Record is the document type the contract exercises.
type Record struct {
	ID    string                   `json:"id" bson:"id,omitempty" gorm:"column:id;type:varchar(64);primaryKey"`
	Name  string                   `json:"name" bson:"name" gorm:"column:name"`
	Team  string                   `json:"team" bson:"team" gorm:"column:team"`
	Score int                      `json:"score" bson:"score" gorm:"column:score"`
	Tags  dbtypes.JSONList[string] `json:"tags" bson:"tags" gorm:"column:tags;type:text"`
}

// Collection returns a descriptor for Record under the given name.
func Collection(name string) docstore.Collection[Record] {
	return docstore.Collection[Record]{
		Name: name,
		ID:   func(r *Record) *string { return &r.ID },
	}
}

// Run exercises the contract against stores produced by open. Each subtest
// gets a fresh, empty store. List must return records in insertion order.
func Run(t *testing.T, open func(t *testing.T) docstore.Store[Record]) {
	t.Helper()

	t.Run("create then get round trips", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		created, err := store.Create(ctx, &Record{Name: "alpha", Team: "red", Score: 3, Tags: dbtypes.JSONList[string]{"a", "b"}})
		require.NoError(t, err)
		require.NotNil(t, created)
		require.NotEmpty(t, created.ID)

		got, err := store.GetOne(ctx, docstore.ByID(created.ID))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "alpha", got.Name)
		assert.Equal(t, "red", got.Team)
		assert.Equal(t, 3, got.Score)
		assert.Equal(t, []string{"a", "b"}, []string(got.Tags))
	})

	t.Run("missing record is not found twice", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		for i := 0; i < 2; i++ {
			got, err := store.GetOne(ctx, docstore.Filter{"name": "ghost"})
			require.NoError(t, err)
			assert.Nil(t, got)
		}
	})

	t.Run("invalid id matches nothing", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		_, err := store.Create(ctx, &Record{Name: "present"})
		require.NoError(t, err)

		got, err := store.GetOne(ctx, docstore.ByID("not-a-valid-id"))
		require.NoError(t, err)
		assert.Nil(t, got)

		updated, err := store.Update(ctx, docstore.ByID("not-a-valid-id"), docstore.Patch{"name": "x"})
		require.NoError(t, err)
		assert.Nil(t, updated)

		deleted, err := store.Delete(ctx, docstore.ByID("not-a-valid-id"))
		require.NoError(t, err)
		assert.False(t, deleted)

		rows, err := store.List(ctx, docstore.ByID("not-a-valid-id"), 0)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("list filters and bounds", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		for i := 0; i < docstore.DefaultLimit+5; i++ {
			team := "blue"
			if i%2 == 0 {
				team = "green"
			}
			_, err := store.Create(ctx, &Record{Name: fmt.Sprintf("r%03d", i), Team: team, Score: i})
			require.NoError(t, err)
		}

		// Rewriting early rows must not disturb insertion order.
		for _, name := range []string{"r000", "r003"} {
			updated, err := store.Update(ctx, docstore.Filter{"name": name}, docstore.Patch{"score": -1})
			require.NoError(t, err)
			require.NotNil(t, updated)
		}

		all, err := store.List(ctx, nil, 0)
		require.NoError(t, err)
		require.Len(t, all, docstore.DefaultLimit)
		for i, r := range all {
			assert.NotEmpty(t, r.ID)
			assert.Equal(t, fmt.Sprintf("r%03d", i), r.Name)
		}

		limited, err := store.List(ctx, docstore.Filter{}, 7)
		require.NoError(t, err)
		require.Len(t, limited, 7)
		assert.Equal(t, "r006", limited[6].Name)

		blue, err := store.List(ctx, docstore.Filter{"team": "blue"}, 1000)
		require.NoError(t, err)
		assert.Len(t, blue, (docstore.DefaultLimit+5)/2)
		for i, r := range blue {
			assert.Equal(t, "blue", r.Team)
			assert.Equal(t, fmt.Sprintf("r%03d", 2*i+1), r.Name)
		}
	})

	t.Run("update merges only patched fields", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		created, err := store.Create(ctx, &Record{Name: "beta", Team: "red", Score: 1})
		require.NoError(t, err)

		updated, err := store.Update(ctx, docstore.ByID(created.ID), docstore.Patch{"score": 9, "id": "hijack"})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, 9, updated.Score)
		assert.Equal(t, "beta", updated.Name)
		assert.Equal(t, "red", updated.Team)

		byTeam, err := store.Update(ctx, docstore.Filter{"team": "red"}, docstore.Patch{"tags": dbtypes.JSONList[string]{"x"}})
		require.NoError(t, err)
		require.NotNil(t, byTeam)
		assert.Equal(t, []string{"x"}, []string(byTeam.Tags))

		missing, err := store.Update(ctx, docstore.Filter{"team": "nobody"}, docstore.Patch{"score": 1})
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("delete reports a single removal", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		created, err := store.Create(ctx, &Record{Name: "gamma"})
		require.NoError(t, err)

		deleted, err := store.Delete(ctx, docstore.ByID(created.ID))
		require.NoError(t, err)
		assert.True(t, deleted)

		again, err := store.Delete(ctx, docstore.ByID(created.ID))
		require.NoError(t, err)
		assert.False(t, again)

		got, err := store.GetOne(ctx, docstore.ByID(created.ID))
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
