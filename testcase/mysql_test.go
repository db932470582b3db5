package testcase

import (
	"context"
	"testing"

	"github.com/hairizuan-noorazman/caseflow/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMySQLStore_Create(t *testing.T) {
	_, store := setupTestStore(t)
	ctx := context.Background()

	t.Run("create with steps", func(t *testing.T) {
		tc := &TestCase{
			ProjectID: 10,
			Name:      "Login works",
			Steps: []Step{
				{Order: 1, Body: textDoc(t, "open the login page")},
				{Order: 2, Body: textDoc(t, "enter credentials")},
			},
		}
		require.NoError(t, store.Create(ctx, tc))
		assert.NotZero(t, tc.ID)
		assert.Equal(t, uint(1), tc.CurrentVersion)
		assert.True(t, tc.IsActive)
	})

	t.Run("missing name is rejected", func(t *testing.T) {
		err := store.Create(ctx, &TestCase{ProjectID: 10})
		assert.ErrorIs(t, err, ErrInvalidTestCaseName)
	})

	t.Run("missing project is rejected", func(t *testing.T) {
		err := store.Create(ctx, &TestCase{Name: "No home"})
		assert.ErrorIs(t, err, ErrInvalidProjectID)
	})
}

func TestMySQLStore_GetByID(t *testing.T) {
	db, store := setupTestStore(t)
	ctx := context.Background()

	t.Run("loads relations with steps in order", func(t *testing.T) {
		tc := createCase(t, db, 10, "Ordered", 1,
			Step{Order: 3, Body: textDoc(t, "third")},
			Step{Order: 1, Body: textDoc(t, "first")},
		)
		tag := &Tag{ProjectID: 10, Name: "smoke"}
		testutil.Seed(t, db, tag)
		require.NoError(t, db.Model(tc).Association("Tags").Append(tag))

		got, err := store.GetByID(ctx, 10, tc.ID)
		require.NoError(t, err)
		require.Len(t, got.Steps, 2)
		assert.Equal(t, 1, got.Steps[0].Order)
		assert.Equal(t, 3, got.Steps[1].Order)
		require.Len(t, got.Tags, 1)
		assert.Equal(t, "smoke", got.Tags[0].Name)
	})

	t.Run("wrong project is not found", func(t *testing.T) {
		tc := createCase(t, db, 10, "Scoped", 1)
		_, err := store.GetByID(ctx, 99, tc.ID)
		assert.ErrorIs(t, err, ErrTestCaseNotFound)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		_, err := store.GetByID(ctx, 10, 123456)
		assert.ErrorIs(t, err, ErrTestCaseNotFound)
	})
}

func TestMySQLStore_ListByIDs(t *testing.T) {
	db, store := setupTestStore(t)
	ctx := context.Background()

	c1 := createCase(t, db, 10, "One", 1)
	c2 := createCase(t, db, 10, "Two", 1)
	other := createCase(t, db, 99, "Elsewhere", 1)
	deleted := createCase(t, db, 10, "Gone", 1)
	require.NoError(t, db.Model(deleted).Update("is_active", false).Error)

	t.Run("returns only matching cases in the project", func(t *testing.T) {
		cases, err := store.ListByIDs(ctx, 10, []uint{c1.ID, c2.ID, other.ID, deleted.ID})
		require.NoError(t, err)
		require.Len(t, cases, 2)
		assert.Equal(t, c1.ID, cases[0].ID)
		assert.Equal(t, c2.ID, cases[1].ID)
	})
}

func TestMySQLStore_ListByProject(t *testing.T) {
	db, store := setupTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		createCase(t, db, 10, name, 1)
	}
	createCase(t, db, 99, "Other", 1)

	total, err := store.CountByProject(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	cases, err := store.ListByProject(ctx, 10, 2, 0)
	require.NoError(t, err)
	assert.Len(t, cases, 2)

	rest, err := store.ListByProject(ctx, 10, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestMySQLStore_Delete(t *testing.T) {
	db, store := setupTestStore(t)
	ctx := context.Background()

	tc := createCase(t, db, 10, "Doomed", 1)

	require.NoError(t, store.Delete(ctx, 10, tc.ID))
	_, err := store.GetByID(ctx, 10, tc.ID)
	assert.ErrorIs(t, err, ErrTestCaseNotFound)

	assert.ErrorIs(t, store.Delete(ctx, 10, tc.ID), ErrTestCaseNotFound)
}

func TestMySQLStore_ListVersions(t *testing.T) {
	db, store := setupTestStore(t)
	ctx := context.Background()

	tc := createCase(t, db, 10, "Case", 1)
	for _, v := range []uint{1, 2, 3} {
		testutil.Seed(t, db, &CaseVersion{
			CaseID:    tc.ID,
			Version:   v,
			ProjectID: 10,
			Name:      "Case",
		})
	}

	versions, err := store.ListVersions(ctx, 10, tc.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, uint(3), versions[0].Version)
	assert.Equal(t, uint(1), versions[2].Version)
}
