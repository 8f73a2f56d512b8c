package snapshotstore_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/storage/snapshot"
	"github.com/trezcool/tawajud/tests"
)

func TestStore_LoadSeed(t *testing.T) {
	store := snapshotstore.New(testutil.NewLogger(), snapshotstore.Options{})
	require.NoError(t, store.Load())

	snap := store.Index().Snapshot()
	assert.NotEmpty(t, snap.Schools)
	assert.NotEmpty(t, snap.Students)
	assert.NotEmpty(t, snap.Attendance)
	// the seed stores penalties under `parentPenalties`
	assert.NotEmpty(t, snap.Penalties)
	assert.False(t, store.HasOverride())
}

func TestStore_LoadBundledPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundled.json")
	data := `{"regions": [{"id": 9, "name_ar": "تبوك", "name_en": "Tabuk"}], "penalties": [{"id": 1, "student_id": 1, "amount_due": 10, "paid": "N"}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	store := snapshotstore.New(testutil.NewLogger(), snapshotstore.Options{BundledPath: path})
	require.NoError(t, store.Load())

	id, ok := store.Index().RegionIDByName("tabuk", dataset.LangAny)
	assert.True(t, ok)
	assert.Equal(t, 9, id)
	assert.Len(t, store.Index().Snapshot().Penalties, 1)

	bad := snapshotstore.New(testutil.NewLogger(), snapshotstore.Options{BundledPath: filepath.Join(dir, "missing.json")})
	assert.Error(t, bad.Load())
}

func TestStore_Override(t *testing.T) {
	overridePath := filepath.Join(t.TempDir(), "state", "override.json")
	opts := snapshotstore.Options{Bundled: testutil.Fixture(), OverridePath: overridePath}

	store := snapshotstore.New(testutil.NewLogger(), opts)
	require.NoError(t, store.Load())
	assert.Len(t, store.Index().Snapshot().Schools, 3)

	replacement := testutil.Fixture()
	replacement.Schools = replacement.Schools[:1]
	require.NoError(t, store.Replace(replacement))
	assert.True(t, store.HasOverride())
	assert.Len(t, store.Index().Snapshot().Schools, 1)
	assert.FileExists(t, overridePath)

	// a new store in the same place prefers the persisted override
	reopened := snapshotstore.New(testutil.NewLogger(), opts)
	require.NoError(t, reopened.Load())
	assert.True(t, reopened.HasOverride())
	assert.Len(t, reopened.Index().Snapshot().Schools, 1)

	require.NoError(t, reopened.ClearOverride())
	assert.False(t, reopened.HasOverride())
	assert.Len(t, reopened.Index().Snapshot().Schools, 3)
	assert.NoFileExists(t, overridePath)

	// clearing twice is fine
	assert.NoError(t, reopened.ClearOverride())
	assert.Error(t, store.Replace(nil))
}

func TestStore_InMemoryOverride(t *testing.T) {
	store := testutil.NewStore(t, testutil.Fixture())
	replacement := testutil.Fixture()
	replacement.Students = nil
	require.NoError(t, store.Replace(replacement))
	assert.Empty(t, store.Index().Snapshot().Students)

	require.NoError(t, store.ClearOverride())
	assert.Len(t, store.Index().Snapshot().Students, 5)
}

func TestStore_Update(t *testing.T) {
	store := testutil.NewStore(t, testutil.Fixture())
	bundled := store.Index()

	t.Run("failing edit changes nothing", func(t *testing.T) {
		err := store.Update(func(snap *dataset.Snapshot) error {
			snap.Students = nil
			return errors.New("nope")
		})
		assert.EqualError(t, err, "nope")
		assert.False(t, store.HasOverride())
		assert.Len(t, store.Index().Snapshot().Students, 5)
	})

	t.Run("concurrent edits all land", func(t *testing.T) {
		var wg sync.WaitGroup
		for _, id := range []int{1, 2, 3, 4, 5} {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				assert.NoError(t, store.Update(func(snap *dataset.Snapshot) error {
					for i := range snap.Students {
						if snap.Students[i].ID == id {
							snap.Students[i].Class = "moved"
						}
					}
					return nil
				}))
			}(id)
		}
		wg.Wait()

		assert.True(t, store.HasOverride())
		for _, st := range store.Index().Snapshot().Students {
			assert.Equal(t, "moved", st.Class, "student %d", st.ID)
		}
		for _, st := range bundled.Snapshot().Students {
			assert.NotEqual(t, "moved", st.Class)
		}
	})
}

func TestStore_IntegrityWarnings(t *testing.T) {
	logger := testutil.NewLogger()
	store := snapshotstore.New(logger, snapshotstore.Options{Bundled: testutil.Fixture()})
	require.NoError(t, store.Load())

	// school 3 claims region 1 while its city belongs to region 2
	assert.Equal(t, 1, logger.Count("warn", "snapshot integrity"))
	var msg string
	for _, e := range logger.Entries {
		if e.Level == "warn" {
			msg = e.Msg
		}
	}
	assert.True(t, strings.Contains(msg, "school 3"), msg)
}

func TestStore_Unloaded(t *testing.T) {
	store := snapshotstore.New(testutil.NewLogger(), snapshotstore.Options{})
	assert.NotNil(t, store.Index())
	assert.Empty(t, store.Index().Snapshot().Schools)
}
