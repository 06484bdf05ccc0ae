package services

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/chryscloud/nexus-monitor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSettingsManager(t *testing.T, history bool) *SettingsManager {
	store := NewFileConfigStore(filepath.Join(t.TempDir(), "config.json"))
	var revisions *RevisionManager
	if history {
		revisions = NewRevisionManager(setupStorage(t))
	}
	return NewSettingsManager(store, revisions)
}

func TestSettingsRoundTrip(t *testing.T) {
	sm := newTestSettingsManager(t, false)
	in := `[{"name":"rack-a","agents":[{"host":"10.0.0.5","port":8005}],"refresh":5,"dark":true,"note":null}]`

	require.NoError(t, sm.Overwrite([]byte(in)))

	out, err := sm.Get()
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestSettingsRejectsInvalidDocument(t *testing.T) {
	sm := newTestSettingsManager(t, true)
	require.NoError(t, sm.Overwrite([]byte(`{"a":1}`)))

	err := sm.Overwrite([]byte(`{"a":`))
	assert.ErrorIs(t, err, models.ErrInvalidDocument)
	err = sm.Overwrite([]byte(``))
	assert.ErrorIs(t, err, models.ErrInvalidDocument)

	out, err := sm.Get()
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(out))

	revs, err := sm.Revisions()
	require.NoError(t, err)
	assert.Len(t, revs, 1)
}

func TestSettingsDefaultDocument(t *testing.T) {
	sm := newTestSettingsManager(t, false)
	out, err := sm.Get()
	require.NoError(t, err)
	assert.Equal(t, models.EmptyConfigDocument, string(out))
}

func TestSettingsHistoryDisabled(t *testing.T) {
	sm := newTestSettingsManager(t, false)
	assert.False(t, sm.HistoryEnabled())

	revs, err := sm.Revisions()
	require.NoError(t, err)
	assert.NotNil(t, revs)
	assert.Empty(t, revs)

	_, err = sm.Revision("9m4e2mr0ui3e8a215n4g")
	assert.ErrorIs(t, err, models.ErrHistoryDisabled)
	assert.ErrorIs(t, sm.Restore("9m4e2mr0ui3e8a215n4g"), models.ErrHistoryDisabled)
}

func TestSettingsRestoreRevision(t *testing.T) {
	sm := newTestSettingsManager(t, true)
	clock := time.Date(2024, 11, 24, 9, 0, 0, 0, time.UTC)
	sm.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	require.NoError(t, sm.Overwrite([]byte(`{"version":1}`)))
	require.NoError(t, sm.Overwrite([]byte(`{"version":2}`)))

	revs, err := sm.Revisions()
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Nil(t, revs[0].Document)

	oldest := revs[1]
	rev, err := sm.Revision(oldest.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1}`, string(rev.Document))

	require.NoError(t, sm.Restore(oldest.ID))
	out, err := sm.Get()
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1}`, string(out))

	revs, err = sm.Revisions()
	require.NoError(t, err)
	require.Len(t, revs, 3)
	var latest map[string]int
	rev, err = sm.Revision(revs[0].ID)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(rev.Document, &latest))
	assert.Equal(t, 1, latest["version"])
}
