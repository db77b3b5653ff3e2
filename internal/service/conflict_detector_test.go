package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-quote-sync/models"
)

func TestDetectConflicts(t *testing.T) {
	t0 := testStart
	t1 := t0.Add(time.Minute)

	tests := []struct {
		name   string
		local  []models.Record
		remote []models.Record
		want   []models.ConflictKind
		ids    []string
	}{
		{
			name:   "identical snapshots",
			local:  []models.Record{synced(record("a", "same", 1, t0))},
			remote: []models.Record{record("a", "same", 1, t0)},
		},
		{
			name:   "remote strictly newer with different payload",
			local:  []models.Record{synced(record("a", "old", 1, t0))},
			remote: []models.Record{record("a", "new", 2, t1)},
			want:   []models.ConflictKind{models.ConflictUpdate},
			ids:    []string{"a"},
		},
		{
			name:   "local newer is not a conflict",
			local:  []models.Record{synced(record("a", "mine", 2, t1))},
			remote: []models.Record{record("a", "theirs", 1, t0)},
		},
		{
			name:   "equal timestamps are not a conflict",
			local:  []models.Record{synced(record("a", "mine", 2, t0))},
			remote: []models.Record{record("a", "theirs", 2, t0)},
		},
		{
			name:   "newer remote with equal payload",
			local:  []models.Record{synced(record("a", "same", 1, t0))},
			remote: []models.Record{record("a", "same", 3, t1)},
		},
		{
			name:   "remote only id is an addition",
			remote: []models.Record{record("r", "remote", 1, t0)},
			want:   []models.ConflictKind{models.ConflictAddition},
			ids:    []string{"r"},
		},
		{
			name:  "synced record missing remotely is a deletion",
			local: []models.Record{synced(record("a", "gone", 1, t0))},
			want:  []models.ConflictKind{models.ConflictDeletion},
			ids:   []string{"a"},
		},
		{
			name:  "never synced local record is not a deletion",
			local: []models.Record{record("a", "local only", 1, t0)},
		},
		{
			name: "local order first then additions in remote order",
			local: []models.Record{
				synced(record("b", "gone", 1, t0)),
				synced(record("a", "old", 1, t0)),
			},
			remote: []models.Record{
				record("z", "remote z", 1, t0),
				record("a", "new", 2, t1),
				record("y", "remote y", 1, t0),
			},
			want: []models.ConflictKind{
				models.ConflictDeletion,
				models.ConflictUpdate,
				models.ConflictAddition,
				models.ConflictAddition,
			},
			ids: []string{"b", "a", "z", "y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectConflicts(tt.local, tt.remote, t1)

			require.Len(t, got, len(tt.want))
			for i, c := range got {
				assert.Equal(t, tt.want[i], c.Kind)
				assert.Equal(t, tt.ids[i], c.RecordID)
				assert.Equal(t, t1, c.DetectedAt)
			}
		})
	}
}

func TestDetectConflicts_CarriesSides(t *testing.T) {
	local := synced(record("a", "old", 1, testStart))
	remote := record("a", "new", 2, testStart.Add(time.Second))

	got := DetectConflicts([]models.Record{local}, []models.Record{remote, record("b", "b", 1, testStart)}, testStart)

	require.Len(t, got, 2)
	require.NotNil(t, got[0].Local)
	require.NotNil(t, got[0].Remote)
	assert.Equal(t, local, *got[0].Local)
	assert.Equal(t, remote, *got[0].Remote)

	assert.Nil(t, got[1].Local)
	require.NotNil(t, got[1].Remote)
}

func TestDetectConflicts_DoesNotAliasInputs(t *testing.T) {
	local := []models.Record{synced(record("a", "old", 1, testStart))}
	remote := []models.Record{record("a", "new", 2, testStart.Add(time.Second))}

	got := DetectConflicts(local, remote, testStart)
	require.Len(t, got, 1)

	got[0].Local.Payload.Text = "changed"
	got[0].Remote.Payload.Text = "changed"
	assert.Equal(t, "old", local[0].Payload.Text)
	assert.Equal(t, "new", remote[0].Payload.Text)
}

func TestDetectConflicts_EmptyInputs(t *testing.T) {
	assert.Empty(t, DetectConflicts(nil, nil, testStart))
}
