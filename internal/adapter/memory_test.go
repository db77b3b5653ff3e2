package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-quote-sync/models"
)

type fakeRecordServer struct {
	pushed  []models.PushRequest
	records []models.Record
	err     error
}

func (f *fakeRecordServer) Push(_ context.Context, req models.PushRequest) error {
	if f.err != nil {
		return f.err
	}
	f.pushed = append(f.pushed, req)
	return nil
}

func (f *fakeRecordServer) Pull(_ context.Context) (models.Snapshot, error) {
	if f.err != nil {
		return models.Snapshot{}, f.err
	}
	return models.Snapshot{Records: f.records}, nil
}

func TestMemoryGateway(t *testing.T) {
	srv := &fakeRecordServer{records: []models.Record{{ID: "a", Version: 1}}}
	g := NewMemoryGateway(srv)
	ctx := context.Background()

	require.NoError(t, g.Push(ctx, models.PushRequest{Records: []models.Record{{ID: "b"}}}))
	require.Len(t, srv.pushed, 1)
	assert.Equal(t, 1, srv.pushed[0].Length)

	snap, err := g.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, srv.records, snap.Records)
}

func TestMemoryGateway_WrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	g := NewMemoryGateway(&fakeRecordServer{err: boom})

	err := g.Push(context.Background(), models.PushRequest{})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrGateway)

	_, err = g.Pull(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrGateway)
}

func TestMemoryGateway_CanceledContext(t *testing.T) {
	srv := &fakeRecordServer{}
	g := NewMemoryGateway(srv)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.Push(ctx, models.PushRequest{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrGateway)
	assert.Empty(t, srv.pushed)
}

func TestGatewayError(t *testing.T) {
	err := gatewayError("pull", ErrBadGateway)
	assert.EqualError(t, err, "gateway pull: bad gateway")
	assert.ErrorIs(t, err, ErrGateway)
	assert.ErrorIs(t, err, ErrBadGateway)

	// an already wrapped error is not wrapped twice
	assert.Same(t, err, gatewayError("push", err))
	assert.Nil(t, gatewayError("push", nil))
}
