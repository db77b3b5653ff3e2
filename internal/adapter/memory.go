package adapter

import (
	"context"

	"github.com/MKhiriev/go-quote-sync/models"
)

type memoryGateway struct {
	server RecordServer
}

// NewMemoryGateway returns a [Gateway] that calls server in process.
func NewMemoryGateway(server RecordServer) Gateway {
	return &memoryGateway{server: server}
}

func (m *memoryGateway) Push(ctx context.Context, req models.PushRequest) error {
	if err := ctx.Err(); err != nil {
		return gatewayError("push", err)
	}
	req.Length = len(req.Records)
	return gatewayError("push", m.server.Push(ctx, req))
}

func (m *memoryGateway) Pull(ctx context.Context) (models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return models.Snapshot{}, gatewayError("pull", err)
	}
	snapshot, err := m.server.Pull(ctx)
	if err != nil {
		return models.Snapshot{}, gatewayError("pull", err)
	}
	return snapshot, nil
}
