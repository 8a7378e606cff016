package telemetry

import (
	"context"

	"github.com/farmstack/farmsync/internal/adapters/logger"
	"github.com/farmstack/farmsync/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the tracer Graft node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewOTelTracer("farmsync", NewLogBridge(log)), nil
		},
	})
}
