package internal

import (
	"github.com/statisticsnorway/sgis-go/pkg/network"
	"go.uber.org/zap"
)

// EngineConfig bundles the Engine's tunables, following the value-typed
// config-with-defaults pattern used throughout this codebase.
type EngineConfig struct {
	Prepare       network.PrepareOptions
	CacheCapacity int
	Logger        *zap.Logger
}

// DefaultEngineConfig returns an EngineConfig with sensible defaults: no
// line-merge pass, a compiled-graph cache of four entries, and a no-op
// logger.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Prepare:       network.PrepareOptions{MergeLines: false, RingTol: 1e-9},
		CacheCapacity: 4,
		Logger:        zap.NewNop(),
	}
}
