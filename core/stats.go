package core

import (
	"encoding/json"

	"github.com/searchktools/pool-server/core/observability"
	"github.com/searchktools/pool-server/core/pools"
)

// ServerStats aggregates statistics from every subsystem.
type ServerStats struct {
	Workers  pools.WorkerPoolStats  `json:"workers"`
	Buffers  pools.BufferStats      `json:"buffers"`
	GC       pools.GCStats          `json:"gc"`
	Requests observability.Snapshot `json:"requests"`
}

// StatsJSON renders the current snapshot as indented JSON.
func (s *Server) StatsJSON() string {
	data, _ := json.MarshalIndent(s.Stats(), "", "  ")
	return string(data)
}
