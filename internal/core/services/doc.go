// Package services implements the planner's core subsystems over the
// domain types:
//
//   - GridBuilder: validates a raw chunk collection into the complete
//     10x6 ChunkGrid, collecting every violation in one pass
//   - FilterPatterns: per-area pattern scoping
//   - ResolveSignals: signal resolution orchestration with hard-stop
//     semantics for missing required signals
//   - ValidateCompatibility: two-layer (structural + semantic) schema
//     compatibility checking
//   - Synchronizer: question routing and deterministic plan assembly,
//     implementing the driving.Planner port
//
// Services depend on domain and on driven ports only. All I/O lives
// behind the ports; everything here is synchronous and single-threaded
// because task-id uniqueness and plan-id determinism depend on a fixed
// iteration order.
package services
