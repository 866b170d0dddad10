// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for a synchronization run to function:
//
//   - SignalRegistry: Resolves contextual signals for a chunk
//   - IntegrityHasher: Computes the plan's integrity digest
//
// # Optional Interfaces
//
// These can be nil or no-op:
//
//   - PlanArchive: Append-only plan persistence. Without it, plans are
//     returned to the caller but never archived.
//   - MetricsRecorder: Run/warning counters. The no-op recorder is used
//     when metrics are not wired.
//   - QuestionnaireLoader / DocumentIngestor: Input collaborators for a
//     driving CLI; library callers may supply questions and chunk
//     documents directly.
//   - ConfigStore: Application configuration.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
