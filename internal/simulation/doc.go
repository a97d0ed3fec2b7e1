// Package simulation implements the day-stepped plant engine. Every component
// operates on a *domain.SimulationState working copy owned by the caller; the
// persistence layer decides whether a working copy is committed or discarded.
package simulation
