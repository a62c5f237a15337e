// Package physics implements the per-particle event state machine: the
// distance-to-collision / distance-to-facet / distance-to-census selection,
// the collision physics (implicit-capture absorption, elastic scatter
// kinematics), facet crossing with boundary reflection, and the shared
// energy-deposition tally update. This is the hot path the rest of the
// module exists to feed particles into.
package physics

import (
	"fmt"
	"math"

	"neutron2d/mesh"
	"neutron2d/particle"
	"neutron2d/rng"
	"neutron2d/tally"
)

// NextEvent identifies which of the three candidate events a particle
// will undergo next. A small closed enum, dispatched with a switch,
// stands in for the function-pointer dispatch the reference implementation
// uses in C.
type NextEvent int

const (
	EventCollision NextEvent = iota
	EventFacet
	EventCensus
)

func (e NextEvent) String() string {
	switch e {
	case EventCollision:
		return "collision"
	case EventFacet:
		return "facet"
	case EventCensus:
		return "census"
	default:
		return "unknown"
	}
}

// StepContext carries the per-timestep parameters every call into the
// engine needs: the RNG master key for this step, the step's wall-clock
// duration, and the total particle count used to normalize tallied
// deposition. Replaces the reference implementation's module-level
// globals with an explicit value threaded through every call.
type StepContext struct {
	MasterKey       uint64
	Dt              float64
	NTotalParticles int
}

// EventCounters accumulates per-step event counts. Workers accumulate
// into their own EventCounters and the driver sums them at the barrier.
type EventCounters struct {
	NFacets     uint64
	NCollisions uint64
	NProcessed  uint64
}

// Add sums another EventCounters into the receiver, used at the
// cross-worker reduction.
func (c *EventCounters) Add(other EventCounters) {
	c.NFacets += other.NFacets
	c.NCollisions += other.NCollisions
	c.NProcessed += other.NProcessed
}

// MinEnergyOfInterest is the energy threshold below which a particle is
// considered fully absorbed and removed from tracking.
var MinEnergyOfInterest = 1e-3

// EventEngine holds the read-only inputs shared by every particle the
// engine tracks: the mesh tile and the material's cross-section tables.
type EventEngine struct {
	Mesh     *mesh.View
	Material *Material
	Tally    *tally.Tally
}

// AdvanceParticlesOneStep runs every live particle in [lo, hi) through the
// event loop once for this step and returns this range's event counts.
// The driver partitions [0, store.Len()) across workers and calls this
// once per partition; ranges never overlap, so no particle is ever
// mutated by more than one goroutine during a step.
func (e *EventEngine) AdvanceParticlesOneStep(store *particle.Store, lo, hi int, ctx StepContext, initial bool) (EventCounters, error) {
	var counters EventCounters
	for i := lo; i < hi; i++ {
		if !store.Alive[i] {
			continue
		}
		if err := e.advanceOne(store, i, ctx, initial, &counters); err != nil {
			return counters, fmt.Errorf("physics: particle %d: %w", i, err)
		}
		counters.NProcessed++
	}
	return counters, nil
}

func (e *EventEngine) advanceOne(store *particle.Store, i int, ctx StepContext, initial bool, counters *EventCounters) error {
	pid := uint64(i)
	var counter uint64
	var edLocal float64

	if initial {
		store.DtToCensus[i] = ctx.Dt
	}

	var sigmaSMacro, sigmaAMacro float64
	haveSigma := false

	for store.Alive[i] {
		cellx, celly := e.Mesh.GlobalToLocal(store.CellX[i], store.CellY[i])
		if !haveSigma {
			rho := e.Mesh.Density(cellx, celly)
			var err error
			sigmaSMacro, sigmaAMacro, err = e.Material.macroscopic(store.Energy[i], rho)
			if err != nil {
				return err
			}
		}
		haveSigma = false

		if store.MfpToCollision[i] == 0 {
			draw := rng.Draw4(pid, ctx.MasterKey, counter)
			counter++
			store.MfpToCollision[i] = -math.Log(draw[0]) / sigmaSMacro
		}

		cellMfp := 1.0 / (sigmaSMacro + sigmaAMacro)
		speed := math.Sqrt(2 * store.Energy[i] * EVToJ / NeutronMass)

		dtX, err := axisCrossingTime(e.Mesh, cellx, store.X[i], store.OmegaX[i], speed, true)
		if err != nil {
			return err
		}
		dtY, err := axisCrossingTime(e.Mesh, celly, store.Y[i], store.OmegaY[i], speed, false)
		if err != nil {
			return err
		}

		xFacet := dtX < dtY
		distanceToFacet := speed * math.Min(dtX, dtY)
		distanceToCollision := store.MfpToCollision[i] * cellMfp
		distanceToCensus := speed * store.DtToCensus[i]
		pabsorb := sigmaAMacro * cellMfp

		var ev NextEvent
		switch {
		case distanceToCollision < distanceToFacet && distanceToCollision < distanceToCensus:
			ev = EventCollision
		case distanceToFacet < distanceToCensus:
			ev = EventFacet
		default:
			ev = EventCensus
		}

		switch ev {
		case EventCollision:
			counters.NCollisions++
			var ok bool
			sigmaSMacro, sigmaAMacro, ok, counter = e.collision(store, i, distanceToCollision, speed, pabsorb, sigmaSMacro, sigmaAMacro, ctx, pid, counter, &edLocal)
			haveSigma = ok && store.Alive[i]
		case EventFacet:
			counters.NFacets++
			e.facet(store, i, distanceToFacet, speed, xFacet, sigmaSMacro, sigmaAMacro, ctx, &edLocal)
		case EventCensus:
			e.census(store, i, distanceToCensus, speed, sigmaSMacro, sigmaAMacro, ctx, &edLocal)
			return nil
		}
	}
	return nil
}

// axisCrossingTime computes dt_a for one axis: time to reach the facet the
// particle is heading toward along that axis, or +Inf if the particle is
// not moving along it.
func axisCrossingTime(m *mesh.View, cell int, pos, omega, speed float64, xAxis bool) (float64, error) {
	if omega == 0 {
		return math.Inf(1), nil
	}
	var target float64
	if xAxis {
		if omega >= 0 {
			target = m.EdgeX(cell + 1)
		} else {
			target = m.EdgeX(cell) - OpenBoundCorrection
		}
	} else {
		if omega >= 0 {
			target = m.EdgeY(cell + 1)
		} else {
			target = m.EdgeY(cell) - OpenBoundCorrection
		}
	}
	denom := omega * speed
	if denom == 0 || math.IsNaN(denom) {
		return 0, fmt.Errorf("zero or NaN velocity component computing facet distance")
	}
	return (target - pos) / denom, nil
}
