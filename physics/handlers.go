package physics

import (
	"math"

	"neutron2d/particle"
	"neutron2d/rng"
)

// depositEnergy computes the ed contribution of a path segment of length L.
// sigmaSMacro and sigmaAMacro already fold in number density and the barns
// conversion, so sigma_total*BARNS*n collapses to their sum and the
// formula needs no further unit conversion.
func depositEnergy(e, w, length, sigmaSMacro, sigmaAMacro, massNo float64) float64 {
	sigmaTotalMacro := sigmaSMacro + sigmaAMacro
	pabsorb := sigmaAMacro / sigmaTotalMacro
	scatterHeat := (1 - pabsorb) * e * (massNo*massNo + massNo + 1) / ((massNo + 1) * (massNo + 1))
	const absorbHeat = 0.0
	heatingResponse := e - scatterHeat - absorbHeat
	return w * length * sigmaTotalMacro * heatingResponse
}

func (e *EventEngine) flush(store *particle.Store, i int, ctx StepContext, edLocal *float64) {
	cellx, celly := e.Mesh.GlobalToLocal(store.CellX[i], store.CellY[i])
	e.Tally.Add(cellx, celly, *edLocal/float64(ctx.NTotalParticles))
	*edLocal = 0
}

// collision handles an absorption-or-scatter event at the particle's
// current position. It returns the macroscopic cross sections it just
// looked up for the particle's post-collision energy and cell so the
// caller's next loop iteration can reuse them instead of repeating the
// same table lookups, a bool reporting whether that pair is valid (false
// if the particle died or its new energy fell outside the table domain),
// and the RNG draw counter advanced past the tuple this collision
// consumed.
func (e *EventEngine) collision(store *particle.Store, i int, distance, speed, pabsorb, sigmaSMacro, sigmaAMacro float64, ctx StepContext, pid, counter uint64, edLocal *float64) (float64, float64, bool, uint64) {
	store.X[i] += distance * store.OmegaX[i]
	store.Y[i] += distance * store.OmegaY[i]
	store.DtToCensus[i] -= distance / speed

	massNo := e.Material.MassNo
	*edLocal += depositEnergy(store.Energy[i], store.Weight[i], distance, sigmaSMacro, sigmaAMacro, massNo)

	draw := rng.Draw4(pid, ctx.MasterKey, counter)
	counter++

	if draw[0] < pabsorb {
		store.Weight[i] *= 1 - pabsorb
	} else {
		muCM := 1 - 2*draw[1]
		eOld := store.Energy[i]
		a := massNo
		eNew := eOld * (a*a + 2*a*muCM + 1) / ((a + 1) * (a + 1))
		cosTheta := 0.5*((a+1)*math.Sqrt(eNew/eOld) - (a-1)*math.Sqrt(eOld/eNew))
		if cosTheta > 1 {
			cosTheta = 1
		} else if cosTheta < -1 {
			cosTheta = -1
		}
		sinTheta := math.Sqrt(1 - cosTheta*cosTheta)

		omegaX, omegaY := store.OmegaX[i], store.OmegaY[i]
		store.OmegaX[i] = omegaX*cosTheta - omegaY*sinTheta
		store.OmegaY[i] = omegaX*sinTheta + omegaY*cosTheta
		store.Energy[i] = eNew
	}

	if store.Energy[i] < MinEnergyOfInterest {
		e.flush(store, i, ctx, edLocal)
		store.Alive[i] = false
		return 0, 0, false, counter
	}

	cellx, celly := e.Mesh.GlobalToLocal(store.CellX[i], store.CellY[i])
	rho := e.Mesh.Density(cellx, celly)
	newSigmaSMacro, newSigmaAMacro, err := e.Material.macroscopic(store.Energy[i], rho)
	if err != nil {
		// the post-scatter energy fell outside the table's domain; treat the
		// particle as lost rather than propagate a lookup error through a
		// signature that returns none.
		e.flush(store, i, ctx, edLocal)
		store.Alive[i] = false
		return 0, 0, false, counter
	}
	store.MfpToCollision[i] = -math.Log(draw[3]) / newSigmaSMacro

	return newSigmaSMacro, newSigmaAMacro, true, counter
}

// facet handles a particle crossing a cell edge: it advances the particle
// to the edge, flushes accumulated deposition, and either steps the cell
// index or reflects off a global boundary.
func (e *EventEngine) facet(store *particle.Store, i int, distance, speed float64, xFacet bool, sigmaSMacro, sigmaAMacro float64, ctx StepContext, edLocal *float64) {
	store.X[i] += distance * store.OmegaX[i]
	store.Y[i] += distance * store.OmegaY[i]
	store.MfpToCollision[i] -= distance * (sigmaSMacro + sigmaAMacro)
	store.DtToCensus[i] -= distance / speed

	*edLocal += depositEnergy(store.Energy[i], store.Weight[i], distance, sigmaSMacro, sigmaAMacro, e.Material.MassNo)
	e.flush(store, i, ctx, edLocal)

	globalNx, globalNy := e.Mesh.GlobalDims()
	if xFacet {
		atMin := store.CellX[i] <= 0 && store.OmegaX[i] < 0
		atMax := store.CellX[i] >= globalNx-1 && store.OmegaX[i] >= 0
		if atMin || atMax {
			store.OmegaX[i] = -store.OmegaX[i]
		} else if store.OmegaX[i] >= 0 {
			store.CellX[i]++
		} else {
			store.CellX[i]--
		}
	} else {
		atMin := store.CellY[i] <= 0 && store.OmegaY[i] < 0
		atMax := store.CellY[i] >= globalNy-1 && store.OmegaY[i] >= 0
		if atMin || atMax {
			store.OmegaY[i] = -store.OmegaY[i]
		} else if store.OmegaY[i] >= 0 {
			store.CellY[i]++
		} else {
			store.CellY[i]--
		}
	}
}

// census handles a particle reaching the end of the step without another
// event: it advances to the census point, flushes deposition, and zeros
// the remaining census time.
func (e *EventEngine) census(store *particle.Store, i int, distance, speed float64, sigmaSMacro, sigmaAMacro float64, ctx StepContext, edLocal *float64) {
	store.X[i] += distance * store.OmegaX[i]
	store.Y[i] += distance * store.OmegaY[i]
	store.MfpToCollision[i] -= distance * (sigmaSMacro + sigmaAMacro)
	store.DtToCensus[i] = 0

	*edLocal += depositEnergy(store.Energy[i], store.Weight[i], distance, sigmaSMacro, sigmaAMacro, e.Material.MassNo)
	e.flush(store, i, ctx, edLocal)
}
