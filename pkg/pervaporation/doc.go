// Package pervaporation models batch pervaporation of binary liquid
// mixtures: steady-state partial fluxes through a membrane and their
// integration over time into a process trajectory.
//
// # Flux solver
//
// The partial flux of a component is its permeance times the difference of
// its partial vapour pressures across the membrane. Feed-side pressures
// follow from the NRTL activity model at the feed composition; permeate-side
// pressures depend on the permeate composition, which is itself the weight
// fraction of the fluxes being solved for. PartialFluxes closes this loop
// with a fixed-point iteration:
//
//  1. seed the permeate composition from permeance * feed-pressure
//     products (ideal split),
//  2. evaluate fluxes at the current estimate,
//  3. re-derive the estimate as the first component's flux fraction,
//  4. stop once the estimate moves less than the precision, or fail with
//     ErrNonConvergence after the iteration cap.
//
// A zero total flux during step 3 is reported as ErrDegenerateFlux rather
// than letting a division by zero propagate NaN through the trajectory.
//
// # Process integration
//
// The integrators advance (feed mass, composition, temperature) through N
// explicit steps of fixed duration, each step removing flux*area*dt of each
// component and accounting evaporation/condensation heats. The per-step
// update order is fluxes, masses, composition, temperature; property terms
// (latent heats, heat capacities) are evaluated at the pre-update state.
// Ideal runs resolve permeances from the membrane's ideal experiments;
// non-ideal runs evaluate permeance surfaces fit from diffusion-curve sets
// at the current feed composition. Isothermal runs pin the feed
// temperature; non-isothermal runs cool the feed by
//
//	dT = Q_evap / (cp_feed * m_remaining)
//
// with every term in SI units (J, J/(kg*K), kg).
//
// A step that would exhaust the feed aborts the run with
// ErrInsufficientFeed; the snapshots recorded so far are returned alongside
// the error so the caller can inspect how far the separation got.
//
// Trajectories are plain data. Derived quantities (separation factors,
// selectivities, psi) are recomputed on demand from the snapshots and never
// stored.
package pervaporation
