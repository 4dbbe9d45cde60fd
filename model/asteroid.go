package model

// AsteroidScenario bundles everything the engine needs to know about one
// asteroid: its physical parameters for impact effects, its orbit for
// trajectory display, and an optional pre-selected mitigation plan.
type AsteroidScenario struct {
	ID   string
	Name string

	Impact   ImpactInputs
	Elements OrbitalElements
	BPlane   BPlaneState

	// Mitigation is nil when the user has not picked a technique yet.
	Mitigation *MitigationPlan

	// Trajectory holds the most recently computed state; updated by the
	// mission clock loop, read by the API layer.
	Trajectory TrajectoryState
}
