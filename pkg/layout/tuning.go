package layout

// =============================================================================
// Tuning - Per-Deployment Layout Constants
// =============================================================================

// Tuning collects every tunable constant of the layout engine in one place.
// The zero value is NOT usable; start from DefaultTuning and override fields,
// or load overrides from a TOML file via package config.
type Tuning struct {
	Force  ForceTuning  `toml:"force"`
	Ring   RingTuning   `toml:"ring"`
	View   ViewTuning   `toml:"view"`
	Smooth SmoothTuning `toml:"smooth"`
}

// ForceTuning parameterizes the iterative force solver.
type ForceTuning struct {
	// Alpha cooling schedule. Alpha starts at AlphaInitial and decays
	// geometrically toward AlphaTarget; a graph change or restart re-injects
	// energy by raising alpha to AlphaReheat. AlphaTarget stays above zero
	// so the drift force keeps the layout subtly alive after convergence.
	AlphaInitial float64 `toml:"alpha_initial"`
	AlphaDecay   float64 `toml:"alpha_decay"`
	AlphaTarget  float64 `toml:"alpha_target"`
	AlphaReheat  float64 `toml:"alpha_reheat"`

	// Damping is the per-tick velocity retention factor (0..1).
	Damping float64 `toml:"damping"`

	// Link force: rest distances per category pairing and the fraction of
	// the full correction applied per tick.
	LinkStrength    float64 `toml:"link_strength"`
	LinkDistHubLeaf float64 `toml:"link_dist_hub_leaf"`
	LinkDistHubHub  float64 `toml:"link_dist_hub_hub"`
	LinkDistLeaf    float64 `toml:"link_dist_leaf"`

	// Repulsion force: hub nodes repel more strongly so they stay anchored
	// as spine points. Interaction is capped beyond RepelMaxDist.
	RepelHub     float64 `toml:"repel_hub"`
	RepelLeaf    float64 `toml:"repel_leaf"`
	RepelMaxDist float64 `toml:"repel_max_dist"`

	// Collision force: rendered radii per category plus padding.
	RadiusHub       float64 `toml:"radius_hub"`
	RadiusLeaf      float64 `toml:"radius_leaf"`
	CollidePadding  float64 `toml:"collide_padding"`
	CollideStrength float64 `toml:"collide_strength"`

	// Centering force: weak pull of the whole system toward the viewport
	// center.
	CenterStrength float64 `toml:"center_strength"`

	// Stratification force: vertical band targets per category, as
	// fractions of the viewport height.
	StratifyStrength float64 `toml:"stratify_strength"`
	HubBand          float64 `toml:"hub_band"`
	LeafBand         float64 `toml:"leaf_band"`

	// Bounds force: soft push back inside the drawable rectangle, ramping
	// up within BoundsMargin of an edge.
	BoundsMargin   float64 `toml:"bounds_margin"`
	BoundsStrength float64 `toml:"bounds_strength"`

	// Drift force: bounded per-node sinusoidal perturbation that keeps the
	// layout gently live even in the Settling state.
	DriftAmplitude float64 `toml:"drift_amplitude"`
	DriftSpeed     float64 `toml:"drift_speed"`

	// SettleEnergy is the total kinetic energy below which the solver
	// transitions from Running to Settling.
	SettleEnergy float64 `toml:"settle_energy"`

	// Spawn placement for nodes the solver has never seen: a circle of
	// radius SpawnRadius*sqrt(n) with SpawnJitter of random offset.
	SpawnRadius float64 `toml:"spawn_radius"`
	SpawnJitter float64 `toml:"spawn_jitter"`

	// Seed drives spawn jitter. Layout runs with equal seeds and equal
	// update sequences are reproducible.
	Seed uint64 `toml:"seed"`
}

// RingTuning parameterizes the deterministic ring/arc layout.
type RingTuning struct {
	// Angular capacity: a node occupies NodeWidth + Gap + AnimationMargin
	// of arc length, the margin reserving room for the float animation.
	NodeWidth       float64 `toml:"node_width"`
	Gap             float64 `toml:"gap"`
	AnimationMargin float64 `toml:"animation_margin"`

	// Hub arc: starts at HubRadius and grows up to MaxHubRadius before
	// spilling into additional concentric rows RowGap apart.
	HubRadius    float64 `toml:"hub_radius"`
	MaxHubRadius float64 `toml:"max_hub_radius"`
	RowGap       float64 `toml:"row_gap"`

	// HubSpanDeg is the angular budget for the hub arc, centered on the
	// top of the circle.
	HubSpanDeg float64 `toml:"hub_span_deg"`

	// LeafGap separates the leaf ring from the outermost hub row.
	LeafGap float64 `toml:"leaf_gap"`

	// Float animation: bounded sinusoidal offset with a unique phase per
	// node so the ensemble looks organic.
	FloatAmplitude float64 `toml:"float_amplitude"`
	FloatSpeed     float64 `toml:"float_speed"`
}

// ViewTuning parameterizes the viewport manager and orbit camera.
type ViewTuning struct {
	// Hard zoom bounds for user interaction and auto-fit alike.
	MinScale float64 `toml:"min_scale"`
	MaxScale float64 `toml:"max_scale"`

	// MaxFitScale caps auto-fit zoom so a single focused node is never
	// framed absurdly close.
	MaxFitScale float64 `toml:"max_fit_scale"`

	// Margin is the padding kept around the focused content; MinContent is
	// the smallest bounding box auto-fit will frame.
	Margin     float64 `toml:"margin"`
	MinContent float64 `toml:"min_content"`

	// Convergence: per-tick lerp rate toward the fit target and the
	// remaining distance below which the transition is declared complete.
	ConvergeRate float64 `toml:"converge_rate"`
	ConvergeEps  float64 `toml:"converge_eps"`
}

// SmoothTuning parameterizes the position smoother.
type SmoothTuning struct {
	// Factor is the exponential lerp factor applied per update. Tuned so
	// solver jitter is suppressed without noticeable lag.
	Factor float64 `toml:"factor"`
}

// DefaultTuning returns the baseline tuning used by all entry points.
func DefaultTuning() Tuning {
	return Tuning{
		Force: ForceTuning{
			AlphaInitial:     1.0,
			AlphaDecay:       0.035,
			AlphaTarget:      0.03,
			AlphaReheat:      0.6,
			Damping:          0.6,
			LinkStrength:     0.3,
			LinkDistHubLeaf:  80,
			LinkDistHubHub:   180,
			LinkDistLeaf:     120,
			RepelHub:         1600,
			RepelLeaf:        700,
			RepelMaxDist:     420,
			RadiusHub:        28,
			RadiusLeaf:       16,
			CollidePadding:   4,
			CollideStrength:  0.7,
			CenterStrength:   0.03,
			StratifyStrength: 0.05,
			HubBand:          0.3,
			LeafBand:         0.72,
			BoundsMargin:     60,
			BoundsStrength:   0.12,
			DriftAmplitude:   0.35,
			DriftSpeed:       0.9,
			SettleEnergy:     0.6,
			SpawnRadius:      36,
			SpawnJitter:      12,
			Seed:             42,
		},
		Ring: RingTuning{
			NodeWidth:       60,
			Gap:             20,
			AnimationMargin: 12,
			HubRadius:       130,
			MaxHubRadius:    240,
			RowGap:          70,
			HubSpanDeg:      200,
			LeafGap:         95,
			FloatAmplitude:  6,
			FloatSpeed:      0.8,
		},
		View: ViewTuning{
			MinScale:     0.3,
			MaxScale:     4.0,
			MaxFitScale:  1.5,
			Margin:       40,
			MinContent:   200,
			ConvergeRate: 0.15,
			ConvergeEps:  0.5,
		},
		Smooth: SmoothTuning{
			Factor: 0.18,
		},
	}
}
