// Package tuning holds the arena's world constants. Defaults are compiled in;
// a YAML file can override any subset of them.
package tuning

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickRateHz int `yaml:"tick_rate_hz"`

	WorldWidth  float64 `yaml:"world_width"`
	WorldHeight float64 `yaml:"world_height"`

	FoodTarget  int `yaml:"food_target"`
	AITarget    int `yaml:"ai_target"`
	VirusTarget int `yaml:"virus_target"`

	InitialRadius float64 `yaml:"initial_radius"`
	FoodRadius    float64 `yaml:"food_radius"`
	VirusRadius   float64 `yaml:"virus_radius"`
	AIMinRadius   float64 `yaml:"ai_min_radius"`
	AIMaxRadius   float64 `yaml:"ai_max_radius"`

	MaxSpeed      float64 `yaml:"max_speed"`
	SpeedScale    float64 `yaml:"speed_scale"`
	ArriveEpsilon float64 `yaml:"arrive_epsilon"`

	MinSplitRadius float64       `yaml:"min_split_radius"`
	MaxCells       int           `yaml:"max_cells"`
	SplitVelocity  float64       `yaml:"split_velocity"`
	MergeCooldown  time.Duration `yaml:"merge_cooldown"`

	EjectMinRadius     float64 `yaml:"eject_min_radius"`
	EjectMassCost      float64 `yaml:"eject_mass_cost"`
	EjectMassValue     float64 `yaml:"eject_mass_value"`
	EjectSpeed         float64 `yaml:"eject_speed"`
	EjectImmunitySpeed float64 `yaml:"eject_immunity_speed"`

	FoodMassMultiplier float64 `yaml:"food_mass_multiplier"`

	VirusExplodeMinRadius float64       `yaml:"virus_explode_min_radius"`
	VirusMaxFragments     int           `yaml:"virus_max_fragments"`
	VirusFragmentSpeed    float64       `yaml:"virus_fragment_speed"`
	VirusCooldown         time.Duration `yaml:"virus_cooldown"`
	VirusSpawnClearance   float64       `yaml:"virus_spawn_clearance"`

	AIBaseDecision time.Duration `yaml:"ai_base_decision"`
	AISizeDecision time.Duration `yaml:"ai_size_decision"`
	AIChaseChance  float64       `yaml:"ai_chase_chance"`
	AIFleeDistance float64       `yaml:"ai_flee_distance"`
	AITargetMargin float64       `yaml:"ai_target_margin"`
	AIThreatRange  float64       `yaml:"ai_threat_range"`
	AIChaseRange   float64       `yaml:"ai_chase_range"`
	AIForageRange  float64       `yaml:"ai_forage_range"`

	Camera Camera `yaml:"camera"`
}

// Camera holds zoom tuning for one-owner and two-owner play.
type Camera struct {
	Smoothing float64 `yaml:"smoothing"`
	Solo      Zoom    `yaml:"solo"`
	Duo       Zoom    `yaml:"duo"`
}

// Zoom is the k / sqrt(mass/π) curve and its clamp.
type Zoom struct {
	K   float64 `yaml:"k"`
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Clamp limits z to [Min, Max].
func (z Zoom) Clamp(v float64) float64 {
	return min(max(v, z.Min), z.Max)
}

// EatFactor is how much larger a predator's radius must be than its prey's.
const EatFactor = 1.1

// Default returns the stock arena tuning.
func Default() Tuning {
	return Tuning{
		TickRateHz: 30,

		WorldWidth:  3000,
		WorldHeight: 3000,

		FoodTarget:  400,
		AITarget:    15,
		VirusTarget: 8,

		InitialRadius: 20,
		FoodRadius:    5,
		VirusRadius:   40,
		AIMinRadius:   12,
		AIMaxRadius:   35,

		MaxSpeed:      6,
		SpeedScale:    1,
		ArriveEpsilon: 5,

		MinSplitRadius: 20,
		MaxCells:       16,
		SplitVelocity:  20,
		MergeCooldown:  10 * time.Second,

		EjectMinRadius:     25,
		EjectMassCost:      200,
		EjectMassValue:     150,
		EjectSpeed:         18,
		EjectImmunitySpeed: 2,

		FoodMassMultiplier: 2,

		VirusExplodeMinRadius: 45,
		VirusMaxFragments:     8,
		VirusFragmentSpeed:    15,
		VirusCooldown:         time.Second,
		VirusSpawnClearance:   150,

		AIBaseDecision: 500 * time.Millisecond,
		AISizeDecision: 1500 * time.Millisecond,
		AIChaseChance:  0.7,
		AIFleeDistance: 500,
		AITargetMargin: 50,
		AIThreatRange:  5,
		AIChaseRange:   8,
		AIForageRange:  10,

		Camera: Camera{
			Smoothing: 0.1,
			Solo:      Zoom{K: 20, Min: 0.25, Max: 1.5},
			Duo:       Zoom{K: 14, Min: 0.1, Max: 1.5},
		},
	}
}

// TickDuration is the simulation step length.
func (t Tuning) TickDuration() time.Duration {
	if t.TickRateHz <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(t.TickRateHz)
}

// Validate rejects tunings the simulation cannot run with.
func (t Tuning) Validate() error {
	var errs []error
	if t.TickRateHz <= 0 {
		errs = append(errs, errors.New("tick_rate_hz must be positive"))
	}
	if t.WorldWidth <= 2*t.AITargetMargin || t.WorldHeight <= 2*t.AITargetMargin {
		errs = append(errs, errors.New("world must be larger than twice ai_target_margin"))
	}
	if t.InitialRadius <= 0 || t.FoodRadius <= 0 || t.VirusRadius <= 0 {
		errs = append(errs, errors.New("radii must be positive"))
	}
	if t.AIMinRadius <= 0 || t.AIMaxRadius < t.AIMinRadius {
		errs = append(errs, errors.New("ai radius range is empty"))
	}
	if t.MaxCells < 1 {
		errs = append(errs, errors.New("max_cells must be at least 1"))
	}
	if t.EjectMassValue >= t.EjectMassCost {
		errs = append(errs, fmt.Errorf("eject_mass_value (%v) must be below eject_mass_cost (%v)", t.EjectMassValue, t.EjectMassCost))
	}
	if math.Pi*t.EjectMinRadius*t.EjectMinRadius <= t.EjectMassCost {
		errs = append(errs, errors.New("eject_min_radius leaves no mass after paying eject_mass_cost"))
	}
	for name, z := range map[string]Zoom{"solo": t.Camera.Solo, "duo": t.Camera.Duo} {
		if z.K <= 0 || z.Min <= 0 || z.Max < z.Min {
			errs = append(errs, fmt.Errorf("camera.%s: invalid zoom clamp", name))
		}
	}
	if t.Camera.Smoothing <= 0 || t.Camera.Smoothing > 1 {
		errs = append(errs, errors.New("camera.smoothing must be in (0, 1]"))
	}
	return errors.Join(errs...)
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values. An empty path returns the defaults.
func Load(path string) (Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}
