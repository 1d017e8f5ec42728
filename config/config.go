package config

import (
	"os"

	"github.com/kinemotion/kine/kerror"
	"gopkg.in/yaml.v3"
)

// CastKind selects the probing strategy used by the ground sensor.
type CastKind string

const (
	CastRay      CastKind = "ray"
	CastSphere   CastKind = "sphere"
	CastRayArray CastKind = "ray_array"
)

// ColliderShape selects the primitive the mover shapes the character's
// collider into.
type ColliderShape string

const (
	ShapeCapsule ColliderShape = "capsule"
	ShapeBox     ColliderShape = "box"
	ShapeSphere  ColliderShape = "sphere"
)

// CeilingDetection selects how overhead collision contacts are classified as
// ceiling hits.
type CeilingDetection string

const (
	CeilingFirstContact CeilingDetection = "first_contact"
	CeilingAllContacts  CeilingDetection = "all_contacts"
	CeilingAveraged     CeilingDetection = "averaged"
)

// Config is the flat set of tunables the controller, mover and sensor read at
// initialization. All speeds are units/second, durations seconds, angles
// degrees.
type Config struct {
	MovementSpeed float32 `yaml:"movement_speed"`
	SlopeLimit    float32 `yaml:"slope_limit"`

	Gravity        float32 `yaml:"gravity"`
	SlideGravity   float32 `yaml:"slide_gravity"`
	GroundFriction float32 `yaml:"ground_friction"`
	AirFriction    float32 `yaml:"air_friction"`

	AirControlRate       float32 `yaml:"air_control_rate"`
	AirControlMultiplier float32 `yaml:"air_control_multiplier"`

	JumpSpeed              float32 `yaml:"jump_speed"`
	JumpCooldown           float32 `yaml:"jump_cooldown"`
	AutoJumpSpeedThreshold float32 `yaml:"auto_jump_speed_threshold"`

	ColliderShape     ColliderShape `yaml:"collider_shape"`
	ColliderHeight    float32       `yaml:"collider_height"`
	ColliderThickness float32       `yaml:"collider_thickness"`
	StepHeightRatio   float32       `yaml:"step_height_ratio"`

	CrouchColliderHeight  float32 `yaml:"crouch_collider_height"`
	CrouchStepHeightRatio float32 `yaml:"crouch_step_height_ratio"`

	ClimbSpeed         float32 `yaml:"climb_speed"`
	ClimbAttachSpeed   float32 `yaml:"climb_attach_speed"`
	ClimbMoveThreshold float32 `yaml:"climb_move_threshold"`

	RollSpeedMultiplier float32 `yaml:"roll_speed_multiplier"`
	RollDuration        float32 `yaml:"roll_duration"`
	RollCrashDuration   float32 `yaml:"roll_crash_duration"`
	RollCrashAngle      float32 `yaml:"roll_crash_angle"`

	CeilingDetection  CeilingDetection `yaml:"ceiling_detection"`
	CeilingAngleLimit float32          `yaml:"ceiling_angle_limit"`

	CastKind              CastKind `yaml:"cast_kind"`
	SensorArrayRows       int      `yaml:"sensor_array_rows"`
	SensorArrayRaysPerRow int      `yaml:"sensor_array_rays_per_row"`
	SensorArrayOffsetRows bool     `yaml:"sensor_array_offset_rows"`
}

// Default returns a Config filled with the reference tunables.
func Default() Config {
	return Config{
		MovementSpeed: 7,
		SlopeLimit:    45,

		Gravity:        30,
		SlideGravity:   5,
		GroundFriction: 100,
		AirFriction:    0.5,

		AirControlRate:       2,
		AirControlMultiplier: 0.25,

		JumpSpeed:              10,
		JumpCooldown:           0.2,
		AutoJumpSpeedThreshold: 6,

		ColliderShape:     ShapeCapsule,
		ColliderHeight:    2,
		ColliderThickness: 1,
		StepHeightRatio:   0.25,

		CrouchColliderHeight:  1,
		CrouchStepHeightRatio: 0.5,

		ClimbSpeed:         3,
		ClimbAttachSpeed:   5,
		ClimbMoveThreshold: 0.01,

		RollSpeedMultiplier: 1.5,
		RollDuration:        0.75,
		RollCrashDuration:   1,
		RollCrashAngle:      120,

		CeilingDetection:  CeilingFirstContact,
		CeilingAngleLimit: 30,

		CastKind:              CastRay,
		SensorArrayRows:       3,
		SensorArrayRaysPerRow: 6,
		SensorArrayOffsetRows: true,
	}
}

// Validate checks that every tunable is inside its allowed range.
func (c Config) Validate() error {
	if c.MovementSpeed <= 0 {
		return kerror.New("config: movement_speed must be positive, got %v", c.MovementSpeed)
	}
	if c.SlopeLimit < 0 || c.SlopeLimit > 90 {
		return kerror.New("config: slope_limit must be within [0, 90], got %v", c.SlopeLimit)
	}
	if c.ColliderHeight <= 0 || c.ColliderThickness <= 0 {
		return kerror.New("config: collider dimensions must be positive, got height=%v thickness=%v", c.ColliderHeight, c.ColliderThickness)
	}
	if c.StepHeightRatio < 0 || c.StepHeightRatio >= 1 {
		return kerror.New("config: step_height_ratio must be within [0, 1), got %v", c.StepHeightRatio)
	}
	if c.CrouchColliderHeight <= 0 || c.CrouchStepHeightRatio < 0 || c.CrouchStepHeightRatio >= 1 {
		return kerror.New("config: invalid crouch collider values, got height=%v ratio=%v", c.CrouchColliderHeight, c.CrouchStepHeightRatio)
	}
	if c.RollDuration <= 0 || c.RollCrashDuration <= 0 {
		return kerror.New("config: roll durations must be positive, got roll=%v crash=%v", c.RollDuration, c.RollCrashDuration)
	}
	switch c.ColliderShape {
	case ShapeCapsule, ShapeBox, ShapeSphere:
	default:
		return kerror.New("config: unknown collider_shape %q", c.ColliderShape)
	}
	switch c.CastKind {
	case CastRay, CastSphere:
	case CastRayArray:
		if c.SensorArrayRows <= 0 || c.SensorArrayRaysPerRow <= 0 {
			return kerror.New("config: ray array needs positive rows and rays per row, got rows=%d rays=%d", c.SensorArrayRows, c.SensorArrayRaysPerRow)
		}
	default:
		return kerror.New("config: unknown cast_kind %q", c.CastKind)
	}
	switch c.CeilingDetection {
	case CeilingFirstContact, CeilingAllContacts, CeilingAveraged:
	default:
		return kerror.New("config: unknown ceiling_detection %q", c.CeilingDetection)
	}
	return nil
}

// Load reads a YAML config from path. Missing fields keep their defaults.
func Load(path string) (Config, error) {
	c := Default()
	dat, err := os.ReadFile(path)
	if err != nil {
		return c, kerror.New("config: read %s: %v", path, err)
	}
	if err := yaml.Unmarshal(dat, &c); err != nil {
		return c, kerror.New("config: parse %s: %v", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Save writes the config to path as YAML.
func (c Config) Save(path string) error {
	dat, err := yaml.Marshal(c)
	if err != nil {
		return kerror.New("config: encode: %v", err)
	}
	if err := os.WriteFile(path, dat, 0644); err != nil {
		return kerror.New("config: write %s: %v", path, err)
	}
	return nil
}
