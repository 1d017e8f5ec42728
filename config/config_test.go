package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero movement speed", func(c *Config) { c.MovementSpeed = 0 }},
		{"negative slope limit", func(c *Config) { c.SlopeLimit = -1 }},
		{"slope limit past vertical", func(c *Config) { c.SlopeLimit = 91 }},
		{"zero collider height", func(c *Config) { c.ColliderHeight = 0 }},
		{"step ratio of one", func(c *Config) { c.StepHeightRatio = 1 }},
		{"zero crouch height", func(c *Config) { c.CrouchColliderHeight = 0 }},
		{"zero roll duration", func(c *Config) { c.RollDuration = 0 }},
		{"unknown collider shape", func(c *Config) { c.ColliderShape = "cylinder" }},
		{"unknown cast kind", func(c *Config) { c.CastKind = "laser" }},
		{"unknown ceiling detection", func(c *Config) { c.CeilingDetection = "psychic" }},
		{"ray array without rays", func(c *Config) {
			c.CastKind = CastRayArray
			c.SensorArrayRaysPerRow = 0
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movement.yml")

	c := Default()
	c.MovementSpeed = 9.5
	c.CastKind = CastSphere
	c.CeilingDetection = CeilingAveraged

	if err := c.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != c {
		t.Fatalf("round trip mismatch:\nsaved  %+v\nloaded %+v", c, loaded)
	}
}

func TestLoadFillsMissingFieldsFromDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yml")
	if err := os.WriteFile(path, []byte("movement_speed: 12\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.MovementSpeed != 12 {
		t.Fatalf("expected movement speed 12, got %v", c.MovementSpeed)
	}
	def := Default()
	if c.Gravity != def.Gravity || c.JumpSpeed != def.JumpSpeed {
		t.Fatal("absent fields should keep defaults")
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("movement_speed: -3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for negative speed")
	}
}
