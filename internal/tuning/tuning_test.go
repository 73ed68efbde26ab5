package tuning

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	yml := "food_target: 50\nmerge_cooldown: 4s\ncamera:\n  solo:\n    k: 30\n    min: 0.5\n    max: 2\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.FoodTarget != 50 {
		t.Errorf("FoodTarget = %d; want 50", got.FoodTarget)
	}
	if got.MergeCooldown != 4*time.Second {
		t.Errorf("MergeCooldown = %v; want 4s", got.MergeCooldown)
	}
	if got.Camera.Solo.K != 30 {
		t.Errorf("Camera.Solo.K = %v; want 30", got.Camera.Solo.K)
	}
	def := Default()
	if got.AITarget != def.AITarget {
		t.Errorf("AITarget = %d; want default %d", got.AITarget, def.AITarget)
	}
	if got.Camera.Duo != def.Camera.Duo {
		t.Errorf("Camera.Duo = %+v; want default %+v", got.Camera.Duo, def.Camera.Duo)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		yml  string
		want string
	}{
		{"lossless eject", "eject_mass_value: 500\n", "eject_mass_value"},
		{"empty ai range", "ai_min_radius: 40\nai_max_radius: 10\n", "ai radius"},
		{"bad zoom", "camera:\n  duo:\n    k: 10\n    min: 2\n    max: 1\n", "camera.duo"},
		{"bad yaml", "food_target: [\n", "tuning"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tuning.yaml")
			if err := os.WriteFile(path, []byte(tc.yml), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestZoomClamp(t *testing.T) {
	z := Zoom{K: 10, Min: 0.2, Max: 1.5}
	for _, v := range []float64{-1, 0, 0.2, 1, 1.5, 99} {
		got := z.Clamp(v)
		if got < z.Min || got > z.Max {
			t.Errorf("Clamp(%v) = %v; outside [%v, %v]", v, got, z.Min, z.Max)
		}
	}
}

func TestTickDuration(t *testing.T) {
	tu := Default()
	tu.TickRateHz = 50
	if d := tu.TickDuration(); d != 20*time.Millisecond {
		t.Errorf("TickDuration = %v; want 20ms", d)
	}
}

func TestLoadEmptyPathIsDefault(t *testing.T) {
	got, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if got != Default() {
		t.Errorf("Load(\"\") = %+v; want defaults", got)
	}
}
