package stage_test

import (
	"testing"

	"github.com/maisonhq/runway/stage"
)

func TestOverallProgress(t *testing.T) {
	tests := []struct {
		name     string
		progress map[stage.Stage]int
		want     int
	}{
		{
			name:     "empty map is zero",
			progress: map[stage.Stage]int{},
			want:     0,
		},
		{
			name:     "nil map is zero",
			progress: nil,
			want:     0,
		},
		{
			name: "all complete is exactly 100",
			progress: map[stage.Stage]int{
				stage.OrganizerSetup: 100,
				stage.EventSetup:     100,
				stage.VenueSetup:     100,
				stage.TicketSetup:    100,
				stage.SponsorsMedia:  100,
				stage.ReviewPublish:  100,
			},
			want: 100,
		},
		{
			name: "weighted partial",
			progress: map[stage.Stage]int{
				stage.OrganizerSetup: 100, // 15
				stage.EventSetup:     50,  // 10
			},
			want: 25,
		},
		{
			name: "first stage only",
			progress: map[stage.Stage]int{
				stage.OrganizerSetup: 100,
			},
			want: 15,
		},
		{
			name: "half a percent rounds up",
			progress: map[stage.Stage]int{
				stage.OrganizerSetup: 3, // 0.45
			},
			want: 0,
		},
		{
			name: "ties round away from zero",
			progress: map[stage.Stage]int{
				stage.OrganizerSetup: 10, // 1.5 exactly
			},
			want: 2,
		},
		{
			name: "values above 100 are clamped",
			progress: map[stage.Stage]int{
				stage.OrganizerSetup: 250,
			},
			want: 15,
		},
		{
			name: "negative values are clamped",
			progress: map[stage.Stage]int{
				stage.OrganizerSetup: -40,
				stage.EventSetup:     100,
			},
			want: 20,
		},
		{
			name: "unknown stages are ignored",
			progress: map[stage.Stage]int{
				stage.Stage("catwalk"): 100,
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stage.OverallProgress(tt.progress); got != tt.want {
				t.Errorf("OverallProgress() = %d, want %d", got, tt.want)
			}
		})
	}
}

// Increasing any single stage's progress never decreases the overall result.
func TestOverallProgressMonotonic(t *testing.T) {
	base := map[stage.Stage]int{
		stage.OrganizerSetup: 40,
		stage.EventSetup:     70,
		stage.VenueSetup:     10,
	}

	for _, s := range stage.Order() {
		prev := stage.OverallProgress(base)
		for pct := base[s] + 1; pct <= 100; pct += 7 {
			bumped := make(map[stage.Stage]int, len(base))
			for k, v := range base {
				bumped[k] = v
			}
			bumped[s] = pct

			got := stage.OverallProgress(bumped)
			if got < prev {
				t.Fatalf("raising %s to %d dropped overall from %d to %d", s, pct, prev, got)
			}
			prev = got
		}
	}
}

func TestOverallProgressIsPure(t *testing.T) {
	in := map[stage.Stage]int{stage.EventSetup: 33}

	first := stage.OverallProgress(in)
	second := stage.OverallProgress(in)
	if first != second {
		t.Errorf("same input gave %d then %d", first, second)
	}
	if in[stage.EventSetup] != 33 {
		t.Error("input map was mutated")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-1, 0},
		{0, 0},
		{55, 55},
		{100, 100},
		{101, 100},
	}
	for _, tt := range tests {
		if got := stage.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
