package scraper

import "testing"

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"strips site suffix", "Spring Fling Open | 512 Beach", "Spring Fling Open"},
		{"strips prefix label", "Tournament: Summer Slam", "Summer Slam"},
		{"collapses whitespace", "  King   of the  Court ", "King of the Court"},
		{"trims decoration", "*** Juneteenth Classic ***", "Juneteenth Classic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanTitle(tt.raw); got != tt.want {
				t.Errorf("cleanTitle(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestBestTitle(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{
			name:       "prefers event-like candidate over chrome",
			candidates: []string{"Register Now", "Memorial Day Coed Tournament", "More Details"},
			want:       "Memorial Day Coed Tournament",
		},
		{
			name:       "rejects pure navigation text",
			candidates: []string{"View Event", "Learn More", "Registration"},
			want:       "",
		},
		{
			name:       "empty input",
			candidates: nil,
			want:       "",
		},
		{
			name:       "site suffix stripped before scoring",
			candidates: []string{"AVP Next Qualifier | 512 Beach"},
			want:       "AVP Next Qualifier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bestTitle(tt.candidates); got != tt.want {
				t.Errorf("bestTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
