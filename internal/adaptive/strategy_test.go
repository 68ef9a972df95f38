package adaptive

import "testing"

func TestContentBudgetShouldStop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		threshold int64
		progress  Progress
		want      bool
	}{
		{
			name:      "below threshold continues",
			threshold: 5000,
			progress:  Progress{PagesFetched: 3, ContentBytes: 4999},
			want:      false,
		},
		{
			name:      "exactly at threshold stops",
			threshold: 5000,
			progress:  Progress{PagesFetched: 3, ContentBytes: 5000},
			want:      true,
		},
		{
			name:      "past threshold stops",
			threshold: 5000,
			progress:  Progress{PagesFetched: 4, ContentBytes: 12000},
			want:      true,
		},
		{
			name:      "zero threshold never stops",
			threshold: 0,
			progress:  Progress{PagesFetched: 100, ContentBytes: 1 << 30},
			want:      false,
		},
		{
			name:      "negative threshold never stops",
			threshold: -1,
			progress:  Progress{ContentBytes: 10},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewContentBudget(tt.threshold)
			if got := s.ShouldStop(tt.progress); got != tt.want {
				t.Errorf("ShouldStop(%+v) with threshold %d = %v, want %v",
					tt.progress, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestUnlimitedNeverStops(t *testing.T) {
	t.Parallel()

	var s Unlimited
	if s.ShouldStop(Progress{PagesFetched: 1 << 20, ContentBytes: 1 << 40}) {
		t.Error("Unlimited should never stop a run")
	}
}

func TestThresholdForQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  int64
	}{
		{
			name:  "empty query gets default",
			query: "",
			want:  ThresholdDefault,
		},
		{
			name:  "short query gets brief budget",
			query: "go generics",
			want:  ThresholdBrief,
		},
		{
			name:  "medium query gets default",
			query: "how does the go scheduler handle blocking syscalls",
			want:  ThresholdDefault,
		},
		{
			name: "long query gets thorough budget",
			query: "please walk through the complete lifecycle of a goroutine from creation " +
				"to garbage collection including stack growth and preemption",
			want: ThresholdThorough,
		},
		{
			name:  "detailed keyword gets thorough budget",
			query: "detailed comparison of mutex vs channel",
			want:  ThresholdThorough,
		},
		{
			name:  "comprehensive keyword gets thorough budget",
			query: "Comprehensive guide to net/http",
			want:  ThresholdThorough,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ThresholdForQuery(tt.query); got != tt.want {
				t.Errorf("ThresholdForQuery(%q) = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}
