package lavalink

import "testing"

func TestTrackEndReasonShouldAdvance(t *testing.T) {
	tests := []struct {
		reason TrackEndReason
		want   bool
	}{
		{TrackEndFinished, true},
		{TrackEndLoadFailed, true},
		{TrackEndStopped, false},
		{TrackEndReplaced, false},
		{TrackEndCleanup, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			if got := tt.reason.ShouldAdvance(); got != tt.want {
				t.Errorf("ShouldAdvance(%q) = %v, want %v", tt.reason, got, tt.want)
			}
		})
	}
}
