package podcast

import "testing"

func TestEstimateDuration(t *testing.T) {
	tests := []struct {
		words int
		want  string
	}{
		{0, "0 minutes"},
		{1, "1 minute"},
		{150, "1 minute"},
		{151, "2 minutes"},
		{300, "2 minutes"},
		{301, "3 minutes"},
	}
	for _, tt := range tests {
		if got := EstimateDuration(tt.words); got != tt.want {
			t.Errorf("EstimateDuration(%d) = %q, want %q", tt.words, got, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("")
	if err != nil || mode != ModeNormalTwo {
		t.Fatalf("blank mode = %q, %v", mode, err)
	}
	mode, err = ParseMode(" Custom-One ")
	if err != nil || mode != ModeCustomOne {
		t.Fatalf("custom-one = %q, %v", mode, err)
	}
	if _, err := ParseMode("three-hosts"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestModeProperties(t *testing.T) {
	tests := []struct {
		mode   Mode
		hosts  int
		custom bool
	}{
		{ModeNormalOne, 1, false},
		{ModeNormalTwo, 2, false},
		{ModeCustomOne, 1, true},
		{ModeCustomTwo, 2, true},
	}
	for _, tt := range tests {
		if tt.mode.HostCount() != tt.hosts || tt.mode.IsCustom() != tt.custom {
			t.Errorf("%s: hosts=%d custom=%v", tt.mode, tt.mode.HostCount(), tt.mode.IsCustom())
		}
	}
}

func TestHosts(t *testing.T) {
	single := Hosts(ModeNormalOne, "nova", "echo")
	if len(single) != 1 || single[0] != (Host{Name: "Alex", Role: "Host", Voice: "nova"}) {
		t.Fatalf("unexpected single host roster: %+v", single)
	}
	pair := Hosts(ModeCustomTwo, "nova", "echo")
	if len(pair) != 2 || pair[1] != (Host{Name: "Sam", Role: "Host 2", Voice: "echo"}) {
		t.Fatalf("unexpected two host roster: %+v", pair)
	}
}
