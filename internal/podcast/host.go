package podcast

// Host is one voice identity in an episode.
type Host struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Voice string `json:"voice,omitempty"`
}

// Fixed host names.
const (
	HostOneName = "Alex"
	HostTwoName = "Sam"
)

// Hosts returns the host roster for mode with voices attached. The secondary
// voice is ignored for single-host modes.
func Hosts(mode Mode, primaryVoice, secondaryVoice string) []Host {
	if mode.HostCount() == 1 {
		return []Host{{Name: HostOneName, Role: "Host", Voice: primaryVoice}}
	}
	return []Host{
		{Name: HostOneName, Role: "Host 1", Voice: primaryVoice},
		{Name: HostTwoName, Role: "Host 2", Voice: secondaryVoice},
	}
}
