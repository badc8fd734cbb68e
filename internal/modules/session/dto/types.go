package dto

type Notes struct {
	Learned string
	Stuck   string
	Next    string
}

type StartInput struct {
	TimeboxID string
	Type      string
	Minutes   int
}

type FinalizeInput struct {
	Notes  Notes
	Assets []string
}

type SessionOutput struct {
	ID               string
	TimeboxID        string
	StartEpoch       int64
	EndEpoch         int64
	DurationSec      int
	Type             string
	UrgeDelays       int
	Discomforts      []string
	Notes            Notes
	Assets           []string
	Completed        bool
	UrgeDelayOutcome string
}

type FinalizeOutput struct {
	Session     SessionOutput
	JournalPath string
}

type RuntimeOutput struct {
	Status           string
	SessionID        string
	TimeboxID        string
	Type             string
	TargetSec        int
	ElapsedSec       int
	RemainingSec     int
	UrgeActive       bool
	UrgeRemainingSec int
	UrgeOutcome      string
	UrgeDelays       int
	Discomforts      []string
}
