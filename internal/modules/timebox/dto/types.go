package dto

type CreateInput struct {
	Date     string
	Start    string
	Duration int
	Type     string
	Title    string
	AutoPair bool
}

type UpdateInput struct {
	ID     string
	Title  *string
	Status *string
}

type RescheduleInput struct {
	ID       string
	Date     string
	Start    string
	Duration int
}

type OverlapInput struct {
	Date      string
	Start     string
	Duration  int
	ExcludeID string
}

type TimeboxOutput struct {
	ID          string
	Date        string
	Start       string
	End         string
	Type        string
	Title       string
	Status      string
	PairedID    string
	AutoPaired  bool
	DurationMin int
}

type LaterItemOutput struct {
	ID        string
	Title     string
	Type      string
	CreatedAt string
}
