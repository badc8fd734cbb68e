package dto

type StrategyOutput struct {
	Category    string
	ID          string
	Label       string
	Description string
	Enabled     bool
	Kind        string
	Payload     map[string]any
}

type SettingsOutput struct {
	DailyGoalMin int
	ThemeTags    []string
	FomoPolicy   string
	Theme        string
	Strategies   []StrategyOutput
}

type UpdateStrategyInput struct {
	Category    string
	ID          string
	Label       *string
	Description *string
	Enabled     *bool
}
