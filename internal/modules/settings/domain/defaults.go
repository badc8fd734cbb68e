package domain

// Defaults returns the settings of a fresh device.
func Defaults() Settings {
	return Settings{
		DailyGoalMin: DefaultDailyGoalMin,
		ThemeTags:    []string{"Cursor"},
		FomoPolicy:   FomoBlockOrLater,
		Appearance:   Appearance{Theme: ThemeSystem},
		Strategies: Strategies{
			Physical: []Strategy{
				{ID: "physical-stand", Label: "Stand up for 2 minutes", Enabled: true, Kind: KindTimer, Payload: map[string]any{"duration": 120, "prompt": "Get up and stretch"}},
				{ID: "physical-water", Label: "Drink some water", Enabled: true, Kind: KindCustom, Payload: map[string]any{"event": "hydrate"}},
				{ID: "physical-pomodoro", Label: "Run a 25/5 pomodoro", Enabled: true, Kind: KindTimer, Payload: map[string]any{"duration": 1500, "prompt": "Keep an easy pace and finish one pomodoro"}},
				{ID: "physical-output", Label: "Switch to output mode for 15 minutes", Enabled: true, Kind: KindSwitchMode, Payload: map[string]any{"type": "output", "duration": 900}},
			},
			Cognitive: []Strategy{
				{ID: "cognitive-ai", Label: "Ask for three on-topic questions", Enabled: true, Kind: KindAIPrompt, Payload: map[string]any{}},
				{ID: "cognitive-scope", Label: "Work a concrete example for 10 minutes", Enabled: true, Kind: KindTimer, Payload: map[string]any{"duration": 600}},
				{ID: "cognitive-easy", Label: "Pick an easier task", Enabled: true, Kind: KindCustom, Payload: map[string]any{"event": "reduce-scope"}},
			},
			Emotional: []Strategy{
				{ID: "emotional-normalize", Label: "Normalize: discomfort means growth", Enabled: true, Kind: KindJournal, Payload: map[string]any{"template": "Write down how you feel right now and accept that it is reasonable and temporary. You are practicing; imperfection is allowed."}},
				{ID: "emotional-success", Label: "Review your last three wins", Enabled: true, Kind: KindCustom, Payload: map[string]any{"event": "review-success"}},
				{ID: "emotional-later", Label: "Park the new tool on the later list", Enabled: true, Kind: KindCustom, Payload: map[string]any{"event": "append-later"}},
			},
		},
	}
}
