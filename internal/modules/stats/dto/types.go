package dto

type StatsOutput struct {
	EffectiveMinutes7d []int
	TodayMinutes       int
	WeekMinutes        int
	IORatio            float64
	IORatioInfinite    bool
	IORatioLabel       string
	DiscomfortHandled  int
	StreakDays         int
	UrgeRuleCount      int
}
