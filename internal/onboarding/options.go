package onboarding

// Option is one selectable card in the wizard.
type Option struct {
	ID          string
	Name        string
	Icon        string
	Description string
	Detail      string
	Extra       string
}

var Equipment = []Option{
	{ID: "bodyweight", Name: "Bodyweight Only", Icon: "🏃", Description: "No equipment needed"},
	{ID: "pull-up-bar", Name: "Pull-up Bar", Icon: "━━", Description: "Mounted or doorway"},
	{ID: "dumbbells", Name: "Dumbbells", Icon: "🏋️", Description: "Adjustable or fixed"},
	{ID: "trx", Name: "TRX/Suspension", Icon: "⟆⟇", Description: "Suspension trainer"},
	{ID: "rings", Name: "Gymnastic Rings", Icon: "◯◯", Description: "Hanging rings"},
	{ID: "parallettes", Name: "Parallettes", Icon: "┃┃", Description: "Low parallel bars"},
	{ID: "resistance-bands", Name: "Resistance Bands", Icon: "〰️", Description: "Elastic bands"},
	{ID: "kettlebell", Name: "Kettlebell", Icon: "🔔", Description: "Weighted ball with handle"},
}

var Levels = []Option{
	{ID: "beginner", Name: "Beginner", Description: "New to working out or getting back into it", Detail: "Can do: 1-5 push-ups, assisted pull-ups"},
	{ID: "intermediate", Name: "Intermediate", Description: "Been working out for a few months consistently", Detail: "Can do: 10+ push-ups, 1-5 pull-ups"},
	{ID: "advanced", Name: "Advanced", Description: "Training regularly for 6+ months", Detail: "Can do: 20+ push-ups, 10+ pull-ups"},
}

var Goals = []Option{
	{ID: "strength", Name: "Build Strength", Icon: "💪", Description: "Get stronger, lift heavier"},
	{ID: "muscle", Name: "Build Muscle", Icon: "🏗️", Description: "Increase muscle size and definition"},
	{ID: "endurance", Name: "Improve Endurance", Icon: "⚡", Description: "Last longer, do more reps"},
	{ID: "weight-loss", Name: "Lose Weight", Icon: "📉", Description: "Burn calories and fat"},
	{ID: "general-fitness", Name: "General Fitness", Icon: "🎯", Description: "Overall health and wellness"},
	{ID: "sport-specific", Name: "Sport Performance", Icon: "🏃", Description: "Improve athletic performance"},
}

var Splits = []Option{
	{ID: "full-body", Name: "Full Body", Description: "Work all muscles each session", Detail: "3 days per week", Extra: "Beginners, time-efficient"},
	{ID: "upper-lower", Name: "Upper/Lower", Description: "Alternate upper and lower body days", Detail: "4 days per week", Extra: "Intermediate, balanced approach"},
	{ID: "push-pull-legs", Name: "Push/Pull/Legs", Description: "Push muscles, pull muscles, legs", Detail: "3-6 days per week", Extra: "Advanced, high volume"},
}

func known(opts []Option, id string) bool {
	for _, o := range opts {
		if o.ID == id {
			return true
		}
	}
	return false
}

// NameOf returns the display name for id, or id itself if unknown.
func NameOf(opts []Option, id string) string {
	for _, o := range opts {
		if o.ID == id {
			return o.Name
		}
	}
	return id
}
