package usage

import "time"

// UnlimitedAnalyses marks a plan without a finite allowance.
const UnlimitedAnalyses = -1

// Plan maps a plan id to its display name and analysis allowance.
type Plan struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Limit int    `json:"limit"`
}

// Unlimited reports whether the plan has no finite allowance.
func (p Plan) Unlimited() bool { return p.Limit < 0 }

// Profile is a user's plan assignment and consumption snapshot. The counter is
// monotonic: it is incremented on successful analysis creation and never reset
// by this core.
type Profile struct {
	UserID       string    `json:"userId"`
	PlanID       string    `json:"planId"`
	AnalysesUsed int       `json:"analysesUsed"`
	Admin        bool      `json:"admin"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var defaultPlans = map[string]Plan{
	"free":      {ID: "free", Name: "Free", Limit: 5},
	"starter":   {ID: "starter", Name: "Starter", Limit: 30},
	"clinic":    {ID: "clinic", Name: "Clinic", Limit: 200},
	"unlimited": {ID: "unlimited", Name: "Unlimited", Limit: UnlimitedAnalyses},
}

// PlanByID resolves a plan id, defaulting unknown ids onto the free plan.
func PlanByID(id string) Plan {
	if plan, ok := defaultPlans[id]; ok {
		return plan
	}
	return defaultPlans["free"]
}

func defaultProfile(userID string) Profile {
	return Profile{
		UserID:    userID,
		PlanID:    "free",
		UpdatedAt: time.Now().UTC(),
	}
}
