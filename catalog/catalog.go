// Package catalog is the static list of plans shown on the sign-up screens.
// It is never sent to or checked by the subscription API.
package catalog

// Plan is one purchasable tier with its display metadata.
type Plan struct {
	ID               string
	Name             string
	MonthlyPrice     int
	VideoQuality     string
	Resolution       string
	ScreensAllowed   int
	SupportedDevices string
	Gradient         string
}

const allDevices = "TV, computer, mobile phone, tablet"

var plans = [...]Plan{
	{
		ID:               "basic",
		Name:             "Basic",
		MonthlyPrice:     199,
		VideoQuality:     "Good",
		Resolution:       "720p (HD)",
		ScreensAllowed:   1,
		SupportedDevices: allDevices,
		Gradient:         "from-indigo-800 to-indigo-500",
	},
	{
		ID:               "standard",
		Name:             "Standard",
		MonthlyPrice:     499,
		VideoQuality:     "Great",
		Resolution:       "1080p (Full HD)",
		ScreensAllowed:   2,
		SupportedDevices: allDevices,
		Gradient:         "from-purple-800 to-purple-500",
	},
	{
		ID:               "premium",
		Name:             "Premium",
		MonthlyPrice:     649,
		VideoQuality:     "Best",
		Resolution:       "4K (Ultra HD) + HDR",
		ScreensAllowed:   4,
		SupportedDevices: allDevices,
		Gradient:         "from-red-800 to-red-500",
	},
}

// acceptedNames are the plan names the subscription API accepts.
var acceptedNames = [...]string{"Basic", "Standard", "Premium"}

// Plans returns the catalog in display order. Each call returns a new slice.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans[:])
	return out
}

// Find returns the plan with the given id.
func Find(id string) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// Default is the plan preselected on the plans screen: the third entry.
func Default() Plan { return plans[2] }

// AcceptedNames returns the plan names the API accepts, in order.
func AcceptedNames() []string {
	out := make([]string, len(acceptedNames))
	copy(out, acceptedNames[:])
	return out
}

// IsAcceptedName reports whether name is exactly one of AcceptedNames.
func IsAcceptedName(name string) bool {
	for _, n := range acceptedNames {
		if n == name {
			return true
		}
	}
	return false
}

// BackendName maps a plan to the name sent to the API. The display name is
// used verbatim.
func BackendName(p Plan) string { return p.Name }
