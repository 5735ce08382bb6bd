package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlans_StableAndOrdered(t *testing.T) {
	first := Plans()
	second := Plans()

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"basic", "standard", "premium"}, []string{first[0].ID, first[1].ID, first[2].ID})

	// callers cannot mutate the catalog
	first[0].Name = "Changed"
	assert.Equal(t, "Basic", Plans()[0].Name)
}

func TestPlans_Attributes(t *testing.T) {
	p, ok := Find("standard")
	require.True(t, ok)
	assert.Equal(t, Plan{
		ID:               "standard",
		Name:             "Standard",
		MonthlyPrice:     499,
		VideoQuality:     "Great",
		Resolution:       "1080p (Full HD)",
		ScreensAllowed:   2,
		SupportedDevices: "TV, computer, mobile phone, tablet",
		Gradient:         "from-purple-800 to-purple-500",
	}, p)

	_, ok = Find("gold")
	assert.False(t, ok)
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "premium", Default().ID)
}

func TestBackendNames(t *testing.T) {
	for _, p := range Plans() {
		assert.True(t, IsAcceptedName(BackendName(p)), p.ID)
	}
	assert.False(t, IsAcceptedName("basic"))
	assert.False(t, IsAcceptedName("Gold"))
	assert.Equal(t, []string{"Basic", "Standard", "Premium"}, AcceptedNames())
}
