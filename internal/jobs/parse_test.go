package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oneRec = `{"title":"Data Analyst","company":"Acme","description":"Dashboards","matchScore":82,"skills":["SQL","Excel"," "],"whyMatch":"You like numbers"}`

func TestParseRecommendationsShapes(t *testing.T) {
	tests := []struct {
		name       string
		completion string
		want       int
	}{
		{name: "top-level array", completion: "[" + oneRec + "," + oneRec + "," + oneRec + "]", want: 2},
		{name: "recommendations property", completion: `{"recommendations":[` + oneRec + `]}`, want: 1},
		{name: "first array property", completion: `{"meta":{"n":1},"jobs":[` + oneRec + `],"other":[]}`, want: 1},
		{name: "embedded in prose", completion: "Here you go:\n[" + oneRec + "]\nGood luck!", want: 1},
		{name: "fenced", completion: "```json\n[" + oneRec + "]\n```", want: 1},
		{name: "no array", completion: `{"message":"sorry"}`, want: 0},
		{name: "garbage", completion: "no json at all", want: 0},
		{name: "items without title", completion: `[{"company":"Acme"}]`, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRecommendations(tt.completion)
			require.Len(t, got, tt.want)
			for _, rec := range got {
				assert.Equal(t, "Data Analyst", rec.Title)
				assert.Equal(t, 82, rec.MatchScore)
				assert.Equal(t, []string{"SQL", "Excel"}, rec.Skills)
			}
		})
	}
}
