package reviews

import (
	"encoding/json"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
)

func TestNewReviewDTOEmitsEmptyLists(t *testing.T) {
	cases := map[string]models.Review{
		"nil":   {},
		"empty": {Pros: pq.StringArray{}, Cons: pq.StringArray{}},
	}
	for name, review := range cases {
		t.Run(name, func(t *testing.T) {
			dto := NewReviewDTO(review)
			assert.NotNil(t, dto.Pros)
			assert.NotNil(t, dto.Cons)

			raw, err := json.Marshal(dto)
			require.NoError(t, err)
			var body map[string]any
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, []any{}, body["pros"])
			assert.Equal(t, []any{}, body["cons"])
		})
	}
}

func TestNewReviewDTOCopiesLists(t *testing.T) {
	review := models.Review{Pros: pq.StringArray{"battery"}, Cons: pq.StringArray{"weight"}}
	dto := NewReviewDTO(review)
	review.Pros[0] = "changed"

	assert.Equal(t, []string{"battery"}, dto.Pros)
	assert.Equal(t, []string{"weight"}, dto.Cons)
}
