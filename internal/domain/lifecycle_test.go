package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-jobpilot-backend/internal/domain"
)

func TestValidateTransition(t *testing.T) {
	t.Run("Should allow every legal edge", func(t *testing.T) {
		legal := [][2]domain.Status{
			{domain.StatusGenerated, domain.StatusApplied},
			{domain.StatusApplied, domain.StatusInterview},
			{domain.StatusApplied, domain.StatusRejected},
			{domain.StatusInterview, domain.StatusOffer},
			{domain.StatusInterview, domain.StatusRejected},
			{domain.StatusOffer, domain.StatusAccepted},
			{domain.StatusOffer, domain.StatusRejected},
		}
		for _, edge := range legal {
			assert.NoError(t, domain.ValidateTransition(edge[0], edge[1]), "%s -> %s", edge[0], edge[1])
		}
	})

	t.Run("Should reject skipping states", func(t *testing.T) {
		err := domain.ValidateTransition(domain.StatusGenerated, domain.StatusOffer)
		var transitionErr *domain.IllegalTransitionError
		assert.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, domain.StatusGenerated, transitionErr.From)
		assert.Equal(t, domain.StatusOffer, transitionErr.To)
	})

	t.Run("Should reject moving backwards", func(t *testing.T) {
		err := domain.ValidateTransition(domain.StatusApplied, domain.StatusGenerated)
		assert.Error(t, err)
	})

	t.Run("Should reject any transition out of a terminal state", func(t *testing.T) {
		all := []domain.Status{
			domain.StatusGenerated, domain.StatusApplied, domain.StatusInterview,
			domain.StatusOffer, domain.StatusAccepted, domain.StatusRejected,
		}
		for _, terminal := range []domain.Status{domain.StatusAccepted, domain.StatusRejected} {
			for _, to := range all {
				assert.Error(t, domain.ValidateTransition(terminal, to), "%s -> %s", terminal, to)
			}
		}
	})

	t.Run("Should reject unknown target status", func(t *testing.T) {
		err := domain.ValidateTransition(domain.StatusGenerated, domain.Status("archived"))
		assert.Error(t, err)
	})
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, domain.StatusAccepted.Terminal())
	assert.True(t, domain.StatusRejected.Terminal())
	assert.False(t, domain.StatusGenerated.Terminal())
	assert.False(t, domain.StatusOffer.Terminal())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, domain.StatusInterview.Valid())
	assert.False(t, domain.Status("").Valid())
	assert.False(t, domain.Status("pending").Valid())
}
