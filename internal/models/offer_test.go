package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOfferStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    OfferStatus
		to      OfferStatus
		allowed bool
	}{
		{OfferStatusPending, OfferStatusAccepted, true},
		{OfferStatusPending, OfferStatusDeclined, true},
		{OfferStatusPending, OfferStatusWithdrawn, true},
		{OfferStatusPending, OfferStatusCompleted, false},
		{OfferStatusPending, OfferStatusCompletionRequested, false},
		{OfferStatusAccepted, OfferStatusCompletionRequested, true},
		{OfferStatusAccepted, OfferStatusWithdrawn, true},
		{OfferStatusAccepted, OfferStatusDeclined, false},
		{OfferStatusCompletionRequested, OfferStatusCompleted, true},
		{OfferStatusCompletionRequested, OfferStatusAccepted, true},
		{OfferStatusCompletionRequested, OfferStatusWithdrawn, false},
		{OfferStatusDeclined, OfferStatusAccepted, false},
		{OfferStatusWithdrawn, OfferStatusPending, false},
		{OfferStatusCompleted, OfferStatusAccepted, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestOfferStatus_IsTerminal(t *testing.T) {
	assert.True(t, OfferStatusDeclined.IsTerminal())
	assert.True(t, OfferStatusWithdrawn.IsTerminal())
	assert.True(t, OfferStatusCompleted.IsTerminal())
	assert.False(t, OfferStatusPending.IsTerminal())
	assert.False(t, OfferStatusAccepted.IsTerminal())
	assert.False(t, OfferStatusCompletionRequested.IsTerminal())
}

func TestOfferStatus_IsValid(t *testing.T) {
	assert.True(t, OfferStatusPending.IsValid())
	assert.False(t, OfferStatus("cancelled").IsValid())
}
