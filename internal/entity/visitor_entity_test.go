package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProductInteractionRecord(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	p := &ProductInteraction{}

	assert.True(t, p.Record(InteractionHover, 1200, at))
	assert.True(t, p.Record(InteractionHover, 300, at))
	assert.False(t, p.Record(InteractionHover, 0, at))
	assert.Equal(t, int64(1500), p.TotalHoverTimeMs)

	assert.True(t, p.Record(InteractionView, 0, at))
	assert.False(t, p.Record(InteractionView, 0, at))
	assert.Equal(t, 1, p.TotalViews)

	p.Record(InteractionClick, 0, at)
	p.Record(InteractionClick, 0, at)
	assert.Equal(t, 2, p.TotalClicks)
	assert.Equal(t, at, p.LastInteraction)

	assert.False(t, p.Record(InteractionType("scroll"), 0, at))
}

func TestInteractionTypeValid(t *testing.T) {
	assert.True(t, InteractionClick.Valid())
	assert.False(t, InteractionType("").Valid())
}
