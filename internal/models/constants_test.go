package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusWaiting))
	assert.True(t, ValidStatus(StatusApproved))
	assert.True(t, ValidStatus(StatusRejected))
	assert.False(t, ValidStatus("CANCELLED"))
	assert.False(t, ValidStatus("waiting"))
	assert.False(t, ValidStatus(""))
}

func TestValidFilter(t *testing.T) {
	for _, f := range []string{FilterAll, FilterCurrent, FilterPast, FilterFuture, FilterWaiting, FilterRejected} {
		assert.True(t, ValidFilter(f), f)
	}
	assert.False(t, ValidFilter("SOMETIME"))
	assert.False(t, ValidFilter("all"))
	assert.False(t, ValidFilter(""))
}
