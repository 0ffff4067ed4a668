package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMustParseMoney(t *testing.T) {
	assert.True(t, decimal.NewFromInt(150).Equal(MustParseMoney("150")))
	assert.Equal(t, "0.1", MustParseMoney("0.1").String())

	// Malformed input degrades to zero; store scanners only feed it values
	// the store itself wrote.
	assert.True(t, MustParseMoney("not-a-number").IsZero())
	assert.True(t, MustParseMoney("").IsZero())
}

func TestPercent(t *testing.T) {
	total := decimal.NewFromInt(150)

	assert.Equal(t, "15", Percent(total, decimal.NewFromInt(10)).String())
	assert.Equal(t, "192", Percent(decimal.NewFromInt(1600), decimal.NewFromInt(12)).String())
	assert.True(t, Percent(total, decimal.Zero).IsZero())
}
