package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(21, 2, 10)
	assert.Equal(t, int64(3), p.TotalPages)

	p = NewPagination(0, 1, 10)
	assert.Equal(t, int64(0), p.TotalPages)
}

func TestNormalizePage(t *testing.T) {
	page, limit := NormalizePage(0, 0)
	assert.Equal(t, DefaultPage, page)
	assert.Equal(t, DefaultLimit, limit)

	page, limit = NormalizePage(3, 500)
	assert.Equal(t, int64(3), page)
	assert.Equal(t, MaxLimit, limit)

	assert.Equal(t, 20, Offset(3, 10))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.13, Round2(10.126))
	assert.Equal(t, 0.3, Round2(0.1+0.2))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(1)))
	assert.True(t, IsFinite(1.5))
}
