package releasegroups

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTraditionalHeuristic(t *testing.T) {
	assert.True(t, isTraditional("動漫國字幕組"))
	assert.False(t, isTraditional("动漫国字幕组"))
	assert.False(t, isTraditional(""))
	assert.False(t, isTraditional("SubsPlease"))
}

func TestConvertIfSimplifiedLeavesTraditionalAlone(t *testing.T) {
	conv := newChineseConverter(nil)
	result := conv.convertIfSimplified("動漫國字幕組")
	assert.Equal(t, "動漫國字幕組", result)
}

func TestToTraditionalEmptyInput(t *testing.T) {
	conv := newChineseConverter(nil)
	assert.Equal(t, "", conv.toTraditional(""))
}
