package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	assert.Equal(t, 3, ToInt(json.Number("3")))
	assert.Equal(t, 2, ToInt(json.Number("2.9")))
	assert.Equal(t, 7, ToInt("7"))
	assert.Equal(t, 1, ToInt(true))
	assert.Equal(t, 0, ToInt(nil))
}

func TestToFloat(t *testing.T) {
	assert.Equal(t, 0.25, ToFloat(json.Number("0.25")))
	assert.Equal(t, 0.5, ToFloat("0.5"))
	assert.Equal(t, 13.0, ToFloat(13))
}

func TestToString(t *testing.T) {
	assert.Equal(t, "5868049119", ToString(json.Number("5868049119")))
	assert.Equal(t, "5868049119", ToString(float64(5868049119)))
	assert.Equal(t, "", ToString(nil))
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool(json.Number("1")))
	assert.True(t, ToBool("true"))
	assert.False(t, ToBool(0))
	assert.False(t, ToBool(nil))
}
