package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionBeforeCreateGeneratesUID(t *testing.T) {
	first := &Prediction{ImagePath: "predictions/a.png"}
	second := &Prediction{ImagePath: "predictions/b.png"}

	require.NoError(t, first.BeforeCreate(nil))
	require.NoError(t, second.BeforeCreate(nil))

	assert.NotEmpty(t, first.UID)
	assert.NotEqual(t, first.UID, second.UID, "record identifiers must be unique")
	assert.False(t, first.CreatedAt.IsZero())
}

func TestPredictionBeforeCreateKeepsExistingUID(t *testing.T) {
	p := &Prediction{UID: "preset-uid"}
	require.NoError(t, p.BeforeCreate(nil))
	assert.Equal(t, "preset-uid", p.UID)
}
