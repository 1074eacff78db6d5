package inference

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClasses = ClassMapping{"freshapples", "rottenapples", "freshbananas"}

func TestDecideArgmax(t *testing.T) {
	result, err := decide([]float32{0.1, 0.7, 0.2}, testClasses)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Class)
	assert.Equal(t, "rottenapples", result.ClassName)
	assert.InDelta(t, 0.7, result.Confidence, 1e-6)
}

func TestDecideTieBreaksToFirstIndex(t *testing.T) {
	result, err := decide([]float32{0.4, 0.4, 0.2}, testClasses)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Class)
	assert.Equal(t, "freshapples", result.ClassName)
}

func TestDecideShapeMismatch(t *testing.T) {
	_, err := decide([]float32{0.5, 0.5}, testClasses)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInference))
}

func TestDecideRejectsConfidenceOutOfRange(t *testing.T) {
	_, err := decide([]float32{1.5, -0.4, -0.1}, testClasses)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInference))
}

func writeClassMapping(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index_to_class.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadClassMapping(t *testing.T) {
	path := writeClassMapping(t, `{"0": "freshapples", "1": "rottenapples", "2": "freshbananas"}`)

	mapping, err := LoadClassMapping(path)
	require.NoError(t, err)
	assert.Equal(t, 3, mapping.Len())
	name, ok := mapping.Name(1)
	assert.True(t, ok)
	assert.Equal(t, "rottenapples", name)
}

func TestLoadClassMappingRejectsGaps(t *testing.T) {
	path := writeClassMapping(t, `{"0": "freshapples", "2": "freshbananas"}`)

	_, err := LoadClassMapping(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contiguous")
}

func TestLoadClassMappingRejectsEmpty(t *testing.T) {
	path := writeClassMapping(t, `{}`)

	_, err := LoadClassMapping(path)
	require.Error(t, err)
}

func TestClassMappingNameBounds(t *testing.T) {
	_, ok := testClasses.Name(-1)
	assert.False(t, ok)
	_, ok = testClasses.Name(3)
	assert.False(t, ok)
}
