package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestSet_create(t *testing.T) {
	set := ToSet([]string{"one", "two"})
	assert.True(t, set["one"])
	assert.True(t, set["two"])
	assert.False(t, set["foo"])
}

func TestSet_missing(t *testing.T) {
	set1 := ToSet([]string{"three", "four", "five", "one", "two"})
	set2 := ToSet([]string{"three", "four", "five", "six"})

	result := Missing(set1, set2)

	assert.Len(t, result, 2)
	assert.True(t, result["one"])
	assert.True(t, result["two"])
	assert.False(t, result["six"]) // only one direction
}

func TestSet_missing_givenEmptySet(t *testing.T) {
	empty := ToSet([]string{})
	full := ToSet([]string{"one", "two", "three"})

	assert.Empty(t, Missing(empty, full))
	assert.Len(t, Missing(full, empty), 3)
	assert.Empty(t, Missing(empty, empty))
}

func TestSet_addToSet(t *testing.T) {

	set := NewSet()
	AddToSet(set, "one")
	AddToSet(set, "two", "three")

	assert.True(t, set["one"])
	assert.True(t, set["two"])
	assert.True(t, set["three"])
	assert.False(t, set["foo"])

}
