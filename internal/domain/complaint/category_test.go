package complaint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
)

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("  Water ")
	assert.NoError(t, err)
	assert.Equal(t, CategoryWater, c)

	c, err = ParseCategory("ELECTRICITY")
	assert.NoError(t, err)
	assert.Equal(t, CategoryElectricity, c)

	_, err = ParseCategory("plumbing")
	assert.True(t, errors.IsCode(err, errors.ErrCodeCategoryUnknown))
}

func TestNewCategory_Validation(t *testing.T) {
	_, err := NewCategory("plumbing", 24, 5, nil)
	assert.Error(t, err)

	_, err = NewCategory(CategoryWater, 0, 5, nil)
	assert.Error(t, err)

	_, err = NewCategory(CategoryWater, 24, 11, nil)
	assert.Error(t, err)

	c, err := NewCategory(CategoryWater, 24, 8, []string{"leak", "pipe"})
	assert.NoError(t, err)
	assert.Equal(t, 24, c.SLAHours)
}

func TestBaseUrgencyFor(t *testing.T) {
	assert.Equal(t, 8.0, BaseUrgencyFor(CategoryWater))
	assert.Equal(t, 6.0, BaseUrgencyFor(CategoryRoads))
	assert.Equal(t, 4.0, BaseUrgencyFor(CategoryGarbage))
	assert.Equal(t, 8.0, BaseUrgencyFor(CategoryElectricity))
	assert.Equal(t, 3.0, BaseUrgencyFor(CategoryOthers))
	assert.Equal(t, 3.0, BaseUrgencyFor(CategoryName("bogus")))
}
