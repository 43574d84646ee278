package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"goship/internal/domain"
	apperror "goship/internal/errors"
)

func TestBrandScope(t *testing.T) {
	brand := domain.Principal{Role: domain.RoleBrand, BrandID: "b1"}

	got, err := BrandScope(brand, "")
	assert.NoError(t, err)
	assert.Equal(t, "b1", got)

	_, err = BrandScope(brand, "b2")
	assert.IsType(t, &apperror.ForbiddenError{}, err)

	got, err = BrandScope(domain.Principal{Role: domain.RoleAdmin}, " b9 ")
	assert.NoError(t, err)
	assert.Equal(t, "b9", got)

	_, err = BrandScope(domain.Principal{Role: domain.RoleAdmin}, "")
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = BrandScope(domain.Principal{Role: domain.RoleDistributor}, "b1")
	assert.IsType(t, &apperror.ForbiddenError{}, err)
}
