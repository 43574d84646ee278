package database_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"goship/internal/pkg/database"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: "23505", Constraint: "idx_boxes_awb"}

	assert.True(t, database.IsUniqueViolation(dup))
	assert.True(t, database.IsUniqueViolation(fmt.Errorf("insert box: %w", dup)))

	assert.False(t, database.IsUniqueViolation(&pq.Error{Code: "23503"})) // foreign key
	assert.False(t, database.IsUniqueViolation(errors.New("connection reset")))
	assert.False(t, database.IsUniqueViolation(nil))
}
