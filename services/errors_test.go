package services

import (
	"errors"
	"fmt"
	"testing"

	"campus-connect/repository"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(conflict("taken")))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrapped: %w", notFound("gone"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestFromRepo(t *testing.T) {
	assert.NoError(t, fromRepo(nil, "user"))
	assert.Equal(t, KindNotFound, KindOf(fromRepo(repository.ErrNotFound, "user")))
	assert.Equal(t, KindConflict, KindOf(fromRepo(repository.ErrDuplicate, "user")))
	assert.Equal(t, KindConflict, KindOf(fromRepo(repository.ErrConflict, "user")))

	cause := errors.New("connection reset")
	err := fromRepo(cause, "user")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.ErrorIs(t, err, cause)
}
