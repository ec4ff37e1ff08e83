package memory

import (
	"context"
	"testing"

	"blog-backend/application/ports"
	"blog-backend/infrastructure/persistence/persistencetest"

	"github.com/stretchr/testify/assert"
)

func TestPostRepository_Contract(t *testing.T) {
	persistencetest.RunPostRepositoryContract(t, func(t *testing.T) ports.PostRepository {
		return NewPostRepository()
	})
}

func TestPostRepository_Ping(t *testing.T) {
	assert.NoError(t, NewPostRepository().Ping(context.Background()))
}
