package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewSettingsRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewSettingsRepository(pool)
	assert.NotNil(t, repo)
}
