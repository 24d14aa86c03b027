package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnconnectedPool(t *testing.T) {
	db := NewPostgresDB(&DBConfig{Host: "localhost", Port: 5432})

	stats, err := db.Stats()
	assert.Nil(t, stats)
	assert.ErrorContains(t, err, "not initialized")

	assert.Error(t, db.Ping(context.Background()))
	assert.NoError(t, db.Close())
}
