package repository

import (
	"context"
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressRepository_CRUD(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewAddressRepository(db)
	ctx := context.Background()

	a := &domain.Address{UserID: "u1", Address: "12 Main St", City: "Pune", Pincode: "411001", Phone: "9999999999"}
	require.NoError(t, repo.Create(ctx, a))
	require.NotEmpty(t, a.ID)

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	a.City = "Mumbai"
	require.NoError(t, repo.Update(ctx, a))
	list, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", list[0].City)

	// another user cannot touch it
	other := *a
	other.UserID = "u2"
	assert.ErrorIs(t, repo.Update(ctx, &other), ErrAddressNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "u2", a.ID), ErrAddressNotFound)

	require.NoError(t, repo.Delete(ctx, "u1", a.ID))
	list, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFeatureRepository_CRUD(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewFeatureRepository(db)
	ctx := context.Background()

	f := &domain.FeatureImage{Image: "https://cdn.example.com/banner.png"}
	require.NoError(t, repo.Create(ctx, f))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.Image, list[0].Image)

	require.NoError(t, repo.Delete(ctx, f.ID))
	assert.ErrorIs(t, repo.Delete(ctx, f.ID), ErrFeatureNotFound)
}
