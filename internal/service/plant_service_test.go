package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPlantService_Create_ForcesCallerAsSeller(t *testing.T) {
	repo := newMemPlantRepo()
	svc := NewPlantService(repo, nil, logger.NewNop())

	plant, err := svc.Create(context.Background(), "seller@x", entity.Plant{
		ID:       "spoofed",
		Name:     "Aloe",
		Price:    8,
		Quantity: 4,
		Seller:   entity.SellerInfo{Name: "S", Email: "someone-else@x"},
	})

	require.NoError(t, err)
	assert.NotEqual(t, "spoofed", plant.ID)
	assert.Equal(t, "seller@x", plant.Seller.Email)
	assert.Equal(t, "S", plant.Seller.Name)

	stored, err := svc.Get(context.Background(), plant.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Quantity)
}

func TestPlantService_Create_Invalid(t *testing.T) {
	svc := NewPlantService(newMemPlantRepo(), nil, logger.NewNop())

	_, err := svc.Create(context.Background(), "seller@x", entity.Plant{Name: "", Price: 1})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = svc.Create(context.Background(), "seller@x", entity.Plant{Name: "Aloe", Quantity: -1})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestPlantService_Get_NotFound(t *testing.T) {
	svc := NewPlantService(newMemPlantRepo(), nil, logger.NewNop())
	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestPlantService_UploadImage(t *testing.T) {
	ctx := context.Background()
	params := repository.UploadImageParams{FileName: "a.png", ContentType: "image/png", Size: 3, Body: strings.NewReader("png")}

	_, err := NewPlantService(newMemPlantRepo(), nil, logger.NewNop()).UploadImage(ctx, params)
	assert.ErrorIs(t, err, entity.ErrUnavailable)

	storage := new(MockImageStorage)
	storage.On("Upload", ctx, mock.Anything).Return("http://minio:9000/plant-images/plants/x.png", nil).Once()
	url, err := NewPlantService(newMemPlantRepo(), storage, logger.NewNop()).UploadImage(ctx, params)
	require.NoError(t, err)
	assert.Contains(t, url, "plant-images")

	storage.On("Upload", ctx, mock.Anything).Return("", errors.New("access denied")).Once()
	_, err = NewPlantService(newMemPlantRepo(), storage, logger.NewNop()).UploadImage(ctx, params)
	assert.Error(t, err)

	empty := params
	empty.Size = 0
	_, err = NewPlantService(newMemPlantRepo(), storage, logger.NewNop()).UploadImage(ctx, empty)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}
