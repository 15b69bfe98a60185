package handler

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/port/http/middleware"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/repository"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/service"
	"github.com/go-chi/chi/v5"
)

const (
	imageFormField = "image"
	stockIncrease  = "increase"
)

type PlantHandler struct {
	plants         service.PlantService
	inventory      service.InventoryService
	maxUploadBytes int64
	log            logger.Logger
}

func NewPlantHandler(plants service.PlantService, inventory service.InventoryService, maxUploadBytes int64, log logger.Logger) *PlantHandler {
	return &PlantHandler{
		plants:         plants,
		inventory:      inventory,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

type adjustQuantityRequest struct {
	QuantityToUpdate int    `json:"quantityToUpdate"`
	Status           string `json:"status"`
}

type adjustQuantityResponse struct {
	mutationResult
	Quantity int `json:"quantity"`
}

type uploadImageResponse struct {
	URL string `json:"url"`
}

// Create handles POST /plants. The seller is always the caller.
func (h *PlantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var plant entity.Plant
	if err := decodeJSON(r, &plant); err != nil {
		writeError(w, h.log, r, err)
		return
	}

	created, err := h.plants.Create(r.Context(), middleware.CallerEmail(r.Context()), plant)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResult{Acknowledged: true, InsertedID: created.ID})
}

func (h *PlantHandler) List(w http.ResponseWriter, r *http.Request) {
	plants, err := h.plants.List(r.Context())
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	if plants == nil {
		plants = []entity.Plant{}
	}
	writeJSON(w, http.StatusOK, plants)
}

func (h *PlantHandler) Get(w http.ResponseWriter, r *http.Request) {
	plant, err := h.plants.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plant)
}

// AdjustQuantity handles PATCH /plants/quantity/{id}. "increase" credits
// stock, any other status debits it.
func (h *PlantHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	var req adjustQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	if req.QuantityToUpdate <= 0 {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "quantityToUpdate must be positive"})
		return
	}

	delta := -req.QuantityToUpdate
	if req.Status == stockIncrease {
		delta = req.QuantityToUpdate
	}

	quantity, err := h.inventory.AdjustQuantity(r.Context(), chi.URLParam(r, "id"), delta)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, adjustQuantityResponse{
		mutationResult: mutationResult{Acknowledged: true, ModifiedCount: 1},
		Quantity:       quantity,
	})
}

// UploadImage handles POST /plants/image with a multipart "image" field.
func (h *PlantHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid or oversized multipart body"})
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(imageFormField)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "image file is required"})
		return
	}
	defer file.Close()

	url, err := h.plants.UploadImage(r.Context(), repository.UploadImageParams{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadImageResponse{URL: url})
}
