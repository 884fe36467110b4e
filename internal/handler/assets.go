package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/kyiku/hackz-valentine-back/internal/response"
	"github.com/kyiku/hackz-valentine-back/internal/storage"
)

// AssetSource returns decoration images by name.
type AssetSource interface {
	Get(name string) ([]byte, string, error)
	List() ([]string, error)
}

// AssetHandler proxies decoration images.
type AssetHandler struct {
	assets AssetSource
	logger *zap.Logger
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assets AssetSource, logger *zap.Logger) *AssetHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetHandler{assets: assets, logger: logger}
}

// Serve answers GET /assets/*.
func (h *AssetHandler) Serve(c echo.Context) error {
	name := c.Param("*")

	data, contentType, err := h.assets.Get(name)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			h.logger.Warn("asset read failed", zap.String("name", name), zap.Error(err))
		}
		return response.ErrorWithCode(c, http.StatusNotFound, response.CodeNotFound, "Risorsa non trovata")
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, contentType, data)
}

// List answers GET /api/assets.
func (h *AssetHandler) List(c echo.Context) error {
	names, err := h.assets.List()
	if err != nil {
		h.logger.Warn("asset list failed", zap.Error(err))
		return response.Error(c, http.StatusBadGateway, "Elenco non disponibile")
	}
	return response.Success(c, map[string]interface{}{
		"assets": names,
	})
}
