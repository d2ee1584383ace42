package routes

import (
	"errors"
	"net/http"

	"github.com/linkscope/backend/internal/server/middleware"
	"github.com/linkscope/backend/internal/storage"
	"github.com/linkscope/backend/pkg/export"
	"github.com/linkscope/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ExportGraphHandler serializes the stored graph into an interchange format
func ExportGraphHandler(c echo.Context) error {
	type exportParams struct {
		ProjectID int64  `param:"id" validate:"required,numeric"`
		Format    string `query:"format"`
		Download  bool   `query:"download"`
	}

	type exportResponse struct {
		Message string `json:"message"`
		Key     string `json:"key,omitempty"`
		URL     string `json:"url,omitempty"`
	}

	params := new(exportParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, exportResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, exportResponse{Message: "Invalid request body"})
	}
	if params.Format == "" {
		params.Format = export.FormatGraphML
	}

	g, err := fetchGraph(c, params.ProjectID)
	if g == nil {
		return err
	}

	data, err := export.Export(*g, params.Format)
	if err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			return c.JSON(http.StatusBadRequest, exportResponse{Message: "Unknown export format"})
		}
		logger.Error("Failed to export graph", "err", err)
		return c.JSON(http.StatusInternalServerError, exportResponse{Message: "Internal server error"})
	}
	contentType := export.ContentType(params.Format)

	if !params.Download {
		return c.Blob(http.StatusOK, contentType, data)
	}

	ctx := c.Request().Context()
	s3Client := c.(*middleware.AppContext).App.S3
	key, err := storage.PutExport(ctx, s3Client, params.ProjectID, g.ID, params.Format, contentType, data)
	if err != nil {
		logger.Error("Failed to upload export", "err", err)
		return c.JSON(http.StatusInternalServerError, exportResponse{Message: "Internal server error"})
	}
	url, err := storage.GenerateDownloadLink(ctx, s3Client, key)
	if err != nil {
		logger.Error("Failed to presign export", "err", err)
		return c.JSON(http.StatusInternalServerError, exportResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, exportResponse{
		Message: "Export uploaded successfully",
		Key:     key,
		URL:     url,
	})
}
