package httpserver

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jewelstore/internal/media"
)

func uploadMediaHandler(mediaSvc MediaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			badRequest(c, "missing file")
			return
		}
		if fileHeader.Size > media.MaxUploadBytes {
			badRequest(c, "file too large")
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			writeError(c, err)
			return
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, media.MaxUploadBytes+1))
		if err != nil {
			writeError(c, err)
			return
		}

		obj, err := mediaSvc.Upload(c.Request.Context(), c.PostForm("folder"), fileHeader.Filename, data)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, obj)
	}
}

type importMediaRequest struct {
	URLs   []string `json:"urls"`
	Folder string   `json:"folder"`
}

func importMediaHandler(mediaSvc MediaService, catalogImages CatalogImages) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req importMediaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		if len(req.URLs) == 0 {
			badRequest(c, "no urls given")
			return
		}

		known := map[string]bool{}
		if catalogImages != nil {
			urls, err := catalogImages.AllImageURLs(c.Request.Context())
			if err != nil {
				writeError(c, err)
				return
			}
			for _, u := range urls {
				known[u] = true
			}
		}

		results := make([]media.ImportResult, 0, len(req.URLs))
		for _, rawURL := range req.URLs {
			res, err := mediaSvc.ImportFromURL(c.Request.Context(), req.Folder, rawURL, known)
			if err != nil {
				results = append(results, media.ImportResult{URL: rawURL, Skipped: false, Reason: err.Error()})
				continue
			}
			results = append(results, *res)
		}
		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}

func listMediaHandler(mediaSvc MediaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		objects, err := mediaSvc.List(c.Request.Context(), c.Query("folder"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"objects": objects})
	}
}

func deleteMediaHandler(mediaSvc MediaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		objPath := strings.TrimPrefix(c.Param("object"), "/")
		if objPath == "" {
			badRequest(c, "missing object path")
			return
		}
		if err := mediaSvc.Delete(c.Request.Context(), objPath); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
