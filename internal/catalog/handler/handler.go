package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/assets"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog/service"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/logger"
)

var log = logger.Named("http")

// multipart framing and text fields on top of the file itself
const formOverhead = 1 << 20

// RegisterProjectRoutes mounts the catalog API under /api.
func RegisterProjectRoutes(r gin.IRouter, svc service.Service, maxUpload int64) {
	if maxUpload <= 0 {
		maxUpload = assets.DefaultMaxUploadBytes
	}
	h := &projectHandler{svc: svc, maxUpload: maxUpload}

	api := r.Group("/api/projects")
	api.GET("", h.list)
	api.GET("/category/:category", h.listByCategory)
	api.GET("/:id", h.get)
	api.POST("", h.create)
	api.PATCH("/:id", h.update)
	api.DELETE("/:id", h.delete)
}

type projectHandler struct {
	svc       service.Service
	maxUpload int64
}

func (h *projectHandler) list(c *gin.Context) {
	sort, err := catalog.ParseSort(c.Query("sort"))
	if err != nil {
		badRequest(c, err)
		return
	}
	q := catalog.Query{Category: c.Query("category"), Search: c.Query("q"), Sort: sort}
	list, err := h.svc.Query(c.Request.Context(), q)
	if err != nil {
		internalError(c, "Failed to fetch projects", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *projectHandler) listByCategory(c *gin.Context) {
	list, err := h.svc.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		internalError(c, "Failed to fetch projects", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *projectHandler) get(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		internalError(c, "Failed to fetch project", err)
		return
	}
	if p == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, p)
}

// create accepts a multipart form with a "thumbnail" file, or a JSON body
// whose thumbnail is an existing reference.
func (h *projectHandler) create(c *gin.Context) {
	var (
		in     catalog.Input
		upload *assets.Upload
		err    error
	)
	if c.ContentType() == gin.MIMEJSON {
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project data", "error": err.Error()})
			return
		}
	} else {
		in, upload, err = h.readForm(c)
		if err != nil {
			writeError(c, err)
			return
		}
	}

	p, err := h.svc.Create(c.Request.Context(), in, upload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *projectHandler) readForm(c *gin.Context) (catalog.Input, *assets.Upload, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+formOverhead)
	fh, err := c.FormFile("thumbnail")
	if err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.As(err, &mbe):
			return catalog.Input{}, nil, &assets.UploadError{Code: assets.CodeTooLarge, Message: "File too large"}
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			fh = nil
		default:
			return catalog.Input{}, nil, &assets.UploadError{Code: assets.CodeMissingFile, Message: err.Error()}
		}
	}
	upload, err := assets.ReadUpload(fh, h.maxUpload)
	if err != nil {
		return catalog.Input{}, nil, err
	}
	in := catalog.Input{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Tag:         optional(c.PostForm("tag")),
		URL:         c.PostForm("url"),
		VideoLength: optional(c.PostForm("videoLength")),
	}
	return in, upload, nil
}

// optional maps an empty form field to null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (h *projectHandler) update(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var patch catalog.Patch
	// An empty body is an empty patch and only refreshes updatedAt.
	if err := c.ShouldBindJSON(&patch); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project data", "error": err.Error()})
		return
	}
	p, err := h.svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *projectHandler) delete(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	deleted, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		internalError(c, "Failed to delete project", err)
		return
	}
	if !deleted {
		notFound(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func projectID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project ID", "error": catalog.InvalidFormat("id", raw)})
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	var (
		ve *catalog.ValidationError
		ue *assets.UploadError
		we *assets.WriteError
	)
	switch {
	case errors.As(err, &ve):
		badRequest(c, ve)
	case errors.As(err, &ue):
		status := http.StatusBadRequest
		if ue.Code == assets.CodeTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, gin.H{"message": ue.Message, "error": ue.Code})
	case errors.As(err, &we):
		internalError(c, "Failed to store thumbnail", err)
	default:
		internalError(c, "Failed to save project", err)
	}
}

func badRequest(c *gin.Context, err error) {
	var ve *catalog.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project data", "error": ve})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project data", "error": err.Error()})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
}

func internalError(c *gin.Context, msg string, err error) {
	log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": msg})
}

// RegisterAssetRoutes serves stored assets at prefix/*name.
func RegisterAssetRoutes(r gin.IRouter, sink assets.Sink, prefix string) {
	prefix = "/" + strings.Trim(prefix, "/")
	r.GET(prefix+"/*name", func(c *gin.Context) {
		name := strings.TrimPrefix(c.Param("name"), "/")
		if ps, ok := sink.(assets.Presigner); ok {
			u, enabled, err := ps.PresignedURL(c.Request.Context(), name)
			if errors.Is(err, assets.ErrNotFound) {
				c.Status(http.StatusNotFound)
				return
			}
			if err != nil {
				internalError(c, "Failed to read asset", err)
				return
			}
			if enabled {
				c.Redirect(http.StatusFound, u)
				return
			}
		}
		rc, err := sink.Open(c.Request.Context(), name)
		if errors.Is(err, assets.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		if err != nil {
			internalError(c, "Failed to read asset", err)
			return
		}
		defer rc.Close()
		ct := mime.TypeByExtension(path.Ext(name))
		if ct == "" {
			ct = "application/octet-stream"
		}
		c.Header("Cache-Control", "public, max-age=31536000, immutable")
		c.DataFromReader(http.StatusOK, -1, ct, rc, nil)
	})
}
