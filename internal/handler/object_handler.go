package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stowage/internal/domain"
	"stowage/internal/service"
)

// ObjectHandler handles object endpoints. Object keys travel in the "key"
// query parameter so they may contain slashes.
type ObjectHandler struct {
	storageService service.StorageService
}

// NewObjectHandler creates a new ObjectHandler.
func NewObjectHandler(storageService service.StorageService) *ObjectHandler {
	return &ObjectHandler{storageService: storageService}
}

// List handles GET /api/v1/buckets/:bucket/objects
// @Summary List objects
// @Description List every object under an optional prefix
// @Tags objects
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param prefix query string false "Key prefix"
// @Success 200 {object} Response{data=[]domain.ObjectInfo}
// @Failure 404 {object} ErrorResponseBody "Bucket not found"
// @Security BearerAuth
// @Router /buckets/{bucket}/objects [get]
func (h *ObjectHandler) List(c *gin.Context) {
	objects, err := h.storageService.ListObjects(c.Request.Context(), c.Param("bucket"), c.Query("prefix"))
	if err != nil {
		HandleError(c, err)
		return
	}
	if objects == nil {
		objects = []domain.ObjectInfo{}
	}
	RespondOK(c, objects)
}

// Export handles GET /api/v1/buckets/:bucket/objects/export
// @Summary Export an object listing
// @Tags objects
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param bucket path string true "Bucket name"
// @Param prefix query string false "Key prefix"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponseBody "Unsupported format"
// @Security BearerAuth
// @Router /buckets/{bucket}/objects/export [get]
func (h *ObjectHandler) Export(c *gin.Context) {
	bucket := c.Param("bucket")
	format := domain.ExportFormat(c.DefaultQuery("format", string(domain.ExportCSV)))

	// Rendered into memory first so a listing failure still yields a JSON error.
	var buf bytes.Buffer
	if err := h.storageService.ExportObjects(c.Request.Context(), bucket, c.Query("prefix"), format, &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("%s_objects_%s.%s", bucket, time.Now().UTC().Format("20060102_150405"), format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// Upload handles POST /api/v1/buckets/:bucket/objects
// @Summary Upload an object
// @Tags objects
// @Accept multipart/form-data
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param file formData file true "File to upload"
// @Param key formData string false "Object key; defaults to the file name"
// @Success 201 {object} Response{data=domain.StoredObject}
// @Failure 400 {object} ErrorResponseBody "Missing file"
// @Security BearerAuth
// @Router /buckets/{bucket}/objects [post]
func (h *ObjectHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	key := c.PostForm("key")
	if key == "" {
		key = header.Filename
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	obj, err := h.storageService.Upload(c.Request.Context(), service.UploadInput{
		Bucket:      c.Param("bucket"),
		Key:         key,
		Body:        file,
		ContentType: contentType,
		Size:        header.Size,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, obj)
}

// Fetch handles POST /api/v1/buckets/:bucket/objects/fetch
// @Summary Store a remote resource
// @Description Download an http(s) URL and upload it as folder + key
// @Tags objects
// @Accept json
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param request body FetchObjectRequest true "Source and destination"
// @Success 201 {object} Response{data=domain.StoredObject}
// @Failure 413 {object} ErrorResponseBody "Remote source too large"
// @Failure 502 {object} ErrorResponseBody "Remote source unavailable"
// @Security BearerAuth
// @Router /buckets/{bucket}/objects/fetch [post]
func (h *ObjectHandler) Fetch(c *gin.Context) {
	var req FetchObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	obj, err := h.storageService.PutFromURL(c.Request.Context(), service.PutFromURLInput{
		Bucket:    c.Param("bucket"),
		SourceURL: req.SourceURL,
		Key:       req.Key,
		Folder:    req.Folder,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, obj)
}

// Head handles GET /api/v1/buckets/:bucket/object
// @Summary Get object metadata
// @Tags objects
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param key query string true "Object key"
// @Success 200 {object} Response{data=domain.ObjectHead}
// @Failure 404 {object} ErrorResponseBody "Object not found"
// @Security BearerAuth
// @Router /buckets/{bucket}/object [get]
func (h *ObjectHandler) Head(c *gin.Context) {
	head, err := h.storageService.HeadObject(c.Request.Context(), c.Param("bucket"), c.Query("key"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, head)
}

// Exists handles GET /api/v1/buckets/:bucket/object/exists
// @Summary Check whether an object exists
// @Tags objects
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param key query string true "Object key"
// @Success 200 {object} Response{data=ExistsResponse}
// @Security BearerAuth
// @Router /buckets/{bucket}/object/exists [get]
func (h *ObjectHandler) Exists(c *gin.Context) {
	ok, err := h.storageService.DoesObjectExist(c.Request.Context(), c.Param("bucket"), c.Query("key"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, ExistsResponse{Exists: ok})
}

// Size handles GET /api/v1/buckets/:bucket/object/size
// @Summary Get object size
// @Tags objects
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param key query string true "Object key"
// @Success 200 {object} Response{data=SizeResponse}
// @Failure 404 {object} ErrorResponseBody "Object not found"
// @Security BearerAuth
// @Router /buckets/{bucket}/object/size [get]
func (h *ObjectHandler) Size(c *gin.Context) {
	size, err := h.storageService.FileSize(c.Request.Context(), c.Param("bucket"), c.Query("key"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, SizeResponse{Size: size})
}

// SignedURL handles GET /api/v1/buckets/:bucket/object/url
// @Summary Get a presigned download URL
// @Tags objects
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param key query string true "Object key"
// @Param expiry query string false "Lifetime as a Go duration, e.g. 10m" default(3m)
// @Success 200 {object} Response{data=SignedURLResponse}
// @Failure 400 {object} ErrorResponseBody "Invalid expiry"
// @Security BearerAuth
// @Router /buckets/{bucket}/object/url [get]
func (h *ObjectHandler) SignedURL(c *gin.Context) {
	var expiry time.Duration
	if raw := c.Query("expiry"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			RespondError(c, http.StatusBadRequest, "INVALID_EXPIRY", "expiry must be a positive duration such as 90s or 10m")
			return
		}
		expiry = d
	}

	u, err := h.storageService.SignedURL(c.Request.Context(), c.Param("bucket"), c.Query("key"), expiry)
	if err != nil {
		HandleError(c, err)
		return
	}
	resp := SignedURLResponse{URL: u}
	if expiry > 0 {
		resp.ExpiresIn = expiry.String()
	}
	RespondOK(c, resp)
}

// Delete handles DELETE /api/v1/buckets/:bucket/object
// @Summary Delete an object
// @Tags objects
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param key query string true "Object key"
// @Success 200 {object} Response "Object deleted"
// @Security BearerAuth
// @Router /buckets/{bucket}/object [delete]
func (h *ObjectHandler) Delete(c *gin.Context) {
	if err := h.storageService.DeleteObject(c.Request.Context(), c.Param("bucket"), c.Query("key")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "object deleted"})
}

// DeleteBatch handles POST /api/v1/buckets/:bucket/objects/delete
// @Summary Delete several objects
// @Tags objects
// @Accept json
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param request body DeleteObjectsRequest true "Keys to delete"
// @Success 200 {object} Response{data=CountResponse}
// @Security BearerAuth
// @Router /buckets/{bucket}/objects/delete [post]
func (h *ObjectHandler) DeleteBatch(c *gin.Context) {
	var req DeleteObjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	n, err := h.storageService.DeleteObjects(c.Request.Context(), c.Param("bucket"), req.Keys)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, CountResponse{Count: n})
}

// Copy handles POST /api/v1/buckets/:bucket/object/copy
// @Summary Copy an object
// @Tags objects
// @Accept json
// @Produce json
// @Param bucket path string true "Source bucket name"
// @Param request body CopyObjectRequest true "Source key and destination"
// @Success 200 {object} Response "Object copied"
// @Failure 404 {object} ErrorResponseBody "Source not found"
// @Security BearerAuth
// @Router /buckets/{bucket}/object/copy [post]
func (h *ObjectHandler) Copy(c *gin.Context) {
	var req CopyObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := h.storageService.CopyObject(c.Request.Context(), c.Param("bucket"), req.Key, req.DstBucket, req.DstKey); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"bucket": req.DstBucket, "key": req.DstKey})
}

// Rename handles POST /api/v1/buckets/:bucket/object/rename
// @Summary Rename an object
// @Description Copy to the new key, then delete the old key
// @Tags objects
// @Accept json
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param request body RenameObjectRequest true "Old and new key"
// @Success 200 {object} Response "Object renamed"
// @Failure 404 {object} ErrorResponseBody "Object not found"
// @Security BearerAuth
// @Router /buckets/{bucket}/object/rename [post]
func (h *ObjectHandler) Rename(c *gin.Context) {
	var req RenameObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := h.storageService.RenameObject(c.Request.Context(), c.Param("bucket"), req.Key, req.NewKey); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"key": req.NewKey})
}
