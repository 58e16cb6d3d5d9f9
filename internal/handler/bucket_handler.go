package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stowage/internal/domain"
	"stowage/internal/service"
)

// BucketHandler handles bucket endpoints.
type BucketHandler struct {
	storageService service.StorageService
}

// NewBucketHandler creates a new BucketHandler.
func NewBucketHandler(storageService service.StorageService) *BucketHandler {
	return &BucketHandler{storageService: storageService}
}

// List handles GET /api/v1/buckets
// @Summary List buckets
// @Tags buckets
// @Produce json
// @Success 200 {object} Response{data=[]domain.Bucket}
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /buckets [get]
func (h *BucketHandler) List(c *gin.Context) {
	buckets, err := h.storageService.ListBuckets(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	if buckets == nil {
		buckets = []domain.Bucket{}
	}
	RespondOK(c, buckets)
}

// Create handles POST /api/v1/buckets
// @Summary Create a bucket
// @Description Create a bucket with a canned ACL. An empty ACL uses the configured default.
// @Tags buckets
// @Accept json
// @Produce json
// @Param request body CreateBucketRequest true "Bucket name and ACL"
// @Success 201 {object} Response "Bucket created"
// @Failure 400 {object} ErrorResponseBody "Invalid name or ACL"
// @Security BearerAuth
// @Router /buckets [post]
func (h *BucketHandler) Create(c *gin.Context) {
	var req CreateBucketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := h.storageService.CreateBucket(c.Request.Context(), req.Name, domain.CannedACL(req.ACL)); err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, gin.H{"name": req.Name})
}

// Delete handles DELETE /api/v1/buckets/:bucket
// @Summary Delete a bucket
// @Description Delete every object in the bucket, then the bucket itself
// @Tags buckets
// @Produce json
// @Param bucket path string true "Bucket name"
// @Success 200 {object} Response "Bucket deleted"
// @Failure 404 {object} ErrorResponseBody "Bucket not found"
// @Security BearerAuth
// @Router /buckets/{bucket} [delete]
func (h *BucketHandler) Delete(c *gin.Context) {
	if err := h.storageService.DeleteBucket(c.Request.Context(), c.Param("bucket")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "bucket deleted"})
}
