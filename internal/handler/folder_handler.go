package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stowage/internal/service"
)

// FolderHandler handles emulated folder endpoints.
type FolderHandler struct {
	storageService service.StorageService
}

// NewFolderHandler creates a new FolderHandler.
func NewFolderHandler(storageService service.StorageService) *FolderHandler {
	return &FolderHandler{storageService: storageService}
}

// Create handles POST /api/v1/buckets/:bucket/folders
// @Summary Create a folder
// @Description Write a zero-byte marker object whose key ends in "/"
// @Tags folders
// @Accept json
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param request body CreateFolderRequest true "Folder path"
// @Success 201 {object} Response{data=FolderResponse}
// @Security BearerAuth
// @Router /buckets/{bucket}/folders [post]
func (h *FolderHandler) Create(c *gin.Context) {
	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	key, err := h.storageService.CreateFolder(c.Request.Context(), c.Param("bucket"), req.Folder)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, FolderResponse{Key: key})
}

// Delete handles DELETE /api/v1/buckets/:bucket/folders
// @Summary Delete a folder and its contents
// @Tags folders
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param folder query string true "Folder path"
// @Success 200 {object} Response{data=CountResponse}
// @Security BearerAuth
// @Router /buckets/{bucket}/folders [delete]
func (h *FolderHandler) Delete(c *gin.Context) {
	n, err := h.storageService.DeleteFolder(c.Request.Context(), c.Param("bucket"), c.Query("folder"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, CountResponse{Count: n})
}

// Exists handles GET /api/v1/buckets/:bucket/folders/exists
// @Summary Check whether a folder exists
// @Tags folders
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param path query string false "Prefix to search under"
// @Param folder query string true "Full folder path, including path"
// @Success 200 {object} Response{data=ExistsResponse}
// @Security BearerAuth
// @Router /buckets/{bucket}/folders/exists [get]
func (h *FolderHandler) Exists(c *gin.Context) {
	ok, err := h.storageService.DoesFolderExist(c.Request.Context(), c.Param("bucket"), c.Query("path"), c.Query("folder"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, ExistsResponse{Exists: ok})
}
