package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nkpol/nkpolbackend/config"
	"github.com/nkpol/nkpolbackend/database"
	"github.com/nkpol/nkpolbackend/models"
	"github.com/nkpol/nkpolbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const galleryFolder = "gallery"

// GET /gallery
func GetGallery() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("gallery")

		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), 50)
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 50
		}
		if limit > 200 {
			limit = 200
		}
		skip := int64((page - 1) * limit)

		filter := bson.M{}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["category"] = category
		}

		opts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "createdAt", Value: -1}})

		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.GalleryImage, 0)
		if err := cursor.All(ctx, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		total, err := col.CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items": items,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}

// POST /admin/gallery — multipart: "images" files + optional "category" field.
// Each file succeeds or fails on its own; one bad file never aborts the
// batch. The response carries per-file results plus summary counts.
func UploadGalleryImages(storageCfg config.StorageConfig, imageValidator *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("gallery")

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		files := form.File["images"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no images provided"})
			return
		}

		category := strings.TrimSpace(c.PostForm("category"))

		uploaded := make([]models.GalleryImage, 0, len(files))
		failed := make([]gin.H, 0)

		for _, fh := range files {
			obj, err := uploadImage(ctx, storageCfg, fh, imageValidator, galleryFolder)
			if err != nil {
				failed = append(failed, gin.H{"fileName": fh.Filename, "error": err.Error()})
				continue
			}

			doc := models.GalleryImage{
				ID:        bson.NewObjectID(),
				Title:     strings.TrimSuffix(fh.Filename, extOf(fh.Filename)),
				Category:  category,
				Image:     *obj,
				CreatedAt: time.Now().UTC(),
			}
			if _, err := col.InsertOne(ctx, doc); err != nil {
				deleteStorageObject(ctx, storageCfg, obj)
				failed = append(failed, gin.H{"fileName": fh.Filename, "error": err.Error()})
				continue
			}
			uploaded = append(uploaded, doc)
		}

		status := http.StatusCreated
		if len(uploaded) == 0 {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"uploadedCount": len(uploaded),
			"failedCount":   len(failed),
			"items":         uploaded,
			"errors":        failed,
		})
	}
}

// DELETE /admin/gallery/:id
func DeleteGalleryImage(storageCfg config.StorageConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("gallery")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var existing models.GalleryImage
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
			return
		}

		if _, err := col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		deleteStorageObject(ctx, storageCfg, &existing.Image)

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func extOf(fileName string) string {
	if i := strings.LastIndex(fileName, "."); i != -1 {
		return fileName[i:]
	}
	return ""
}
