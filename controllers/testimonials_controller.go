package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nkpol/nkpolbackend/config"
	"github.com/nkpol/nkpolbackend/database"
	"github.com/nkpol/nkpolbackend/dto"
	"github.com/nkpol/nkpolbackend/models"
	"github.com/nkpol/nkpolbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const testimonialsPhotoFolder = "testimonials"

// GET /testimonials
func GetTestimonials() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("testimonials")

		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), 50)
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 50
		}
		skip := int64((page - 1) * limit)

		opts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := col.Find(ctx, bson.M{"isActive": true}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.Testimonial, 0)
		if err := cursor.All(ctx, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// POST /admin/testimonials — multipart: "data" JSON field + optional "photo" file
func AddTestimonial(storageCfg config.StorageConfig, photoValidator *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("testimonials")

		var body dto.CreateTestimonialDTO
		if err := json.Unmarshal([]byte(c.PostForm("data")), &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data field: " + err.Error()})
			return
		}
		if strings.TrimSpace(body.Author) == "" || len(strings.TrimSpace(body.Quote)) < 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "author and quote are required"})
			return
		}

		now := time.Now().UTC()
		doc := models.Testimonial{
			ID:        bson.NewObjectID(),
			Author:    strings.TrimSpace(body.Author),
			Company:   strings.TrimSpace(body.Company),
			Quote:     strings.TrimSpace(body.Quote),
			IsActive:  body.IsActive,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if fh, err := c.FormFile("photo"); err == nil {
			photo, err := uploadImage(ctx, storageCfg, fh, photoValidator, testimonialsPhotoFolder)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			doc.Photo = photo
		}

		if _, err := col.InsertOne(ctx, doc); err != nil {
			deleteStorageObject(ctx, storageCfg, doc.Photo)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, doc)
	}
}

// PATCH /admin/testimonials/:id
func UpdateTestimonial(storageCfg config.StorageConfig, photoValidator *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("testimonials")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var existing models.Testimonial
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "testimonial not found"})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}

		if data := c.PostForm("data"); data != "" {
			var body dto.UpdateTestimonialDTO
			if err := json.Unmarshal([]byte(data), &body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data field: " + err.Error()})
				return
			}
			if body.Author != nil {
				set["author"] = strings.TrimSpace(*body.Author)
			}
			if body.Company != nil {
				set["company"] = strings.TrimSpace(*body.Company)
			}
			if body.Quote != nil {
				set["quote"] = strings.TrimSpace(*body.Quote)
			}
			if body.IsActive != nil {
				set["isActive"] = *body.IsActive
			}
		}

		var oldPhoto *models.StorageObject
		if fh, err := c.FormFile("photo"); err == nil {
			photo, err := uploadImage(ctx, storageCfg, fh, photoValidator, testimonialsPhotoFolder)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			set["photo"] = photo
			oldPhoto = existing.Photo
		}

		if _, err := col.UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		deleteStorageObject(ctx, storageCfg, oldPhoto)

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// DELETE /admin/testimonials/:id
func DeleteTestimonial(storageCfg config.StorageConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("testimonials")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var existing models.Testimonial
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "testimonial not found"})
			return
		}

		if _, err := col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		deleteStorageObject(ctx, storageCfg, existing.Photo)

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
