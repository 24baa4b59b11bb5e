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

const servicesIconFolder = "services/icons"

// GET /services
func GetServices() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("services")

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

		filter := bson.M{"isActive": true}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			filter["name"] = bson.M{"$regex": q, "$options": "i"}
		}

		opts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "name", Value: 1}})

		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.Service, 0)
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

// GET /services/:id
func GetService() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("services")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var svc models.Service
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&svc); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
			return
		}

		c.JSON(http.StatusOK, svc)
	}
}

// POST /admin/services — multipart: "data" JSON field + optional "icon" file
func AddService(storageCfg config.StorageConfig, iconValidator *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("services")

		var body dto.CreateServiceDTO
		if err := json.Unmarshal([]byte(c.PostForm("data")), &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data field: " + err.Error()})
			return
		}

		body.Name = strings.TrimSpace(body.Name)
		if len(body.Name) < 3 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name must be at least 3 characters"})
			return
		}
		if body.Slug = strings.TrimSpace(body.Slug); body.Slug == "" {
			body.Slug = utils.GenerateSlug(body.Name)
		}

		now := time.Now().UTC()
		doc := models.Service{
			ID:          bson.NewObjectID(),
			Name:        body.Name,
			Slug:        body.Slug,
			Description: body.Description,
			IsActive:    body.IsActive,
			SortOrder:   body.SortOrder,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if fh, err := c.FormFile("icon"); err == nil {
			icon, err := uploadImage(ctx, storageCfg, fh, iconValidator, servicesIconFolder)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			doc.Icon = icon
		}

		if _, err := col.InsertOne(ctx, doc); err != nil {
			deleteStorageObject(ctx, storageCfg, doc.Icon)
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "slug already exists", "field": "slug"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, doc)
	}
}

// PATCH /admin/services/:id — multipart: "data" JSON field + optional "icon" file
func UpdateService(storageCfg config.StorageConfig, iconValidator *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("services")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var existing models.Service
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}

		if data := c.PostForm("data"); data != "" {
			var body dto.UpdateServiceDTO
			if err := json.Unmarshal([]byte(data), &body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data field: " + err.Error()})
				return
			}
			if body.Name != nil {
				set["name"] = strings.TrimSpace(*body.Name)
			}
			if body.Slug != nil {
				set["slug"] = strings.TrimSpace(*body.Slug)
			}
			if body.Description != nil {
				set["description"] = *body.Description
			}
			if body.IsActive != nil {
				set["isActive"] = *body.IsActive
			}
			if body.SortOrder != nil {
				set["sortOrder"] = *body.SortOrder
			}
		}

		var oldIcon *models.StorageObject
		if fh, err := c.FormFile("icon"); err == nil {
			icon, err := uploadImage(ctx, storageCfg, fh, iconValidator, servicesIconFolder)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			set["icon"] = icon
			oldIcon = existing.Icon
		}

		if _, err := col.UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "slug already exists", "field": "slug"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		deleteStorageObject(ctx, storageCfg, oldIcon)

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// DELETE /admin/services/:id
func DeleteService(storageCfg config.StorageConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("services")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var existing models.Service
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
			return
		}

		if _, err := col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// document is gone; the storage delete is best-effort
		deleteStorageObject(ctx, storageCfg, existing.Icon)

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
