package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nkpol/nkpolbackend/config"
	"github.com/nkpol/nkpolbackend/database"
	"github.com/nkpol/nkpolbackend/dto"
	"github.com/nkpol/nkpolbackend/models"
	"github.com/nkpol/nkpolbackend/storage"
	"github.com/nkpol/nkpolbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const logoFolder = "logo"

// GET /settings
func GetSettings() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("settings")

		var settings models.SiteSettings
		err := col.FindOne(ctx, bson.M{"_id": models.SiteSettingsID}).Decode(&settings)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusOK, models.SiteSettings{ID: models.SiteSettingsID})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, settings)
	}
}

// PATCH /admin/settings
func UpdateSettings() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("settings")

		var body dto.UpdateSettingsDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
		if body.CompanyName != nil {
			set["companyName"] = *body.CompanyName
		}
		if body.Email != nil {
			set["email"] = *body.Email
		}
		if body.Phone != nil {
			set["phone"] = *body.Phone
		}
		if body.Address != nil {
			set["address"] = *body.Address
		}

		opts := options.UpdateOne().SetUpsert(true)
		if _, err := col.UpdateByID(ctx, models.SiteSettingsID, bson.M{"$set": set}, opts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// POST /admin/settings/logo — multipart: "logo" file. Replaces the site
// logo; the previous logo object is deleted best-effort.
func UploadLogo(storageCfg config.StorageConfig, logoValidator *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("settings")

		fh, err := c.FormFile("logo")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing logo file"})
			return
		}

		logo, err := uploadImage(ctx, storageCfg, fh, logoValidator, logoFolder)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var existing models.SiteSettings
		_ = col.FindOne(ctx, bson.M{"_id": models.SiteSettingsID}).Decode(&existing)

		_, err = col.UpdateByID(ctx, models.SiteSettingsID, bson.M{
			"$set": bson.M{
				"logo":      logo,
				"updatedAt": time.Now().UTC(),
			},
		}, options.UpdateOne().SetUpsert(true))
		if err != nil {
			deleteStorageObject(ctx, storageCfg, logo)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		deleteStorageObject(ctx, storageCfg, existing.Logo)

		c.JSON(http.StatusOK, gin.H{"logo": logo})
	}
}

// GET /admin/storage/info — static metadata of the active backend.
func StorageInfo(storageCfg config.StorageConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		adapter, err := storage.New(storageCfg)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, adapter.GetStorageInfo())
	}
}
