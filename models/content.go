package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// StorageObject is the descriptor a storage adapter returns for an
// uploaded file, embedded into the owning document. Key is whatever the
// producing backend needs to delete the object later (an ImageKit fileId
// or an R2 object key), so StorageType must route any delete back to the
// backend that produced it.
type StorageObject struct {
	URL          string `bson:"url" json:"url"`
	Key          string `bson:"key" json:"key"`
	ThumbnailURL string `bson:"thumbnailUrl" json:"thumbnailUrl"`
	FileName     string `bson:"fileName" json:"fileName"`
	Size         int64  `bson:"size" json:"size"`
	ContentType  string `bson:"contentType" json:"contentType"`
	Width        int    `bson:"width,omitempty" json:"width,omitempty"`
	Height       int    `bson:"height,omitempty" json:"height,omitempty"`
	ETag         string `bson:"etag,omitempty" json:"etag,omitempty"`
	StorageType  string `bson:"storageType" json:"storageType"`
}

type Service struct {
	ID          bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string         `bson:"name" json:"name"`
	Slug        string         `bson:"slug" json:"slug"`
	Description string         `bson:"description" json:"description"`
	Icon        *StorageObject `bson:"icon,omitempty" json:"icon,omitempty"`
	IsActive    bool           `bson:"isActive" json:"isActive"`
	SortOrder   int            `bson:"sortOrder" json:"sortOrder"`
	CreatedAt   time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time      `bson:"updatedAt" json:"updatedAt"`
}

type GalleryImage struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string        `bson:"title" json:"title"`
	Category  string        `bson:"category,omitempty" json:"category,omitempty"`
	Image     StorageObject `bson:"image" json:"image"`
	SortOrder int           `bson:"sortOrder" json:"sortOrder"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

type Testimonial struct {
	ID        bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	Author    string         `bson:"author" json:"author"`
	Company   string         `bson:"company,omitempty" json:"company,omitempty"`
	Quote     string         `bson:"quote" json:"quote"`
	Photo     *StorageObject `bson:"photo,omitempty" json:"photo,omitempty"`
	IsActive  bool           `bson:"isActive" json:"isActive"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// SiteSettings is a single document (fixed key) holding site-wide fields
// edited from the admin panel.
type SiteSettings struct {
	ID          string         `bson:"_id" json:"-"`
	CompanyName string         `bson:"companyName" json:"companyName"`
	Logo        *StorageObject `bson:"logo,omitempty" json:"logo,omitempty"`
	Email       string         `bson:"email,omitempty" json:"email,omitempty"`
	Phone       string         `bson:"phone,omitempty" json:"phone,omitempty"`
	Address     string         `bson:"address,omitempty" json:"address,omitempty"`
	UpdatedAt   time.Time      `bson:"updatedAt" json:"updatedAt"`
}

const SiteSettingsID = "site"
