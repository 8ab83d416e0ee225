package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Option is a free-form key/value row in the options collection.
// Banner rows and other site-wide settings live here.
type Option struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Key       string             `json:"key" bson:"key" validate:"required"`
	Value     interface{}        `json:"value" bson:"value"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// BannerRow is one normalized homepage banner entry. The stored value
// may reference an attachment by id, carry a full image map, or be a
// bare URL string; normalization fills whatever can be resolved.
type BannerRow struct {
	Index    int         `json:"index"`
	ImageID  string      `json:"image_id,omitempty"`
	ImageURL string      `json:"image_url,omitempty"`
	ImageAlt string      `json:"image_alt,omitempty"`
	Raw      interface{} `json:"raw,omitempty"`
}

// OptionProbe is the admin debug view of one candidate option key.
type OptionProbe struct {
	Type         string      `json:"type"`
	Count        *int        `json:"count,omitempty"`
	ValuePreview interface{} `json:"value_preview,omitempty"`
}
