package domain

import "time"

type Address struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	Address   string    `bson:"address" json:"address"`
	City      string    `bson:"city" json:"city"`
	Pincode   string    `bson:"pincode" json:"pincode"`
	Phone     string    `bson:"phone" json:"phone"`
	Notes     string    `bson:"notes" json:"notes"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// FeatureImage is a storefront banner.
type FeatureImage struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Image     string    `bson:"image" json:"image"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
