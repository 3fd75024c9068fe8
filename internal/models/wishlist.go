package models

import "time"

// WishlistEntry links a user to a bookmarked blog.
type WishlistEntry struct {
	ID        string    `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	UserEmail string    `json:"userEmail" bson:"userEmail" gorm:"index;type:varchar(255)"`
	BlogID    string    `json:"blogId" bson:"blogId" gorm:"index;type:varchar(36)"`
	AddedAt   time.Time `json:"addedAt" bson:"addedAt"`
}

// WishlistItem is an entry joined with the blog it points at.
type WishlistItem struct {
	WishlistEntry `bson:",inline"`
	BlogDetails   Blog `json:"blogDetails" bson:"blogDetails"`
}
