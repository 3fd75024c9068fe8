package models

import "time"

// Comment is a rated review left on a blog. A user reviews a blog at most once.
type Comment struct {
	ID        string    `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	BlogID    string    `json:"blogId" bson:"blogId" gorm:"index;type:varchar(36)"`
	Text      string    `json:"text" bson:"text"`
	Rating    int       `json:"rating" bson:"rating" gorm:"index"`
	UserName  string    `json:"userName" bson:"userName"`
	UserImage string    `json:"userImage,omitempty" bson:"userImage,omitempty"`
	UserEmail string    `json:"userEmail" bson:"userEmail" gorm:"index;type:varchar(255)"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// CommentThread is the comment listing for one blog, with flags about the caller.
type CommentThread struct {
	Comments    []Comment `json:"comments"`
	HasReviewed bool      `json:"hasReviewed"`
	IsOwner     bool      `json:"isOwner"`
}
