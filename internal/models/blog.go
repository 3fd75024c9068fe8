package models

import "time"

// Author is a snapshot of the writer taken when the blog was created.
// It is not kept in sync with the user's profile.
type Author struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email" validate:"required,email"`
	Photo string `json:"photo" bson:"photo"`
}

// Blog represents a published or draft blog post.
type Blog struct {
	ID               string    `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Title            string    `json:"title" bson:"title" validate:"required"`
	Slug             string    `json:"slug" bson:"slug" gorm:"index"`
	Image            string    `json:"image" bson:"image"`
	Category         string    `json:"category" bson:"category" gorm:"index" validate:"required"`
	ShortDescription string    `json:"shortDescription" bson:"shortDescription"`
	LongDescription  string    `json:"longDescription" bson:"longDescription"`
	Tags             []string  `json:"tags" bson:"tags" gorm:"serializer:json;type:text"`
	ReadTime         string    `json:"readTime" bson:"readTime"`
	IsFeatured       bool      `json:"isFeatured" bson:"isFeatured"`
	IsPublished      bool      `json:"isPublished" bson:"isPublished" gorm:"index"`
	Author           Author    `json:"author" bson:"author" gorm:"embedded;embeddedPrefix:author_" validate:"required"`
	Likes            int       `json:"likes" bson:"likes"`
	LikedBy          []string  `json:"likedBy" bson:"likedBy" gorm:"serializer:json;type:text"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt" gorm:"index"`
	UpdatedAt        time.Time `json:"updatedAt" bson:"updatedAt"`
}

// IsLikedBy reports whether email is in the blog's liker set.
func (b *Blog) IsLikedBy(email string) bool {
	for _, e := range b.LikedBy {
		if e == email {
			return true
		}
	}
	return false
}

// BlogUpdate lists the fields an author may change. Nil fields are left alone.
type BlogUpdate struct {
	Title            *string   `json:"title,omitempty" validate:"omitempty,min=1"`
	Slug             *string   `json:"slug,omitempty"`
	Image            *string   `json:"image,omitempty"`
	Category         *string   `json:"category,omitempty"`
	ShortDescription *string   `json:"shortDescription,omitempty"`
	LongDescription  *string   `json:"longDescription,omitempty"`
	Tags             *[]string `json:"tags,omitempty"`
	ReadTime         *string   `json:"readTime,omitempty"`
	IsFeatured       *bool     `json:"isFeatured,omitempty"`
	IsPublished      *bool     `json:"isPublished,omitempty"`
}

// Empty reports whether the update carries no fields.
func (u BlogUpdate) Empty() bool {
	return u.Title == nil && u.Slug == nil && u.Image == nil && u.Category == nil &&
		u.ShortDescription == nil && u.LongDescription == nil && u.Tags == nil &&
		u.ReadTime == nil && u.IsFeatured == nil && u.IsPublished == nil
}

// Apply copies the set fields onto b.
func (u BlogUpdate) Apply(b *Blog) {
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Slug != nil {
		b.Slug = *u.Slug
	}
	if u.Image != nil {
		b.Image = *u.Image
	}
	if u.Category != nil {
		b.Category = *u.Category
	}
	if u.ShortDescription != nil {
		b.ShortDescription = *u.ShortDescription
	}
	if u.LongDescription != nil {
		b.LongDescription = *u.LongDescription
	}
	if u.Tags != nil {
		b.Tags = *u.Tags
	}
	if u.ReadTime != nil {
		b.ReadTime = *u.ReadTime
	}
	if u.IsFeatured != nil {
		b.IsFeatured = *u.IsFeatured
	}
	if u.IsPublished != nil {
		b.IsPublished = *u.IsPublished
	}
}

// Fields returns the set fields keyed by their document names.
func (u BlogUpdate) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Slug != nil {
		fields["slug"] = *u.Slug
	}
	if u.Image != nil {
		fields["image"] = *u.Image
	}
	if u.Category != nil {
		fields["category"] = *u.Category
	}
	if u.ShortDescription != nil {
		fields["shortDescription"] = *u.ShortDescription
	}
	if u.LongDescription != nil {
		fields["longDescription"] = *u.LongDescription
	}
	if u.Tags != nil {
		fields["tags"] = *u.Tags
	}
	if u.ReadTime != nil {
		fields["readTime"] = *u.ReadTime
	}
	if u.IsFeatured != nil {
		fields["isFeatured"] = *u.IsFeatured
	}
	if u.IsPublished != nil {
		fields["isPublished"] = *u.IsPublished
	}
	return fields
}

// BlogFilter narrows a blog listing.
type BlogFilter struct {
	Search   string
	Category string
	Author   string
	Page     int
	Limit    int
}

// Pagination describes one page of a listing.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// BlogPage is a paginated blog listing.
type BlogPage struct {
	Blogs      []Blog     `json:"blogs"`
	Pagination Pagination `json:"pagination"`
}
