package model

import (
	"github.com/Vampire-js/techfiesta/pkg/timex"

	"gorm.io/gorm"
)

// User gorm model.
type User struct {
	UID       int64      `gorm:"column:uid;primaryKey;autoIncrement"`
	Email     string     `gorm:"column:email;size:255;uniqueIndex"`
	Username  string     `gorm:"column:username;size:64;uniqueIndex"`
	Password  string     `gorm:"column:password;size:255"`
	Avatar    string     `gorm:"column:avatar;size:255"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime"`
	UpdatedAt timex.Time `gorm:"column:updated_at;type:datetime"`
}

// Document gorm model. The row id stays internal and provides the stable
// secondary order for sort ties; DocumentID is the public opaque id.
type Document struct {
	ID               int64      `gorm:"column:id;primaryKey;autoIncrement"`
	DocumentID       string     `gorm:"column:document_id;size:36;uniqueIndex"`
	UID              int64      `gorm:"column:uid;index:idx_document_uid"`
	Name             string     `gorm:"column:name;size:255"`
	Kind             string     `gorm:"column:kind;size:16"`
	ParentID         string     `gorm:"column:parent_id;size:36;index"`
	Content          string     `gorm:"column:content;type:text"`
	Sort             int64      `gorm:"column:sort"`
	IsDeleted        int64      `gorm:"column:is_deleted;default:0;index"`
	DeletedTimestamp int64      `gorm:"column:deleted_timestamp;default:0"`
	CreatedAt        timex.Time `gorm:"column:created_at;type:datetime"`
	UpdatedAt        timex.Time `gorm:"column:updated_at;type:datetime"`
}

func AutoMigrate(db *gorm.DB, key string) error {
	switch key {

	case "Document":
		return db.AutoMigrate(Document{})

	case "User":
		return db.AutoMigrate(User{})
	}
	return nil
}

// AutoMigrateAll migrates every model.
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(User{}, Document{})
}
