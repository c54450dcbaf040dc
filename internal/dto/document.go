// Package dto defines the request and response shapes of the HTTP API.
package dto

import "github.com/Vampire-js/techfiesta/pkg/timex"

// Document is the wire shape of a document. Sort is exposed as "order"
// to match the client's sibling-ordering field name.
type Document struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Kind      string     `json:"type"`
	ParentID  string     `json:"parentId"`
	Content   string     `json:"content"`
	Sort      int64      `json:"order"`
	CreatedAt timex.Time `json:"createdAt"`
	UpdatedAt timex.Time `json:"updatedAt"`
}

type DocumentCreateRequest struct {
	Name     string `json:"name" form:"name" binding:"required,max=255"`
	Kind     string `json:"type" form:"type" binding:"required,oneof=folder note"`
	ParentID string `json:"parentId" form:"parentId"`
	Sort     int64  `json:"order" form:"order"`
	Content  string `json:"content" form:"content"`
}

type DocumentGetRequest struct {
	ID string `json:"id" form:"id" binding:"required"`
}

// DocumentUpdateRequest carries a full-content save. Content is allowed
// to be empty; saving a cleared note is a valid write.
type DocumentUpdateRequest struct {
	ID      string `json:"id" form:"id" binding:"required"`
	Content string `json:"content" form:"content"`
}

type DocumentRenameRequest struct {
	ID   string `json:"id" form:"id" binding:"required"`
	Name string `json:"name" form:"name" binding:"required,max=255"`
}

type DocumentMoveRequest struct {
	ID       string `json:"id" form:"id" binding:"required"`
	ParentID string `json:"parentId" form:"parentId"`
	Sort     int64  `json:"order" form:"order"`
}

type DocumentDeleteRequest struct {
	ID string `json:"id" form:"id" binding:"required"`
}
