package handlers

import "encoding/json"

// RenameRequest renames stored files in place.
type RenameRequest struct {
	Paths  []string `json:"paths" binding:"required,min=1"`
	Names  []string `json:"names" binding:"required"`
	Policy string   `json:"policy" binding:"name_clash"`
}

// DeleteRequest removes stored files.
type DeleteRequest struct {
	Paths []string `json:"paths" binding:"required,min=1"`
}

// DummyRequest creates placeholder files, either count copies of FileName or one
// file per entry of Names.
type DummyRequest struct {
	Count    int      `json:"count" binding:"gte=0,lte=100"`
	FileName string   `json:"file_name"`
	Names    []string `json:"names" binding:"omitempty,max=100"`
	Policy   string   `json:"policy" binding:"duplicate_name"`
}

// ArchiveRequest zips stored files.
type ArchiveRequest struct {
	Name     string   `json:"name" binding:"required,notblank"`
	Paths    []string `json:"paths" binding:"required,min=1"`
	Password string   `json:"password"`
}

// ProtectRequest re-encrypts a stored archive.
type ProtectRequest struct {
	Path            string `json:"path" binding:"required,notblank"`
	CurrentPassword string `json:"current_password"`
	Password        string `json:"password" binding:"required"`
}

// InjectRequest sets top-level properties on a JSON object.
type InjectRequest struct {
	Document   json.RawMessage            `json:"document" binding:"required"`
	Properties map[string]json.RawMessage `json:"properties" binding:"required,min=1"`
}

// AppendRequest appends an element to a JSON array.
type AppendRequest struct {
	Document json.RawMessage `json:"document" binding:"required"`
	Element  json.RawMessage `json:"element" binding:"required"`
}

// ReplaceRequest replaces a keyword in text in its lower, capitalized and upper case forms.
type ReplaceRequest struct {
	Text        string `json:"text"`
	Keyword     string `json:"keyword" binding:"required"`
	Replacement string `json:"replacement"`
}
