package models

// Tag is identified by a stable ID; Name is what users see and what
// configuration refers to.
type Tag struct {
	ID   string
	Name string
}
