package models

// ProjectStatus is the lifecycle status of a project.
type ProjectStatus string

// Project status constants
const (
	ProjectActive  ProjectStatus = "active"
	ProjectOnHold  ProjectStatus = "on_hold"
	ProjectDone    ProjectStatus = "done"
	ProjectDropped ProjectStatus = "dropped"
)

// Project is a root item plus its flattened descendant tasks.
// Note, tags, dates and the flagged state of a project live on Root.
type Project struct {
	ID       string
	Status   ProjectStatus
	FolderID string // empty when the project is not in a folder
	Root     *Item
	Tasks    []*Item // all descendants in outline order
}

// Name returns the project's display name.
func (p *Project) Name() string {
	if p.Root == nil {
		return p.ID
	}
	return p.Root.Name
}

// FolderStatus is the lifecycle status of a folder.
type FolderStatus string

// Folder status constants
const (
	FolderActive  FolderStatus = "active"
	FolderDropped FolderStatus = "dropped"
)

// Folder is a container of projects and other folders.
type Folder struct {
	ID       string
	Name     string
	ParentID string
	Status   FolderStatus
}

// Catalog is a read-only snapshot of the item store taken at the start of a
// run. It is never cached across runs.
type Catalog struct {
	Projects []*Project
	Folders  []*Folder
	Tags     []Tag
	Inbox    []*Item
}

// FindFolder returns the folder with the given ID, or nil.
func (c *Catalog) FindFolder(id string) *Folder {
	for _, f := range c.Folders {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// FindTag returns the tag with the given ID.
func (c *Catalog) FindTag(id string) (Tag, bool) {
	for _, t := range c.Tags {
		if t.ID == id {
			return t, true
		}
	}
	return Tag{}, false
}
