package core

// Condition is a simulation load case or operating condition a result file
// can be viewed under.
type Condition struct {
	ID   string `json:"id" yaml:"id" validate:"required"`
	Name string `json:"name" yaml:"name"`
}

// SimFile is one simulation result file.
type SimFile struct {
	ID                 string      `json:"id" yaml:"id" validate:"required"`
	Name               string      `json:"name" yaml:"name" validate:"required"`
	Format             string      `json:"format,omitempty" yaml:"format"`
	Status             string      `json:"status,omitempty" yaml:"status"`
	Size               int64       `json:"size,omitempty" yaml:"size" validate:"gte=0"`
	Preview            string      `json:"preview,omitempty" yaml:"preview"`
	DefaultConditionID string      `json:"defaultConditionId,omitempty" yaml:"default_condition"`
	Conditions         []Condition `json:"conditions,omitempty" yaml:"conditions" validate:"dive"`
}

// Condition returns the named condition of the file.
func (f *SimFile) Condition(id string) (Condition, bool) {
	for _, c := range f.Conditions {
		if c.ID == id {
			return c, true
		}
	}
	return Condition{}, false
}

// Folder groups result files of one simulation instance.
type Folder struct {
	ID    string    `json:"id" yaml:"id" validate:"required"`
	Name  string    `json:"name" yaml:"name" validate:"required"`
	Files []SimFile `json:"files,omitempty" yaml:"files" validate:"dive"`
}

// Instance is one simulation run of a category.
type Instance struct {
	ID      string   `json:"id" yaml:"id" validate:"required"`
	Name    string   `json:"name" yaml:"name" validate:"required"`
	Folders []Folder `json:"folders,omitempty" yaml:"folders" validate:"dive"`
}

// Category is the top level of the simulation catalog (e.g. structural, CFD).
type Category struct {
	ID        string     `json:"id" yaml:"id" validate:"required"`
	Name      string     `json:"name" yaml:"name" validate:"required"`
	Instances []Instance `json:"instances,omitempty" yaml:"instances" validate:"dive"`
}

// Catalog is the read-only category → instance → folder → file hierarchy.
type Catalog struct {
	Categories []Category `json:"categories" yaml:"categories" validate:"dive"`
}

// FileLocation is a file together with the ids of its ancestors.
type FileLocation struct {
	CategoryID string   `json:"categoryId"`
	InstanceID string   `json:"instanceId"`
	FolderID   string   `json:"folderId"`
	File       *SimFile `json:"file"`
}

// Category returns the category with the given id.
func (c *Catalog) Category(id string) (*Category, bool) {
	for i := range c.Categories {
		if c.Categories[i].ID == id {
			return &c.Categories[i], true
		}
	}
	return nil, false
}

// Instance returns the instance with the given id and its category id.
func (c *Catalog) Instance(id string) (*Instance, string, bool) {
	for i := range c.Categories {
		cat := &c.Categories[i]
		for j := range cat.Instances {
			if cat.Instances[j].ID == id {
				return &cat.Instances[j], cat.ID, true
			}
		}
	}
	return nil, "", false
}

// Folder returns the folder with the given id.
func (c *Catalog) Folder(id string) (*Folder, bool) {
	for i := range c.Categories {
		for j := range c.Categories[i].Instances {
			inst := &c.Categories[i].Instances[j]
			for k := range inst.Folders {
				if inst.Folders[k].ID == id {
					return &inst.Folders[k], true
				}
			}
		}
	}
	return nil, false
}

// File returns the file with the given id and its location.
func (c *Catalog) File(id string) (FileLocation, bool) {
	for _, loc := range c.walk() {
		if loc.File.ID == id {
			return loc, true
		}
	}
	return FileLocation{}, false
}

// Files returns every file in catalog order.
func (c *Catalog) Files() []FileLocation {
	return c.walk()
}

func (c *Catalog) walk() []FileLocation {
	var out []FileLocation
	for i := range c.Categories {
		cat := &c.Categories[i]
		for j := range cat.Instances {
			inst := &cat.Instances[j]
			for k := range inst.Folders {
				folder := &inst.Folders[k]
				for f := range folder.Files {
					out = append(out, FileLocation{
						CategoryID: cat.ID,
						InstanceID: inst.ID,
						FolderID:   folder.ID,
						File:       &folder.Files[f],
					})
				}
			}
		}
	}
	return out
}
