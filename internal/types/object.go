package types

import (
	"fmt"

	"github.com/celestiaorg/pamdiscover/internal/db/models"
)

// RecordTypePamUser is the record type of discovered user accounts
const RecordTypePamUser = "pamUser"

// Relation names a group of child objects under a discovered object
type Relation string

// Child relations, in the order the resolution walk visits them
const (
	RelationUsers       Relation = "users"
	RelationDirectories Relation = "directories"
	RelationMachines    Relation = "machines"
	RelationDatabases   Relation = "databases"
)

// Relations is the fixed visiting order of child groups
var Relations = []Relation{RelationUsers, RelationDirectories, RelationMachines, RelationDatabases}

// DiscoveredObject is one node of a discovery result tree.
// The resolution walk edits title and field values in place.
type DiscoveredObject struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	RecordType   string              `json:"record_type"`
	Fields       []models.TypedField `json:"fields"`
	Notes        []string            `json:"notes,omitempty"`
	IgnoreObject bool                `json:"ignore_object"`
	RecordExists bool                `json:"record_exists"`

	Users       []*DiscoveredObject `json:"users,omitempty"`
	Directories []*DiscoveredObject `json:"directories,omitempty"`
	Machines    []*DiscoveredObject `json:"machines,omitempty"`
	Databases   []*DiscoveredObject `json:"databases,omitempty"`
}

// Children returns the child objects of one relation
func (o *DiscoveredObject) Children(rel Relation) []*DiscoveredObject {
	switch rel {
	case RelationUsers:
		return o.Users
	case RelationDirectories:
		return o.Directories
	case RelationMachines:
		return o.Machines
	case RelationDatabases:
		return o.Databases
	default:
		return nil
	}
}

// Field returns a pointer to the first field with the label, or nil
func (o *DiscoveredObject) Field(label string) *models.TypedField {
	for i := range o.Fields {
		if o.Fields[i].Label == label {
			return &o.Fields[i]
		}
	}
	return nil
}

// SetFieldValue overwrites the value of every field carrying the label with a single value.
// It reports whether any field matched.
func (o *DiscoveredObject) SetFieldValue(label string, value string) bool {
	found := false
	for i := range o.Fields {
		if o.Fields[i].Label == label {
			o.Fields[i].Value = []interface{}{value}
			found = true
		}
	}
	return found
}

// Count returns the number of objects in the tree rooted at o
func (o *DiscoveredObject) Count() int {
	n := 1
	for _, rel := range Relations {
		for _, child := range o.Children(rel) {
			if child != nil {
				n += child.Count()
			}
		}
	}
	return n
}

// Validate reports the first null node in the tree rooted at o
func (o *DiscoveredObject) Validate() error {
	return o.validate("root")
}

func (o *DiscoveredObject) validate(path string) error {
	if o == nil {
		return fmt.Errorf("null discovered object at %s", path)
	}
	for _, rel := range Relations {
		for i, child := range o.Children(rel) {
			if err := child.validate(fmt.Sprintf("%s.%s[%d]", path, rel, i)); err != nil {
				return err
			}
		}
	}
	return nil
}
