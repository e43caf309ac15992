package core

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Palette holds the colors a group may use.
var Palette = []string{"#8e44ad", "#2980b9", "#27ae60", "#f39c12", "#c0392b", "#34495e"}

const (
	defaultGroupID   = "g1"
	defaultGroupName = "Default Group"
	newGroupName     = "New Configuration"
	fallbackOS       = "Windows"
)

// Group is a user-defined collection of products targeting one OS.
// Items holds product models; products are looked up in the current catalog.
type Group struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Items []string `json:"items"`
	OS    string   `json:"os"`
	Color string   `json:"color"`
}

// GroupSet is the full group state a client holds between requests.
// Methods never modify the receiver; they return the updated set.
type GroupSet struct {
	Groups   []Group `json:"groups"`
	ActiveID string  `json:"activeId"`
}

// DefaultGroupSet returns the state for a client with no saved groups.
func DefaultGroupSet() GroupSet {
	return GroupSet{
		Groups: []Group{{
			ID:    defaultGroupID,
			Name:  defaultGroupName,
			Items: []string{},
			OS:    fallbackOS,
			Color: Palette[0],
		}},
		ActiveID: defaultGroupID,
	}
}

// ParseGroupSet decodes saved group state. Undecodable or empty input yields
// the default set; a missing active id selects the first group.
// Both a bare group array and a {groups, activeId} object are accepted.
func ParseGroupSet(data []byte) GroupSet {
	var set GroupSet
	if err := json.Unmarshal(data, &set); err != nil {
		var groups []Group
		if err := json.Unmarshal(data, &groups); err != nil {
			return DefaultGroupSet()
		}
		set = GroupSet{Groups: groups}
	}
	if len(set.Groups) == 0 {
		return DefaultGroupSet()
	}
	out := set.clone()
	if out.indexOf(out.ActiveID) < 0 {
		out.ActiveID = out.Groups[0].ID
	}
	return out
}

func (s GroupSet) clone() GroupSet {
	out := GroupSet{ActiveID: s.ActiveID, Groups: make([]Group, len(s.Groups))}
	for i, g := range s.Groups {
		g.Items = append([]string{}, g.Items...)
		out.Groups[i] = g
	}
	return out
}

func (s GroupSet) indexOf(id string) int {
	return slices.IndexFunc(s.Groups, func(g Group) bool { return g.ID == id })
}

// Find returns the group with id.
func (s GroupSet) Find(id string) (Group, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Group{}, false
	}
	return s.clone().Groups[i], true
}

// Active returns the active group, or the first one if the active id is stale.
func (s GroupSet) Active() Group {
	if g, ok := s.Find(s.ActiveID); ok {
		return g
	}
	if len(s.Groups) == 0 {
		return DefaultGroupSet().Groups[0]
	}
	return s.clone().Groups[0]
}

// Normalize fills in missing OS and color values and repairs the active id.
// osLabels is the current OS list; its first entry is the default target OS.
func (s GroupSet) Normalize(osLabels []string) GroupSet {
	if len(s.Groups) == 0 {
		return DefaultGroupSet()
	}
	out := s.clone()
	defOS := defaultOS(osLabels)
	for i := range out.Groups {
		g := &out.Groups[i]
		if g.ID == "" {
			g.ID = uuid.NewString()
		}
		if g.OS == "" {
			g.OS = defOS
		}
		if g.Color == "" {
			g.Color = Palette[0]
		}
	}
	if out.indexOf(out.ActiveID) < 0 {
		out.ActiveID = out.Groups[0].ID
	}
	return out
}

func defaultOS(osLabels []string) string {
	if len(osLabels) > 0 {
		return osLabels[0]
	}
	return fallbackOS
}

// Create appends an empty group and returns the new set and the group's id.
// Colors rotate through the palette by group count.
func (s GroupSet) Create(name string, osLabels []string) (GroupSet, string) {
	out := s.clone()
	name = strings.TrimSpace(name)
	if name == "" {
		name = newGroupName
	}
	g := Group{
		ID:    uuid.NewString(),
		Name:  name,
		Items: []string{},
		OS:    defaultOS(osLabels),
		Color: Palette[len(out.Groups)%len(Palette)],
	}
	out.Groups = append(out.Groups, g)
	return out, g.ID
}

// Delete removes a group. The last remaining group cannot be deleted.
// Deleting the active group activates the first remaining one.
func (s GroupSet) Delete(id string) (GroupSet, error) {
	i := s.indexOf(id)
	if i < 0 {
		return s, fmt.Errorf("delete %s: %w", id, ErrGroupNotFound)
	}
	if len(s.Groups) <= 1 {
		return s, ErrLastGroup
	}
	out := s.clone()
	out.Groups = slices.Delete(out.Groups, i, i+1)
	if out.ActiveID == id {
		out.ActiveID = out.Groups[0].ID
	}
	return out, nil
}

// Activate makes id the active group.
func (s GroupSet) Activate(id string) (GroupSet, error) {
	if s.indexOf(id) < 0 {
		return s, fmt.Errorf("activate %s: %w", id, ErrGroupNotFound)
	}
	out := s.clone()
	out.ActiveID = id
	return out, nil
}

// update applies fn to a copy of the group with id.
func (s GroupSet) update(id string, fn func(*Group) error) (GroupSet, error) {
	i := s.indexOf(id)
	if i < 0 {
		return s, fmt.Errorf("group %s: %w", id, ErrGroupNotFound)
	}
	out := s.clone()
	if err := fn(&out.Groups[i]); err != nil {
		return s, err
	}
	return out, nil
}

// Rename sets a group's display name.
func (s GroupSet) Rename(id, name string) (GroupSet, error) {
	return s.update(id, func(g *Group) error {
		g.Name = name
		return nil
	})
}

// SetOS sets the OS a group targets for driver lookups and export.
func (s GroupSet) SetOS(id, os string) (GroupSet, error) {
	return s.update(id, func(g *Group) error {
		g.OS = os
		return nil
	})
}

// SetColor sets a group's color, which must come from Palette.
func (s GroupSet) SetColor(id, color string) (GroupSet, error) {
	if !slices.Contains(Palette, color) {
		return s, fmt.Errorf("%q: %w", color, ErrInvalidColor)
	}
	return s.update(id, func(g *Group) error {
		g.Color = color
		return nil
	})
}

// AddItem adds a catalog product to a group.
func (s GroupSet) AddItem(id, model string, catalog *Catalog) (GroupSet, error) {
	if _, ok := catalog.FindByModel(model); !ok {
		return s, fmt.Errorf("%q: %w", model, ErrProductNotFound)
	}
	return s.update(id, func(g *Group) error {
		if slices.Contains(g.Items, model) {
			return fmt.Errorf("%q: %w", model, ErrDuplicateItem)
		}
		g.Items = append(g.Items, model)
		return nil
	})
}

// RemoveItem removes a model from a group. Removing an absent model is not an error.
func (s GroupSet) RemoveItem(id, model string) (GroupSet, error) {
	return s.update(id, func(g *Group) error {
		g.Items = slices.DeleteFunc(g.Items, func(m string) bool { return m == model })
		return nil
	})
}

// Resolve returns the catalog products for the group's items, in item order.
// Items no longer present in the catalog are omitted.
func (g Group) Resolve(catalog *Catalog) []Product {
	out := make([]Product, 0, len(g.Items))
	for _, m := range g.Items {
		if p, ok := catalog.FindByModel(m); ok {
			out = append(out, p)
		}
	}
	return out
}

// Contains reports whether the group holds model.
func (g Group) Contains(model string) bool {
	return slices.Contains(g.Items, model)
}
