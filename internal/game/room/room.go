// Package room holds the transient occupants and objects of the current room.
package room

import "github.com/cory-johannsen/mudproxy/internal/game/text"

// Snapshot is the current room's occupants. Every list is replaced
// wholesale on update, never merged.
type Snapshot struct {
	NPCs       []string `yaml:"npcs" json:"npcs"`
	DeadNPCs   []string `yaml:"dead_npcs" json:"dead_npcs"`
	PCs        []string `yaml:"pcs" json:"pcs"`
	PronePCs   []string `yaml:"prone_pcs" json:"prone_pcs"`
	SittingPCs []string `yaml:"sitting_pcs" json:"sitting_pcs"`
	Objects    []string `yaml:"objects" json:"objects"`
	Group      []string `yaml:"group" json:"group"`
}

// SetObjects replaces the creature and object lists from a room-objects
// sentence.
func (s *Snapshot) SetObjects(roomObjs string) {
	s.NPCs = text.FindNPCs(roomObjs)
	s.DeadNPCs = text.FindDeadNPCs(roomObjs)
	s.Objects = text.FindObjects(roomObjs)
}

// ClearObjects empties the creature and object lists.
func (s *Snapshot) ClearObjects() {
	s.NPCs = nil
	s.DeadNPCs = nil
	s.Objects = nil
}

// SetPlayers replaces the player lists from an "Also here" sentence.
func (s *Snapshot) SetPlayers(roomPlayers string) {
	s.PCs = text.FindPCs(roomPlayers)
	s.PronePCs = text.FindPronePCs(roomPlayers)
	s.SittingPCs = text.FindSittingPCs(roomPlayers)
}

// ClearPlayers empties the player lists.
func (s *Snapshot) ClearPlayers() {
	s.PCs = nil
	s.PronePCs = nil
	s.SittingPCs = nil
}

// AddGroupMember appends name to the group unless it is already listed.
func (s *Snapshot) AddGroupMember(name string) {
	for _, m := range s.Group {
		if m == name {
			return
		}
	}
	s.Group = append(s.Group, name)
}

// ClearGroup empties the group list.
func (s *Snapshot) ClearGroup() { s.Group = nil }

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		NPCs:       clone(s.NPCs),
		DeadNPCs:   clone(s.DeadNPCs),
		PCs:        clone(s.PCs),
		PronePCs:   clone(s.PronePCs),
		SittingPCs: clone(s.SittingPCs),
		Objects:    clone(s.Objects),
		Group:      clone(s.Group),
	}
}

func clone(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
