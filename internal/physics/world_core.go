// Package physics implements the character movement core: gravity, ground
// and air control, jumping, the hook, and player to player collision.
package physics

import "github.com/35niavlys/speedfng/internal/protocol"

// DefaultTickSpeed is the simulation rate the stock tuning is expressed in.
const DefaultTickSpeed = 50

// WorldCore is the table of live cores that interact with each other during
// a physics step. A zero WorldCore is an isolated context with no other
// characters.
type WorldCore struct {
	Tuning     Tuning
	TickSpeed  int
	Characters [protocol.MaxClients]*Core
}

// NewWorldCore returns an empty table with the given tuning.
func NewWorldCore(tuning Tuning, tickSpeed int) *WorldCore {
	return &WorldCore{Tuning: tuning, TickSpeed: tickSpeed}
}

// Insert registers c under the client id. Out of range ids are ignored.
func (w *WorldCore) Insert(id int, c *Core) {
	if w == nil || id < 0 || id >= len(w.Characters) {
		return
	}
	w.Characters[id] = c
}

// Remove unregisters the client id.
func (w *WorldCore) Remove(id int) {
	if w == nil || id < 0 || id >= len(w.Characters) {
		return
	}
	w.Characters[id] = nil
}

// Get returns the core registered under id, or nil.
func (w *WorldCore) Get(id int) *Core {
	if w == nil || id < 0 || id >= len(w.Characters) {
		return nil
	}
	return w.Characters[id]
}

func (w *WorldCore) tickSpeed() int {
	if w == nil || w.TickSpeed <= 0 {
		return DefaultTickSpeed
	}
	return w.TickSpeed
}
