package cloudmodel

import "fmt"

// Action is a pure transition function State -> State, dispatched as a
// tagged variant rather than through method delegation (design note: this
// avoids a cyclic VM<->Server<->Cloud object graph — an Action only ever
// needs IDs, never owning pointers).
type Action interface {
	Apply(State) (State, error)
	String() string
}

// Boot introduces a new VM identity and places it on a server in one step.
// The scheduler and simulator do not emit Boot: they commit boot Requests
// as Migrate actions (see Migrate below).
type Boot struct {
	VM       VM
	ServerID string
}

func (a Boot) Apply(s State) (State, error) { return s.Place(a.VM, a.ServerID) }
func (a Boot) String() string               { return fmt.Sprintf("Boot(%s -> %s)", a.VM.ID, a.ServerID) }

// Delete retires a VM's identity entirely (§9 Open Question 3, resolved:
// Delete is first-class, not a side-effect cleanup).
type Delete struct {
	VMID string
}

func (a Delete) Apply(s State) (State, error) { return s.Delete(a.VMID) }
func (a Delete) String() string               { return fmt.Sprintf("Delete(%s)", a.VMID) }

// Migrate moves a VM to a (possibly new) server. The scheduler also uses
// Migrate to model the initial placement of a freshly booted VM — a boot
// is just a migration from no prior host (§4.F.1) — so every placement the
// scheduler commits, first placement or relocation, is a Migrate.
type Migrate struct {
	VM       VM
	ServerID string
}

func (a Migrate) Apply(s State) (State, error) { return s.Migrate(a.VM, a.ServerID) }
func (a Migrate) String() string {
	return fmt.Sprintf("Migrate(%s -> %s)", a.VM.ID, a.ServerID)
}

type Pause struct {
	VMID string
}

func (a Pause) Apply(s State) (State, error) { return s.Pause(a.VMID) }
func (a Pause) String() string               { return fmt.Sprintf("Pause(%s)", a.VMID) }

type Unpause struct {
	VMID string
}

func (a Unpause) Apply(s State) (State, error) { return s.Unpause(a.VMID) }
func (a Unpause) String() string               { return fmt.Sprintf("Unpause(%s)", a.VMID) }

var (
	_ Action = Boot{}
	_ Action = Delete{}
	_ Action = Migrate{}
	_ Action = Pause{}
	_ Action = Unpause{}
)
