package pipeline

import "fmt"

// ViolationKind identifies a breach of the expected event grammar.
type ViolationKind int

const (
	// DoubleInit: two InitGame events without a ShutdownGame in between.
	DoubleInit ViolationKind = iota + 1
	// DoubleConnect: two ClientConnect events for the same client id
	// without a ClientDisconnect in between.
	DoubleConnect
	// GameNotStarted: a lifecycle event outside of a match.
	GameNotStarted
	// ClientNotConnected: ClientUserinfoChanged or ClientDisconnect for a
	// client id that never connected.
	ClientNotConnected
	// DiscrepantPlayerName: a frag event names a client differently than
	// its last ClientUserinfoChanged did.
	DiscrepantPlayerName
)

var violationKindNames = map[ViolationKind]string{
	DoubleInit:           "DoubleInit",
	DoubleConnect:        "DoubleConnect",
	GameNotStarted:       "GameNotStarted",
	ClientNotConnected:   "ClientNotConnected",
	DiscrepantPlayerName: "DiscrepantPlayerName",
}

func (k ViolationKind) String() string {
	if name, ok := violationKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ViolationKind(%d)", int(k))
}

// Violation is an event-model violation. It is data: stages emit it inside an
// EventModelViolation logic event and the Summarizer reports it as the error
// of the item.
type Violation struct {
	Kind ViolationKind

	// ClientID and Name are set for ClientNotConnected and DiscrepantPlayerName.
	ClientID uint32
	Name     string

	// LocalName is the name the identity table holds for ClientID and
	// GameName the one the server reported (DiscrepantPlayerName only).
	LocalName string
	GameName  string
}

func (v Violation) Error() string {
	switch v.Kind {
	case ClientNotConnected:
		return fmt.Sprintf("%s {id: %d, name: %q}", v.Kind, v.ClientID, v.Name)
	case DiscrepantPlayerName:
		return fmt.Sprintf("%s {id: %d, local_name: %q, game_name: %q}", v.Kind, v.ClientID, v.LocalName, v.GameName)
	}
	return v.Kind.String()
}

// Unwrap lets errors.Is match ErrEventModelViolation.
func (v Violation) Unwrap() error {
	return ErrEventModelViolation
}
