package workflow

import (
	"fmt"
	"strconv"
	"strings"
)

// State is a node of the interactive workflow.
type State int

const (
	StateSetupMenu State = iota
	StateMainMenu
	StateSelectProject
	StateSelectIssue
	StateCreateFlow
	StateDeleteFlow
	StateGetFlow
	StateExit
)

func (s State) String() string {
	switch s {
	case StateSetupMenu:
		return "SetupMenu"
	case StateMainMenu:
		return "MainMenu"
	case StateSelectProject:
		return "SelectProject"
	case StateSelectIssue:
		return "SelectIssue"
	case StateCreateFlow:
		return "CreateFlow"
	case StateDeleteFlow:
		return "DeleteFlow"
	case StateGetFlow:
		return "GetFlow"
	case StateExit:
		return "Exit"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Intent is the main menu action a selection is being made for.
type Intent int

const (
	IntentNone Intent = iota
	IntentGet
	IntentCreate
	IntentDelete
)

func (i Intent) String() string {
	switch i {
	case IntentGet:
		return "get"
	case IntentCreate:
		return "create"
	case IntentDelete:
		return "delete"
	default:
		return "none"
	}
}

// Position is the current state plus the intent carried through selection.
type Position struct {
	State  State
	Intent Intent
}

// Event is the outcome of running a state.
type Event int

const (
	// EventVerified: credentials were set and verified.
	EventVerified Event = iota
	// EventRejected: credentials could not be loaded or verified.
	EventRejected
	EventChooseGet
	EventChooseCreate
	EventChooseDelete
	EventChooseExit
	// EventInvalidChoice: a menu answer did not match any option.
	EventInvalidChoice
	// EventSelected: a project or issue was chosen.
	EventSelected
	// EventAborted: the step ended early (API error, empty list, bad selection, declined).
	EventAborted
	// EventDone: a flow ran to completion, successfully or not.
	EventDone
)

func (e Event) String() string {
	switch e {
	case EventVerified:
		return "verified"
	case EventRejected:
		return "rejected"
	case EventChooseGet:
		return "choose-get"
	case EventChooseCreate:
		return "choose-create"
	case EventChooseDelete:
		return "choose-delete"
	case EventChooseExit:
		return "choose-exit"
	case EventInvalidChoice:
		return "invalid-choice"
	case EventSelected:
		return "selected"
	case EventAborted:
		return "aborted"
	case EventDone:
		return "done"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

var mainMenuIntents = map[Event]Intent{
	EventChooseGet:    IntentGet,
	EventChooseCreate: IntentCreate,
	EventChooseDelete: IntentDelete,
}

// Transition returns the position reached from p on ev.
// Pairs the workflow never produces are rejected with an error.
func Transition(p Position, ev Event) (Position, error) {
	invalid := func() (Position, error) {
		return p, fmt.Errorf("disallowed transition: %s (intent %s) on %s", p.State, p.Intent, ev)
	}
	mainMenu := Position{State: StateMainMenu}

	switch p.State {
	case StateSetupMenu:
		switch ev {
		case EventVerified:
			return mainMenu, nil
		case EventRejected, EventInvalidChoice:
			return Position{State: StateSetupMenu}, nil
		}
	case StateMainMenu:
		if intent, ok := mainMenuIntents[ev]; ok {
			return Position{State: StateSelectProject, Intent: intent}, nil
		}
		switch ev {
		case EventChooseExit:
			return Position{State: StateExit}, nil
		case EventInvalidChoice:
			return mainMenu, nil
		}
	case StateSelectProject:
		switch ev {
		case EventSelected:
			switch p.Intent {
			case IntentCreate:
				return Position{State: StateCreateFlow, Intent: p.Intent}, nil
			case IntentGet, IntentDelete:
				return Position{State: StateSelectIssue, Intent: p.Intent}, nil
			}
		case EventAborted:
			return mainMenu, nil
		}
	case StateSelectIssue:
		switch ev {
		case EventSelected:
			switch p.Intent {
			case IntentGet:
				return Position{State: StateGetFlow, Intent: p.Intent}, nil
			case IntentDelete:
				return Position{State: StateDeleteFlow, Intent: p.Intent}, nil
			}
		case EventAborted:
			return mainMenu, nil
		}
	case StateCreateFlow, StateDeleteFlow, StateGetFlow:
		if ev == EventDone || ev == EventAborted {
			return mainMenu, nil
		}
	}
	return invalid()
}

// SetupOption is an answer to the setup menu.
type SetupOption int

const (
	SetupFromEnvironment SetupOption = iota + 1
	SetupManual
)

// ParseSetupChoice maps a setup menu answer to an option.
func ParseSetupChoice(input string) (SetupOption, bool) {
	switch strings.TrimSpace(input) {
	case "1":
		return SetupFromEnvironment, true
	case "2":
		return SetupManual, true
	}
	return 0, false
}

// ParseMainMenuChoice maps a main menu answer to an event.
func ParseMainMenuChoice(input string) Event {
	switch strings.TrimSpace(input) {
	case "1":
		return EventChooseGet
	case "2":
		return EventChooseCreate
	case "3":
		return EventChooseDelete
	case "4":
		return EventChooseExit
	}
	return EventInvalidChoice
}

// ParseSelection converts a 1-based answer into an index into a list of n items.
func ParseSelection(input string, n int) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}

// ConfirmDeletion reports whether the answer is exactly "yes", ignoring case.
func ConfirmDeletion(input string) bool {
	return strings.EqualFold(input, "yes")
}
