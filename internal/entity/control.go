package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
)

const (
	ActionCell = "cell"
	ActionJoin = "join"

	controlSeparator = ":"
)

// Control identifies the target of a player action: which game kind, which session,
// and which cell (or the join button) was selected.
type Control struct {
	Kind      GameKind
	SessionID string
	Action    string
	Index     int
}

func CellControl(kind GameKind, sessionID string, index int) Control {
	return Control{Kind: kind, SessionID: sessionID, Action: ActionCell, Index: index}
}

func JoinControl(kind GameKind, sessionID string) Control {
	return Control{Kind: kind, SessionID: sessionID, Action: ActionJoin}
}

// String encodes the control as "kind:session:action[:index]".
func (that Control) String() string {
	parts := []string{string(that.Kind), that.SessionID, that.Action}
	if that.Action == ActionCell {
		parts = append(parts, strconv.Itoa(that.Index))
	}

	return strings.Join(parts, controlSeparator)
}

// ParseControl decodes a control id produced by Control.String.
func ParseControl(id string) (Control, error) {
	parts := strings.Split(id, controlSeparator)
	if len(parts) < 3 {
		return Control{}, fmt.Errorf("%w: %q", apperror.ErrMalformedAction, id)
	}

	control := Control{
		Kind:      GameKind(parts[0]),
		SessionID: parts[1],
		Action:    parts[2],
	}

	if !control.Kind.Valid() {
		return Control{}, fmt.Errorf("%w: unknown game kind %q", apperror.ErrMalformedAction, parts[0])
	}

	if control.SessionID == "" {
		return Control{}, fmt.Errorf("%w: empty session id", apperror.ErrMalformedAction)
	}

	switch control.Action {
	case ActionJoin:
		if len(parts) != 3 {
			return Control{}, fmt.Errorf("%w: %q", apperror.ErrMalformedAction, id)
		}
	case ActionCell:
		if len(parts) != 4 {
			return Control{}, fmt.Errorf("%w: missing cell index in %q", apperror.ErrMalformedAction, id)
		}

		index, err := strconv.Atoi(parts[3])
		if err != nil || index < 0 {
			return Control{}, fmt.Errorf("%w: bad cell index %q", apperror.ErrMalformedAction, parts[3])
		}
		control.Index = index
	default:
		return Control{}, fmt.Errorf("%w: unknown action %q", apperror.ErrMalformedAction, control.Action)
	}

	return control, nil
}
