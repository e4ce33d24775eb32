package afk

import (
	"afk-helper/model"
	"errors"
	"fmt"
)

// Kind classifies an engine error for presentation.
type Kind int

const (
	KindUnknown Kind = iota
	KindPermission
	KindValidation
	KindParse
	KindStore
	KindDelivery
)

func (k Kind) String() string {
	switch k {
	case KindPermission:
		return "permission"
	case KindValidation:
		return "validation"
	case KindParse:
		return "parse"
	case KindStore:
		return "store"
	case KindDelivery:
		return "delivery"
	default:
		return "unknown"
	}
}

// Error is returned by every engine operation that fails. Msg is safe to show
// to the invoking user.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// UserMessage returns the text to show the user for err.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindStore || e.Kind == KindUnknown {
		return TemporaryErrorText
	}
	return e.Msg
}

// TemporaryErrorText is shown for any storage failure.
const TemporaryErrorText = "A temporary error occurred. Please try again in a moment."

var (
	ErrPermissionDenied = &Error{Kind: KindPermission, Msg: "You do not have permission to use this command."}

	ErrMessageLength     = &Error{Kind: KindValidation, Msg: "Message must be 1-200 characters."}
	ErrMessageLines      = &Error{Kind: KindValidation, Msg: "Message may span at most 3 lines."}
	ErrInvalidDuration   = &Error{Kind: KindValidation, Msg: "Duration must look like 10m, 1h or 2d (units: s, m, h, d)."}
	ErrNonPositive       = &Error{Kind: KindValidation, Msg: "Duration must be greater than zero."}
	ErrAutoAwayUnset     = &Error{Kind: KindValidation, Msg: "Set an auto-away duration first, e.g. `/afk auto duration:30m`."}
	ErrInvalidToggle     = &Error{Kind: KindValidation, Msg: "Mode must be on or off."}
	ErrAlreadyAllowed    = &Error{Kind: KindValidation, Msg: "That user is already allowed."}
	ErrNotAllowed        = &Error{Kind: KindValidation, Msg: "That user is not on the allow-list."}
	ErrAllowListFull     = &Error{Kind: KindValidation, Msg: fmt.Sprintf("The allow-list is limited to %d users.", model.MaxAllowedUsers)}
	ErrDefaultEditLocked = &Error{Kind: KindValidation, Msg: "Editing the default message is disabled."}
	ErrNegativeCooldown  = &Error{Kind: KindValidation, Msg: "Cooldown must be zero or more seconds."}
	ErrInvalidOffDutyTag = &Error{Kind: KindValidation, Msg: "Off-duty tag must be 1-32 characters."}
	ErrDeliveryFailed    = &Error{Kind: KindDelivery, Msg: "Could not deliver the message."}
)

const (
	errStoreUnavailable = "guild state unavailable"
	errStoreWriteFailed = "guild state write failed"
)

// ParseError reports a user reference that could not be understood.
func ParseError(raw string) *Error {
	if raw == "" {
		raw = "(no input)"
	}
	return &Error{Kind: KindParse, Msg: fmt.Sprintf("Could not parse user: %s", raw)}
}

func storeError(msg string, err error) *Error {
	return &Error{Kind: KindStore, Msg: msg, Err: err}
}
