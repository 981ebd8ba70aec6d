package announce

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys.
const (
	MsgStarted            = "crafting.project.started"
	MsgProgress           = "crafting.project.progress"
	MsgSetback            = "crafting.project.setback"
	MsgFinished           = "crafting.project.finished"
	MsgLacksPermission    = "crafting.project.lacks_permission"
	MsgFatalSetback       = "crafting.project.fatal_setback"
	MsgCannotPay          = "crafting.notice.cannot_pay"
	MsgMeaninglessSpend   = "crafting.notice.meaningful_cost"
	MsgProjectNotFound    = "crafting.notice.project_not_found"
	MsgGrantFailed        = "crafting.notice.grant_failed"
	MsgUnknownStrategy    = "crafting.notice.unknown_strategy"
	MsgProjectNotEditable = "crafting.notice.cannot_edit"
)

// Localizer is the message printer contract used to render announcements.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// NewPrinter returns a printer for tag backed by the registered catalog.
func NewPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// DefaultPrinter renders English.
func DefaultPrinter() *message.Printer {
	return NewPrinter(language.English)
}
