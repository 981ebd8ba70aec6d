package announce

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, MsgStarted, "%s starts a project to craft %s with %s of progress.")
	message.SetString(lang, MsgProgress, "%s works on %d × %s: %s of progress, now at %s of %s.")
	message.SetString(lang, MsgSetback, "%s suffers a setback on %d × %s: %s lost, now at %s of %s.")
	message.SetString(lang, MsgFinished, "%s finishes crafting %d × %s.")
	message.SetString(lang, MsgLacksPermission, " %s lacks permission to add the items; complete the project again once it can.")
	message.SetString(lang, MsgFatalSetback, "%s suffers a fatal setback and the project for %d × %s is lost.")
	message.SetString(lang, MsgCannotPay, "%s cannot pay for this.")
	message.SetString(lang, MsgMeaninglessSpend, "Enter an amount to spend on the project.")
	message.SetString(lang, MsgProjectNotFound, "%s does not have project %s.")
	message.SetString(lang, MsgGrantFailed, "The crafted items could not be added to %s.")
	message.SetString(lang, MsgUnknownStrategy, "%q is not a payment method.")
	message.SetString(lang, MsgProjectNotEditable, "%s cannot edit project %s.")
}
