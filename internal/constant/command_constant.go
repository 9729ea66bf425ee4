package constant

// Command keywords. Matching is case-insensitive on the first whitespace
// token of the message body.
const (
	CommandStart   = "start"
	CommandStop    = "stop"
	CommandOk      = "ok"
	CommandCheckIn = "checkin"
	CommandResolve = "resolve"
	CommandConfirm = "confirm"
	CommandInfo    = "info"
	CommandHelp    = "help"
)

// Auto-reply texts. Fan-out and replies are plain SMS, so keep them short
// and single-segment where possible.
const (
	ReplyStarted = "Work-Alone monitoring started. Check in every %d minutes by replying OK. Reply STOP to end your session."

	ReplyCheckedIn = "Thanks for checking in. Your next check-in is due in %d minutes."

	ReplyStopped = "Your Work-Alone session has ended. Stay safe."

	ReplyAlreadyStarted = "You already have a session running. Reply OK to check in or STOP to end it."

	ReplyNoSession = "No session is running. Reply START to begin monitoring."

	ReplyCheckInWhileAlert = "Your session is in alert and your contacts have been notified. Reply STOP to end it, or have a contact reply RESOLVE."

	EscalationAlert = "Work-Alone alert: %s has missed their safety check-in. Please make sure they are OK, then reply RESOLVE to close this alert."

	ReplyResolved = "Thank you. The alert for %s is closed."

	ReplyNoAlerts = "No alerts need your attention right now."

	ReplyDisambiguate = "More than one person needs attention. Reply RESOLVE followed by a number:"

	ReplyResolveUnknownId = "No open alert matches that number. Reply RESOLVE to list them."

	InfoForUser = "Work-Alone commands: START to begin monitoring, OK or CHECKIN to check in, STOP to end your session."

	InfoForContact = "Work-Alone commands: RESOLVE or CONFIRM to close an alert for someone who lists you as a contact."
)
