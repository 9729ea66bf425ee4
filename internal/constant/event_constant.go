package constant

// Event type codes carried on the bus and in the ops live feed.
const (
	EventSessionStarted        = "SESSION_STARTED"
	EventCheckInRecorded       = "CHECK_IN_RECORDED"
	EventSessionAlerted        = "SESSION_ALERTED"
	EventAlertResolved         = "ALERT_RESOLVED"
	EventSessionStopped        = "SESSION_STOPPED"
	EventMessageReceived       = "MESSAGE_RECEIVED"
	EventEscalationSendFailed  = "ESCALATION_SEND_FAILED"
	EventStoreRetriesExhausted = "STORE_RETRIES_EXHAUSTED"
)
