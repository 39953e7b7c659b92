package log

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldChatID    = "chat_id"
	FieldUserID    = "user_id"
	FieldMonth     = "month"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldStatus    = "status"
)

// Components defines standard component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentBot       = "bot"
	ComponentSheets    = "sheets"
	ComponentState     = "state"
	ComponentEvents    = "events"
	ComponentKeepalive = "keepalive"
)
