package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "privyr-lead context key " + string(c)
}

const (
	// RequestIDKey carries the X-Request-ID assigned at the HTTP boundary.
	RequestIDKey = contextKey("requestID")
	// UserIDKey carries the owning user of the current operation.
	UserIDKey = contextKey("userID")
	// WebhookIDKey carries the webhook token an ingestion call arrived on.
	WebhookIDKey = contextKey("webhookID")
	// ComponentKey names the component emitting log lines.
	ComponentKey = contextKey("component")
	// OperationKey names the operation being executed.
	OperationKey = contextKey("operation")
)
