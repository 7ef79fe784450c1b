package notifier

// Notifier delivers best-effort operational alerts to an external chat-ops
// relay. Delivery is fire-and-forget: failures are swallowed and must never
// influence the response of the request that raised the alert.
type Notifier interface {
	Notify(message string)
	Close() error
}

// Nop discards all alerts. Used in tests and when no relay is configured.
type Nop struct{}

func (Nop) Notify(string) {}

func (Nop) Close() error { return nil }
