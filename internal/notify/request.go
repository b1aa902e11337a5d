package notify

// Duration hints understood by the host toast service.
const (
	DurationShort = "short"
	DurationLong  = "long"
)

// Request is one notification waiting for delivery.
type Request struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Duration string `json:"duration,omitempty"`
	// Source names the component that asked for the notification.
	Source string `json:"source,omitempty"`
}
