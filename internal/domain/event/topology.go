package event

const (
	ExchangeUserEvents    = "user-events"
	ExchangeMessageEvents = "message-events"

	RoutingUserRegistered    = "user.registered"
	RoutingMessageSent       = "message.sent"
	RoutingLoadStatusUpdated = "load.status.updated"
	RoutingLoadETAUpdated    = "load.eta.updated"

	QueueUserRegistered = "user-registered-queue"
	QueueMessageSent    = "message-sent-queue"
	QueueLoadStatus     = "load-status-queue"
	QueueLoadETA        = "load-eta-queue"
)

// Binding ties a durable queue to a topic exchange.
type Binding struct {
	Exchange   string
	Queue      string
	RoutingKey string
}

// Topology is the fixed set of queues consumed by the event worker.
var Topology = []Binding{
	{Exchange: ExchangeUserEvents, Queue: QueueUserRegistered, RoutingKey: RoutingUserRegistered},
	{Exchange: ExchangeMessageEvents, Queue: QueueMessageSent, RoutingKey: RoutingMessageSent},
	{Exchange: ExchangeMessageEvents, Queue: QueueLoadStatus, RoutingKey: RoutingLoadStatusUpdated},
	{Exchange: ExchangeMessageEvents, Queue: QueueLoadETA, RoutingKey: RoutingLoadETAUpdated},
}

// Exchanges returns each exchange named by Topology once.
func Exchanges() []string {
	seen := map[string]bool{}
	var out []string
	for _, b := range Topology {
		if !seen[b.Exchange] {
			seen[b.Exchange] = true
			out = append(out, b.Exchange)
		}
	}
	return out
}

// LoadRoutingKey addresses subscribers following a single load.
func LoadRoutingKey(loadID string) string { return "load." + loadID }

// UserRoutingKey addresses subscribers following a single user's inbox.
func UserRoutingKey(userID string) string { return "user." + userID }
