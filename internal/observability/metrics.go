package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "phonebook_api_requests_total", Help: "API requests"},
		[]string{"endpoint", "status"},
	)
	ContactsAdded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "phonebook_contacts_added_total", Help: "Add contact outcomes"},
		[]string{"result"},
	)
	PhoneEdits = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "phonebook_phone_edits_total", Help: "Phone field edits"},
		[]string{"kind", "accepted"},
	)
	AvatarFetch = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "phonebook_avatar_fetch_total", Help: "Avatar provider call outcomes"},
		[]string{"result", "http_status"},
	)
	AvatarLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "phonebook_avatar_fetch_latency_seconds", Help: "Avatar fetch latency"},
	)
	EventPublishes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "phonebook_event_publish_total", Help: "Contact event publish results"},
		[]string{"result"},
	)
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(APIRequests, ContactsAdded, PhoneEdits, AvatarFetch, AvatarLatency, EventPublishes)
}
