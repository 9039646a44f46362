package stream

// TargetMessage sets a new target for one of the animated counters. An empty
// Counter means the total.
type TargetMessage struct {
	Counter string  `json:"counter"`
	Value   float64 `json:"value"`
}

// NotificationStatus is the life-cycle state of a notification.
type NotificationStatus string

const (
	StatusNew        NotificationStatus = "new"
	StatusProcessing NotificationStatus = "processing"
	StatusDone       NotificationStatus = "done"
)

// Notification is a real-time service event. New and processing notifications
// are shown as alert highlights until they are done.
type Notification struct {
	ID         string             `json:"id"`
	Time       string             `json:"time"`
	Title      string             `json:"title"`
	Department string             `json:"department"`
	Status     NotificationStatus `json:"status"`
}

func (n Notification) highlight() Highlight {
	label := "ALERTA EM TEMPO REAL"
	if n.Status == StatusProcessing {
		label = "EM ATENDIMENTO"
	}

	value := n.Title
	if n.Department != "" {
		value += " · " + n.Department
	}

	return Highlight{
		ID:    n.ID,
		Kind:  KindAlert,
		Icon:  "●",
		Label: label,
		Value: value,
	}
}
