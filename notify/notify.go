package notify

import "github.com/gen2brain/beeep"

// Notifier surfaces a judged-submission outcome to the operator.
type Notifier interface {
	Notify(title string, body string) error
}

// DesktopNotifier shows a desktop notification via the platform's
// notification daemon.
type DesktopNotifier struct {
	appIcon string
}

func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{}
}

func (n *DesktopNotifier) Notify(title string, body string) error {
	return beeep.Notify(title, body, n.appIcon)
}
