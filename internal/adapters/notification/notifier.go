// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/fast-cli/internal/config"
	"github.com/xvierd/fast-cli/internal/domain"
	"github.com/xvierd/fast-cli/internal/ports"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg     *config.NotificationConfig
	deliver func(title, message string, sound bool) error
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{cfg: cfg, deliver: deliver}
}

func deliver(title, message string, sound bool) error {
	if sound {
		return beeep.Alert(title, message, "")
	}
	return beeep.Notify(title, message, "")
}

// Notify displays a desktop notification if enabled. With sound on, it
// plays the system alert as well.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}
	return n.deliver(title, message, n.cfg.Sound)
}

// NotifyFastComplete displays a notification when a fast reaches its target.
func (n *Notifier) NotifyFastComplete(protocolName string, durationSeconds int) error {
	title := "⏱ Fasting Complete!"
	message := fmt.Sprintf("Great job! You completed your %s fast (%s).",
		protocolName, domain.FormatHoursMinutes(durationSeconds))
	return n.Notify(title, message)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}
