package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Notification types accepted by NewNotifier
const (
	NotifyTerminal = "terminal"
	NotifyDesktop  = "desktop"
	NotifyNone     = "none"
)

// NotificationSender interface for platform-specific notification implementations
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", title, message).Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)
	return exec.Command("osascript", "-e", script).Run()
}

// Notifier reports the end of a run on the console and, for the desktop
// type, through the platform notifier.
type Notifier struct {
	kind   string
	sender NotificationSender
}

// NewNotifier picks a sender for the current platform
func NewNotifier(kind string) *Notifier {
	var sender NotificationSender
	switch runtime.GOOS {
	case "linux":
		sender = &LinuxNotificationSender{}
	case "darwin":
		sender = &MacOSNotificationSender{}
	}
	return NewNotifierWithSender(kind, sender)
}

// NewNotifierWithSender uses an explicit sender, which may be nil
func NewNotifierWithSender(kind string, sender NotificationSender) *Notifier {
	return &Notifier{kind: strings.ToLower(kind), sender: sender}
}

// SendSuccess announces a finished run
func (n *Notifier) SendSuccess(title, message string) error {
	return n.send(Green, title, message)
}

// SendError announces a run that ended badly
func (n *Notifier) SendError(title, message string) error {
	return n.send(Red, title, message)
}

func (n *Notifier) send(color func(string) string, title, message string) error {
	if n.kind == NotifyNone {
		return nil
	}

	fmt.Fprintf(Output, "\n%s: %s\n", color(title), message)

	if n.kind != NotifyDesktop || n.sender == nil {
		return nil
	}
	return n.sender.Send(title, message)
}
