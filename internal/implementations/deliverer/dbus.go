package deliverer

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/reminder"
	"context"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDestination = "org.freedesktop.Notifications"
	notifyPath        = "/org/freedesktop/Notifications"
	notifyMethod      = "org.freedesktop.Notifications.Notify"
)

const (
	urgencyNormal   byte = 1
	urgencyCritical byte = 2
)

type busObject interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Dbus shows notifications through the desktop notification daemon.
type Dbus struct {
	object  busObject
	appName string
	timeout int32
}

func NewDbus(conn *dbus.Conn, appName string) *Dbus {
	if conn == nil {
		panic(e.NewNilArgumentError("conn"))
	}
	return newDbus(conn.Object(notifyDestination, notifyPath), appName)
}

func newDbus(object busObject, appName string) *Dbus {
	if object == nil {
		panic(e.NewNilArgumentError("object"))
	}
	return &Dbus{object: object, appName: appName, timeout: -1}
}

func (d *Dbus) Deliver(ctx context.Context, n reminder.Notification, behavior reminder.DisplayBehavior) error {
	if !behavior.ShowAlert && !behavior.ShowBanner && !behavior.ShowList {
		return nil
	}

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgencyNormal),
	}
	if n.Channel.IsPresent && n.Channel.Value.Importance == reminder.ImportanceMax {
		hints["urgency"] = dbus.MakeVariant(urgencyCritical)
	}
	if behavior.PlaySound && n.Sound != "" {
		hints["sound-name"] = dbus.MakeVariant(soundName(n.Sound))
	} else {
		hints["suppress-sound"] = dbus.MakeVariant(true)
	}
	if !behavior.ShowList {
		hints["transient"] = dbus.MakeVariant(true)
	}

	call := d.object.CallWithContext(
		ctx,
		notifyMethod,
		0,
		d.appName,
		uint32(0),
		"",
		n.Title,
		n.Body,
		[]string{},
		hints,
		d.timeout,
	)
	return call.Err
}

func (d *Dbus) Available(ctx context.Context) bool {
	call := d.object.CallWithContext(ctx, "org.freedesktop.Notifications.GetServerInformation", 0)
	return call.Err == nil
}

func soundName(sound string) string {
	if sound == reminder.Sound {
		return "message-new-instant"
	}
	return sound
}
