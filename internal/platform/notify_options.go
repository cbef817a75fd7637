// Package platform wraps host notification services.
package platform

// AppName identifies the application to host notification centers.
const AppName = "RoomEdit"

// Category hints at what a notification reports. Hosts that understand
// categories may group or style notifications by it.
type Category string

const (
	// CategoryTransfer reports a file or clipboard write that finished.
	CategoryTransfer Category = "transfer.complete"
	// CategoryRequest reports an edit request that was handed off.
	CategoryRequest Category = "transfer"
)

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// TimeoutMS overrides the display time where supported. Zero uses the default.
	TimeoutMS int32
	Category  Category
}

// DefaultTimeoutMS is the display time used when Options.TimeoutMS is zero.
const DefaultTimeoutMS int32 = 5000

func (o Options) timeout() int32 {
	if o.TimeoutMS > 0 {
		return o.TimeoutMS
	}
	return DefaultTimeoutMS
}
