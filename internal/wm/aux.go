package wm

import "github.com/cwm-x11/cwm/internal/config"

// Aux bundles the resources a tag operation needs besides its own state:
// the display connection, the theme, and the hook table. It is owned by
// the window manager and threaded through calls.
type Aux struct {
	Dpy   Display
	Theme *config.Theme
	Hooks *Hooks
}
