package assert

import "github.com/bloeys/nfbo/logging"

// T panics with msg when check is false. Used for programmer errors, not for
// conditions that depend on the device.
func T(check bool, msg string) {

	if check {
		return
	}

	logging.ErrLog.Panicln("Assert failed:", msg)
}
