package capture

import "image"

var screenGrabber = grabScreen

// GrabScreen captures the entire desktop and returns it as an RGBA image.
func GrabScreen() (*image.RGBA, error) {
	return screenGrabber()
}

// SetScreenGrabberForTests swaps the platform grabber and returns a restore
// function for use with t.Cleanup.
func SetScreenGrabberForTests(fn func() (*image.RGBA, error)) func() {
	prev := screenGrabber
	screenGrabber = fn
	return func() { screenGrabber = prev }
}
