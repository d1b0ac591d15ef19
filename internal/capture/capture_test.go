package capture

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestGrabScreenUsesInstalledGrabber(t *testing.T) {
	want := image.NewRGBA(image.Rect(0, 0, 4, 2))
	want.SetRGBA(1, 1, color.RGBA{R: 0xFF, A: 0xFF})
	restore := SetScreenGrabberForTests(func() (*image.RGBA, error) {
		return want, nil
	})
	t.Cleanup(restore)

	got, err := GrabScreen()
	if err != nil {
		t.Fatalf("GrabScreen() error = %v", err)
	}
	if got != want {
		t.Fatalf("GrabScreen() returned a different image")
	}
}

func TestGrabScreenPropagatesError(t *testing.T) {
	wantErr := errors.New("no display")
	restore := SetScreenGrabberForTests(func() (*image.RGBA, error) {
		return nil, wantErr
	})
	t.Cleanup(restore)

	if _, err := GrabScreen(); !errors.Is(err, wantErr) {
		t.Fatalf("GrabScreen() error = %v, want %v", err, wantErr)
	}
}
