// Package session owns the per-connection sketch state and translates
// client messages into surface operations.
package session

import (
	"context"
	"fmt"
	"image"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/example/cosketch/internal/capture"
	"github.com/example/cosketch/internal/clipboard"
	"github.com/example/cosketch/internal/export"
	"github.com/example/cosketch/internal/generate"
	"github.com/example/cosketch/internal/imports"
	"github.com/example/cosketch/internal/notify"
	"github.com/example/cosketch/internal/palette"
	"github.com/example/cosketch/internal/surface"
)

// Generator performs a remote image edit. *generate.Client satisfies it.
type Generator interface {
	Edit(ctx context.Context, req generate.Request) (*generate.Result, error)
}

// Sink receives server messages destined for the connected client.
type Sink func(msg Outgoing)

// Seams for platform operations exercised only on a real desktop.
var (
	writeClipboardImage = clipboard.WriteImage
	grabScreen          = capture.GrabScreen
)

// Options configures a Session.
type Options struct {
	Width       int
	Height      int
	Scale       float64
	Generator   Generator
	Instruction string
	SaveDir     string
	Palette     *palette.Palette
	Notifier    *notify.Notifier
	Send        Sink
}

// Session holds the authoritative sketch for one client connection. All
// message handling is serialized through an internal mutex so a Session may
// be driven from multiple goroutines.
type Session struct {
	ID string

	mu         sync.Mutex
	surf       *surface.Surface
	translator *surface.Translator
	adapter    *imports.Adapter
	gen        Generator
	instr      string
	saveDir    string
	pal        *palette.Palette
	notifier   *notify.Notifier
	send       Sink
	busy       bool
	result     *generate.Result
	closed     bool
}

// New creates a session with a fresh white surface.
func New(opts Options) (*Session, error) {
	if opts.Send == nil {
		return nil, fmt.Errorf("session requires a send sink")
	}
	surf, err := surface.New(opts.Width, opts.Height, opts.Scale)
	if err != nil {
		return nil, err
	}
	s := &Session{
		ID:       uuid.NewString(),
		surf:     surf,
		adapter:  imports.NewAdapter(surf),
		gen:      opts.Generator,
		instr:    opts.Instruction,
		saveDir:  opts.SaveDir,
		pal:      opts.Palette,
		notifier: opts.Notifier,
		send:     opts.Send,
	}
	s.translator = surface.NewTranslator(surf, nil)
	return s, nil
}

// Close releases the surface. Further messages are rejected.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.surf.Close()
}

// Leave terminates any stroke in progress, matching the pointer leaving the
// sketch area.
func (s *Session) Leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.translator.Drawing() {
		return
	}
	s.translator.End()
	s.pushFrame()
}

// Handle dispatches one client message.
func (s *Session) Handle(msg Incoming) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	var err error
	switch msg.Type {
	case MsgInit:
		err = s.handleInit(msg)
	case MsgStyle:
		s.surf.SetStrokeStyle(msg.Color, msg.BrushWidth, parseTool(msg.Tool))
	case MsgBegin:
		if err = s.translator.Begin(surface.Point{X: msg.X, Y: msg.Y}); err == nil {
			s.pushFrame()
		}
	case MsgMove:
		if err = s.translator.Move(surface.Point{X: msg.X, Y: msg.Y}); err == nil && s.translator.Drawing() {
			s.pushFrame()
		}
	case MsgEnd:
		s.translator.End()
		s.pushFrame()
	case MsgClear:
		s.translator.End()
		s.surf.Clear()
		s.pushFrame()
	case MsgDrop:
		err = s.handleDrop(msg)
	case MsgLoad:
		err = s.handleLoad(msg)
	case MsgGenerate:
		err = s.handleGenerate(msg)
	case MsgUseResult:
		err = s.handleUseResult()
	case MsgScreenshot:
		err = s.handleScreenshot()
	case MsgExport:
		err = s.handleExport(msg)
	case MsgCopy:
		err = s.handleCopy()
	default:
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}
	if err != nil {
		s.send(Outgoing{Type: MsgError, Error: err.Error()})
	}
}

func (s *Session) handleInit(msg Incoming) error {
	if err := s.surf.Reset(msg.Width, msg.Height, msg.Scale); err != nil {
		return err
	}
	s.translator.End()
	hello := Outgoing{
		Type:    MsgHello,
		Session: s.ID,
		Width:   s.surf.Width(),
		Height:  s.surf.Height(),
		Scale:   s.surf.Scale(),
	}
	pal := s.pal
	if pal == nil {
		pal = palette.Default()
	}
	for _, swatch := range pal.Swatches {
		hello.Colors = append(hello.Colors, palette.Hex(swatch.Color))
	}
	hello.Widths = append(hello.Widths, pal.Widths...)
	s.send(hello)
	s.pushFrame()
	return nil
}

func (s *Session) handleDrop(msg Incoming) error {
	data, mime, err := imports.DecodeDataURL(msg.Data)
	if err != nil {
		return err
	}
	if msg.MIME != "" {
		mime = msg.MIME
	}
	drawn, err := s.adapter.Drop(mime, data, surface.Point{X: msg.X, Y: msg.Y})
	if err != nil {
		return err
	}
	if drawn {
		s.pushFrame()
	}
	return nil
}

func (s *Session) handleLoad(msg Incoming) error {
	data, _, err := imports.DecodeDataURL(msg.Data)
	if err != nil {
		return err
	}
	if err := s.adapter.ReplaceEncoded(data); err != nil {
		return err
	}
	s.pushFrame()
	return nil
}

func (s *Session) handleGenerate(msg Incoming) error {
	if s.gen == nil {
		return fmt.Errorf("image generation is not configured")
	}
	if s.busy {
		return fmt.Errorf("a generation is already in progress")
	}
	snapshot, err := s.surf.PNG()
	if err != nil {
		return err
	}
	prompt := strings.TrimSpace(msg.Prompt)
	if prompt == "" {
		prompt = s.instr
	}
	s.busy = true
	s.send(Outgoing{Type: MsgBusy, Busy: true})
	go s.runGeneration(prompt, snapshot)
	return nil
}

// runGeneration performs the remote call off the session lock, then
// publishes the outcome. The busy flag always clears, success or not.
func (s *Session) runGeneration(prompt string, snapshot []byte) {
	result, err := s.gen.Edit(context.Background(), generate.Request{
		Instruction: prompt,
		Image:       snapshot,
		MimeType:    "image/png",
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.send(Outgoing{Type: MsgBusy, Busy: false})
	if err != nil {
		log.Printf("session %s: generation failed: %v", s.ID, err)
		s.send(Outgoing{Type: MsgError, Error: err.Error()})
		return
	}
	s.result = result
	s.send(Outgoing{
		Type:       MsgResult,
		Image:      imports.EncodeDataURL(result.MimeType, result.Data),
		Commentary: result.Commentary,
	})
	if s.notifier != nil {
		s.notifier.Generated(summarize(result.Commentary), resultImage(result))
	}
}

func (s *Session) handleUseResult() error {
	if s.result == nil {
		return fmt.Errorf("no generated image available")
	}
	if err := s.adapter.ReplaceEncoded(s.result.Data); err != nil {
		return err
	}
	s.pushFrame()
	return nil
}

func (s *Session) handleScreenshot() error {
	img, err := grabScreen()
	if err != nil {
		return fmt.Errorf("capture screen: %w", err)
	}
	if err := s.adapter.Replace(img); err != nil {
		return err
	}
	s.pushFrame()
	return nil
}

func (s *Session) handleExport(msg Incoming) error {
	var (
		path string
		err  error
	)
	switch strings.ToLower(strings.TrimSpace(msg.Format)) {
	case "", "png":
		path, err = export.SavePNG(s.saveDir, s.surf.Image())
	case "pdf":
		path, err = export.SavePDF(s.saveDir, s.surf.Image())
	default:
		return fmt.Errorf("unsupported export format %q", msg.Format)
	}
	if err != nil {
		return err
	}
	s.send(Outgoing{Type: MsgSaved, Path: path})
	if s.notifier != nil {
		s.notifier.Save(path)
	}
	return nil
}

func (s *Session) handleCopy() error {
	if err := writeClipboardImage(s.surf.Image()); err != nil {
		return fmt.Errorf("copy PNG to clipboard: %w", err)
	}
	if s.notifier != nil {
		s.notifier.Copy("sketch")
	}
	return nil
}

// pushFrame sends the current surface to the client. Callers hold s.mu.
func (s *Session) pushFrame() {
	url, err := s.surf.DataURL()
	if err != nil {
		log.Printf("session %s: encode frame: %v", s.ID, err)
		return
	}
	s.send(Outgoing{Type: MsgFrame, Image: url})
}

func parseTool(name string) surface.Tool {
	if strings.EqualFold(strings.TrimSpace(name), "eraser") {
		return surface.ToolEraser
	}
	return surface.ToolPencil
}

func summarize(commentary string) string {
	commentary = strings.TrimSpace(commentary)
	if commentary == "" {
		return "image"
	}
	if len(commentary) > 80 {
		return commentary[:77] + "..."
	}
	return commentary
}

func resultImage(result *generate.Result) image.Image {
	img, _, err := imports.Decode(result.Data)
	if err != nil {
		return nil
	}
	return img
}
