package surface

// Translator converts sampled pointer positions into stroke segments on a
// surface. It is a two-state machine: idle until Begin, drawing until End.
// Every delivered sample becomes one segment, in order; there is no smoothing
// or decimation.
type Translator struct {
	surface  *Surface
	last     *Point
	onChange func()
}

// NewTranslator wires a translator to a surface. onChange fires when a
// gesture starts and ends; it may be nil.
func NewTranslator(s *Surface, onChange func()) *Translator {
	return &Translator{surface: s, onChange: onChange}
}

// Drawing reports whether a gesture is in progress.
func (t *Translator) Drawing() bool { return t.last != nil }

func (t *Translator) notify() {
	if t.onChange != nil {
		t.onChange()
	}
}

// Begin starts a gesture at p and immediately draws a dot there so a tap with
// no movement still leaves a mark.
func (t *Translator) Begin(p Point) error {
	t.last = &p
	err := t.surface.DrawSegment(p, p)
	t.notify()
	return err
}

// Move extends the gesture to p with a straight segment from the previous
// sample. Samples arriving while idle are ignored; a stroke never resumes
// without a new press.
func (t *Translator) Move(p Point) error {
	if t.last == nil {
		return nil
	}
	err := t.surface.DrawSegment(*t.last, p)
	t.last = &p
	return err
}

// End terminates the gesture. Pointer release and pointer leave both map
// here: a stroke that exits the drawing region is finished, not suspended.
func (t *Translator) End() {
	if t.last == nil {
		return
	}
	t.last = nil
	t.notify()
}
