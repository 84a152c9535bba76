package motion

import (
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/drag"
)

// Default durations.
const (
	DefaultSlide = 200 * time.Millisecond
	DefaultFade  = 200 * time.Millisecond
)

// appearScale is the starting scale of a piece fading in.
const appearScale = 0.6

// Visual is the drawable state of one piece.
type Visual struct {
	ID       string
	Kind     board.Kind
	Pos      board.Point
	Alpha    float64
	Scale    float64
	Active   bool
	Dragging bool

	slide *slide
	fade  *fade
}

type slide struct {
	tween    *Tween
	from, to board.Point
	done     func()
}

type fade struct {
	tween     *Tween
	fromAlpha float64
	toAlpha   float64
	fromScale float64
	toScale   float64
	done      func()
}

// Moving reports whether the visual is sliding.
func (v *Visual) Moving() bool {
	return v.slide != nil
}

// Fading reports whether the visual is fading in or out.
func (v *Visual) Fading() bool {
	return v.fade != nil
}

// stop ends every running tween of v and returns their callbacks.
func (v *Visual) stop() []func() {
	var fired []func()
	if v.slide != nil {
		fired = append(fired, v.slide.done)
		v.slide = nil
	}
	if v.fade != nil {
		fired = append(fired, v.fade.done)
		v.Alpha, v.Scale = v.fade.toAlpha, v.fade.toScale
		v.fade = nil
	}
	return fired
}

// Layer holds the visuals of a board and animates them. It implements the
// widget renderer contract; Update must be called once per tick.
type Layer struct {
	bounds  drag.Rect
	slideD  time.Duration
	fadeD   time.Duration
	ease    Easing
	visuals map[string]*Visual
	leaving []*Visual
}

// NewLayer creates a layer covering bounds.
func NewLayer(bounds drag.Rect) *Layer {
	return &Layer{
		bounds:  bounds,
		slideD:  DefaultSlide,
		fadeD:   DefaultFade,
		ease:    EaseOutCubic,
		visuals: make(map[string]*Visual),
	}
}

// SetDurations changes the duration of later slides and fades.
func (l *Layer) SetDurations(slide, fade time.Duration) {
	l.slideD = slide
	l.fadeD = fade
}

// SetBounds moves or resizes the board surface.
func (l *Layer) SetBounds(r drag.Rect) {
	l.bounds = r
}

// Bounds returns the board surface in absolute coordinates.
func (l *Layer) Bounds() drag.Rect {
	return l.bounds
}

// Visual returns the live visual for id.
func (l *Layer) Visual(id string) (*Visual, bool) {
	v, ok := l.visuals[id]
	return v, ok
}

// Len returns the number of live visuals, not counting those fading out.
func (l *Layer) Len() int {
	return len(l.visuals)
}

// Add creates a visual for p at the given point.
func (l *Layer) Add(p *board.Piece, at board.Point, animate bool, done func()) {
	var fired []func()
	for i, v := range l.leaving {
		if v.ID == p.ID {
			fired = append(fired, v.stop()...)
			l.leaving = append(l.leaving[:i], l.leaving[i+1:]...)
			break
		}
	}
	if old, ok := l.visuals[p.ID]; ok {
		fired = append(fired, old.stop()...)
	}

	v := &Visual{ID: p.ID, Kind: p.Kind(), Pos: at, Alpha: 1, Scale: 1, Active: p.Active}
	l.visuals[p.ID] = v
	if animate {
		v.Alpha, v.Scale = 0, appearScale
		v.fade = &fade{
			tween:     NewTween(l.fadeD, l.ease),
			fromAlpha: 0,
			toAlpha:   1,
			fromScale: appearScale,
			toScale:   1,
			done:      done,
		}
	} else {
		fired = append(fired, done)
	}
	call(fired)
}

// Translate moves the visual for id to the given point.
func (l *Layer) Translate(id string, to board.Point, animate bool, done func()) {
	v, ok := l.visuals[id]
	if !ok {
		call([]func(){done})
		return
	}

	var fired []func()
	if v.slide != nil {
		fired = append(fired, v.slide.done)
		v.slide = nil
	}
	if !animate || v.Pos == to {
		v.Pos = to
		fired = append(fired, done)
	} else {
		v.slide = &slide{tween: NewTween(l.slideD, l.ease), from: v.Pos, to: to, done: done}
	}
	call(fired)
}

// Remove destroys the visual for id.
func (l *Layer) Remove(id string, animate bool, done func()) {
	v, ok := l.visuals[id]
	if !ok {
		call([]func(){done})
		return
	}
	delete(l.visuals, id)

	fired := v.stop()
	v.Dragging = false
	if animate {
		v.fade = &fade{
			tween:     NewTween(l.fadeD, l.ease),
			fromAlpha: v.Alpha,
			toAlpha:   0,
			fromScale: v.Scale,
			toScale:   v.Scale,
			done:      done,
		}
		l.leaving = append(l.leaving, v)
	} else {
		fired = append(fired, done)
	}
	call(fired)
}

// SetActive marks the visual for id as draggable or not.
func (l *Layer) SetActive(id string, active bool) {
	if v, ok := l.visuals[id]; ok {
		v.Active = active
	}
}

// SetDragging flags the visual for id as being dragged.
func (l *Layer) SetDragging(id string, dragging bool) {
	if v, ok := l.visuals[id]; ok {
		v.Dragging = dragging
	}
}

// DragTo places the visual for id at p, cancelling any slide.
func (l *Layer) DragTo(id string, p board.Point) {
	v, ok := l.visuals[id]
	if !ok {
		return
	}
	var fired []func()
	if v.slide != nil {
		fired = append(fired, v.slide.done)
		v.slide = nil
	}
	v.Pos = p
	call(fired)
}

// Animating reports whether any slide or fade is running.
func (l *Layer) Animating() bool {
	if len(l.leaving) > 0 {
		return true
	}
	for _, v := range l.visuals {
		if v.slide != nil || v.fade != nil {
			return true
		}
	}
	return false
}

// Update advances every tween by dt. Callbacks of finished tweens run after
// the layer state has been updated, in visual ID order.
func (l *Layer) Update(dt time.Duration) {
	var fired []func()

	for _, id := range slices.Sorted(maps.Keys(l.visuals)) {
		v := l.visuals[id]
		if s := v.slide; s != nil {
			if s.tween.Advance(dt) {
				v.Pos = s.to
				v.slide = nil
				fired = append(fired, s.done)
			} else {
				v.Pos = s.tween.LerpPoint(s.from, s.to)
			}
		}
		if f := v.fade; f != nil {
			if advanceFade(v, f, dt) {
				fired = append(fired, f.done)
			}
		}
	}

	kept := l.leaving[:0]
	for _, v := range l.leaving {
		f := v.fade
		if f == nil || advanceFade(v, f, dt) {
			if f != nil {
				fired = append(fired, f.done)
			}
			continue
		}
		kept = append(kept, v)
	}
	l.leaving = kept

	call(fired)
}

func advanceFade(v *Visual, f *fade, dt time.Duration) bool {
	finished := f.tween.Advance(dt)
	v.Alpha = f.tween.Lerp(f.fromAlpha, f.toAlpha)
	v.Scale = f.tween.Lerp(f.fromScale, f.toScale)
	if finished {
		v.fade = nil
	}
	return finished
}

// Visuals returns every visual in draw order: pieces fading out first, then
// resting pieces, then sliding pieces, and the dragged piece last.
func (l *Layer) Visuals() []*Visual {
	out := make([]*Visual, 0, len(l.leaving)+len(l.visuals))
	out = append(out, l.leaving...)

	live := slices.Collect(maps.Values(l.visuals))
	sort.Slice(live, func(i, j int) bool {
		ri, rj := drawRank(live[i]), drawRank(live[j])
		if ri != rj {
			return ri < rj
		}
		return live[i].ID < live[j].ID
	})
	return append(out, live...)
}

func drawRank(v *Visual) int {
	switch {
	case v.Dragging:
		return 2
	case v.slide != nil:
		return 1
	default:
		return 0
	}
}

func call(fns []func()) {
	for _, fn := range fns {
		if fn != nil {
			fn()
		}
	}
}
