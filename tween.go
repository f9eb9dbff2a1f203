package sparrow

import (
	"github.com/tanema/gween/ease"
)

// LoopType controls what a tween does when it reaches its end.
type LoopType uint8

const (
	LoopNone         LoopType = iota // stop at the end
	LoopRepeat                       // restart from the start values
	LoopReverse                      // play backwards, then forwards again
	LoopReversePause                 // like LoopReverse, pausing RepeatDelay only before each forward run
)

// minTweenTime keeps ratios finite for zero-length tweens and delays.
const minTweenTime = 0.0001

type tweenedProperty struct {
	get        func() float64
	set        func(float64)
	start, end float64
	origStart  float64
	origEnd    float64
}

// Tween interpolates numeric properties over time with an easing function.
// Properties are bound with accessor pairs, so any value a caller can get
// and set can be animated.
type Tween struct {
	key         uint32
	target      any
	totalTime   float64
	currentTime float64
	delay       float64
	repeatDelay float64
	loop        LoopType
	loopCount   int
	transition  ease.TweenFunc
	props       []*tweenedProperty

	// OnStart fires when the first delay elapses.
	OnStart func(*Tween)
	// OnUpdate fires after property values change.
	OnUpdate func(*Tween)
	// OnComplete fires each time the tween reaches its end.
	OnComplete func(*Tween)
}

// NewTween creates a tween lasting seconds. A nil transition is linear.
func NewTween(target any, seconds float64, transition ease.TweenFunc) *Tween {
	if transition == nil {
		transition = ease.Linear
	}
	return &Tween{
		key:        NextAnimKey(),
		target:     target,
		totalTime:  max(minTweenTime, seconds),
		transition: transition,
	}
}

// AnimKey implements Animatable.
func (t *Tween) AnimKey() uint32 { return t.key }

// Target implements Targeted.
func (t *Tween) Target() any { return t.target }

// IsComplete implements Animatable. Looping tweens never complete.
func (t *Tween) IsComplete() bool {
	return t.currentTime >= t.totalTime && t.loop == LoopNone
}

// TotalTime returns the duration of one run.
func (t *Tween) TotalTime() float64 { return t.totalTime }

// CurrentTime returns the position within the current run. It is negative
// while a delay is pending.
func (t *Tween) CurrentTime() float64 { return t.currentTime }

// Delay returns the initial delay.
func (t *Tween) Delay() float64 { return t.delay }

// SetDelay changes the delay before the tween starts.
func (t *Tween) SetDelay(d float64) {
	t.currentTime = t.currentTime + t.delay - d
	t.delay = d
}

// SetRepeatDelay sets the pause between loops.
func (t *Tween) SetRepeatDelay(d float64) { t.repeatDelay = d }

// SetLoop sets the loop behavior.
func (t *Tween) SetLoop(l LoopType) { t.loop = l }

// Loop returns the loop behavior.
func (t *Tween) Loop() LoopType { return t.loop }

// LoopCount returns the number of completed runs that restarted.
func (t *Tween) LoopCount() int { return t.loopCount }

// Animate binds a property through get and set and animates it to end.
func (t *Tween) Animate(get func() float64, set func(float64), end float64) *Tween {
	v := get()
	t.props = append(t.props, &tweenedProperty{
		get: get, set: set,
		start: v, origStart: v,
		end: end, origEnd: end,
	})
	return t
}

func (t *Tween) node() *Node {
	n, ok := t.target.(*Node)
	if !ok || n == nil {
		panic("sparrow: node tween helper on a non-node target")
	}
	return n
}

// MoveTo animates the target node's position.
func (t *Tween) MoveTo(x, y float64) *Tween {
	n := t.node()
	t.Animate(n.X, n.SetX, x)
	return t.Animate(n.Y, n.SetY, y)
}

// ScaleTo animates both scale factors of the target node.
func (t *Tween) ScaleTo(s float64) *Tween {
	n := t.node()
	t.Animate(n.ScaleX, n.SetScaleX, s)
	return t.Animate(n.ScaleY, n.SetScaleY, s)
}

// FadeTo animates the target node's alpha.
func (t *Tween) FadeTo(alpha float64) *Tween {
	n := t.node()
	return t.Animate(n.Alpha, n.SetAlpha, alpha)
}

// RotateTo animates the target node's rotation.
func (t *Tween) RotateTo(r float64) *Tween {
	n := t.node()
	return t.Animate(n.Rotation, n.SetRotation, r)
}

// Reset rewinds the tween to before its delay and restores the original
// start and end values.
func (t *Tween) Reset() {
	t.currentTime = -t.delay
	t.loopCount = 0
	for _, p := range t.props {
		p.start = p.origStart
		p.end = p.origEnd
	}
}

// AdvanceTime implements Animatable. Time left over after the end of a
// looping run carries into the next run.
func (t *Tween) AdvanceTime(seconds float64) {
	if seconds == 0 || (t.loop == LoopNone && t.currentTime == t.totalTime) {
		return
	}

	if t.currentTime == t.totalTime {
		if t.loop != LoopReversePause || t.loopCount&1 != 0 {
			t.currentTime = -t.repeatDelay
		} else {
			t.currentTime = 0
		}
		t.loopCount++
	}

	previousTime := t.currentTime
	restTime := t.totalTime - t.currentTime
	carryOver := 0.0
	if seconds > restTime {
		carryOver = seconds - restTime
	}
	t.currentTime = min(t.totalTime, t.currentTime+seconds)

	if t.currentTime <= 0 {
		return
	}

	if t.loopCount == 0 && previousTime <= 0 && t.OnStart != nil {
		t.OnStart(t)
	}

	ratio := float32(t.currentTime / t.totalTime)
	var value float64
	if t.loop == LoopReverse && t.loopCount&1 != 0 {
		value = 1 - float64(t.transition(1-ratio, 0, 1, 1))
	} else {
		value = float64(t.transition(ratio, 0, 1, 1))
	}

	for _, p := range t.props {
		if previousTime <= 0 {
			p.start = p.get()
		}
		p.set(p.start + (p.end-p.start)*value)
	}

	if t.OnUpdate != nil {
		t.OnUpdate(t)
	}

	if previousTime < t.totalTime && t.currentTime == t.totalTime {
		switch t.loop {
		case LoopRepeat:
			for _, p := range t.props {
				p.set(p.start)
			}
		case LoopReverse, LoopReversePause:
			for _, p := range t.props {
				p.set(p.end)
				p.end = p.start
			}
		}
		if t.OnComplete != nil {
			t.OnComplete(t)
		}
	}

	t.AdvanceTime(carryOver)
}

// TweenPosition creates a tween moving node to (x, y).
func TweenPosition(node *Node, x, y, seconds float64, fn ease.TweenFunc) *Tween {
	return NewTween(node, seconds, fn).MoveTo(x, y)
}

// TweenScale creates a tween scaling node to (sx, sy).
func TweenScale(node *Node, sx, sy, seconds float64, fn ease.TweenFunc) *Tween {
	t := NewTween(node, seconds, fn)
	t.Animate(node.ScaleX, node.SetScaleX, sx)
	return t.Animate(node.ScaleY, node.SetScaleY, sy)
}

// TweenAlpha creates a tween fading node to alpha.
func TweenAlpha(node *Node, alpha, seconds float64, fn ease.TweenFunc) *Tween {
	return NewTween(node, seconds, fn).FadeTo(alpha)
}

// TweenRotation creates a tween rotating node to r radians.
func TweenRotation(node *Node, r, seconds float64, fn ease.TweenFunc) *Tween {
	return NewTween(node, seconds, fn).RotateTo(r)
}

// TweenColor creates a tween blending every vertex (or the text) of node
// from its current color to c.
func TweenColor(node *Node, c Color, seconds float64, fn ease.TweenFunc) *Tween {
	from := node.Color()
	t := NewTween(node, seconds, fn)
	progress := 0.0
	return t.Animate(
		func() float64 { return progress },
		func(v float64) {
			progress = v
			node.SetColor(Color{
				R: from.R + (c.R-from.R)*v,
				G: from.G + (c.G-from.G)*v,
				B: from.B + (c.B-from.B)*v,
				A: from.A + (c.A-from.A)*v,
			})
		},
		1,
	)
}
