package sparrow

// DelayedInvocation calls a function once after a delay has elapsed.
type DelayedInvocation struct {
	key         uint32
	target      any
	fn          func()
	totalTime   float64
	currentTime float64
}

// NewDelayedInvocation creates an invocation of fn after delay seconds.
func NewDelayedInvocation(target any, delay float64, fn func()) *DelayedInvocation {
	return &DelayedInvocation{
		key:       NextAnimKey(),
		target:    target,
		fn:        fn,
		totalTime: max(minTweenTime, delay),
	}
}

// AnimKey implements Animatable.
func (d *DelayedInvocation) AnimKey() uint32 { return d.key }

// Target implements Targeted.
func (d *DelayedInvocation) Target() any { return d.target }

// IsComplete implements Animatable.
func (d *DelayedInvocation) IsComplete() bool { return d.currentTime >= d.totalTime }

// AdvanceTime implements Animatable. The function runs on the tick that
// crosses the delay.
func (d *DelayedInvocation) AdvanceTime(seconds float64) {
	previous := d.currentTime
	d.currentTime = min(d.totalTime, d.currentTime+seconds)
	if previous < d.totalTime && d.currentTime >= d.totalTime && d.fn != nil {
		d.fn()
	}
}
