package sparrow

import "sync/atomic"

// Animatable is a time-driven object the Juggler advances once per tick.
type Animatable interface {
	// AdvanceTime moves the object forward by seconds.
	AdvanceTime(seconds float64)
	// IsComplete reports whether the object can be dropped from its juggler.
	IsComplete() bool
	// AnimKey returns the object's unique key from NextAnimKey.
	AnimKey() uint32
}

// Targeted is implemented by animatables that act on a target object.
type Targeted interface {
	Target() any
}

var animKeyCounter atomic.Uint32

// NextAnimKey returns a new process-wide unique animation key. Keys start
// at 1 and are never reused.
func NextAnimKey() uint32 {
	return animKeyCounter.Add(1)
}

// Juggler advances a set of Animatables in insertion order.
//
// While AdvanceTime is running, Add and Remove are queued and committed when
// the tick ends, so callbacks fired during a tick may schedule or cancel
// animations freely. Objects that report IsComplete after a tick are
// dropped. A Juggler is itself Animatable and can be nested.
type Juggler struct {
	key         uint32
	elapsed     float64
	juggling    bool
	objects     map[uint32]Animatable
	order       []Animatable
	addOrder    []Animatable
	addQueue    map[uint32]Animatable
	removeQueue map[uint32]Animatable
	sink        EventSink
}

// NewJuggler creates an empty juggler.
func NewJuggler() *Juggler {
	return &Juggler{
		key:         NextAnimKey(),
		objects:     make(map[uint32]Animatable),
		addQueue:    make(map[uint32]Animatable),
		removeQueue: make(map[uint32]Animatable),
	}
}

// AnimKey implements Animatable.
func (j *Juggler) AnimKey() uint32 { return j.key }

// IsComplete implements Animatable. A juggler never completes.
func (j *Juggler) IsComplete() bool { return false }

// ElapsedTime returns the total time advanced.
func (j *Juggler) ElapsedTime() float64 { return j.elapsed }

// Len returns the number of scheduled objects, excluding queued changes.
func (j *Juggler) Len() int { return len(j.order) }

// Contains reports whether obj is scheduled or queued for scheduling.
func (j *Juggler) Contains(obj Animatable) bool {
	if obj == nil {
		return false
	}
	k := obj.AnimKey()
	if _, ok := j.removeQueue[k]; ok {
		return false
	}
	_, live := j.objects[k]
	_, queued := j.addQueue[k]
	return live || queued
}

// SetEventSink routes completion events to sink. Nil disables them.
func (j *Juggler) SetEventSink(sink EventSink) { j.sink = sink }

// Add schedules obj. Adding an object whose key is already present is a no-op.
func (j *Juggler) Add(obj Animatable) {
	if obj == nil {
		return
	}
	k := obj.AnimKey()
	if j.juggling {
		delete(j.removeQueue, k)
		_, live := j.objects[k]
		_, queued := j.addQueue[k]
		if !live && !queued {
			j.addQueue[k] = obj
			j.addOrder = append(j.addOrder, obj)
		}
		return
	}
	if _, ok := j.objects[k]; !ok {
		j.objects[k] = obj
		j.order = append(j.order, obj)
	}
}

// Schedule is Add.
func (j *Juggler) Schedule(obj Animatable) { j.Add(obj) }

// Remove unschedules obj. Removing an absent object is a no-op. During a
// tick the object is skipped for the rest of the tick if it has not run yet.
func (j *Juggler) Remove(obj Animatable) {
	if obj == nil {
		return
	}
	k := obj.AnimKey()
	if _, ok := j.removeQueue[k]; ok {
		return
	}
	_, live := j.objects[k]
	_, queued := j.addQueue[k]
	if !live && !queued {
		return
	}
	if j.juggling {
		delete(j.addQueue, k)
		if live {
			j.removeQueue[k] = obj
		}
		return
	}
	j.removeNow(k)
}

// Unschedule is Remove.
func (j *Juggler) Unschedule(obj Animatable) { j.Remove(obj) }

// RemoveAll unschedules every object.
func (j *Juggler) RemoveAll() {
	for i := len(j.order) - 1; i >= 0; i-- {
		j.Remove(j.order[i])
	}
	for _, obj := range j.addOrder {
		if _, ok := j.addQueue[obj.AnimKey()]; ok {
			j.Remove(obj)
		}
	}
}

// RemoveTweensWithTarget unschedules every Targeted object acting on target.
func (j *Juggler) RemoveTweensWithTarget(target any) {
	if target == nil {
		return
	}
	for i := len(j.order) - 1; i >= 0; i-- {
		if t, ok := j.order[i].(Targeted); ok && t.Target() == target {
			j.Remove(j.order[i])
		}
	}
	for _, obj := range j.addOrder {
		if t, ok := obj.(Targeted); ok && t.Target() == target {
			j.Remove(obj)
		}
	}
}

// DelayInvocation schedules fn to run once after delay seconds.
func (j *Juggler) DelayInvocation(target any, delay float64, fn func()) *DelayedInvocation {
	d := NewDelayedInvocation(target, delay, fn)
	j.Add(d)
	return d
}

// AdvanceTime advances every scheduled object by seconds, drops completed
// objects, then commits changes queued during the tick.
func (j *Juggler) AdvanceTime(seconds float64) {
	j.elapsed += seconds

	j.juggling = true
	for i := 0; i < len(j.order); i++ {
		obj := j.order[i]
		if _, removed := j.removeQueue[obj.AnimKey()]; removed {
			continue
		}
		obj.AdvanceTime(seconds)
	}
	j.juggling = false

	for i := len(j.order) - 1; i >= 0; i-- {
		obj := j.order[i]
		if !obj.IsComplete() {
			continue
		}
		k := obj.AnimKey()
		if _, removed := j.removeQueue[k]; removed {
			continue
		}
		j.removeNow(k)
		if j.sink != nil {
			j.sink.EmitAnimation(AnimationEvent{Type: AnimationCompleted, Key: k, Target: targetOf(obj)})
		}
	}

	for _, obj := range j.addOrder {
		k := obj.AnimKey()
		if queued, ok := j.addQueue[k]; ok && queued == obj {
			delete(j.addQueue, k)
			j.Add(obj)
		}
	}
	clear(j.addOrder)
	j.addOrder = j.addOrder[:0]
	clear(j.addQueue)

	for k := range j.removeQueue {
		j.removeNow(k)
	}
	clear(j.removeQueue)
}

func (j *Juggler) removeNow(k uint32) {
	if _, ok := j.objects[k]; !ok {
		return
	}
	delete(j.objects, k)
	for i, obj := range j.order {
		if obj.AnimKey() == k {
			copy(j.order[i:], j.order[i+1:])
			j.order[len(j.order)-1] = nil
			j.order = j.order[:len(j.order)-1]
			return
		}
	}
}

func targetOf(obj Animatable) any {
	if t, ok := obj.(Targeted); ok {
		return t.Target()
	}
	return nil
}
