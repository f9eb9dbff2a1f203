package sparrow

import (
	"fmt"
	"math"
)

// DefaultClipFPS is the frame rate used by CreateNode for movie clips.
const DefaultClipFPS = 12

// MovieClip cycles the texture of its node through a list of frames. Add it
// to a Juggler to play it.
type MovieClip struct {
	node            *Node
	key             uint32
	frames          []*Texture
	durations       []float64
	defaultDuration float64
	totalDuration   float64
	currentTime     float64
	currentFrame    int
	loop            bool
	playing         bool

	// OnComplete fires when playback reaches the end of the last frame.
	OnComplete func(*MovieClip)
	// Sink, when set, receives a MovieCompleted event alongside OnComplete.
	Sink EventSink
}

func frameDuration(fps float64) float64 {
	if fps == 0 {
		return math.MaxInt32
	}
	return 1 / fps
}

// NewMovieClip creates a movie clip node showing frames at fps. It panics
// if frames is empty.
func NewMovieClip(name string, frames []*Texture, fps float64) *Node {
	if len(frames) == 0 {
		panic("sparrow: movie clip needs at least one frame")
	}
	n := NewImage(name, frames[0])
	n.Type = NodeTypeMovieClip
	mc := &MovieClip{
		node:            n,
		key:             NextAnimKey(),
		defaultDuration: frameDuration(fps),
		loop:            true,
		playing:         true,
	}
	for _, f := range frames {
		mc.AddFrame(f)
	}
	n.clip = mc
	return n
}

// MovieClip returns the clip driving a movie clip node, or nil.
func (n *Node) MovieClip() *MovieClip { return n.clip }

// Node returns the node the clip textures.
func (mc *MovieClip) Node() *Node { return mc.node }

// AnimKey implements Animatable.
func (mc *MovieClip) AnimKey() uint32 { return mc.key }

// Target implements Targeted.
func (mc *MovieClip) Target() any { return mc.node }

// IsComplete implements Animatable. Clips stay scheduled until removed.
func (mc *MovieClip) IsComplete() bool { return false }

// NumFrames returns the frame count.
func (mc *MovieClip) NumFrames() int { return len(mc.frames) }

// Duration returns the total duration of all frames.
func (mc *MovieClip) Duration() float64 { return mc.totalDuration }

// Loop reports whether playback wraps around.
func (mc *MovieClip) Loop() bool { return mc.loop }

// SetLoop sets whether playback wraps around.
func (mc *MovieClip) SetLoop(loop bool) { mc.loop = loop }

// IsPlaying reports whether the clip advances with time.
func (mc *MovieClip) IsPlaying() bool { return mc.playing }

// Play resumes playback.
func (mc *MovieClip) Play() { mc.playing = true }

// Pause stops playback at the current frame.
func (mc *MovieClip) Pause() { mc.playing = false }

// Stop pauses and rewinds to the first frame.
func (mc *MovieClip) Stop() {
	mc.playing = false
	_ = mc.SetCurrentFrame(0)
}

// FPS returns the default frame rate.
func (mc *MovieClip) FPS() float64 { return 1 / mc.defaultDuration }

// SetFPS changes the default frame rate and rescales every frame duration
// and the playhead by the same factor.
func (mc *MovieClip) SetFPS(fps float64) {
	d := frameDuration(fps)
	accel := d / mc.defaultDuration
	mc.currentTime *= accel
	mc.defaultDuration = d
	mc.totalDuration = 0
	for i := range mc.durations {
		mc.durations[i] *= accel
		mc.totalDuration += mc.durations[i]
	}
}

// AddFrame appends a frame with the default duration and returns its index.
func (mc *MovieClip) AddFrame(tex *Texture) int {
	return mc.AddFrameWithDuration(tex, mc.defaultDuration)
}

// AddFrameWithDuration appends a frame shown for duration seconds.
func (mc *MovieClip) AddFrameWithDuration(tex *Texture, duration float64) int {
	mc.frames = append(mc.frames, tex)
	mc.durations = append(mc.durations, duration)
	mc.totalDuration += duration
	return len(mc.frames) - 1
}

// InsertFrame inserts a frame with the default duration at index.
func (mc *MovieClip) InsertFrame(tex *Texture, index int) error {
	if index < 0 || index > len(mc.frames) {
		return fmt.Errorf("sparrow: insert frame %d of %d: %w", index, len(mc.frames), ErrIndexOutOfRange)
	}
	mc.frames = append(mc.frames, nil)
	copy(mc.frames[index+1:], mc.frames[index:])
	mc.frames[index] = tex
	mc.durations = append(mc.durations, 0)
	copy(mc.durations[index+1:], mc.durations[index:])
	mc.durations[index] = mc.defaultDuration
	mc.totalDuration += mc.defaultDuration
	return nil
}

// RemoveFrame deletes the frame at index.
func (mc *MovieClip) RemoveFrame(index int) error {
	if err := mc.checkIndex(index); err != nil {
		return err
	}
	mc.totalDuration -= mc.durations[index]
	mc.frames = append(mc.frames[:index], mc.frames[index+1:]...)
	mc.durations = append(mc.durations[:index], mc.durations[index+1:]...)
	if mc.currentFrame >= len(mc.frames) && len(mc.frames) > 0 {
		mc.currentFrame = len(mc.frames) - 1
	}
	return nil
}

// SetFrame replaces the texture of a frame.
func (mc *MovieClip) SetFrame(tex *Texture, index int) error {
	if err := mc.checkIndex(index); err != nil {
		return err
	}
	mc.frames[index] = tex
	return nil
}

// Frame returns the texture of a frame.
func (mc *MovieClip) Frame(index int) (*Texture, error) {
	if err := mc.checkIndex(index); err != nil {
		return nil, err
	}
	return mc.frames[index], nil
}

// SetFrameDuration changes how long a frame is shown.
func (mc *MovieClip) SetFrameDuration(index int, duration float64) error {
	if err := mc.checkIndex(index); err != nil {
		return err
	}
	mc.totalDuration += duration - mc.durations[index]
	mc.durations[index] = duration
	return nil
}

// FrameDuration returns how long a frame is shown.
func (mc *MovieClip) FrameDuration(index int) (float64, error) {
	if err := mc.checkIndex(index); err != nil {
		return 0, err
	}
	return mc.durations[index], nil
}

// CurrentFrame returns the index of the frame on display.
func (mc *MovieClip) CurrentFrame() int { return mc.currentFrame }

// SetCurrentFrame jumps to the start of a frame.
func (mc *MovieClip) SetCurrentFrame(index int) error {
	if err := mc.checkIndex(index); err != nil {
		return err
	}
	mc.currentFrame = index
	mc.currentTime = 0
	for i := range index {
		mc.currentTime += mc.durations[i]
	}
	mc.showCurrentFrame()
	return nil
}

func (mc *MovieClip) checkIndex(index int) error {
	if index < 0 || index >= len(mc.frames) {
		return fmt.Errorf("sparrow: frame %d of %d: %w", index, len(mc.frames), ErrIndexOutOfRange)
	}
	return nil
}

func (mc *MovieClip) showCurrentFrame() {
	mc.node.SetTexture(mc.frames[mc.currentFrame])
}

// AdvanceTime implements Animatable.
func (mc *MovieClip) AdvanceTime(seconds float64) {
	if mc.loop && mc.currentTime == mc.totalDuration {
		mc.currentTime = 0
	}
	if !mc.playing || seconds == 0 || mc.currentTime == mc.totalDuration || len(mc.frames) == 0 {
		return
	}

	previousTime := mc.currentTime
	restTime := mc.totalDuration - mc.currentTime
	carryOver := 0.0
	if seconds > restTime {
		carryOver = seconds - restTime
	}
	mc.currentTime = min(mc.totalDuration, mc.currentTime+seconds)

	sum := 0.0
	for i, d := range mc.durations {
		if sum+d >= mc.currentTime {
			if mc.currentFrame != i {
				mc.currentFrame = i
				mc.showCurrentFrame()
			}
			break
		}
		sum += d
	}

	if previousTime < mc.totalDuration && mc.currentTime == mc.totalDuration {
		if mc.OnComplete != nil {
			mc.OnComplete(mc)
		}
		if mc.Sink != nil {
			mc.Sink.EmitAnimation(AnimationEvent{Type: MovieCompleted, Key: mc.key, Target: mc.node})
		}
	}

	mc.AdvanceTime(carryOver)
}
