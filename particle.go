package sparrow

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strconv"
)

// DefaultParticleCapacity is the slot count CreateNode gives particle buffers.
const DefaultParticleCapacity = 128

// Range is a closed interval sampled uniformly.
type Range struct {
	Min, Max float64
}

// Random returns a value in [Min, Max] drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// EmitterConfig controls how particles are spawned and behave.
type EmitterConfig struct {
	// EmitRate is the number of particles spawned per second while started.
	EmitRate float64
	// Lifetime is the range of particle lifetimes in seconds.
	Lifetime Range
	// Speed is the range of initial speeds in pixels per second.
	Speed Range
	// Angle is the range of emission angles in radians.
	Angle Range
	// StartScale and EndScale bound the size factor over a particle's life.
	StartScale Range
	EndScale   Range
	// StartAlpha and EndAlpha bound the opacity over a particle's life.
	StartAlpha Range
	EndAlpha   Range
	// Gravity is the constant acceleration applied to every particle.
	Gravity Vec2
	// StartColor is the tint at birth, interpolated to EndColor.
	StartColor Color
	EndColor   Color
	// Size is the edge length of an untextured particle.
	Size float64
}

// DefaultEmitterConfig returns a config emitting short-lived white particles
// in every direction.
func DefaultEmitterConfig() EmitterConfig {
	return EmitterConfig{
		EmitRate:   30,
		Lifetime:   Range{1, 1},
		Speed:      Range{20, 60},
		Angle:      Range{0, 2 * math.Pi},
		StartScale: Range{1, 1},
		EndScale:   Range{1, 1},
		StartAlpha: Range{1, 1},
		EndAlpha:   Range{0, 0},
		StartColor: ColorWhite,
		EndColor:   ColorWhite,
		Size:       4,
	}
}

type particle struct {
	x, y       float64
	vx, vy     float64
	life       float64
	maxLife    float64
	startScale float64
	endScale   float64
	scale      float64
	startAlpha float64
	endAlpha   float64
	alpha      float64
	color      Color
}

// ParticleBuffer simulates a fixed number of particles on the CPU and draws
// them as quads in its node's space. Particle slots are handed out by a
// PoolIndexer, so emitting past capacity drops particles instead of
// allocating. Add it to a Juggler to simulate it.
type ParticleBuffer struct {
	node      *Node
	key       uint32
	config    EmitterConfig
	texture   *Texture
	particles []particle
	slots     *PoolIndexer
	poolID    string
	live      []int
	emitAccum float64
	active    bool
	rng       *rand.Rand
	quad      [QuadVertexCount]Vertex
}

// NewParticleBuffer creates a particle node with room for capacity live
// particles. A nil texture draws solid squares of EmitterConfig.Size.
func NewParticleBuffer(name string, capacity int, tex *Texture) *Node {
	if capacity <= 0 {
		capacity = DefaultParticleCapacity
	}
	n := &Node{Name: name, Type: NodeTypeParticles}
	nodeDefaults(n)
	poolID := particlePoolID(n.ID)
	slots, err := RegisterPool(poolID, capacity, 0, 1)
	if err != nil {
		panic(err)
	}
	n.particles = &ParticleBuffer{
		node:      n,
		key:       NextAnimKey(),
		config:    DefaultEmitterConfig(),
		texture:   tex,
		particles: make([]particle, capacity),
		slots:     slots,
		poolID:    poolID,
		live:      make([]int, 0, capacity),
		rng:       rand.New(rand.NewPCG(uint64(n.ID), 0x5eed)),
	}
	return n
}

func particlePoolID(nodeID uint32) string {
	return PoolParticlesPrefix + strconv.FormatUint(uint64(nodeID), 10)
}

// PoolID returns the registry id of the buffer's slot indexer.
func (pb *ParticleBuffer) PoolID() string { return pb.poolID }

// Particles returns the buffer of a particle node, or nil.
func (n *Node) Particles() *ParticleBuffer { return n.particles }

// AnimKey implements Animatable.
func (pb *ParticleBuffer) AnimKey() uint32 { return pb.key }

// Target implements Targeted.
func (pb *ParticleBuffer) Target() any { return pb.node }

// IsComplete implements Animatable. Buffers stay scheduled until removed.
func (pb *ParticleBuffer) IsComplete() bool { return false }

// Config returns the emitter config for live tuning.
func (pb *ParticleBuffer) Config() *EmitterConfig { return &pb.config }

// Texture returns the particle texture, or nil.
func (pb *ParticleBuffer) Texture() *Texture { return pb.texture }

// SetTexture changes the particle texture.
func (pb *ParticleBuffer) SetTexture(tex *Texture) { pb.texture = tex }

// Seed reseeds the random source used for spawning.
func (pb *ParticleBuffer) Seed(seed uint64) {
	pb.rng = rand.New(rand.NewPCG(seed, 0x5eed))
}

// Capacity returns the maximum number of live particles.
func (pb *ParticleBuffer) Capacity() int { return pb.slots.Capacity() }

// AliveCount returns the number of live particles.
func (pb *ParticleBuffer) AliveCount() int { return len(pb.live) }

// Start begins continuous emission at EmitRate.
func (pb *ParticleBuffer) Start() { pb.active = true }

// Stop ends emission. Live particles finish their lives.
func (pb *ParticleBuffer) Stop() { pb.active = false }

// IsActive reports whether the buffer is emitting.
func (pb *ParticleBuffer) IsActive() bool { return pb.active }

// Reset stops emission and kills every particle.
func (pb *ParticleBuffer) Reset() {
	pb.active = false
	pb.emitAccum = 0
	for len(pb.live) > 0 {
		pb.kill(len(pb.live) - 1)
	}
}

// Emit spawns up to count particles at the node's origin and returns how
// many fit.
func (pb *ParticleBuffer) Emit(count int) int {
	spawned := 0
	for range count {
		slot := pb.slots.Checkout()
		if slot == NoSlot {
			break
		}
		pb.spawn(&pb.particles[slot])
		pb.live = append(pb.live, slot)
		spawned++
	}
	return spawned
}

// Kill ends the i-th live particle early.
func (pb *ParticleBuffer) Kill(i int) error {
	if i < 0 || i >= len(pb.live) {
		return fmt.Errorf("sparrow: kill particle %d of %d: %w", i, len(pb.live), ErrIndexOutOfRange)
	}
	pb.kill(i)
	return nil
}

func (pb *ParticleBuffer) kill(i int) {
	slot := pb.live[i]
	last := len(pb.live) - 1
	pb.live[i] = pb.live[last]
	pb.live = pb.live[:last]
	if err := pb.slots.Checkin(slot); err != nil {
		Logger().Warn("particle slot release", slog.Any("err", err))
	}
}

func (pb *ParticleBuffer) spawn(p *particle) {
	cfg := &pb.config
	angle := cfg.Angle.Random(pb.rng)
	speed := cfg.Speed.Random(pb.rng)
	p.x, p.y = 0, 0
	p.vx = math.Cos(angle) * speed
	p.vy = math.Sin(angle) * speed
	p.life = cfg.Lifetime.Random(pb.rng)
	if p.life <= 0 {
		p.life = 1
	}
	p.maxLife = p.life
	p.startScale = cfg.StartScale.Random(pb.rng)
	p.endScale = cfg.EndScale.Random(pb.rng)
	p.scale = p.startScale
	p.startAlpha = cfg.StartAlpha.Random(pb.rng)
	p.endAlpha = cfg.EndAlpha.Random(pb.rng)
	p.alpha = p.startAlpha
	p.color = cfg.StartColor
}

// AdvanceTime implements Animatable. Particles age and move, dead ones
// free their slots, and new ones spawn while the buffer is active.
func (pb *ParticleBuffer) AdvanceTime(seconds float64) {
	cfg := &pb.config
	gx, gy := cfg.Gravity.X*seconds, cfg.Gravity.Y*seconds

	for i := 0; i < len(pb.live); {
		p := &pb.particles[pb.live[i]]
		p.life -= seconds
		if p.life <= 0 {
			pb.kill(i)
			continue
		}
		p.vx += gx
		p.vy += gy
		p.x += p.vx * seconds
		p.y += p.vy * seconds

		t := 1 - p.life/p.maxLife
		p.scale = lerp(p.startScale, p.endScale, t)
		p.alpha = lerp(p.startAlpha, p.endAlpha, t)
		p.color = Color{
			R: lerp(cfg.StartColor.R, cfg.EndColor.R, t),
			G: lerp(cfg.StartColor.G, cfg.EndColor.G, t),
			B: lerp(cfg.StartColor.B, cfg.EndColor.B, t),
			A: lerp(cfg.StartColor.A, cfg.EndColor.A, t),
		}
		i++
	}

	if pb.active && cfg.EmitRate > 0 {
		pb.emitAccum += cfg.EmitRate * seconds
		if n := int(pb.emitAccum); n > 0 {
			pb.emitAccum -= float64(n)
			pb.Emit(n)
		}
	}
}

func (pb *ParticleBuffer) particleSize() (float64, float64) {
	if pb.texture != nil {
		return pb.texture.drawSize()
	}
	return pb.config.Size, pb.config.Size
}

// fillQuad lays out a particle as a centered quad in the node's space.
func (pb *ParticleBuffer) fillQuad(p *particle) {
	w, h := pb.particleSize()
	w, h = w*p.scale, h*p.scale
	c := p.color
	c.A *= p.alpha
	for i, corner := range quadCorners {
		pb.quad[i] = Vertex{
			X:     p.x + (corner[0]-0.5)*w,
			Y:     p.y + (corner[1]-0.5)*h,
			U:     corner[0],
			V:     corner[1],
			Color: c,
		}
	}
}

func (pb *ParticleBuffer) draw(rs *RenderSupport, alpha float64, transform [6]float64) error {
	if len(pb.live) == 0 {
		return nil
	}
	if err := rs.SetBoundTexture(textureImage(pb.texture)); err != nil {
		return err
	}
	for _, slot := range pb.live {
		pb.fillQuad(&pb.particles[slot])
		if err := rs.AddVertices(pb.quad[:], pb.texture, alpha, transform); err != nil {
			return err
		}
	}
	return nil
}

func (pb *ParticleBuffer) release() {
	pb.live = pb.live[:0]
	pb.slots.InitIndexes(0, 1)
	UnregisterPool(pb.poolID)
	pb.node = nil
}

// particleBounds encloses every live particle quad. With no live particles
// it is a zero-size box at the node's origin.
func (n *Node) particleBounds(target *Node) (Rect, error) {
	m, err := n.TransformToSpace(target)
	if err != nil {
		return Rect{}, err
	}
	pb := n.particles
	if pb == nil || len(pb.live) == 0 {
		x, y := transformPoint(m, 0, 0)
		return Rect{X: x, Y: y}, nil
	}
	var bb boundsBuilder
	for _, slot := range pb.live {
		pb.fillQuad(&pb.particles[slot])
		for _, v := range pb.quad {
			bb.add(transformPoint(m, v.X, v.Y))
		}
	}
	return bb.rect(), nil
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
