// Package sparrow is a retained-mode 2D scene graph and batched renderer for
// [Ebitengine].
//
// Sparrow keeps a tree of display objects, resolves transforms between any
// two nodes of the tree, and draws the tree through a render state stack
// that batches quads into as few draw calls as possible. Animations are
// driven by a [Juggler].
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window and drives
// the stage for you:
//
//	stage, err := sparrow.NewStage(sparrow.DefaultStageConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	// ... add nodes ...
//	sparrow.Run(stage, sparrow.RunConfig{Title: "My Game"})
//
// For full control, implement [ebiten.Game] yourself and call
// [Stage.Update] and [Stage.Draw] directly.
//
// # Scene graph
//
// Every display object is a [Node]. Nodes form a tree rooted at
// [Stage.Root]. Children inherit their parent's transform and alpha. Only
// containers hold children.
//
// Create nodes with typed constructors: [NewContainer], [NewQuad],
// [NewImage], [NewText], [NewMovieClip] and [NewParticleBuffer].
//
//	ui := sparrow.NewContainer("ui")
//	stage.Root().AddChild(ui)
//
//	hero := sparrow.NewImage("hero", atlas.Texture("hero_idle"))
//	hero.SetPosition(100, 50)
//	ui.AddChild(hero)
//
// [Node.TransformToSpace] returns the matrix mapping one node's local space
// into another's, and [Node.BoundsInSpace] the axis-aligned box of a node as
// seen from any other node of the same tree.
//
// # Pooled buffers
//
// Quads, text lines and particles take their storage from shared buffers
// indexed by a [PoolIndexer]. [NewStage] primes them; nodes created while a
// pool is exhausted fall back to private storage.
//
// # Rendering
//
// [RenderSupport] owns the effect, blend and raster stacks and switches
// between a primitive batch for quads and a sprite batch for text and
// images. Any state change flushes the active batch first.
//
// # Animation
//
// A [Juggler] advances every [Animatable] scheduled on it: [Tween],
// [DelayedInvocation], [MovieClip], particle systems and nested jugglers.
// Tween easing comes from [gween].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package sparrow
