package sparrow

import "github.com/hajimehoshi/ebiten/v2"

// Draw renders n and its subtree through rs. parentTransform maps the
// parent's space to the target; pass IdentityTransform() for a root.
//
// Each visible child with non-zero alpha is drawn with its alpha multiplied
// by its container's. The child's own alpha is restored before Draw
// returns, including when drawing fails or panics.
func (n *Node) Draw(rs *RenderSupport, parentTransform [6]float64) (err error) {
	// PostDraw also undoes a PreDraw that failed part way.
	defer func() {
		if perr := rs.PostDraw(n); err == nil {
			err = perr
		}
	}()
	if err := rs.PreDraw(n); err != nil {
		return err
	}

	switch n.Type {
	case NodeTypeContainer:
		return n.drawChildren(rs, parentTransform)
	case NodeTypeText:
		return rs.AddText(n, multiplyAffine(parentTransform, n.LocalTransform()))
	case NodeTypeParticles:
		if n.particles == nil {
			return nil
		}
		return n.particles.draw(rs, n.alpha, multiplyAffine(parentTransform, n.LocalTransform()))
	default:
		return n.drawQuad(rs, parentTransform)
	}
}

func (n *Node) drawChildren(rs *RenderSupport, parentTransform [6]float64) error {
	global := multiplyAffine(parentTransform, n.LocalTransform())
	for _, child := range n.children {
		if !child.Visible || floatIsZero(child.alpha) {
			continue
		}
		if err := drawComposited(child, rs, global, n.alpha); err != nil {
			return err
		}
	}
	return nil
}

// drawComposited draws child with its alpha scaled by alpha, then restores it.
func drawComposited(child *Node, rs *RenderSupport, transform [6]float64, alpha float64) error {
	saved := child.alpha
	child.alpha = saved * alpha
	defer func() { child.alpha = saved }()
	return child.Draw(rs, transform)
}

func (n *Node) drawQuad(rs *RenderSupport, parentTransform [6]float64) error {
	if e := rs.CurrentEffect(); !rs.IsUsingDefaultEffect() && e.CustomDraw != nil {
		return e.CustomDraw(n, rs, parentTransform)
	}
	if n.quad == nil {
		return nil
	}
	if err := rs.SetBoundTexture(textureImage(n.quad.texture)); err != nil {
		return err
	}
	return rs.AddPrimitive(n, multiplyAffine(parentTransform, n.LocalTransform()))
}

func textureImage(t *Texture) *ebiten.Image {
	if t == nil {
		return nil
	}
	return t.image
}
