package render

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/leterax/go-stroll/pkg/anim"
	"github.com/leterax/go-stroll/pkg/scene"
)

// clipSample is the weight and loop phase of one clip at draw time
type clipSample struct {
	weight float32
	phase  float32 // [0, 1)
}

func sampleClip(m *anim.AnimationMixer, name string) clipSample {
	a, ok := m.Action(name)
	if !ok || !a.Playing() {
		return clipSample{}
	}
	return clipSample{weight: float32(a.Weight()), phase: float32(a.Phase())}
}

// characterModel places the unit cube on the ground at the object's pose.
// The idle clip breathes the body height, the walk clip bobs it.
func characterModel(obj *scene.Object, idle, walk clipSample) mgl32.Mat4 {
	breath := 1 + breathAmplitude*idle.weight*math32.Sin(2*math32.Pi*idle.phase)
	bob := bobAmplitude * walk.weight * math32.Abs(math32.Sin(2*math32.Pi*walk.phase))

	base := toMat32(obj.Model())
	return mgl32.Translate3D(0, bob, 0).
		Mul4(base).
		Mul4(mgl32.Scale3D(1, breath, 1)).
		Mul4(mgl32.Translate3D(0, 0.5, 0))
}

func toMat32(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
