package replay

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"

	"github.com/leterax/go-stroll/pkg/control"
	"github.com/leterax/go-stroll/pkg/scene"
)

// Trajectory is the frame record of a replay run
type Trajectory struct {
	Script *Script
	Frames []scene.Frame
}

// Run plays script against sc. Events due at or before the start of a tick
// are queued before that tick runs. On cancellation the partial trajectory
// is returned with the context error.
func Run(ctx context.Context, sc *scene.Context, script *Script) (*Trajectory, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}

	steps := script.Steps()
	dt := script.Dt()
	events := script.Timeline()
	traj := &Trajectory{
		Script: script,
		Frames: make([]scene.Frame, 0, steps),
	}

	next := 0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return traj, ctx.Err()
		default:
		}

		// compare on tick index to keep float time from skipping an event
		for next < len(events) && events[next].At*float64(script.TickRate) <= float64(i)+1e-9 {
			queue(sc, events[next].keyEvent())
			next++
		}

		f, err := sc.Tick(dt)
		if err != nil {
			return traj, err
		}
		traj.Frames = append(traj.Frames, f)
	}
	return traj, nil
}

func queue(sc *scene.Context, ev control.KeyEvent) {
	if ev.Down {
		sc.KeyDown(ev.Key)
	} else {
		sc.KeyUp(ev.Key)
	}
}

// Final returns the last frame, or the zero frame for an empty run
func (t *Trajectory) Final() scene.Frame {
	if len(t.Frames) == 0 {
		return scene.Frame{}
	}
	return t.Frames[len(t.Frames)-1]
}

// Speeds is the longitudinal velocity per frame
func (t *Trajectory) Speeds() []float64 {
	out := make([]float64, len(t.Frames))
	for i, f := range t.Frames {
		out[i] = f.Velocity.Z()
	}
	return out
}

// Distances is the distance from the origin per frame
func (t *Trajectory) Distances() []float64 {
	out := make([]float64, len(t.Frames))
	for i, f := range t.Frames {
		out[i] = f.Pose.Position.Len()
	}
	return out
}

// Headings is the yaw per frame in radians
func (t *Trajectory) Headings() []float64 {
	out := make([]float64, len(t.Frames))
	for i, f := range t.Frames {
		out[i] = f.Pose.Heading()
	}
	return out
}

// Transitions counts the frames whose animation state differs from the previous one
func (t *Trajectory) Transitions() int {
	n := 0
	for i := 1; i < len(t.Frames); i++ {
		if t.Frames[i].State != t.Frames[i-1].State {
			n++
		}
	}
	return n
}

// Digest hashes every frame's tick, pose, velocity, intents and state.
// Identical scripts on identical profiles produce identical digests.
func (t *Trajectory) Digest() uint64 {
	h := xxh3.New()
	buf := make([]byte, 0, 128)
	for _, f := range t.Frames {
		buf = buf[:0]
		buf = binary.LittleEndian.AppendUint64(buf, uint64(f.Tick))
		q := f.Pose.Orientation
		for _, v := range []float64{
			q.W, q.V[0], q.V[1], q.V[2],
			f.Pose.Position[0], f.Pose.Position[1], f.Pose.Position[2],
			f.Velocity[0], f.Velocity[1], f.Velocity[2],
		} {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
		buf = append(buf, intentBits(f.Intent), byte(f.State))
		h.Write(buf)
	}
	return h.Sum64()
}

func intentBits(in control.Intent) byte {
	var b byte
	for i, held := range []bool{in.Forward, in.Backward, in.Left, in.Right} {
		if held {
			b |= 1 << i
		}
	}
	return b
}
