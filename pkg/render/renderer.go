package render

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-stroll/internal/config"
	"github.com/leterax/go-stroll/internal/openglhelper"
	"github.com/leterax/go-stroll/pkg/scene"
)

var (
	//go:embed shaders/vert.glsl
	vertexSource string
	//go:embed shaders/frag.glsl
	fragmentSource string
)

var (
	backgroundColor = mgl32.Vec4{0.55, 0.7, 0.85, 1.0}
	groundColor     = mgl32.Vec3{0.45, 0.6, 0.35}
	characterColor  = mgl32.Vec3{0.95, 0.8, 0.2}
	lightPos        = mgl32.Vec3{2.0, 4.0, 3.0}
	lightColor      = mgl32.Vec3{1.0, 1.0, 1.0}
)

// Renderer draws the scene in a GLFW window and drives its ticks
type Renderer struct {
	window *openglhelper.Window
	camera *Camera
	shader *openglhelper.Shader

	ground    *openglhelper.Mesh
	character *openglhelper.Mesh

	sc  *scene.Context
	log *slog.Logger

	title         string
	lastFrameTime float64
	lastTitle     float64
	frames        int
}

// NewRenderer opens the window and uploads the scene geometry. It must be
// called on the locked main thread, as must Run.
func NewRenderer(sc *scene.Context, cfg *config.Config, log *slog.Logger) (*Renderer, error) {
	log = log.With("component", "render")

	window, err := openglhelper.NewWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, cfg.Window.VSync, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	shader, err := openglhelper.NewShader(vertexSource, fragmentSource)
	if err != nil {
		window.Close()
		return nil, fmt.Errorf("failed to load shader: %w", err)
	}

	cam := cfg.Camera
	camera := NewCamera(vec3(cam.Position), vec3(cam.Target), float32(cam.FOV), float32(cam.Near), float32(cam.Far))
	camera.UpdateProjectionMatrix(window.Size())

	r := &Renderer{
		window:    window,
		camera:    camera,
		shader:    shader,
		ground:    openglhelper.NewPlane(GroundSize),
		character: openglhelper.NewCube(),
		sc:        sc,
		log:       log,
		title:     cfg.Window.Title,
	}

	window.GLFWWindow().SetKeyCallback(r.keyCallback)
	window.GLFWWindow().SetScrollCallback(r.scrollCallback)
	window.GLFWWindow().SetFramebufferSizeCallback(r.framebufferSizeCallback)

	yaw, pitch := camera.Orientation()
	log.Info("renderer ready", "camera", camera.Position(), "yaw", yaw, "pitch", pitch, "fov", camera.FOV())
	return r, nil
}

func vec3(v [3]float64) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// Run ticks and draws the scene until the window closes or ctx is done.
// A panic in the loop is reported to sentry and returned as an error.
func (r *Renderer) Run(ctx context.Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("render loop panic", "panic", rec)
			hub := sentry.CurrentHub().Clone()
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetTag("frontend", "window")
				scope.SetTag("tick", fmt.Sprint(r.sc.Frame().Tick))
			})
			hub.Recover(rec)
			hub.Flush(5 * time.Second)
			err = fmt.Errorf("render loop panic: %v", rec)
		}
	}()

	r.lastFrameTime = glfw.GetTime()
	r.lastTitle = r.lastFrameTime

	for !r.window.ShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		now := glfw.GetTime()
		dt := min(now-r.lastFrameTime, maxFrameDt)
		r.lastFrameTime = now

		f, err := r.sc.Tick(dt)
		if err != nil {
			return err
		}
		r.render()
		r.updateTitle(now, f)

		r.window.SwapBuffers()
		r.window.PollEvents()
	}
	return nil
}

func (r *Renderer) render() {
	r.window.Clear(backgroundColor)

	r.shader.Use()
	r.shader.SetMat4("view", r.camera.ViewMatrix())
	r.shader.SetMat4("projection", r.camera.ProjectionMatrix())
	r.shader.SetVec3("viewPos", r.camera.Position())
	r.shader.SetVec3("lightPos", lightPos)
	r.shader.SetVec3("lightColor", lightColor)

	r.shader.SetMat4("model", mgl32.Ident4())
	r.shader.SetVec3("objectColor", groundColor)
	r.shader.SetFloat("checker", 6)
	r.ground.Draw()

	opts := r.sc.Options()
	mixer := r.sc.Mixer()
	model := characterModel(r.sc.Character(),
		sampleClip(mixer, opts.IdleClip),
		sampleClip(mixer, opts.MovingClip))
	r.shader.SetMat4("model", model)
	r.shader.SetVec3("objectColor", characterColor)
	r.shader.SetFloat("checker", 0)
	r.character.Draw()

	r.frames++
}

func (r *Renderer) updateTitle(now float64, f scene.Frame) {
	if now-r.lastTitle < 0.5 {
		return
	}
	fps := float64(r.frames) / (now - r.lastTitle)
	r.window.SetTitle(fmt.Sprintf("%s · %s · %.0f fps", r.title, f.State, fps))
	r.lastTitle = now
	r.frames = 0
}

// Close frees GPU resources and closes the window
func (r *Renderer) Close() {
	r.ground.Delete()
	r.character.Delete()
	r.shader.Delete()
	r.window.Close()
}

func (r *Renderer) keyCallback(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, _ glfw.ModifierKey) {
	if key == glfw.KeyEscape {
		if action == glfw.Press {
			r.window.RequestClose()
		}
		return
	}

	// key repeats carry no new information for the held set
	switch action {
	case glfw.Press:
		r.sc.KeyDown(translateKey(key, scancode))
	case glfw.Release:
		r.sc.KeyUp(translateKey(key, scancode))
	}
}

func (r *Renderer) scrollCallback(_ *glfw.Window, _, yoffset float64) {
	r.camera.HandleMouseScroll(yoffset)
}

func (r *Renderer) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	r.window.OnResize(width, height)
	r.camera.UpdateProjectionMatrix(width, height)
}
