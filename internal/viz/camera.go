package viz

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/san-kum/partsim/internal/dynamo"
)

// Camera projects world space onto the canvas. The view orbits Center at a
// fixed distance; Zoom scales world units to screen.
type Camera struct {
	Center           dynamo.Vector3
	Distance, Near   float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 50, Near: 0.1, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p dynamo.Vector3) dynamo.Vector3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts world coordinates to sub-pixel coordinates on a screen
// of sw x sh sub-pixels. Returns x, y, depth, and visibility.
func (c *Camera) Project(p dynamo.Vector3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p.Sub(c.Center)).Scale(c.Zoom)
	dist := c.Distance
	if rot.Z >= dist-c.Near {
		return 0, 0, 0, false
	}
	scale := dist / (dist - rot.Z)
	minDim := float64(min(sw, sh))
	pScale := minDim / 3.0
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End dynamo.Vector3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe                   { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e dynamo.Vector3) { w.Edges = append(w.Edges, Edge{s, e}) }

// Render3D projects each edge of w and draws it on layer l. Edges with
// neither end in view are skipped, as are edges whose projection runs far
// past the screen.
func Render3D(c *Canvas, w *Wireframe, cam *Camera, l Layer) {
	if c == nil || w == nil || cam == nil {
		return
	}
	sw, sh := c.Width*2, c.Height*4
	for _, e := range w.Edges {
		x1, y1, _, v1 := cam.Project(e.Start, sw, sh)
		x2, y2, _, v2 := cam.Project(e.End, sw, sh)
		if (v1 || v2) && abs(x2-x1)+abs(y2-y1) <= 2*(sw+sh) {
			c.Line(x1, y1, x2, y2, l)
		}
	}
}

// GroundGrid is a square grid on the y = 0 plane.
func GroundGrid(half float64, lines int) *Wireframe {
	w := NewWireframe()
	if lines < 2 {
		lines = 2
	}
	step := 2 * half / float64(lines-1)
	for i := 0; i < lines; i++ {
		o := -half + float64(i)*step
		w.AddEdge(dynamo.Vector3{X: o, Z: -half}, dynamo.Vector3{X: o, Z: half})
		w.AddEdge(dynamo.Vector3{X: -half, Z: o}, dynamo.Vector3{X: half, Z: o})
	}
	return w
}

// Follow eases a camera toward a moving target using critically damped
// springs, one per axis plus one for zoom.
type Follow struct {
	spring    harmonica.Spring
	pos, vel  [4]float64
	primed    bool
	MinRadius float64
}

func NewFollow(fps int) *Follow {
	return &Follow{
		spring:    harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
		MinRadius: 1,
	}
}

// Frame computes the centroid of points and a zoom that fits them, then
// moves the camera one frame toward that view.
func (f *Follow) Frame(cam *Camera, points []dynamo.Vector3) {
	if len(points) == 0 {
		return
	}

	var center dynamo.Vector3
	for _, p := range points {
		center.AddInPlace(p)
	}
	center = center.Scale(1 / float64(len(points)))

	radius := f.MinRadius
	for _, p := range points {
		radius = math.Max(radius, p.Sub(center).Magnitude())
	}

	target := [4]float64{center.X, center.Y, center.Z, 1 / radius}
	if !f.primed {
		f.pos = target
		f.primed = true
	}
	for i := range f.pos {
		f.pos[i], f.vel[i] = f.spring.Update(f.pos[i], f.vel[i], target[i])
	}

	cam.Center = dynamo.Vector3{X: f.pos[0], Y: f.pos[1], Z: f.pos[2]}
	if f.pos[3] > 0 {
		cam.Zoom = f.pos[3]
	}
}

// Reset drops the eased state so the next Frame snaps to its target.
func (f *Follow) Reset() {
	f.pos, f.vel = [4]float64{}, [4]float64{}
	f.primed = false
}
