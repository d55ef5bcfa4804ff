package infospot

import "math"

// Projector maps a world position to screen space. unit is the number of
// screen pixels one world unit covers at that depth; ok is false when the
// point is behind the camera.
type Projector interface {
	Project(p Vec3) (x, y, unit float64, ok bool)
}

// ProjectorFunc adapts a function to Projector.
type ProjectorFunc func(p Vec3) (x, y, unit float64, ok bool)

// Project calls f.
func (f ProjectorFunc) Project(p Vec3) (x, y, unit float64, ok bool) {
	return f(p)
}

// DefaultFOV is the vertical field of view used when PanoramaProjector.FOV
// is zero.
const DefaultFOV = 60.0

// nearPlane rejects points at or just in front of the camera.
const nearPlane = 1e-6

// PanoramaProjector is a pinhole camera at the origin. With zero Yaw and
// Pitch it looks down -Z with +Y up; positive Yaw turns toward +X and
// positive Pitch looks up.
type PanoramaProjector struct {
	Yaw, Pitch    float64 // radians
	FOV           float64 // vertical, degrees
	Width, Height float64 // viewport in pixels
}

// Forward returns the unit view direction.
func (p *PanoramaProjector) Forward() Vec3 {
	cp := math.Cos(p.Pitch)
	return Vec3{cp * math.Sin(p.Yaw), math.Sin(p.Pitch), -cp * math.Cos(p.Yaw)}
}

// Project implements Projector.
func (p *PanoramaProjector) Project(v Vec3) (x, y, unit float64, ok bool) {
	f := p.Forward()
	r := Vec3{math.Cos(p.Yaw), 0, math.Sin(p.Yaw)}
	u := cross(r, f)

	depth := dot(v, f)
	if depth <= nearPlane {
		return 0, 0, 0, false
	}
	fov := p.FOV
	if fov <= 0 {
		fov = DefaultFOV
	}
	focal := (p.Height / 2) / math.Tan(fov*math.Pi/360)

	x = p.Width/2 + dot(v, r)/depth*focal
	y = p.Height/2 - dot(v, u)/depth*focal
	return x, y, focal / depth, true
}

func dot(a, b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func cross(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}
