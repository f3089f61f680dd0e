package vectors

import "math"

// Vec2 is a fixed two-dimensional vector.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(other Vec2) Vec2 { return Vec2{v.X + other.X, v.Y + other.Y} }
func (v Vec2) Sub(other Vec2) Vec2 { return Vec2{v.X - other.X, v.Y - other.Y} }
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}
func (v Vec2) Neg() Vec2 { return Vec2{-v.X, -v.Y} }

func (v Vec2) Dot(other Vec2) float64 { return v.X*other.X + v.Y*other.Y }
func (v Vec2) Norm() float64          { return math.Hypot(v.X, v.Y) }
func (v Vec2) Len() int               { return 2 }

func (v Vec2) At(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	panic("vectors: Vec2 index out of range")
}

func (v Vec2) Elements() []float64 { return []float64{v.X, v.Y} }

func (v Vec2) WithElements(elems []float64) Vec2 {
	if len(elems) != 2 {
		panic("vectors: Vec2 requires exactly 2 elements")
	}
	return Vec2{elems[0], elems[1]}
}

// Vec3 is a fixed three-dimensional vector.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(other Vec3) Vec3 { return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z} }
func (v Vec3) Sub(other Vec3) Vec3 { return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z} }
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}
func (v Vec3) Neg() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

func (v Vec3) Dot(other Vec3) float64 { return v.X*other.X + v.Y*other.Y + v.Z*other.Z }
func (v Vec3) Norm() float64          { return math.Sqrt(v.Dot(v)) }
func (v Vec3) Len() int               { return 3 }

func (v Vec3) At(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic("vectors: Vec3 index out of range")
}

func (v Vec3) Elements() []float64 { return []float64{v.X, v.Y, v.Z} }

func (v Vec3) WithElements(elems []float64) Vec3 {
	if len(elems) != 3 {
		panic("vectors: Vec3 requires exactly 3 elements")
	}
	return Vec3{elems[0], elems[1], elems[2]}
}
