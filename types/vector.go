// Package types holds small value types shared across the engine.
package types

// Number is the set of element types vectors are defined over.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~float32 | ~float64
}

// Vector2 is a two-component vector.
type Vector2[T Number] struct {
	X T `json:"x"`
	Y T `json:"y"`
}

// Vector3 is a three-component vector.
type Vector3[T Number] struct {
	X T `json:"x"`
	Y T `json:"y"`
	Z T `json:"z"`
}

// Vector4 is a four-component vector.
type Vector4[T Number] struct {
	X T `json:"x"`
	Y T `json:"y"`
	Z T `json:"z"`
	W T `json:"w"`
}

type (
	IVec2 = Vector2[int32]
	IVec3 = Vector3[int32]
	IVec4 = Vector4[int32]

	UVec2 = Vector2[uint32]
	UVec3 = Vector3[uint32]
	UVec4 = Vector4[uint32]

	Vec2 = Vector2[float32]
	Vec3 = Vector3[float32]
	Vec4 = Vector4[float32]
)

// Add returns the component-wise sum of v and o.
func (v Vector2[T]) Add(o Vector2[T]) Vector2[T] {
	return Vector2[T]{v.X + o.X, v.Y + o.Y}
}

// Scale multiplies every component by s.
func (v Vector2[T]) Scale(s T) Vector2[T] {
	return Vector2[T]{v.X * s, v.Y * s}
}

// Add returns the component-wise sum of v and o.
func (v Vector3[T]) Add(o Vector3[T]) Vector3[T] {
	return Vector3[T]{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Scale multiplies every component by s.
func (v Vector3[T]) Scale(s T) Vector3[T] {
	return Vector3[T]{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vector3[T]) Dot(o Vector3[T]) T {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Add returns the component-wise sum of v and o.
func (v Vector4[T]) Add(o Vector4[T]) Vector4[T] {
	return Vector4[T]{v.X + o.X, v.Y + o.Y, v.Z + o.Z, v.W + o.W}
}
