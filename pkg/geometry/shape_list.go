package geometry

import (
	"fmt"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
)

// ShapeList is an ordered collection of shapes that is itself a Shape.
// It is built before rendering and only read while rendering.
type ShapeList struct {
	shapes []Shape
}

// NewShapeList creates a list from the given shapes
func NewShapeList(shapes ...Shape) (*ShapeList, error) {
	list := &ShapeList{shapes: make([]Shape, 0, len(shapes))}
	for _, shape := range shapes {
		if err := list.Add(shape); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Add appends a shape to the list
func (l *ShapeList) Add(shape Shape) error {
	if shape == nil {
		return fmt.Errorf("nil shape at index %d: %w", len(l.shapes), core.ErrDegenerateGeometry)
	}
	l.shapes = append(l.shapes, shape)
	return nil
}

// Len returns the number of shapes in the list
func (l *ShapeList) Len() int {
	return len(l.shapes)
}

// Shapes returns the shapes in insertion order
func (l *ShapeList) Shapes() []Shape {
	return l.shapes
}

// Hit returns the closest hit among all member shapes. The upper bound is
// narrowed to the closest hit found so far; a later shape at the same
// distance replaces the earlier one.
func (l *ShapeList) Hit(ray core.Ray, rayT core.Interval) (*HitRecord, bool) {
	var closestHit *HitRecord
	closestSoFar := rayT.Max

	for _, shape := range l.shapes {
		if hit, isHit := shape.Hit(ray, core.NewInterval(rayT.Min, closestSoFar)); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
