package core

import (
	"cmp"
	"slices"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox AABB
	Left        *BVHNode
	Right       *BVHNode
	Shapes      []Shape // Shapes of a leaf node (nil for internal nodes)
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection.
// It is immutable after construction and safe for concurrent Hit calls.
type BVH struct {
	Root *BVHNode
}

// Leaf threshold: if we have this many or fewer shapes, store them in a leaf node
const leafThreshold = 4

// bvhEntry caches a shape's bounds so sorting doesn't recompute them
type bvhEntry struct {
	shape  Shape
	box    AABB
	center Vec3
}

// NewBVH constructs a BVH from a slice of shapes. The input slice is not modified.
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{Root: nil}
	}

	entries := make([]bvhEntry, len(shapes))
	for i, shape := range shapes {
		box := shape.BoundingBox()
		entries[i] = bvhEntry{shape: shape, box: box, center: box.Center()}
	}

	return &BVH{Root: buildBVH(entries)}
}

// buildBVH recursively splits entries at the median of the longest axis
func buildBVH(entries []bvhEntry) *BVHNode {
	box := entries[0].box
	for _, e := range entries[1:] {
		box = box.Union(e.box)
	}

	if len(entries) <= leafThreshold {
		leaf := make([]Shape, len(entries))
		for i, e := range entries {
			leaf[i] = e.shape
		}
		return &BVHNode{BoundingBox: box, Shapes: leaf}
	}

	axis := box.LongestAxis()
	slices.SortFunc(entries, func(a, b bvhEntry) int {
		return cmp.Compare(a.center.Axis(axis), b.center.Axis(axis))
	})

	mid := len(entries) / 2
	return &BVHNode{
		BoundingBox: box,
		Left:        buildBVH(entries[:mid]),
		Right:       buildBVH(entries[mid:]),
	}
}

// Hit returns the nearest intersection with any shape in the BVH
func (bvh *BVH) Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool) {
	if bvh.Root == nil {
		return nil, false
	}
	return hitNode(bvh.Root, ray, tMin, tMax)
}

// BoundingBox returns the bounds of every shape in the hierarchy
func (bvh *BVH) BoundingBox() AABB {
	if bvh.Root == nil {
		return AABB{}
	}
	return bvh.Root.BoundingBox
}

func hitNode(node *BVHNode, ray Ray, tMin, tMax float64) (*HitRecord, bool) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil, false
	}

	var closestHit *HitRecord
	closestSoFar := tMax

	if node.Shapes != nil {
		for _, shape := range node.Shapes {
			if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
				closestSoFar = hit.T
				closestHit = hit
			}
		}
		return closestHit, closestHit != nil
	}

	if hit, isHit := hitNode(node.Left, ray, tMin, closestSoFar); isHit {
		closestSoFar = hit.T
		closestHit = hit
	}
	if hit, isHit := hitNode(node.Right, ray, tMin, closestSoFar); isHit {
		closestHit = hit
	}

	return closestHit, closestHit != nil
}

// BVHStats summarizes the shape of a BVH
type BVHStats struct {
	TotalNodes  int
	LeafNodes   int
	MaxDepth    int
	TotalShapes int
}

// Stats walks the tree and counts its nodes
func (bvh *BVH) Stats() BVHStats {
	var stats BVHStats
	if bvh.Root != nil {
		collectStats(bvh.Root, 0, &stats)
	}
	return stats
}

func collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++
	stats.MaxDepth = max(stats.MaxDepth, depth)

	if node.Shapes != nil {
		stats.LeafNodes++
		stats.TotalShapes += len(node.Shapes)
		return
	}
	collectStats(node.Left, depth+1, stats)
	collectStats(node.Right, depth+1, stats)
}
