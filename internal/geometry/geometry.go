// Package geometry provides the distance and obstacle-intersection math
// shared by the evolve engine and the exporters.
package geometry

import (
	"math"

	"tourplanner/internal/model"
)

// ObstaclePenalty is added to a tour's cost for every leg that crosses an
// obstacle. It is large enough that any obstacle-free tour beats any
// blocked one, which is how the engine steers the search around obstacles.
const ObstaclePenalty = 10000.0

// Distance returns the Euclidean distance between two cities.
func Distance(a, b model.City) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// SegmentIntersectsCircle reports whether the segment from a to b passes
// through the given obstacle. It projects the circle center onto the
// segment, clamps to the segment ends, and compares the closest approach
// against the radius.
func SegmentIntersectsCircle(a, b model.City, obs model.Obstacle) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if dx == 0 && dy == 0 {
		return false
	}

	t := ((obs.X-a.X)*dx + (obs.Y-a.Y)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))

	closestX := a.X + t*dx
	closestY := a.Y + t*dy

	distSq := (closestX-obs.X)*(closestX-obs.X) + (closestY-obs.Y)*(closestY-obs.Y)
	return distSq < obs.Radius*obs.Radius
}

// RouteCost returns the total cost of the closed tour described by route:
// the sum of leg lengths plus ObstaclePenalty for every (leg, obstacle)
// crossing. The tour implicitly returns to the first city after the last.
func RouteCost(route model.Route, cities []model.City, obstacles []model.Obstacle) float64 {
	var dist, penalty float64
	n := len(route)
	for i := 0; i < n; i++ {
		from := cities[route[i]]
		to := cities[route[(i+1)%n]]
		dist += Distance(from, to)
		for _, obs := range obstacles {
			if SegmentIntersectsCircle(from, to, obs) {
				penalty += ObstaclePenalty
			}
		}
	}
	return dist + penalty
}

// SegmentStat describes one leg of a computed tour.
type SegmentStat struct {
	From    int
	To      int
	Length  float64
	Blocked bool
}

// TourStats summarizes a computed tour for display and reporting.
type TourStats struct {
	Segments    []SegmentStat
	TotalLength float64 // geometric length, without penalties
	BlockedLegs int
}

// ComputeTourStats breaks a closed tour down per leg. A leg is blocked when
// it crosses at least one obstacle.
func ComputeTourStats(route model.Route, cities []model.City, obstacles []model.Obstacle) TourStats {
	stats := TourStats{}
	n := len(route)
	if n < 2 {
		return stats
	}
	for i := 0; i < n; i++ {
		fromIdx := route[i]
		toIdx := route[(i+1)%n]
		from := cities[fromIdx]
		to := cities[toIdx]

		seg := SegmentStat{
			From:   fromIdx,
			To:     toIdx,
			Length: Distance(from, to),
		}
		for _, obs := range obstacles {
			if SegmentIntersectsCircle(from, to, obs) {
				seg.Blocked = true
				break
			}
		}

		stats.TotalLength += seg.Length
		if seg.Blocked {
			stats.BlockedLegs++
		}
		stats.Segments = append(stats.Segments, seg)
	}
	return stats
}
