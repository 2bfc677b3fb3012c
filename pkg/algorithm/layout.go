package algorithm

import "math"

// layoutCircle places nodes without coordinates evenly on a circle in the unit square.
func layoutCircle(nodes []Node) {
	n := len(nodes)
	for i := range nodes {
		if nodes[i].X != 0 || nodes[i].Y != 0 {
			continue
		}
		angle := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
		nodes[i].X = 0.5 + 0.4*math.Cos(angle)
		nodes[i].Y = 0.5 + 0.4*math.Sin(angle)
	}
}
