package geo

import (
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"
)

// lineStringFromCoords builds a LineString from [[x1,y1],[x2,y2],...] coordinates.
func lineStringFromCoords(coords [][]float64) (geom.LineString, error) {
	flatCoords := make([]float64, 0, len(coords)*2)
	for i, coord := range coords {
		if len(coord) < 2 {
			return geom.LineString{}, fmt.Errorf("coordinate %d has insufficient values", i)
		}
		flatCoords = append(flatCoords, coord[0], coord[1])
	}
	seq := geom.NewSequence(flatCoords, geom.DimXY)
	return geom.NewLineString(seq), nil
}

// lineStringFromXYs is the inverse of lineStringXYs.
func lineStringFromXYs(pts []geom.XY) geom.LineString {
	flatCoords := make([]float64, 0, len(pts)*2)
	for _, p := range pts {
		flatCoords = append(flatCoords, p.X, p.Y)
	}
	return geom.NewLineString(geom.NewSequence(flatCoords, geom.DimXY))
}

func lineStringXYs(ls geom.LineString) []geom.XY {
	seq := ls.Coordinates()
	n := seq.Length()
	pts := make([]geom.XY, n)
	for i := 0; i < n; i++ {
		pts[i] = seq.GetXY(i)
	}
	return pts
}
