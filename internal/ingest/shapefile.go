package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/agrisurvey/soilreport/internal/table"
)

// ReadShapefile reads the attribute table of a shapefile. When the DBF
// carries no area field, a 面积 column is appended with the planar polygon
// area computed from the geometry.
func ReadShapefile(path string) (*table.Table, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	columns := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		columns = append(columns, strings.TrimRight(f.String(), "\x00"))
	}

	hasArea := false
	for _, c := range columns {
		switch strings.ToLower(c) {
		case "面积", "mj", "area":
			hasArea = true
		}
	}
	if !hasArea {
		columns = append(columns, "面积")
	}

	var rows [][]string
	for reader.Next() {
		_, shape := reader.Shape()

		row := make([]string, 0, len(columns))
		for i := range fields {
			val := strings.TrimRight(reader.Attribute(i), "\x00")
			row = append(row, strings.TrimSpace(val))
		}
		if !hasArea {
			row = append(row, strconv.FormatFloat(shapeArea(shape), 'f', -1, 64))
		}
		rows = append(rows, row)
	}

	return table.New(columns, rows), nil
}

// shapeArea computes the planar area of a shapefile polygon, summing the
// shoelace area of its rings so holes subtract from their shells.
func shapeArea(shape shp.Shape) float64 {
	p, ok := shape.(*shp.Polygon)
	if !ok || p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return 0
	}

	var total float64
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		ring := geom.NewLinearRingFlat(geom.XY, flat)
		total += ring.Area()
	}
	return math.Abs(total)
}
