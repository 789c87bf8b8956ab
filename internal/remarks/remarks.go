package remarks

import "fmt"

// fromPoints converts a parsed model response into Remarks, rejecting
// anything other than exactly four non-empty strings.
func fromPoints(points []string) (Remarks, error) {
	if len(points) != PointCount {
		return Remarks{}, fmt.Errorf("expected %d remark points, got %d", PointCount, len(points))
	}
	var r Remarks
	for i, p := range points {
		if p == "" {
			return Remarks{}, fmt.Errorf("remark point %d is empty", i)
		}
		r[i] = p
	}
	return r, nil
}

// Slice returns the remarks as a []string for JSON responses.
func (r Remarks) Slice() []string {
	return []string{r[0], r[1], r[2], r[3]}
}
