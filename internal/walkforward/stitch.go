package walkforward

import (
	"fmt"

	"github.com/quantfold/walkforward/pkg/series"
)

// Stitch concatenates each fold's test P&L, in fold order, into one
// continuous out-of-sample series. Fold boundaries are re-validated here:
// the builder's invariants should already guarantee strictly increasing
// dates, but a duplicated boundary date would silently double-count a day,
// so it is checked again rather than trusted.
func Stitch(folds []FoldResult) (series.Series, error) {
	var points []series.Point
	for _, fr := range folds {
		if fr.TestPnL.Empty() {
			continue
		}
		first := fr.TestPnL.First().Date
		if len(points) > 0 && !first.After(points[len(points)-1].Date) {
			return series.Series{}, fmt.Errorf("stitched series: fold %d test start %s does not follow %s",
				fr.Fold.Index, first.Format("2006-01-02"), points[len(points)-1].Date.Format("2006-01-02"))
		}
		for i := 0; i < fr.TestPnL.Len(); i++ {
			points = append(points, fr.TestPnL.Point(i))
		}
	}
	return series.New(points)
}
