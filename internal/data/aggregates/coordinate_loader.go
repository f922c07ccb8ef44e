package aggregates

import (
	"github.com/yungbote/itinerum-backend/internal/data/repos"
	"github.com/yungbote/itinerum-backend/internal/domain/mobile"
	"github.com/yungbote/itinerum-backend/internal/platform/dbctx"
)

// DefaultCoordinateBatchSize bounds the points handed to one bulk insert.
const DefaultCoordinateBatchSize = 5000

// coordinateLoader splits an unbounded point sequence into fixed-size
// batches. Order is preserved and nothing is deduplicated.
type coordinateLoader struct {
	repo      repos.CoordinateRepo
	batchSize int
}

func newCoordinateLoader(repo repos.CoordinateRepo, batchSize int) coordinateLoader {
	if batchSize <= 0 {
		batchSize = DefaultCoordinateBatchSize
	}
	return coordinateLoader{repo: repo, batchSize: batchSize}
}

// InsertCoordinates stamps points with the participant and returns the number
// of rows persisted and the number of batches used.
func (l coordinateLoader) InsertCoordinates(dbc dbctx.Context, participant *mobile.MobileUser, points []*mobile.MobileCoordinate) (int, int, error) {
	for _, c := range points {
		c.SurveyID = participant.SurveyID
		c.MobileID = participant.ID
	}
	inserted := 0
	batches := chunkCoordinates(points, l.batchSize)
	for _, batch := range batches {
		n, err := l.repo.CreateBatch(dbc, batch)
		if err != nil {
			return inserted, 0, err
		}
		inserted += int(n)
	}
	return inserted, len(batches), nil
}

func chunkCoordinates(points []*mobile.MobileCoordinate, size int) [][]*mobile.MobileCoordinate {
	if len(points) == 0 {
		return nil
	}
	out := make([][]*mobile.MobileCoordinate, 0, (len(points)+size-1)/size)
	for start := 0; start < len(points); start += size {
		end := start + size
		if end > len(points) {
			end = len(points)
		}
		out = append(out, points[start:end])
	}
	return out
}
