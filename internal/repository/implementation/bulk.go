package implementation

// Postgres caps bind parameters per statement at 65535. Bulk inserts
// derive their batch size from the column count so a large pipeline run
// can never overflow the limit.
const maxBindParams = 65535

func bulkBatchSize(columnsPerRow int) int {
	if columnsPerRow <= 0 {
		return 1
	}
	size := maxBindParams / columnsPerRow
	if size < 1 {
		size = 1
	}
	return size
}
