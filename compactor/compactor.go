// Package compactor implements the single operation that folds every
// segment a segmentmanager.Manager owns into one: read every segment in
// order, merge into a single sorted set of pairs (later reads overwriting
// earlier ones), delete the sources, and write the merge back as the new
// segment 0.
package compactor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/flashkv/flashkv/segment"
	"github.com/flashkv/flashkv/segmentmanager"
	"github.com/flashkv/flashkv/stage"
)

// Compact reads every segment mgr owns oldest-to-newest, merges them into
// one sorted set of pairs with newer segments' reads overwriting older
// ones (the O2 open-question decision recorded in SPEC_FULL.md - this is
// the only ordering consistent with mgr.Lookup's own newest-first
// semantics), deletes every source segment, resets mgr's numbering, and
// writes the merge back as the new segment 0.
//
// An unreadable source segment is logged and skipped, matching the same
// swallow-per-segment-read-errors policy the segment manager's own lookup
// path uses; a failure writing the merged result is returned to the
// caller, since a broken write is the one compaction failure that has to
// surface.
func Compact[V any](mgr *segmentmanager.Manager[V], log *zap.SugaredLogger) error {
	n := mgr.SegmentCount()
	merged := stage.New[V]()

	for id := 0; id < n; id++ {
		path := mgr.SegmentPath(id)

		records, err := segment.ReadAll[V](path)
		if err != nil {
			log.Warnw("segment unreadable during compaction, skipping", "id", id, "path", path, "error", err)
		} else {
			for _, r := range records {
				merged.Insert(r.Key, r.Value)
			}
		}

		if err := mgr.DeleteSegment(id); err != nil {
			log.Warnw("failed to delete source segment during compaction", "id", id, "path", path, "error", err)
		}
	}

	mgr.Reset()

	sortedPairs := merged.DrainSorted()
	if len(sortedPairs) == 0 {
		log.Infow("compaction merged zero records, leaving segment directory empty")
		return nil
	}

	if err := mgr.Flush(sortedPairs); err != nil {
		return fmt.Errorf("compactor: failed to write merged segment: %w", err)
	}

	log.Infow("compaction complete", "sourceSegments", n, "mergedRecords", len(sortedPairs))
	return nil
}
