package storage

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// PageProblem is the first error found on a data page.
type PageProblem struct {
	Page     int
	Relation uint16
	Err      error
}

// VerifyReport summarizes a full pass over every record of a database.
type VerifyReport struct {
	Pages        int
	Records      int
	Holes        int
	DecodedBytes int64
	// RecordsByRelation counts readable records per owning relation.
	RecordsByRelation map[uint16]int
	Problems          []PageProblem
}

// OK reports whether every record could be read.
func (r *VerifyReport) OK() bool {
	return len(r.Problems) == 0
}

type pageResult struct {
	records int
	holes   int
	decoded int64
	err     error
}

// Verify parses and decompresses every slot of every data page using up to
// workers goroutines. Problems are collected in the report; the returned
// error is only set when ctx is cancelled.
func Verify(ctx context.Context, db *Database, workers int) (*VerifyReport, error) {
	if workers < 1 {
		workers = 1
	}
	pages := db.store.Pages()

	var mu sync.Mutex
	report := &VerifyReport{
		Pages:             len(pages),
		RecordsByRelation: make(map[uint16]int),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, dp := range pages {
		dp := dp
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := verifyPage(dp)

			mu.Lock()
			defer mu.Unlock()
			report.Records += res.records
			report.Holes += res.holes
			report.DecodedBytes += res.decoded
			report.RecordsByRelation[dp.Relation] += res.records
			if res.err != nil {
				report.Problems = append(report.Problems, PageProblem{Page: dp.Index, Relation: dp.Relation, Err: res.err})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(report.Problems, func(i, j int) bool {
		return report.Problems[i].Page < report.Problems[j].Page
	})
	db.Logger.Info("Verified %d record(s) on %d page(s), %d problem(s)",
		report.Records, report.Pages, len(report.Problems))
	return report, nil
}

func verifyPage(dp *DataPage) pageResult {
	var res pageResult
	for i, slot := range dp.Slots {
		if slot.IsHole() {
			res.holes++
			continue
		}
		rec, err := dp.Record(i)
		if err != nil {
			if res.err == nil {
				res.err = err
			}
			continue
		}
		if rec == nil {
			res.holes++
			continue
		}
		res.records++
		res.decoded += int64(len(rec.Decode()))
	}
	return res
}
