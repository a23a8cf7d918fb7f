package dataprocessing

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"welldata/pkg/contracts/domain"
)

func ts(day int) *time.Time {
	return domain.Time(time.Date(2021, 1, day, 0, 0, 0, 0, time.UTC))
}

func TestFilterByYearAndWell(t *testing.T) {
	records := []domain.WellRecord{
		{WellName: "A7", SheetYear: 2020},
		{WellName: "A7", SheetYear: 2021},
		{WellName: "B1", SheetYear: 2021},
	}

	sel := Filter(records, 2021, WellSet([]string{"A7"}))

	require.Len(t, sel.Records, 1)
	assert.Equal(t, 2021, sel.Records[0].SheetYear)
	assert.Equal(t, []string{"A7"}, sel.Wells)
	assert.Len(t, records, 3, "input untouched")
}

func TestFilterWellsSubsetOfSelection(t *testing.T) {
	records := []domain.WellRecord{
		{WellName: "B", SheetYear: 2020},
		{WellName: "A", SheetYear: 2022},
	}

	sel := Filter(records, 2021, WellSet([]string{"A", "B", "C"}))

	assert.Equal(t, []string{"A"}, sel.Wells)
}

func TestFilterEmpty(t *testing.T) {
	sel := Filter(nil, 2020, WellSet(nil))
	assert.True(t, sel.Empty())
	assert.Empty(t, sel.Wells)
	assert.Empty(t, sel.Groups())
}

func TestSortRecordsOrder(t *testing.T) {
	records := []domain.WellRecord{
		{WellName: "B", Timestamp: ts(1), SheetYear: 1},
		{WellName: "A", Timestamp: ts(3), SheetYear: 2},
		{WellName: "A", Timestamp: nil, SheetYear: 3},
		{WellName: "A", Timestamp: ts(2), SheetYear: 4},
		{WellName: "A", Timestamp: nil, SheetYear: 5},
		{WellName: "A", Timestamp: ts(2), SheetYear: 6},
	}

	SortRecords(records)

	var got []int
	for _, r := range records {
		got = append(got, r.SheetYear)
	}
	// nil timestamps first; equal keys keep input order
	assert.Equal(t, []int{3, 5, 4, 6, 2, 1}, got)
}

func randomRecords(rng *rand.Rand, n int) []domain.WellRecord {
	wells := []string{"A", "B", "C", "D"}
	out := make([]domain.WellRecord, n)
	for i := range out {
		out[i] = domain.WellRecord{
			WellName:  wells[rng.Intn(len(wells))],
			SheetYear: 2018 + rng.Intn(5),
		}
		if rng.Intn(4) > 0 {
			out[i].Timestamp = ts(1 + rng.Intn(10))
		}
	}
	return out
}

func TestSortIsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		records := randomRecords(rng, 200)
		SortRecords(records)

		again := append([]domain.WellRecord(nil), records...)
		SortRecords(again)

		assert.Equal(t, records, again)
	}
}

func TestFilterIsMonotone(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	records := randomRecords(rng, 500)
	for i := range records {
		records[i].LiquidRate = domain.Float(float64(i))
	}
	wells := WellSet([]string{"A", "C"})

	for a := 2017; a <= 2023; a++ {
		for b := a; b <= 2023; b++ {
			loose := Filter(records, a, wells)
			strict := Filter(records, b, wells)

			ids := make(map[float64]bool, len(loose.Records))
			for _, r := range loose.Records {
				ids[*r.LiquidRate] = true
			}
			for _, r := range strict.Records {
				assert.True(t, ids[*r.LiquidRate], "start %d result not within start %d", b, a)
			}
		}
	}
}

func TestGroups(t *testing.T) {
	records := []domain.WellRecord{
		{WellName: "B", Timestamp: ts(2), SheetYear: 2021},
		{WellName: "A", Timestamp: ts(1), SheetYear: 2021},
		{WellName: "B", Timestamp: ts(1), SheetYear: 2021},
	}

	sel := Filter(records, 2021, WellSet([]string{"A", "B"}))
	groups := sel.Groups()

	require.Len(t, groups, 2)
	assert.Equal(t, "A", groups[0].Well)
	assert.Len(t, groups[0].Records, 1)
	assert.Equal(t, "B", groups[1].Well)
	require.Len(t, groups[1].Records, 2)
	assert.True(t, groups[1].Records[0].Timestamp.Before(*groups[1].Records[1].Timestamp))
	assert.Equal(t, sel.Wells, []string{groups[0].Well, groups[1].Well})
}
