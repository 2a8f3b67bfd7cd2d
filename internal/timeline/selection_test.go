package timeline

import (
	"reflect"
	"sort"
	"testing"
)

func sortSelections(sels []Selection) {
	sort.Slice(sels, func(i, j int) bool {
		if sels[i].Track != sels[j].Track {
			return sels[i].Track < sels[j].Track
		}
		return sels[i].In < sels[j].In
	})
}

func TestCleanUpSelections(t *testing.T) {
	tests := []struct {
		name string
		in   []Selection
		want []Selection
	}{
		{
			name: "disjoint kept",
			in:   []Selection{{0, 10, 0}, {20, 30, 0}},
			want: []Selection{{0, 10, 0}, {20, 30, 0}},
		},
		{
			name: "inside removed",
			in:   []Selection{{0, 100, 0}, {10, 20, 0}},
			want: []Selection{{0, 100, 0}},
		},
		{
			name: "container listed second",
			in:   []Selection{{10, 20, 0}, {0, 100, 0}},
			want: []Selection{{0, 100, 0}},
		},
		{
			name: "tail overlap extends",
			in:   []Selection{{0, 50, 0}, {40, 80, 0}},
			want: []Selection{{0, 80, 0}},
		},
		{
			name: "head overlap extends",
			in:   []Selection{{40, 80, 0}, {0, 50, 0}},
			want: []Selection{{0, 80, 0}},
		},
		{
			name: "touching merged",
			in:   []Selection{{0, 50, 0}, {50, 60, 0}},
			want: []Selection{{0, 60, 0}},
		},
		{
			name: "different tracks untouched",
			in:   []Selection{{0, 50, 0}, {10, 60, -1}},
			want: []Selection{{10, 60, -1}, {0, 50, 0}},
		},
		{
			name: "chain collapses",
			in:   []Selection{{0, 10, 1}, {5, 20, 1}, {15, 30, 1}, {100, 110, 1}},
			want: []Selection{{0, 30, 1}, {100, 110, 1}},
		},
		{
			name: "duplicates",
			in:   []Selection{{5, 10, 2}, {5, 10, 2}},
			want: []Selection{{5, 10, 2}},
		},
		{
			name: "empty and inverted dropped",
			in:   []Selection{{5, 5, 0}, {10, 3, 0}, {1, 2, 0}},
			want: []Selection{{1, 2, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanUpSelections(append([]Selection(nil), tt.in...))
			sortSelections(got)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CleanUpSelections() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCleanUpSelections_Idempotent(t *testing.T) {
	in := []Selection{
		{0, 10, 0}, {5, 30, 0}, {25, 26, 0}, {40, 45, 0},
		{0, 5, -1}, {3, 9, -1}, {100, 200, -1}, {150, 250, -1},
		{7, 8, 3},
	}

	once := CleanUpSelections(append([]Selection(nil), in...))
	twice := CleanUpSelections(append([]Selection(nil), once...))
	sortSelections(once)
	sortSelections(twice)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second pass changed result: %v -> %v", once, twice)
	}
	for i := range once {
		for j := range once {
			if i != j && once[i].Track == once[j].Track && once[i].In < once[j].Out && once[j].In < once[i].Out {
				t.Fatalf("overlap left behind: %v and %v", once[i], once[j])
			}
		}
	}
}

func TestIsClipSelected(t *testing.T) {
	c := &Clip{ID: 1, In: 10, Out: 20, Track: 0}

	tests := []struct {
		name    string
		sels    []Selection
		partial bool
		want    bool
	}{
		{"covering", []Selection{{0, 30, 0}}, false, true},
		{"exact", []Selection{{10, 20, 0}}, false, true},
		{"partial overlap not covering", []Selection{{15, 30, 0}}, false, false},
		{"partial overlap counts when partial", []Selection{{15, 30, 0}}, true, true},
		{"other track", []Selection{{0, 30, 1}}, true, false},
		{"touching only", []Selection{{20, 30, 0}}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsClipSelected(c, tt.sels, tt.partial); got != tt.want {
				t.Errorf("IsClipSelected() = %v, want %v", got, tt.want)
			}
		})
	}
}
