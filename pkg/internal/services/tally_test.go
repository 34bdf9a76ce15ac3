package services

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/livepoll-dev/server/pkg/internal/models"
)

func TestCountResponses(t *testing.T) {
	options := []string{"X", "Y", "Z"}

	tests := []struct {
		name      string
		responses []models.Response
		want      map[int]int64
		wantTotal int64
	}{
		{
			name:      "no responses yields zero-filled slots",
			responses: nil,
			want:      map[int]int64{0: 0, 1: 0, 2: 0},
			wantTotal: 0,
		},
		{
			name: "counts group by option index",
			responses: []models.Response{
				{UserID: "a", SelectedOption: 0},
				{UserID: "b", SelectedOption: 1},
				{UserID: "c", SelectedOption: 1},
			},
			want:      map[int]int64{0: 1, 1: 2, 2: 0},
			wantTotal: 3,
		},
		{
			name: "duplicate users count every response",
			responses: []models.Response{
				{UserID: "a", SelectedOption: 2},
				{UserID: "a", SelectedOption: 2},
			},
			want:      map[int]int64{0: 0, 1: 0, 2: 2},
			wantTotal: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metric := CountResponses(options, tt.responses)
			if metric.TotalResponses != tt.wantTotal {
				t.Errorf("TotalResponses = %d, want %d", metric.TotalResponses, tt.wantTotal)
			}
			if !reflect.DeepEqual(metric.ByOption, tt.want) {
				t.Errorf("ByOption = %v, want %v", metric.ByOption, tt.want)
			}
		})
	}
}

func TestCountResponsesOrderIndependent(t *testing.T) {
	options := []string{"A", "B"}
	responses := []models.Response{
		{UserID: "u1", SelectedOption: 0},
		{UserID: "u2", SelectedOption: 1},
		{UserID: "u3", SelectedOption: 0},
		{UserID: "u4", SelectedOption: 0},
		{UserID: "u5", SelectedOption: 1},
	}

	want := CountResponses(options, responses)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]models.Response, len(responses))
		copy(shuffled, responses)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := CountResponses(options, shuffled)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffle %d: tally = %v, want %v", i, got, want)
		}
	}
}

func TestCountResponsesIdempotent(t *testing.T) {
	options := []string{"A", "B"}
	responses := []models.Response{
		{UserID: "u1", SelectedOption: 0},
		{UserID: "u2", SelectedOption: 1},
	}

	first := CountResponses(options, responses)
	second := CountResponses(options, responses)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("recomputation differs: %v vs %v", first, second)
	}
}

func TestNormalizePollOptions(t *testing.T) {
	tests := []struct {
		name    string
		options []string
		want    []string
		wantErr bool
	}{
		{name: "trims whitespace", options: []string{" X ", "Y"}, want: []string{"X", "Y"}},
		{name: "single option rejected", options: []string{"X"}, wantErr: true},
		{name: "empty set rejected", options: nil, wantErr: true},
		{name: "blank option rejected", options: []string{"X", "   "}, wantErr: true},
		{name: "duplicate texts stay distinct slots", options: []string{"X", "X"}, want: []string{"X", "X"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePollOptions(tt.options)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("options = %v, want %v", got, tt.want)
			}
		})
	}
}
