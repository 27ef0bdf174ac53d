package handlers

import (
	"testing"

	"recipebox/internal/models"
)

func ratingsOnly(ratings ...int) []models.Review {
	reviews := make([]models.Review, 0, len(ratings))
	for _, rating := range ratings {
		reviews = append(reviews, models.Review{Rating: rating})
	}
	return reviews
}

func TestReduceRatingsEmptyListIsZero(t *testing.T) {
	average, count := reduceRatings(nil)
	if average != 0 || count != 0 {
		t.Fatalf("expected (0,0), got (%v,%d)", average, count)
	}
}

func TestReduceRatingsAveragesToOneDecimal(t *testing.T) {
	tests := []struct {
		ratings []int
		wantAvg float64
		wantCnt int
	}{
		{[]int{4, 2}, 3.0, 2},
		{[]int{5}, 5.0, 1},
		{[]int{4, 4, 5}, 4.3, 3},
		{[]int{1, 2}, 1.5, 2},
		{[]int{2, 2, 3}, 2.3, 3},
	}
	for _, tt := range tests {
		average, count := reduceRatings(ratingsOnly(tt.ratings...))
		if average != tt.wantAvg || count != tt.wantCnt {
			t.Fatalf("ratings %v: expected (%v,%d), got (%v,%d)",
				tt.ratings, tt.wantAvg, tt.wantCnt, average, count)
		}
	}
}

func TestReduceRatingsIsIdempotent(t *testing.T) {
	reviews := ratingsOnly(3, 4, 5)

	firstAvg, firstCnt := reduceRatings(reviews)
	secondAvg, secondCnt := reduceRatings(reviews)
	if firstAvg != secondAvg || firstCnt != secondCnt {
		t.Fatalf("repeated reduction diverged: (%v,%d) then (%v,%d)",
			firstAvg, firstCnt, secondAvg, secondCnt)
	}
}
