package models

import "testing"

func TestCreditCost(t *testing.T) {
	cases := []struct {
		typ  GenerationType
		want int
	}{
		{TextToImage, 1},
		{TextToVideo, 3},
		{ImageToVideo, 2},
		{TextToText, 1},
		{GenerationType("audio-to-audio"), DefaultCreditCost},
		{GenerationType(""), DefaultCreditCost},
	}
	for _, tc := range cases {
		if got := CreditCost(tc.typ); got != tc.want {
			t.Errorf("CreditCost(%q) = %d, want %d", tc.typ, got, tc.want)
		}
	}
}
