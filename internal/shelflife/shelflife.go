// Package shelflife holds the prediction result shared by the real and demo
// prediction paths.
package shelflife

import (
	"math"

	"github.com/samber/lo"
)

const (
	MinDays = 0.0
	MaxDays = 5.0

	StatusSuccess = "success"
)

// Result is the response body of a successful prediction.
type Result struct {
	DaysRemaining float64 `json:"days_remaining"`
	Status        string  `json:"status"`
	DemoMode      bool    `json:"demo_mode"`
	Message       string  `json:"message,omitempty"`
}

// Days clamps v to [MinDays, MaxDays] and rounds it to two decimals.
func Days(v float64) float64 {
	return math.Round(lo.Clamp(v, MinDays, MaxDays)*100) / 100
}
