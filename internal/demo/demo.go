// Package demo produces placeholder predictions when no model is loaded.
//
// The estimate is derived from an MD5 digest of the upload, so the same
// bytes always yield the same number of days. It carries no information
// about the imaged item.
package demo

import (
	"crypto/md5"
	"encoding/binary"

	"github.com/Brownie44l1/freshness-api/internal/shelflife"
)

const (
	baseDays = 2.5
	spread   = 100
	scale    = 50.0

	Message = "Demo mode: This is a mock prediction. Train a model for real predictions."
)

// Estimate maps the content hash of data to a value in [2.5, 4.48].
// The first 8 hex characters of the digest are the first 4 bytes read big-endian.
func Estimate(data []byte) float64 {
	sum := md5.Sum(data)
	h := binary.BigEndian.Uint32(sum[:4])
	return shelflife.Days(baseDays + float64(h%spread)/scale)
}

// Predictor wraps Estimate into a full prediction result.
type Predictor struct{}

func NewPredictor() *Predictor {
	return &Predictor{}
}

func (p *Predictor) Predict(data []byte) shelflife.Result {
	return shelflife.Result{
		DaysRemaining: Estimate(data),
		Status:        shelflife.StatusSuccess,
		DemoMode:      true,
		Message:       Message,
	}
}
