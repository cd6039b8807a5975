package util

import (
	"math/rand"
	"time"
)

const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateClaimReference builds a short human-readable code handed to a
// claimant when a claim is filed (e.g. "CLM-7KQ2TX").
func GenerateClaimReference() string {
	code := make([]byte, 6)
	for i := range code {
		code[i] = referenceAlphabet[seededRand.Intn(len(referenceAlphabet))]
	}
	return "CLM-" + string(code)
}
