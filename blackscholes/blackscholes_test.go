package blackscholes_test

import (
	"math"
	"testing"

	"github.com/chartwell-labs/stockcore/blackscholes"
	"github.com/stretchr/testify/assert"
)

// Reference values computed from the textbook Black-Scholes formula for
// asset=100, strike=100, expiry=1y, rate=0.05, vol=0.2 (a standard
// at-the-money example widely reproduced in finance texts).
func TestCallPriceKnownValue(t *testing.T) {
	price := blackscholes.CallPrice(100, 100, 1, 0.05, 0.2)
	assert.InDelta(t, 10.4506, price, 0.01)
}

func TestPutPriceKnownValue(t *testing.T) {
	price := blackscholes.PutPrice(100, 100, 1, 0.05, 0.2)
	assert.InDelta(t, 5.5735, price, 0.01)
}

func TestPutCallParity(t *testing.T) {
	asset, strike, expiry, rate, vol := 100.0, 95.0, 0.5, 0.03, 0.25

	call := blackscholes.CallPrice(asset, strike, expiry, rate, vol)
	put := blackscholes.PutPrice(asset, strike, expiry, rate, vol)

	lhs := call - put
	rhs := asset - strike*math.Exp(-rate*expiry)
	assert.InDelta(t, rhs, lhs, 1e-6)
}

func TestCallDeltaIsBetweenZeroAndOne(t *testing.T) {
	delta := blackscholes.CallDelta(100, 100, 1, 0.05, 0.2)
	assert.Greater(t, delta, 0.0)
	assert.Less(t, delta, 1.0)
}

func TestPutDeltaIsBetweenMinusOneAndZero(t *testing.T) {
	delta := blackscholes.PutDelta(100, 100, 1, 0.05, 0.2)
	assert.Greater(t, delta, -1.0)
	assert.Less(t, delta, 0.0)
}

func TestVegaIsPositive(t *testing.T) {
	v := blackscholes.Vega(100, 100, 1, 0.05, 0.2)
	assert.Greater(t, v, 0.0)
}

func TestStandardCNDFMidpoint(t *testing.T) {
	assert.InDelta(t, 0.5, blackscholes.StandardCNDF(0), 1e-9)
}
