// Package blackscholes implements Black-Scholes option pricing and
// Greeks: Delta, Theta, and Vega, each from its standard closed-form
// definition.
package blackscholes

import "math"

// Normal evaluates the normal probability density function with mean u
// and standard deviation s at x.
func Normal(u, s, x float64) float64 {
	t1 := 1.0 / (s * math.Sqrt(2.0*math.Pi))
	t2 := -math.Pow(x-u, 2) / (2 * math.Pow(s, 2))
	return t1 * math.Exp(t2)
}

// CNDF evaluates the cumulative distribution function of a normal
// distribution with mean u and standard deviation s at z.
func CNDF(u, s, z float64) float64 {
	return 0.5 * (1 + math.Erf((z-u)/(s*math.Sqrt2)))
}

// StandardCNDF evaluates the cumulative distribution function of the
// standard normal distribution (mean 0, standard deviation 1) at z.
func StandardCNDF(z float64) float64 {
	return CNDF(0.0, 1.0, z)
}

func d1(assetPrice, strikePrice, rate, volatility, expiry float64) float64 {
	e := math.Log(assetPrice/strikePrice) + (rate+(volatility*volatility/2))*expiry
	d := volatility * math.Sqrt(expiry)
	return e / d
}

func d2(assetPrice, strikePrice, rate, volatility, expiry float64) float64 {
	e := math.Log(assetPrice/strikePrice) + (rate-(volatility*volatility/2))*expiry
	d := volatility * math.Sqrt(expiry)
	return e / d
}

// CallPrice returns the Black-Scholes price of a European call option.
func CallPrice(assetPrice, strikePrice, expiry, rate, volatility float64) float64 {
	d1v := d1(assetPrice, strikePrice, rate, volatility, expiry)
	d2v := d2(assetPrice, strikePrice, rate, volatility, expiry)
	return assetPrice*StandardCNDF(d1v) - strikePrice*StandardCNDF(d2v)*math.Exp(-rate*expiry)
}

// PutPrice returns the Black-Scholes price of a European put option.
func PutPrice(assetPrice, strikePrice, expiry, rate, volatility float64) float64 {
	d1v := d1(assetPrice, strikePrice, rate, volatility, expiry)
	d2v := d2(assetPrice, strikePrice, rate, volatility, expiry)
	return strikePrice*math.Exp(-rate*expiry)*StandardCNDF(-d2v) - assetPrice*StandardCNDF(-d1v)
}

// CallDelta returns the rate of change of a call option's price with
// respect to the underlying asset's price.
func CallDelta(assetPrice, strikePrice, expiry, rate, volatility float64) float64 {
	return StandardCNDF(d1(assetPrice, strikePrice, rate, volatility, expiry))
}

// PutDelta returns the rate of change of a put option's price with
// respect to the underlying asset's price.
func PutDelta(assetPrice, strikePrice, expiry, rate, volatility float64) float64 {
	return StandardCNDF(d1(assetPrice, strikePrice, rate, volatility, expiry)) - 1
}

// CallTheta returns a call option's time decay, the rate of change of its
// price with respect to the passage of time, expressed per year.
func CallTheta(assetPrice, strikePrice, expiry, rate, volatility float64) float64 {
	d1v := d1(assetPrice, strikePrice, rate, volatility, expiry)
	d2v := d2(assetPrice, strikePrice, rate, volatility, expiry)
	term1 := -(assetPrice * Normal(0, 1, d1v) * volatility) / (2 * math.Sqrt(expiry))
	term2 := rate * strikePrice * math.Exp(-rate*expiry) * StandardCNDF(d2v)
	return term1 - term2
}

// PutTheta returns a put option's time decay.
func PutTheta(assetPrice, strikePrice, expiry, rate, volatility float64) float64 {
	d1v := d1(assetPrice, strikePrice, rate, volatility, expiry)
	d2v := d2(assetPrice, strikePrice, rate, volatility, expiry)
	term1 := -(assetPrice * Normal(0, 1, d1v) * volatility) / (2 * math.Sqrt(expiry))
	term2 := rate * strikePrice * math.Exp(-rate*expiry) * StandardCNDF(-d2v)
	return term1 + term2
}

// Vega returns the rate of change of an option's price with respect to
// the underlying's volatility. Vega is identical for calls and puts.
func Vega(assetPrice, strikePrice, expiry, rate, volatility float64) float64 {
	d1v := d1(assetPrice, strikePrice, rate, volatility, expiry)
	return assetPrice * Normal(0, 1, d1v) * math.Sqrt(expiry)
}
