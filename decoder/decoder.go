// Package decoder turns a raw quote-provider response into the small
// string map the rest of the system works with.
package decoder

import (
	"strings"

	"github.com/chartwell-labs/stockcore/problem"
	jsoniter "github.com/json-iterator/go"
)

// ResponseDecoder turns raw response bytes into a flat string map. The
// default JSONQuoteDecoder expects a quote-provider JSON shape and returns
// "response" (last trade price) and "companyname" keys; a decoder for a
// different provider need only satisfy this interface.
type ResponseDecoder interface {
	Decode(data []byte) (map[string]string, error)
}

// RawResponseDecoder is a fallback decoder for use when no more specific
// decoding is required: it simply wraps the raw response text under the
// "response" key.
type RawResponseDecoder struct{}

// Decode implements ResponseDecoder by returning the input, trimmed of any
// trailing NUL terminator, under the "response" key.
func (RawResponseDecoder) Decode(data []byte) (map[string]string, error) {
	return map[string]string{"response": trimNUL(data)}, nil
}

// JSONQuoteDecoder decodes the nested
// {"query":{"count":N,"results":{"quote":{"Name":...,"LastTradePriceOnly":...}}}}
// shape a Yahoo-style quote provider returns.
type JSONQuoteDecoder struct{}

var quoteJSON = jsoniter.ConfigCompatibleWithStandardLibrary

type quoteResponse struct {
	Query struct {
		Count   int `json:"count"`
		Results struct {
			Quote *struct {
				Name               string `json:"Name"`
				LastTradePriceOnly string `json:"LastTradePriceOnly"`
			} `json:"quote"`
		} `json:"results"`
	} `json:"query"`
}

// Decode parses data as the nested quote-provider JSON shape and returns
// "response" (the last trade price) and "companyname" (the issuer name).
// It returns a *problem.AbortError if the shape doesn't match or the
// quote is absent — which is exactly what the provider returns for an
// unrecognized ticker.
func (JSONQuoteDecoder) Decode(data []byte) (map[string]string, error) {
	var resp quoteResponse
	if err := quoteJSON.Unmarshal([]byte(trimNUL(data)), &resp); err != nil {
		return nil, &problem.AbortError{Message: "malformed quote response", Cause: err}
	}

	if resp.Query.Count < 1 || resp.Query.Results.Quote == nil {
		return nil, &problem.AbortError{Message: "no stock result in response"}
	}

	return map[string]string{
		"response":    resp.Query.Results.Quote.LastTradePriceOnly,
		"companyname": resp.Query.Results.Quote.Name,
	}, nil
}

func trimNUL(data []byte) string {
	return strings.TrimRight(string(data), "\x00")
}
