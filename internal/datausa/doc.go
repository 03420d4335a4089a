// Package datausa provides an HTTP client for the DataUSA population API.
//
// # Overview
//
// The client issues a single read-only request:
//
//	GET https://datausa.io/api/data?drilldowns=State&measures=Population
//
// and decodes the body's data array into population.Record values. The
// response looks like:
//
//	{
//	  "data": [
//	    {"ID State": "04000US01", "State": "Alabama", "ID Year": 2021,
//	     "Year": "2021", "Population": 5039877, "Slug State": "alabama"},
//	    ...
//	  ],
//	  "source": [...]
//	}
//
// Only the data array is read. Year and ID Year decode from either a JSON
// number or a numeric string.
//
// # Usage
//
//	client, err := datausa.NewClient("", datausa.WithTimeout(5*time.Second))
//	if err != nil {
//		return err
//	}
//	records, err := client.FetchPopulation(ctx)
//
// # Error Handling
//
// Failures come back as one of two typed errors:
//
//   - *NetworkError: request could not be built or sent, or the API answered
//     with status >= 400 (Status carries the code). errors.Is(err, ErrNetwork).
//   - *ParseError: the body is not JSON or has no data array.
//     errors.Is(err, ErrParse).
//
// There is no retry. Each FetchPopulation call is one attempt and the caller
// decides whether to try again.
package datausa
