package datausa

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/five82/popview/internal/population"
)

// populationResponse mirrors /api/data. Data is a pointer so a body without
// the array can be told apart from an empty result.
type populationResponse struct {
	Data *[]recordPayload `json:"data"`
}

// recordPayload is one element of the data array in transport form.
type recordPayload struct {
	StateID    string  `json:"ID State"`
	State      string  `json:"State"`
	YearID     flexInt `json:"ID Year"`
	Year       flexInt `json:"Year"`
	Population flexInt `json:"Population"`
	Slug       string  `json:"Slug State"`
}

func (p recordPayload) record() population.Record {
	return population.Record{
		StateID:    p.StateID,
		State:      p.State,
		YearID:     int(p.YearID),
		Year:       int(p.Year),
		Population: int(p.Population),
		Slug:       p.Slug,
	}
}

// flexInt accepts a JSON number or a numeric string. DataUSA has served the
// Year column both ways. Values must be whole and fit in an int64.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	text := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			*f = 0
			return nil
		}
	}
	n, err := parseWhole(text)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// parseWhole parses s as an integer. Exponent forms such as 1.2e+07 are
// accepted when they denote a whole number in range.
func parseWhole(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return 0, fmt.Errorf("parse number %q: not finite", s)
	case v != math.Trunc(v):
		return 0, fmt.Errorf("parse number %q: not a whole number", s)
	case v < math.MinInt64 || v >= math.MaxInt64:
		return 0, fmt.Errorf("parse number %q: out of range", s)
	}
	return int64(v), nil
}
