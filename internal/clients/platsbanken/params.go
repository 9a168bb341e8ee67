package platsbanken

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const maxLimit = 100

type SearchParameters struct {
	Query  string
	Limit  int
	Offset int
}

func (s SearchParameters) Validate() error {

	if strings.TrimSpace(s.Query) == "" {
		return fmt.Errorf("query must not be empty")
	}

	if s.Offset < 0 {
		return fmt.Errorf("offset must be non-negative")
	}

	if s.Limit < 0 || s.Limit > maxLimit {
		return fmt.Errorf("limit must be between 0 and %d", maxLimit)
	}

	return nil
}

func (s SearchParameters) ToUrlParams() url.Values {

	params := url.Values{}
	params.Add("q", s.Query)

	if s.Limit != 0 {
		params.Add("limit", strconv.Itoa(s.Limit))
	}
	params.Add("offset", strconv.Itoa(s.Offset))

	return params
}
