// Package query parses the wire parameter format described by the
// evaluator's external interface into a normalized domain.ParsedQuery:
// a predicate list (with $from/$to pairing applied) plus the control
// set governing join mode, paging, format and ordering.
package query

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/nonibytes/docquery/domain"
)

// ParseMap parses an already-decoded parameter map (the form produced
// by a caller that collapsed duplicate keys itself) into a
// domain.ParsedQuery.
func ParseMap(params map[string]string) (domain.ParsedQuery, error) {
	controls := domain.ControlSet{Join: domain.JoinAnd, Format: domain.FormatRecords}

	type halfRange struct {
		from, to    string
		hasFrom     bool
		hasTo       bool
	}
	ranges := map[string]*halfRange{}
	var predicates []domain.Predicate

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		value := params[key]
		if strings.HasPrefix(key, "$") {
			if err := applyControl(&controls, key, value); err != nil {
				return domain.ParsedQuery{}, err
			}
			continue
		}

		target, op := splitTarget(key)
		if target == "" {
			return domain.ParsedQuery{}, &domain.ErrInvalidArgument{Argument: key, Reason: "empty target path"}
		}

		switch op {
		case "value":
			predicates = append(predicates, domain.Predicate{Target: target, Kind: domain.PredEquality, Value: value})
		case "prefix":
			if value == "" {
				return domain.ParsedQuery{}, &domain.ErrInvalidArgument{Argument: key, Reason: "prefix value must be non-empty"}
			}
			predicates = append(predicates, domain.Predicate{Target: target, Kind: domain.PredPrefix, Value: value})
		case "from":
			hr := ranges[target]
			if hr == nil {
				hr = &halfRange{}
				ranges[target] = hr
			}
			hr.from, hr.hasFrom = value, true
		case "to":
			hr := ranges[target]
			if hr == nil {
				hr = &halfRange{}
				ranges[target] = hr
			}
			hr.to, hr.hasTo = value, true
		default:
			return domain.ParsedQuery{}, &domain.ErrInvalidArgument{Argument: key, Reason: "unknown operator " + op}
		}
	}

	targets := make([]string, 0, len(ranges))
	for t := range ranges {
		targets = append(targets, t)
	}
	slices.Sort(targets)
	for _, target := range targets {
		hr := ranges[target]
		p := domain.Predicate{Target: target, Kind: domain.PredRange}
		if hr.hasFrom {
			from := hr.from
			p.From, p.HasFrom = &from, true
		}
		if hr.hasTo {
			to := hr.to
			p.To, p.HasTo = &to, true
		}
		predicates = append(predicates, p)
	}

	return domain.ParsedQuery{Predicates: predicates, Controls: controls}, nil
}

// ParseQueryString parses a raw URL-encoded query string. Duplicate
// keys take the last occurrence, matching url.Values ordering.
func ParseQueryString(qs string) (domain.ParsedQuery, error) {
	values, err := url.ParseQuery(qs)
	if err != nil {
		return domain.ParsedQuery{}, &domain.ErrInvalidArgument{Argument: qs, Reason: "malformed query string", Cause: err}
	}
	params := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) == 0 {
			continue
		}
		params[k] = v[len(v)-1]
	}
	return ParseMap(params)
}

func splitTarget(key string) (target, op string) {
	if idx := strings.Index(key, "$"); idx >= 0 {
		return key[:idx], key[idx+1:]
	}
	return key, "value"
}

func applyControl(cs *domain.ControlSet, key, value string) error {
	switch key {
	case "$join":
		switch value {
		case "", "and":
			cs.Join = domain.JoinAnd
		case "or":
			cs.Join = domain.JoinOr
		default:
			return &domain.ErrInvalidArgument{Argument: key, Reason: "must be \"and\" or \"or\", got " + strconv.Quote(value)}
		}
	case "$from":
		n, err := parseNonNegativeInt(value)
		if err != nil {
			return &domain.ErrInvalidArgument{Argument: key, Reason: "must be a non-negative integer", Cause: err}
		}
		cs.From = &n
	case "$to":
		n, err := parseNonNegativeInt(value)
		if err != nil {
			return &domain.ErrInvalidArgument{Argument: key, Reason: "must be a non-negative integer", Cause: err}
		}
		cs.To = &n
	case "$limit":
		n, err := parseNonNegativeInt(value)
		if err != nil {
			return &domain.ErrInvalidArgument{Argument: key, Reason: "must be a non-negative integer", Cause: err}
		}
		cs.Limit = &n
	case "$format":
		switch value {
		case "", "records":
			cs.Format = domain.FormatRecords
		case "keys":
			cs.Format = domain.FormatKeys
		case "lookup":
			cs.Format = domain.FormatLookup
		default:
			return &domain.ErrInvalidArgument{Argument: key, Reason: "unknown format " + strconv.Quote(value)}
		}
	case "$orderBy":
		cs.OrderBy, cs.HasOrderBy = value, true
	default:
		return &domain.ErrInvalidArgument{Argument: key, Reason: "unknown control parameter"}
	}

	if cs.From != nil && cs.To != nil && *cs.To < *cs.From {
		return &domain.ErrInvalidArgument{Argument: "$to", Reason: "$to must not be less than $from"}
	}
	return nil
}

func parseNonNegativeInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
