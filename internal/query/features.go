// Package query shapes list queries from untyped request parameters.
//
// Parameters arrive as query-string pairs like amount[gte]=100, sort=-amount
// or fields=category,amount. They are parsed once into a tagged operator form
// and rendered as native mongo filter, sort and projection documents; the
// package itself performs no I/O.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Reserved parameter names that never become filter predicates.
var reservedParams = map[string]bool{
	"sort":   true,
	"fields": true,
	"page":   true,
	"limit":  true,
}

// Comparison keywords recognized inside field[...] brackets. Recognition is
// by exact match only, so a key like amount[gtex] stays a literal key.
var comparisonOps = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
}

// Features builds a filtered, sorted and field-limited mongo query from raw
// request parameters. Calls are chainable; terminal execution belongs to the
// caller.
type Features struct {
	params     url.Values
	filter     bson.M
	sort       bson.D
	projection bson.D
}

// New creates a Features instance over the given request parameters.
func New(params url.Values) *Features {
	return &Features{
		params: params,
		filter: bson.M{},
	}
}

// Filter translates the non-reserved parameters into a filter document.
// field=v becomes an equality predicate, field[gte]=v and friends become the
// corresponding comparison operator. Keys that could smuggle their own query
// operators or nested paths into the document are dropped.
func (f *Features) Filter() *Features {
	for key, values := range f.params {
		if reservedParams[key] || len(values) == 0 {
			continue
		}

		field, op, ok := splitComparison(key)
		if !ok {
			field = key
		}
		if unsafeField(field) {
			continue
		}
		if !ok {
			f.filter[field] = coerceValue(values[0])
			continue
		}

		ops, isOps := f.filter[field].(bson.M)
		if !isOps {
			ops = bson.M{}
			f.filter[field] = ops
		}
		ops[op] = coerceValue(values[0])
	}

	return f
}

// Sort parses the comma-separated sort parameter into an ordered sort key
// list. A leading '-' means descending. Defaults to newest first.
func (f *Features) Sort() *Features {
	sortParam := f.params.Get("sort")
	if sortParam == "" {
		f.sort = bson.D{{Key: "created_at", Value: -1}}
		return f
	}

	for _, field := range strings.Split(sortParam, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		order := 1
		if strings.HasPrefix(field, "-") {
			order = -1
			field = field[1:]
		}
		f.sort = append(f.sort, bson.E{Key: field, Value: order})
	}

	return f
}

// LimitFields parses the comma-separated fields parameter into an inclusion
// projection. The document ID is always part of an inclusion projection.
// Without the parameter every field is returned.
func (f *Features) LimitFields() *Features {
	fieldsParam := f.params.Get("fields")
	if fieldsParam == "" {
		return f
	}

	for _, field := range strings.Split(fieldsParam, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		f.projection = append(f.projection, bson.E{Key: field, Value: 1})
	}

	return f
}

// FilterDoc returns the filter document built by Filter.
func (f *Features) FilterDoc() bson.M {
	return f.filter
}

// FindOptions renders the sort and projection built so far as find options.
func (f *Features) FindOptions() *options.FindOptionsBuilder {
	findOptions := options.Find()

	if len(f.sort) > 0 {
		findOptions.SetSort(f.sort)
	}
	if len(f.projection) > 0 {
		findOptions.SetProjection(f.projection)
	}

	return findOptions
}

// unsafeField reports whether a field name could act as a mongo operator
// ($-prefixed) or a nested path (dotted). Such keys never come from the
// documented query surface and are discarded rather than passed to the driver.
func unsafeField(field string) bool {
	return strings.HasPrefix(field, "$") || strings.Contains(field, ".")
}

// splitComparison splits a key of the form field[op] into its parts. It
// reports false unless op is exactly one of the comparison keywords.
func splitComparison(key string) (field, op string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return "", "", false
	}

	mongoOp, known := comparisonOps[key[open+1:len(key)-1]]
	if !known {
		return "", "", false
	}

	return key[:open], mongoOp, true
}

// coerceValue converts numeric parameter strings to numbers so comparisons
// match numerically stored values. Everything else stays a string.
func coerceValue(raw string) any {
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}

	return raw
}
