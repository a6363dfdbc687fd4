package hgraph

import (
	"strconv"

	"github.com/vectorshelf/hgraph/distance"
)

// ParamsFromMap parses the string-typed parameter surface of spec §6 into
// Options, for callers constructing an index from a cross-language-style
// configuration (e.g. JSON decoded to map[string]string) rather than Go
// function calls. Recognized keys: metric, max_degree, ef_construction,
// build_thread_count, use_reorder, extra_info_size, ef_search. The dim key
// is not read here; DimFromMap reads it.
func ParamsFromMap(m map[string]string) ([]Option, error) {
	var opts []Option

	if v, ok := m["metric"]; ok {
		metric, err := distance.ParseMetric(v)
		if err != nil {
			return nil, newError(InvalidArgument, "params: %v", err)
		}
		opts = append(opts, WithMetric(metric))
	}
	if v, ok := m["max_degree"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, newError(InvalidArgument, "params: invalid max_degree %q", v)
		}
		opts = append(opts, WithMaxDegree(n))
	}
	if v, ok := m["ef_construction"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, newError(InvalidArgument, "params: invalid ef_construction %q", v)
		}
		opts = append(opts, WithEfConstruction(n))
	}
	if v, ok := m["build_thread_count"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, newError(InvalidArgument, "params: invalid build_thread_count %q", v)
		}
		opts = append(opts, WithBuildThreadCount(n))
	}
	if v, ok := m["use_reorder"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, newError(InvalidArgument, "params: invalid use_reorder %q", v)
		}
		opts = append(opts, WithReorder(b))
	}
	if v, ok := m["extra_info_size"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, newError(InvalidArgument, "params: invalid extra_info_size %q", v)
		}
		opts = append(opts, WithExtraInfoSize(n))
	}
	if v, ok := m["ef_search"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, newError(InvalidArgument, "params: invalid ef_search %q", v)
		}
		opts = append(opts, WithEfSearch(n))
	}

	return opts, nil
}

// DimFromMap extracts the "dim" key, since dimension is a required
// constructor argument rather than an Option (spec §6: "dim: int" is part
// of the same recognized parameter set but New's dim argument is
// authoritative).
func DimFromMap(m map[string]string) (int, error) {
	v, ok := m["dim"]
	if !ok {
		return 0, newError(InvalidArgument, "params: missing dim")
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, newError(InvalidArgument, "params: invalid dim %q", v)
	}
	return n, nil
}

// SearchParams is the per-call tuning surface for KnnSearch/RangeSearch
// (spec §4.7), layered over the index-wide ef_search default from
// WithEfSearch.
type SearchParams struct {
	// EfSearch overrides the beam width for this call; 0 uses the
	// index-wide default.
	EfSearch int
}
