package timeseries

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

// Source looks up the fixing series of an index by name.
type Source interface {
	Series(ctx context.Context, index string) (Series, error)
}

// StaticSource serves series held in memory. Unknown indices get an empty series.
type StaticSource map[string]Series

func (s StaticSource) Series(_ context.Context, index string) (Series, error) {
	if series, ok := s[strings.ToUpper(index)]; ok {
		return series, nil
	}
	return NewMapSeries(nil), nil
}

// fixingFile is the YAML layout of a fixing file:
//
//	fixings:
//	  SOFR:
//	    2024-01-02: 0.0531
type fixingFile struct {
	Fixings map[string]map[string]float64 `yaml:"fixings"`
}

// LoadFixings decodes a YAML fixing file into a StaticSource keyed by upper-case index name.
func LoadFixings(r io.Reader) (StaticSource, error) {
	var f fixingFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("LoadFixings: decode: %w", err)
	}
	out := make(StaticSource, len(f.Fixings))
	for index, byDate := range f.Fixings {
		series, err := ParseSeries(byDate)
		if err != nil {
			return nil, fmt.Errorf("LoadFixings: %s: %w", index, err)
		}
		out[strings.ToUpper(index)] = series
	}
	return out, nil
}

// LoadFixingsFile is LoadFixings over a file path.
func LoadFixingsFile(path string) (StaticSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadFixingsFile: %w", err)
	}
	defer f.Close()
	return LoadFixings(f)
}

// ParseSeries builds a series from fixings keyed by YYYY-MM-DD.
func ParseSeries(byDate map[string]float64) (*MapSeries, error) {
	out := make(map[time.Time]float64, len(byDate))
	for s, v := range byDate {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return nil, err
		}
		out[d] = v
	}
	return NewMapSeries(out), nil
}

// RedisSource reads fixings from one Redis hash per index, field = YYYY-MM-DD, value = rate.
type RedisSource struct {
	client redis.Cmdable
	prefix string
}

// NewRedisSource reads hashes named prefix+INDEX.
func NewRedisSource(client redis.Cmdable, prefix string) *RedisSource {
	return &RedisSource{client: client, prefix: prefix}
}

func (s *RedisSource) key(index string) string {
	return s.prefix + strings.ToUpper(index)
}

func (s *RedisSource) Series(ctx context.Context, index string) (Series, error) {
	fields, err := s.client.HGetAll(ctx, s.key(index)).Result()
	if err != nil {
		return nil, fmt.Errorf("RedisSource: %s: %w", index, err)
	}
	fixings := make(map[time.Time]float64, len(fields))
	for field, raw := range fields {
		d, err := time.Parse(time.DateOnly, field)
		if err != nil {
			return nil, fmt.Errorf("RedisSource: %s: field %q: %w", index, field, err)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("RedisSource: %s %s: %w", index, field, err)
		}
		fixings[d] = v
	}
	return NewMapSeries(fixings), nil
}

// Save writes fixings into the hash of index, overwriting existing dates.
func (s *RedisSource) Save(ctx context.Context, index string, fixings map[time.Time]float64) error {
	if len(fixings) == 0 {
		return nil
	}
	args := make([]any, 0, 2*len(fixings))
	for d, v := range fixings {
		args = append(args, d.Format(time.DateOnly), strconv.FormatFloat(v, 'g', -1, 64))
	}
	return s.client.HSet(ctx, s.key(index), args...).Err()
}
