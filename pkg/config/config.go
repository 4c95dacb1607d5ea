// Package config loads TurtlyScope settings.
//
// Settings start from [Default], are overlaid by a TOML or YAML file chosen
// by extension, then by TURTLYSCOPE_* environment variables, and are finally
// validated with struct tags:
//
//	s, err := config.Load("turtlyscope.toml")
//	if err != nil {
//	    return err
//	}
//	opts := s.PipelineOptions()
//
// The zero path skips the file step, so Load("") yields the defaults plus
// any environment overrides.
package config

import (
	"time"

	"github.com/turtlyscope/turtlyscope/pkg/cache"
	"github.com/turtlyscope/turtlyscope/pkg/graph"
	"github.com/turtlyscope/turtlyscope/pkg/graph/community"
	"github.com/turtlyscope/turtlyscope/pkg/layout"
	"github.com/turtlyscope/turtlyscope/pkg/pipeline"
	"github.com/turtlyscope/turtlyscope/pkg/render"
)

// Settings is the complete application configuration.
type Settings struct {
	AppName string `toml:"app_name" yaml:"app_name" validate:"required"`
	Debug   bool   `toml:"debug" yaml:"debug"`

	// MaxInputBytes caps the Turtle text size. Zero disables the check.
	MaxInputBytes int `toml:"max_input_bytes" yaml:"max_input_bytes" validate:"gte=0"`

	Graph  GraphSettings  `toml:"graph" yaml:"graph"`
	Layout LayoutSettings `toml:"layout" yaml:"layout"`
	Theme  render.Theme   `toml:"theme" yaml:"theme"`
	Server ServerSettings `toml:"server" yaml:"server"`
	Cache  CacheSettings  `toml:"cache" yaml:"cache"`
}

// GraphSettings controls graph construction.
type GraphSettings struct {
	Literals        string `toml:"literals" yaml:"literals" validate:"omitempty,oneof=nodes inline hidden"`
	DefaultPrefixes bool   `toml:"default_prefixes" yaml:"default_prefixes"`
	MaxLabelLength  int    `toml:"max_label_length" yaml:"max_label_length" validate:"gte=0"`
}

// LayoutSettings controls the force simulation, clustering and size guard.
// MaxNodes and MaxEdges below zero disable the guard.
type LayoutSettings struct {
	Iterations      int     `toml:"iterations" yaml:"iterations" validate:"gte=0"`
	Seed            uint64  `toml:"seed" yaml:"seed"`
	Repulsion       float64 `toml:"repulsion" yaml:"repulsion" validate:"gte=0"`
	Attraction      float64 `toml:"attraction" yaml:"attraction" validate:"gte=0"`
	IdealEdgeLength float64 `toml:"ideal_edge_length" yaml:"ideal_edge_length" validate:"gte=0"`
	Community       string  `toml:"community" yaml:"community" validate:"omitempty,oneof=leiden louvain label_propagation greedy_modularity none"`
	MaxNodes        int     `toml:"max_nodes" yaml:"max_nodes"`
	MaxEdges        int     `toml:"max_edges" yaml:"max_edges"`
}

// ServerSettings configures the HTTP server.
type ServerSettings struct {
	Addr           string        `toml:"addr" yaml:"addr" validate:"required"`
	CORSOrigins    []string      `toml:"cors_origins" yaml:"cors_origins" validate:"omitempty,dive,url"`
	AllowedHosts   []string      `toml:"allowed_hosts" yaml:"allowed_hosts" validate:"omitempty,dive,hostpattern"`
	RequestTimeout time.Duration `toml:"request_timeout" yaml:"request_timeout" validate:"gte=0"`
}

// CacheSettings selects the cache backend.
type CacheSettings struct {
	Backend         string `toml:"backend" yaml:"backend" validate:"omitempty,oneof=none file redis mongo"`
	Dir             string `toml:"dir" yaml:"dir"`
	RedisAddr       string `toml:"redis_addr" yaml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword   string `toml:"redis_password" yaml:"redis_password"`
	RedisDB         int    `toml:"redis_db" yaml:"redis_db" validate:"gte=0"`
	MongoURI        string `toml:"mongo_uri" yaml:"mongo_uri" validate:"required_if=Backend mongo"`
	MongoDatabase   string `toml:"mongo_database" yaml:"mongo_database" validate:"required_if=Backend mongo"`
	MongoCollection string `toml:"mongo_collection" yaml:"mongo_collection"`
}

// Default returns the built-in settings.
func Default() Settings {
	d := layout.DefaultConfig()
	return Settings{
		AppName:       "TurtlyScope",
		MaxInputBytes: pipeline.DefaultMaxInputBytes,
		Graph: GraphSettings{
			Literals: string(graph.LiteralsAsNodes),
		},
		Layout: LayoutSettings{
			Iterations:      d.Iterations,
			Seed:            d.Seed,
			Repulsion:       d.Repulsion,
			Attraction:      d.Attraction,
			IdealEdgeLength: d.IdealEdgeLength,
			Community:       string(pipeline.DefaultCommunity),
			MaxNodes:        pipeline.DefaultMaxNodes,
			MaxEdges:        pipeline.DefaultMaxEdges,
		},
		Theme: render.DefaultTheme(),
		Server: ServerSettings{
			Addr:           ":8000",
			RequestTimeout: 30 * time.Second,
		},
		Cache: CacheSettings{
			Backend:         string(cache.BackendFile),
			MongoDatabase:   "turtlyscope",
			MongoCollection: "cache",
		},
	}
}

// PipelineOptions converts the settings to pipeline options.
// A zero MaxInputBytes disables the input check.
func (s Settings) PipelineOptions() pipeline.Options {
	maxInput := s.MaxInputBytes
	if maxInput == 0 {
		maxInput = -1
	}
	return pipeline.Options{
		MaxInputBytes:   maxInput,
		Literals:        graph.LiteralMode(s.Graph.Literals),
		DefaultPrefixes: s.Graph.DefaultPrefixes,
		MaxLabelLength:  s.Graph.MaxLabelLength,
		Community:       community.Algorithm(s.Layout.Community),
		Iterations:      s.Layout.Iterations,
		Seed:            s.Layout.Seed,
		Repulsion:       s.Layout.Repulsion,
		Attraction:      s.Layout.Attraction,
		IdealEdgeLength: s.Layout.IdealEdgeLength,
		MaxNodes:        s.Layout.MaxNodes,
		MaxEdges:        s.Layout.MaxEdges,
		Theme:           s.Theme,
	}
}

// CacheOptions converts the settings to cache backend options.
func (s Settings) CacheOptions() cache.Options {
	return cache.Options{
		Backend: cache.Backend(s.Cache.Backend),
		Dir:     s.Cache.Dir,
		Redis: cache.RedisOptions{
			Addr:     s.Cache.RedisAddr,
			Password: s.Cache.RedisPassword,
			DB:       s.Cache.RedisDB,
		},
		Mongo: cache.MongoOptions{
			URI:        s.Cache.MongoURI,
			Database:   s.Cache.MongoDatabase,
			Collection: s.Cache.MongoCollection,
		},
	}
}
