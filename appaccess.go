// Package appaccess manages the access of users, and groups of users, to the
// components and entities of an application.
//
// Callers build the access model with the mutation methods (users, groups,
// memberships, component and entity mappings), then answer authorization questions
// at request time with the query methods, which walk the membership graph from the
// queried subject. The manager returned by New is safe for concurrent use: queries
// run in parallel, mutations are exclusive.
package appaccess

import (
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/supremind/appaccess/internal/manager"
	"github.com/supremind/appaccess/types"
)

// New creates an AccessManager keyed by the caller's own user, group, component,
// and access level types
func New[TUser, TGroup, TComponent, TAccess comparable](opts ...Option) types.AccessManager[TUser, TGroup, TComponent, TAccess] {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.log.GetSink() == nil {
		cfg.log = stdr.New(log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile))
	}

	m := manager.New[TUser, TGroup, TComponent, TAccess](cfg.log.WithName("access"))
	return manager.NewSynced(m)
}

// WithLogger sets the logger for the access manager
func WithLogger(l logr.Logger) Option {
	return func(cfg *Config) {
		cfg.log = l
	}
}

// Config works together with Option to control the initialization of an access manager
type Config struct {
	log logr.Logger
}

// Option controls how to init an access manager
type Option func(*Config)
