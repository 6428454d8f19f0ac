package services

import (
	"github.com/fyrsmithlabs/memoryd/internal/engine"
	"github.com/fyrsmithlabs/memoryd/internal/llm"
	"github.com/fyrsmithlabs/memoryd/internal/store"
	"github.com/fyrsmithlabs/memoryd/internal/translate"
)

// Registry provides access to all memoryd services.
// Use accessor methods to retrieve individual services.
type Registry interface {
	Engine() *engine.Engine
	Store() *store.Store
	Capability() llm.Capability
	Translator() translate.Translator
	Sessions() *engine.SessionManager
}

// Options configures the registry with service instances.
type Options struct {
	Engine     *engine.Engine
	Store      *store.Store
	Capability llm.Capability
	Translator translate.Translator
	Sessions   *engine.SessionManager
}

// registry is the concrete implementation of Registry.
type registry struct {
	engine     *engine.Engine
	store      *store.Store
	capability llm.Capability
	translator translate.Translator
	sessions   *engine.SessionManager
}

// NewRegistry creates a new service registry. A nil Translator defaults
// to the pass-through translator and nil Sessions to a fresh manager.
func NewRegistry(opts Options) Registry {
	if opts.Translator == nil {
		opts.Translator = translate.Noop{}
	}
	if opts.Sessions == nil {
		opts.Sessions = engine.NewSessionManager()
	}
	return &registry{
		engine:     opts.Engine,
		store:      opts.Store,
		capability: opts.Capability,
		translator: opts.Translator,
		sessions:   opts.Sessions,
	}
}

func (r *registry) Engine() *engine.Engine           { return r.engine }
func (r *registry) Store() *store.Store              { return r.store }
func (r *registry) Capability() llm.Capability       { return r.capability }
func (r *registry) Translator() translate.Translator { return r.translator }
func (r *registry) Sessions() *engine.SessionManager { return r.sessions }
