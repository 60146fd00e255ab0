package output

import "github.com/rs/zerolog"

// Registry is the authoritative table of currently known outputs. The event
// loop is single-threaded, so no locking is needed.
type Registry struct {
	outputs map[uint32]*Output
	log     zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		outputs: make(map[uint32]*Output),
		log:     log.With().Str("component", "registry").Logger(),
	}
}

// Upsert inserts or updates an output's geometry. It reports whether the
// geometry actually changed; a duplicate announcement with identical values
// must not trigger further downstream work.
func (r *Registry) Upsert(id uint32, geom Geometry) bool {
	out, ok := r.outputs[id]
	if !ok {
		r.outputs[id] = &Output{ID: id, Geometry: geom}
		r.log.Debug().Uint32("output", id).Stringer("geometry", geom).Msg("output added")
		return true
	}
	if out.Geometry == geom {
		r.log.Debug().Uint32("output", id).Msg("duplicate geometry announcement ignored")
		return false
	}
	out.Geometry = geom
	r.log.Debug().Uint32("output", id).Stringer("geometry", geom).Msg("output updated")
	return true
}

// Remove forgets an output. Removing an unknown id is a no-op.
func (r *Registry) Remove(id uint32) {
	if _, ok := r.outputs[id]; !ok {
		return
	}
	delete(r.outputs, id)
	r.log.Debug().Uint32("output", id).Msg("output removed")
}

// Get returns the output for id, or nil if unknown.
func (r *Registry) Get(id uint32) *Output {
	return r.outputs[id]
}

// Len returns the number of known outputs.
func (r *Registry) Len() int {
	return len(r.outputs)
}
