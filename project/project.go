// Package project keeps the arrangement model that project files build
// through native functions: instruments, tracks, and the regions placed on
// them.
package project

import (
	"fmt"
	"log"

	"github.com/sergev/minilisp/lang"
	"github.com/sergev/minilisp/runtime"
)

// Instrument is a sound source identified by a numeric id. Code holds the
// source text that defines it.
type Instrument struct {
	ID   int64
	Code string
}

// Region places an instrument on a track. Inpoint and Length are in
// samples.
type Region struct {
	ID         int64
	Track      int64
	Instrument int64
	Inpoint    int64
	Length     int64
}

// Track is an ordered lane of regions.
type Track struct {
	ID      int64
	Title   string
	Regions []Region
}

// Project is the arrangement under construction.
type Project struct {
	instruments map[int64]*Instrument
	tracks      []*Track
	logger      *log.Logger
}

// New returns an empty project.
func New(logger *log.Logger) *Project {
	return &Project{
		instruments: make(map[int64]*Instrument),
		logger:      logger,
	}
}

// Install registers the project natives with ev.
func (p *Project) Install(ev *lang.Evaluator) {
	ev.RegisterNative("instrument", p.nativeInstrument)
	ev.RegisterNative("track", p.nativeTrack)
	ev.RegisterNative("region", p.nativeRegion)
	ev.RegisterNative("tracks", p.nativeTracks)
}

// LoadFile evaluates a project file through h. The project natives must
// already be installed in h's evaluator.
func LoadFile(h *runtime.Host, path string) (*lang.Value, error) {
	v, err := h.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	return v, nil
}

// Instrument returns the instrument with the given id.
func (p *Project) Instrument(id int64) (*Instrument, bool) {
	in, ok := p.instruments[id]
	return in, ok
}

// Track returns the track with the given id.
func (p *Project) Track(id int64) (*Track, bool) {
	for _, t := range p.tracks {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Tracks returns the tracks in creation order.
func (p *Project) Tracks() []*Track {
	return p.tracks
}

func intArgs(args []*lang.Value, n int) ([]int64, bool) {
	if len(args) < n {
		return nil, false
	}
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		if args[i].Type != lang.TypeInt {
			return nil, false
		}
		out[i] = args[i].Int
	}
	return out, true
}

func textArg(v *lang.Value) (string, bool) {
	switch v.Type {
	case lang.TypeString, lang.TypeSymbol, lang.TypeBytes:
		return v.Str(), true
	}
	return "", false
}

// (instrument id code)
func (p *Project) nativeInstrument(ev *lang.Evaluator, args, _ *lang.Value) *lang.Value {
	vals, err := lang.ToSlice(args)
	if err != nil || len(vals) < 2 {
		return lang.ErrorValue(lang.ErrInvalidParamType)
	}
	ids, ok := intArgs(vals, 1)
	if !ok {
		return lang.ErrorValue(lang.ErrInvalidParamType)
	}
	code, ok := textArg(vals[1])
	if !ok {
		return lang.ErrorValue(lang.ErrInvalidParamType)
	}
	p.instruments[ids[0]] = &Instrument{ID: ids[0], Code: code}
	p.logger.Printf("instrument %d: %d bytes of code", ids[0], len(code))
	return ev.Heap().Int(ids[0])
}

// (track id title)
func (p *Project) nativeTrack(ev *lang.Evaluator, args, _ *lang.Value) *lang.Value {
	vals, err := lang.ToSlice(args)
	if err != nil || len(vals) < 2 {
		return lang.ErrorValue(lang.ErrInvalidParamType)
	}
	ids, ok := intArgs(vals, 1)
	if !ok {
		return lang.ErrorValue(lang.ErrInvalidParamType)
	}
	title, ok := textArg(vals[1])
	if !ok {
		return lang.ErrorValue(lang.ErrInvalidParamType)
	}
	if t, ok := p.Track(ids[0]); ok {
		t.Title = title
	} else {
		p.tracks = append(p.tracks, &Track{ID: ids[0], Title: title})
	}
	p.logger.Printf("track %d: %s", ids[0], title)
	return ev.Heap().Int(ids[0])
}

// (region id track instrument inpoint length)
func (p *Project) nativeRegion(ev *lang.Evaluator, args, _ *lang.Value) *lang.Value {
	vals, err := lang.ToSlice(args)
	if err != nil {
		return lang.ErrorValue(lang.ErrInvalidParamType)
	}
	n, ok := intArgs(vals, 5)
	if !ok || n[3] < 0 || n[4] < 0 {
		return lang.ErrorValue(lang.ErrInvalidParamType)
	}
	t, ok := p.Track(n[1])
	if !ok {
		return lang.ErrorValue(lang.ErrNotFound)
	}
	if _, ok := p.instruments[n[2]]; !ok {
		return lang.ErrorValue(lang.ErrNotFound)
	}
	t.Regions = append(t.Regions, Region{
		ID:         n[0],
		Track:      n[1],
		Instrument: n[2],
		Inpoint:    n[3],
		Length:     n[4],
	})
	p.logger.Printf("region %d on track %d: instrument %d at %d for %d", n[0], n[1], n[2], n[3], n[4])
	return ev.Heap().Int(n[0])
}

// (tracks)
func (p *Project) nativeTracks(ev *lang.Evaluator, _, _ *lang.Value) *lang.Value {
	ids := make([]*lang.Value, len(p.tracks))
	for i, t := range p.tracks {
		ids[i] = ev.Heap().Int(t.ID)
	}
	return ev.Heap().List(ids...)
}
