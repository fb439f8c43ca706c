package lutmap

import (
	"context"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/pinmap"
	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/pnr"
	"github.com/OpenTraceLab/OpenTraceFPGA/pkg/yosys"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Diagnostic is a non-fatal finding of a translation.
type Diagnostic struct {
	Module  string
	Cell    string
	Type    string
	Message string
}

func (d Diagnostic) String() string {
	if d.Cell == "" {
		return fmt.Sprintf("%s: %s", d.Module, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Module, d.Cell, d.Message)
}

// Result is the outcome of translating one module.
type Result struct {
	Module      string
	Problem     *pnr.Problem
	Primitives  []*Primitive
	Diagnostics []Diagnostic
}

// translation holds the state of one pass over a module.
type translation struct {
	opts    *Options
	log     logrus.FieldLogger
	module  *yosys.Module
	pins    *pinmap.Table
	nets    *NetTable
	prims   []*Primitive
	outputs map[string]bool
	diags   []Diagnostic
}

func (tr *translation) warn(cell, typ, message string) {
	tr.log.WithField("cell", cell).Warn(message)
	tr.diags = append(tr.diags, Diagnostic{
		Module:  tr.module.Name,
		Cell:    cell,
		Type:    typ,
		Message: message,
	})
}

// Translate lowers the module named by opts.TopModule. A nil opts uses
// DefaultOptions.
func Translate(design *yosys.Design, pins *pinmap.Table, opts *Options) (*Result, error) {
	o, err := prepare(opts)
	if err != nil {
		return nil, err
	}
	module, err := design.Module(o.TopModule)
	if err != nil {
		return nil, fmt.Errorf("lutmap: %q: %w", o.TopModule, ErrModuleNotFound)
	}
	return translateModule(module, pins, o)
}

// TranslateModule lowers a single module.
func TranslateModule(module *yosys.Module, pins *pinmap.Table, opts *Options) (*Result, error) {
	o, err := prepare(opts)
	if err != nil {
		return nil, err
	}
	return translateModule(module, pins, o)
}

// TranslateAll lowers the named modules, or every module of the design
// when none are named, concurrently. Translations share no state; the
// first failure cancels the ones not yet started.
func TranslateAll(ctx context.Context, design *yosys.Design, pins *pinmap.Table, opts *Options, modules ...string) ([]*Result, error) {
	o, err := prepare(opts)
	if err != nil {
		return nil, err
	}

	var targets []*yosys.Module
	if len(modules) == 0 {
		targets = design.Modules
	} else {
		for _, name := range modules {
			m, err := design.Module(name)
			if err != nil {
				return nil, fmt.Errorf("lutmap: %q: %w", name, ErrModuleNotFound)
			}
			targets = append(targets, m)
		}
	}

	results := make([]*Result, len(targets))
	g, ctx := errgroup.WithContext(ctx)
	for i, m := range targets {
		i, m := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := translateModule(m, pins, o)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func prepare(opts *Options) (*Options, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	o := *opts
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &o, nil
}

func translateModule(module *yosys.Module, pins *pinmap.Table, o *Options) (*Result, error) {
	tr := &translation{
		opts:    o,
		log:     o.Logger.WithField("module", module.Name),
		module:  module,
		pins:    pins,
		nets:    NewNetTable(),
		outputs: make(map[string]bool),
	}

	if err := tr.registerPorts(); err != nil {
		return nil, err
	}
	if err := tr.buildPrimitives(); err != nil {
		return nil, err
	}
	wires, err := tr.resolveWiring()
	if err != nil {
		return nil, err
	}
	problem, err := tr.assemble(wires)
	if err != nil {
		return nil, err
	}

	return &Result{
		Module:      module.Name,
		Problem:     problem,
		Primitives:  tr.prims,
		Diagnostics: tr.diags,
	}, nil
}

// assemble combines the pin bindings, lowered primitives and wires. Every
// binding of the pin table must name a port of the module.
func (tr *translation) assemble(wires []pnr.Wire) (*pnr.Problem, error) {
	problem := pnr.NewProblem()

	for _, entry := range tr.pins.Entries() {
		isOutput, declared := tr.outputs[entry.Port]
		if !declared {
			return nil, fmt.Errorf("lutmap: port %s: %w", entry.Port, ErrUnusedPin)
		}
		problem.UsedIOs = append(problem.UsedIOs, pnr.UsedIO{
			Spot:     entry.Spot,
			IsOutput: isOutput,
		})
	}

	for _, p := range tr.prims {
		problem.Lut4s = append(problem.Lut4s, p.Lower(*tr.opts.ClockDomain))
	}
	problem.Wires = wires

	return problem, nil
}
