package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/iamainow/routes/export"
	"github.com/iamainow/routes/net/address"
	"github.com/iamainow/routes/rangeset"
)

// UsageError is a malformed command line.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string { return e.msg }

func usagef(format string, args ...interface{}) error {
	return &UsageError{msg: fmt.Sprintf(format, args...)}
}

type sourceKind string

const (
	sourceRaw       sourceKind = "raw"
	sourceFile      sourceKind = "file"
	sourceStdin     sourceKind = "stdin"
	sourceDNS       sourceKind = "dns"
	sourceSPF       sourceKind = "spf"
	sourceWellKnown sourceKind = "wellknown"
)

type source struct {
	kind sourceKind
	arg  string
}

func (s source) String() string {
	switch s.kind {
	case sourceStdin:
		return "stdin"
	case sourceWellKnown:
		return s.arg
	}
	return string(s.kind) + " " + s.arg
}

type step struct {
	except bool
	src    source
}

// Chain is a parsed command line:
//
//	<source> [union|except <source>]* [simplify <n>] [minimize <n>]
//	[print subnet|range|json|yaml] [format <pattern>]
type Chain struct {
	Base     source
	Steps    []step
	Simplify *address.Count
	Minimize *address.Count
	Print    string
	Format   string
}

var printModes = map[string]bool{"subnet": true, "range": true, "json": true, "yaml": true}

// ParseChain parses args. isWellKnown tells whether a bare word names an
// address list.
func ParseChain(args []string, isWellKnown func(string) bool) (*Chain, error) {
	p := &chainParser{args: args, isWellKnown: isWellKnown}
	return p.parse()
}

type chainParser struct {
	args        []string
	pos         int
	isWellKnown func(string) bool
}

func (p *chainParser) next(what string) (string, error) {
	if p.pos >= len(p.args) {
		if p.pos == 0 {
			return "", usagef("missing %s", what)
		}
		return "", usagef("missing %s after %q", what, p.args[p.pos-1])
	}
	p.pos++
	return p.args[p.pos-1], nil
}

func (p *chainParser) source() (source, error) {
	word, err := p.next("source")
	if err != nil {
		return source{}, err
	}
	switch kind := sourceKind(word); kind {
	case sourceStdin:
		return source{kind: kind}, nil
	case sourceRaw, sourceFile, sourceDNS, sourceSPF:
		arg, err := p.next(word + " argument")
		if err != nil {
			return source{}, err
		}
		return source{kind: kind, arg: arg}, nil
	}
	if p.isWellKnown(word) {
		return source{kind: sourceWellKnown, arg: word}, nil
	}
	return source{}, usagef("unknown source %q", word)
}

func (p *chainParser) count(keyword string) (*address.Count, error) {
	word, err := p.next(keyword + " size")
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseUint(word, 10, 64)
	if err != nil {
		return nil, usagef("%s: %q is not a number of addresses", keyword, word)
	}
	c := address.Count(n)
	return &c, nil
}

func (p *chainParser) parse() (*Chain, error) {
	var (
		c   = &Chain{Print: "subnet"}
		err error
	)
	if c.Base, err = p.source(); err != nil {
		return nil, err
	}
	tail := false // union and except are no longer allowed
	for p.pos < len(p.args) {
		keyword := p.args[p.pos]
		p.pos++
		switch keyword {
		case "union", "except":
			if tail {
				return nil, usagef("%s after output options", keyword)
			}
			src, err := p.source()
			if err != nil {
				return nil, err
			}
			c.Steps = append(c.Steps, step{except: keyword == "except", src: src})
		case "simplify":
			if c.Simplify != nil {
				return nil, usagef("simplify given twice")
			}
			if c.Simplify, err = p.count(keyword); err != nil {
				return nil, err
			}
			tail = true
		case "minimize":
			if c.Minimize != nil {
				return nil, usagef("minimize given twice")
			}
			if c.Minimize, err = p.count(keyword); err != nil {
				return nil, err
			}
			tail = true
		case "print":
			mode, err := p.next("print mode")
			if err != nil {
				return nil, err
			}
			if !printModes[mode] {
				return nil, usagef("unknown print mode %q", mode)
			}
			c.Print = mode
			tail = true
		case "format":
			if c.Format, err = p.next("format pattern"); err != nil {
				return nil, err
			}
			tail = true
		default:
			return nil, usagef("unexpected %q", keyword)
		}
	}
	return c, nil
}

// loadFunc returns the ranges of one source, in any order.
type loadFunc func(ctx context.Context, src source) ([]address.Range, error)

// Result is an evaluated chain.
type Result struct {
	Set     rangeset.Array
	Subnets []address.Subnet
}

// Evaluate loads every source and runs the union/except chain in one
// buffer, then applies simplify and minimize.
func (c *Chain) Evaluate(ctx context.Context, load loadFunc) (*Result, error) {
	base, err := load(ctx, c.Base)
	if err != nil {
		return nil, err
	}
	builder := rangeset.NewBuilder(base)
	for _, s := range c.Steps {
		ranges, err := load(ctx, s.src)
		if err != nil {
			return nil, err
		}
		if s.except {
			builder.Except(ranges)
		} else {
			builder.Union(ranges)
		}
	}
	set := builder.Build()
	if c.Simplify != nil {
		set = set.Simplify(*c.Simplify)
	}
	res := &Result{Set: set}
	if c.Minimize != nil {
		res.Subnets = set.MinimizeSubnets(*c.Minimize)
		ranges := make([]address.Range, len(res.Subnets))
		for i, s := range res.Subnets {
			ranges[i] = s.Range()
		}
		res.Set = rangeset.NewArray(ranges...)
	} else {
		res.Subnets = set.Subnets()
	}
	return res, nil
}

// Write prints res according to the output options of c.
func (c *Chain) Write(w io.Writer, res *Result) error {
	if c.Format != "" {
		return export.WriteFormat(w, c.Format, res.Subnets)
	}
	switch c.Print {
	case "range":
		return export.WriteRanges(w, res.Set.Normalized())
	case "json":
		return export.WriteJSON(w, res.Subnets)
	case "yaml":
		return export.WriteYAML(w, res.Subnets)
	default:
		return export.WriteSubnets(w, res.Subnets)
	}
}
