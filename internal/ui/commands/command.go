package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// Args carries the parsed pieces of a command line
type Args struct {
	Count      int // 0 when no count was given
	Bools      map[string]bool
	Strings    map[string]string
	Positional []string
}

func (a *Args) Bool(name string) bool     { return a.Bools[name] }
func (a *Args) String(name string) string { return a.Strings[name] }

func (a *Args) Arg(i int) string {
	if i < len(a.Positional) {
		return a.Positional[i]
	}
	return ""
}

// Rest joins the positional arguments from i on
func (a *Args) Rest(i int) string {
	if i >= len(a.Positional) {
		return ""
	}
	return strings.Join(a.Positional[i:], " ")
}

// boolFlag and stringFlag declare the flags a command accepts
type boolFlag struct {
	short rune   // 0 when there is no short form
	long  string // without the -- prefix
}

type stringFlag struct {
	short rune
	long  string
}

// Spec describes one command
type Spec struct {
	Name        string
	Description string
	BoolFlags   []boolFlag
	StringFlags []stringFlag
	MaxArgs     int // -1: unlimited
	Run         func(a *Args) error
}

// Registry resolves command names to specs
type Registry struct {
	specs map[string]*Spec
}

func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]*Spec)}
}

func (r *Registry) Register(s *Spec) {
	r.specs[s.Name] = s
}

// Names returns all registered command names
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	return names
}

// Execute parses and runs a command line. The line comes without the
// leading colon; a digit prefix is a count, as in "3tab-next".
func (r *Registry) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	count := 0
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) {
		count, _ = strconv.Atoi(line[:i])
		line = line[i:]
	}

	words, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("could not parse command: %w", err)
	}
	if len(words) == 0 {
		return nil
	}

	spec, ok := r.specs[words[0]]
	if !ok {
		return fmt.Errorf("%s: no such command", words[0])
	}

	args, err := spec.parse(words[1:])
	if err != nil {
		return fmt.Errorf("%s: %w", spec.Name, err)
	}
	args.Count = count
	return spec.Run(args)
}

func (s *Spec) parse(words []string) (*Args, error) {
	a := &Args{
		Bools:   make(map[string]bool),
		Strings: make(map[string]string),
	}

	for i := 0; i < len(words); i++ {
		w := words[i]
		switch {
		case w == "--":
			a.Positional = append(a.Positional, words[i+1:]...)
			i = len(words)

		case strings.HasPrefix(w, "--"):
			name := strings.TrimPrefix(w, "--")
			if s.hasBoolFlag(name) {
				a.Bools[name] = true
				continue
			}
			if long, ok := s.stringFlagByLong(name); ok {
				if i+1 >= len(words) {
					return nil, fmt.Errorf("--%s needs a value", name)
				}
				i++
				a.Strings[long] = words[i]
				continue
			}
			return nil, fmt.Errorf("unknown flag --%s", name)

		case strings.HasPrefix(w, "-") && len(w) > 1 && !isNumeric(w):
			for _, c := range w[1:] {
				if long, ok := s.boolFlagByShort(c); ok {
					a.Bools[long] = true
					continue
				}
				if long, ok := s.stringFlagByShort(c); ok {
					if i+1 >= len(words) {
						return nil, fmt.Errorf("-%c needs a value", c)
					}
					i++
					a.Strings[long] = words[i]
					continue
				}
				return nil, fmt.Errorf("unknown flag -%c", c)
			}

		default:
			a.Positional = append(a.Positional, w)
		}
	}

	if s.MaxArgs >= 0 && len(a.Positional) > s.MaxArgs {
		return nil, fmt.Errorf("takes at most %d arguments", s.MaxArgs)
	}
	return a, nil
}

// Negative numbers are positional arguments, not flag bundles
func isNumeric(w string) bool {
	_, err := strconv.Atoi(w)
	return err == nil
}

func (s *Spec) hasBoolFlag(name string) bool {
	for _, f := range s.BoolFlags {
		if f.long == name {
			return true
		}
	}
	return false
}

func (s *Spec) boolFlagByShort(c rune) (string, bool) {
	for _, f := range s.BoolFlags {
		if f.short == c {
			return f.long, true
		}
	}
	return "", false
}

func (s *Spec) stringFlagByLong(name string) (string, bool) {
	for _, f := range s.StringFlags {
		if f.long == name {
			return f.long, true
		}
	}
	return "", false
}

func (s *Spec) stringFlagByShort(c rune) (string, bool) {
	for _, f := range s.StringFlags {
		if f.short == c {
			return f.long, true
		}
	}
	return "", false
}
