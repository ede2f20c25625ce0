package commands

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountPrefix(t *testing.T) {
	r := NewRegistry()
	var got *Args
	r.Register(&Spec{
		Name:    "tab-next",
		MaxArgs: 0,
		Run:     func(a *Args) error { got = a; return nil },
	})

	require.NoError(t, r.Execute("3tab-next"))
	require.Equal(t, 3, got.Count)

	require.NoError(t, r.Execute("tab-next"))
	require.Equal(t, 0, got.Count)
}

func TestBoolFlags(t *testing.T) {
	r := NewRegistry()
	var got *Args
	r.Register(&Spec{
		Name:      "open",
		BoolFlags: []boolFlag{{'t', "tab"}, {'b', "bg"}, {'s', "secure"}},
		MaxArgs:   -1,
		Run:       func(a *Args) error { got = a; return nil },
	})

	require.NoError(t, r.Execute("open -t http://a.example"))
	require.True(t, got.Bool("tab"))
	require.False(t, got.Bool("bg"))
	require.Equal(t, "http://a.example", got.Arg(0))

	// Long form and bundled shorts
	require.NoError(t, r.Execute("open --secure -tb x"))
	require.True(t, got.Bool("secure"))
	require.True(t, got.Bool("tab"))
	require.True(t, got.Bool("bg"))

	require.Error(t, r.Execute("open -z x"))
	require.Error(t, r.Execute("open --bogus x"))
}

func TestStringFlags(t *testing.T) {
	r := NewRegistry()
	var got *Args
	r.Register(&Spec{
		Name:        "download",
		StringFlags: []stringFlag{{'d', "dest"}},
		MaxArgs:     1,
		Run:         func(a *Args) error { got = a; return nil },
	})

	require.NoError(t, r.Execute("download -d /tmp/out http://a.example/f"))
	require.Equal(t, "/tmp/out", got.String("dest"))
	require.Equal(t, "http://a.example/f", got.Arg(0))

	require.NoError(t, r.Execute("download --dest other"))
	require.Equal(t, "other", got.String("dest"))

	require.Error(t, r.Execute("download --dest"))
}

func TestNegativeNumbersArePositional(t *testing.T) {
	r := NewRegistry()
	var got *Args
	r.Register(&Spec{
		Name:    "scroll-px",
		MaxArgs: 2,
		Run:     func(a *Args) error { got = a; return nil },
	})

	require.NoError(t, r.Execute("scroll-px 0 -30"))
	require.Equal(t, "-30", got.Arg(1))
}

func TestDoubleDashEndsFlags(t *testing.T) {
	r := NewRegistry()
	var got *Args
	r.Register(&Spec{
		Name:      "spawn",
		BoolFlags: []boolFlag{{'v', "verbose"}},
		MaxArgs:   -1,
		Run:       func(a *Args) error { got = a; return nil },
	})

	require.NoError(t, r.Execute("spawn -- rm -v file"))
	require.False(t, got.Bool("verbose"))
	require.Equal(t, []string{"rm", "-v", "file"}, got.Positional)
}

func TestQuotedArguments(t *testing.T) {
	r := NewRegistry()
	var got *Args
	r.Register(&Spec{
		Name:    "open",
		MaxArgs: -1,
		Run:     func(a *Args) error { got = a; return nil },
	})

	require.NoError(t, r.Execute(`open "hello world"`))
	require.Equal(t, "hello world", got.Arg(0))
	require.Equal(t, "hello world", got.Rest(0))
}

func TestErrors(t *testing.T) {
	r := NewRegistry()
	r.Register(&Spec{
		Name:    "undo",
		MaxArgs: 0,
		Run:     func(a *Args) error { return nil },
	})

	err := r.Execute("no-such-thing")
	require.ErrorContains(t, err, "no such command")

	err = r.Execute("undo extra")
	require.ErrorContains(t, err, "at most 0 arguments")

	// Blank lines and pure whitespace do nothing
	require.NoError(t, r.Execute(""))
	require.NoError(t, r.Execute("   "))
}
