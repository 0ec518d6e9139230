package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/minvoice/minvoice/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	errInputClosed   = errors.New("input closed before the session finished")
	errValueRequired = errors.New("A value is required.")
)

// prompter asks one huh input field at a time. Terminals get the interactive
// form; anything else (pipes, tests) runs in accessible mode, reading one
// answer per line.
type prompter struct {
	in         io.Reader
	out        io.Writer
	lines      *lineReader
	accessible bool
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	if f, ok := in.(interface{ Fd() uintptr }); ok && term.IsTerminal(f.Fd()) {
		return &prompter{in: in, out: out}
	}
	lr := &lineReader{r: bufio.NewReader(in)}
	return &prompter{in: lr, out: out, lines: lr, accessible: true}
}

// ask runs a single input field and returns the trimmed answer. validate may
// be nil. errInputClosed is returned when the input ends before a valid answer.
func (p *prompter) ask(title string, validate func(string) error) (string, error) {
	if validate == nil {
		validate = func(string) error { return nil }
	}

	var v string
	field := huh.NewInput().
		Title(strings.TrimRight(title, " ")).
		Value(&v).
		Validate(validate)
	form := huh.NewForm(huh.NewGroup(field)).
		WithAccessible(p.accessible).
		WithInput(p.in).
		WithOutput(p.out).
		WithShowHelp(false)

	var read int
	if p.lines != nil {
		read = p.lines.count
	}
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	if p.lines != nil && p.lines.closed && (p.lines.count == read || validate(v) != nil) {
		return "", errInputClosed
	}
	return strings.TrimSpace(v), nil
}

func (p *prompter) askOptional(title string) (domain.Optional[string], error) {
	v, err := p.ask(title, nil)
	if err != nil || v == "" {
		return domain.None[string](), err
	}
	return domain.Some(v), nil
}

// askRequired repeats the question until a non-empty answer is given.
func (p *prompter) askRequired(title string) (string, error) {
	return p.ask(title, required)
}

// askQuantity returns a positive whole number; an empty answer means 1.
func (p *prompter) askQuantity(title string) (int, error) {
	v, err := p.ask(title, func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		_, err := quantity(s)
		return err
	})
	if err != nil {
		return 0, err
	}
	if v == "" {
		return 1, nil
	}
	return quantity(v)
}

// askAmount returns a non-negative decimal. An empty answer gives fallback
// when it is present and is refused otherwise. check, when set, adds a
// further bound on the parsed amount.
func (p *prompter) askAmount(title string, fallback domain.Optional[decimal.Decimal], check func(decimal.Decimal) error) (decimal.Decimal, error) {
	validate := func(s string) error {
		if strings.TrimSpace(s) == "" {
			if fallback.IsPresent() {
				return nil
			}
			return errValueRequired
		}
		d, err := amount(s)
		if err != nil {
			return err
		}
		if check != nil {
			return check(d)
		}
		return nil
	}

	v, err := p.ask(title, validate)
	if err != nil {
		return decimal.Zero, err
	}
	if v == "" {
		d, _ := fallback.Get()
		return d, nil
	}
	return amount(v)
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errValueRequired
	}
	return nil
}

func quantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%q is not a positive whole number.", s)
	}
	return n, nil
}

func amount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(strings.TrimSuffix(s, "%"))
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%q is not a valid amount.", s)
	}
	return d, nil
}

// lineReader hands out at most one line per Read. Accessible fields each wrap
// the input in their own scanner, so a larger read would swallow the answers
// to later questions.
type lineReader struct {
	r       *bufio.Reader
	pending []byte
	count   int
	closed  bool
}

func (l *lineReader) Read(p []byte) (int, error) {
	if len(l.pending) == 0 {
		line, err := l.r.ReadBytes('\n')
		if len(line) == 0 {
			if errors.Is(err, io.EOF) {
				l.closed = true
			}
			return 0, err
		}
		l.pending = line
		l.count++
	}
	n := copy(p, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}
