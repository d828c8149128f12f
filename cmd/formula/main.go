package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zephyrtronium/formula"
)

func main() {
	var (
		inname, batch, sheet string
		row, col             int
		with                 [][2]string
		echo, toks, verbose  bool
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=formula", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file with one formula per line (default stdin if no args or batch given)")
	flag.StringVar(&batch, "batch", "", "YAML file listing cells to compute")
	flag.StringVar(&sheet, "sheet", "Sheet1", "sheet of the owning cell")
	flag.IntVar(&row, "row", 1, "row of the owning cell")
	flag.IntVar(&col, "col", 1, "column of the owning cell")
	flag.Func("given", "name=formula variable definition (any number of times)", addwith)
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.BoolVar(&toks, "tokens", false, "print tokens")
	flag.BoolVar(&verbose, "v", false, "log debug messages")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	pos := formula.CellPosition{Sheet: sheet, Row: row, Col: col}
	it := formula.NewInterpreter()
	for _, d := range with {
		nm := d[0]
		r, err := it.Compute(trim(d[1]), pos)
		if err != nil {
			log.Fatal().Err(err).Str("name", nm).Msg("setting variable")
		}
		it.Set(nm, r)
		log.Debug().Str("name", nm).Stringer("value", r).Msg("defined variable")
	}

	var cells []cell
	if batch != "" {
		f, err := os.Open(batch)
		if err != nil {
			log.Fatal().Err(err).Msg("opening batch file")
		}
		cells, err = loadBatch(f, pos)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Str("file", batch).Msg("reading batch file")
		}
		log.Debug().Str("file", batch).Int("cells", len(cells)).Msg("loaded batch")
	}
	in, err := infile(inname, flag.NArg() == 0 && batch == "")
	if err != nil {
		log.Fatal().Err(err).Msg("opening input")
	}
	if in != nil {
		lines, err := readLines(in, pos)
		in.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("reading input")
		}
		cells = append(cells, lines...)
	}
	for _, arg := range flag.Args() {
		cells = append(cells, cell{Sheet: pos.Sheet, Row: pos.Row, Col: pos.Col, Formula: arg})
	}

	r := runner{it: it, out: os.Stdout, echo: echo, tokens: toks}
	if failed := r.run(cells); failed > 0 {
		log.Debug().Int("failed", failed).Int("total", len(cells)).Msg("done")
		os.Exit(1)
	}
}

// trim removes surrounding space and the = that starts a formula in a cell.
func trim(src string) string {
	return strings.TrimPrefix(strings.TrimSpace(src), "=")
}

// infile opens the named input, or stdin if the name is - or std is true.
// It returns nil if there is no input to read.
func infile(inname string, std bool) (io.ReadCloser, error) {
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		return f, nil
	case inname == "-", std:
		return io.NopCloser(os.Stdin), nil
	}
	return nil, nil
}

// readLines reads one formula per nonblank line, all owned by pos.
func readLines(in io.Reader, pos formula.CellPosition) ([]cell, error) {
	var cells []cell
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cells = append(cells, cell{Sheet: pos.Sheet, Row: pos.Row, Col: pos.Col, Formula: line})
	}
	return cells, sc.Err()
}

type runner struct {
	it     *formula.Interpreter
	lex    formula.Lexer
	out    io.Writer
	echo   bool
	tokens bool
}

// run computes each cell and prints its value or error. Returns the number
// of cells that failed.
func (r *runner) run(cells []cell) int {
	var failed int
	for _, c := range cells {
		v, err := r.compute(c)
		if err != nil {
			failed++
			log.Debug().Err(err).Str("formula", c.Formula).Stringer("cell", c).Msg("failed")
			fmt.Fprintln(r.out, "error:", err)
			continue
		}
		fmt.Fprintln(r.out, v)
	}
	return failed
}

func (r *runner) compute(c cell) (formula.Result, error) {
	src := trim(c.Formula)
	toks, err := r.lex.Scan(src)
	if err != nil {
		return formula.Result{}, err
	}
	log.Debug().Str("formula", src).Int("count", len(toks)).Msg("scanned")
	if r.tokens {
		fmt.Fprintln(r.out, toks)
	}
	n, err := formula.ParseTokens(toks)
	if err != nil {
		return formula.Result{}, err
	}
	log.Debug().Stringer("tree", n).Msg("parsed")
	if r.echo {
		fmt.Fprintf(r.out, "%v : ", n)
	}
	return r.it.Eval(n, c.position())
}
