// Package menu implements the interactive numbered menu over the query
// catalogue and the client and product maintenance screens.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"billing-cache-api/internal/model"
	"billing-cache-api/internal/service"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/table"
	log "github.com/sirupsen/logrus"
)

// LineReader reads one line of user input. *readline.Instance implements it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// Services are the operations the menu drives.
type Services struct {
	Catalog  *service.Catalog
	Clients  *service.ClientService
	Products *service.ProductService
	Journal  *service.Journal
}

// errExit ends the menu loop.
var errExit = errors.New("exit")

type entry struct {
	key   string
	label string
	run   func(ctx context.Context) error
}

// Menu is the interactive main menu.
type Menu struct {
	svc     Services
	in      LineReader
	out     io.Writer
	entries []entry
}

// New builds the menu. Queries keep their catalogue numbers; the
// maintenance screens follow them.
func New(svc Services, in LineReader, out io.Writer) *Menu {
	m := &Menu{svc: svc, in: in, out: out}

	for _, q := range svc.Catalog.All() {
		q := q
		m.entries = append(m.entries, entry{
			key:   fmt.Sprint(q.Number),
			label: q.Description,
			run:   func(ctx context.Context) error { return m.runQuery(ctx, q) },
		})
	}
	next := len(m.entries)
	m.entries = append(m.entries,
		entry{key: fmt.Sprint(next), label: "Client maintenance", run: m.clientScreen},
		entry{key: fmt.Sprint(next + 1), label: "Product maintenance", run: m.productScreen},
		entry{key: fmt.Sprint(next + 2), label: "Audit log", run: m.auditLog},
		entry{key: fmt.Sprint(next + 3), label: "Exit", run: func(context.Context) error { return errExit }},
	)
	return m
}

// Run shows the menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.printMenu()
		choice, err := m.ask("Select an option: ")
		if err != nil {
			return endOfInput(err)
		}

		e, ok := m.lookup(choice)
		if !ok {
			fmt.Fprintf(m.out, "Unknown option %q\n\n", choice)
			continue
		}

		err = e.run(ctx)
		switch {
		case errors.Is(err, errExit):
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		case isEndOfInput(err):
			return nil
		case err != nil:
			m.printError(err)
		}
		fmt.Fprintln(m.out)
	}
}

func (m *Menu) lookup(key string) (entry, bool) {
	for _, e := range m.entries {
		if e.key == key {
			return e, true
		}
	}
	return entry{}, false
}

func (m *Menu) printMenu() {
	t := table.NewWriter()
	t.SetOutputMirror(m.out)
	t.AppendHeader(table.Row{"#", "Billing"})
	for _, e := range m.entries {
		t.AppendRow(table.Row{e.key, e.label})
	}
	t.Render()
}

func (m *Menu) runQuery(ctx context.Context, q *service.Query) error {
	var p service.Params
	var err error
	switch {
	case q.Mutating:
		var ok bool
		if ok, err = m.confirm("This replaces all data and clears the cache. Continue?"); err != nil || !ok {
			return err
		}
	case q.Input == service.ParamName:
		if p.FirstName, err = m.askText("First name", ""); err != nil {
			return err
		}
		if p.LastName, err = m.askText("Last name", ""); err != nil {
			return err
		}
	case q.Input == service.ParamBrand:
		if p.Brand, err = m.askText("Brand", ""); err != nil {
			return err
		}
	}

	result, err := q.Run(ctx, p)
	if err != nil {
		return err
	}
	render(m.out, result)
	return nil
}

func (m *Menu) auditLog(ctx context.Context) error {
	entries, total, err := m.svc.Journal.List(ctx, 20, 0)
	if err != nil {
		return err
	}
	render(m.out, entries)
	fmt.Fprintf(m.out, "Showing %d of %d entries\n", len(entries), total)
	return nil
}

// printError reports an operation failure and returns to the menu.
func (m *Menu) printError(err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		fields := model.FieldErrors(err)
		if len(fields) == 0 {
			fmt.Fprintf(m.out, "Invalid input: %v\n", err)
			return
		}
		names := make([]string, 0, len(fields))
		for f := range fields {
			names = append(names, f)
		}
		sort.Strings(names)
		fmt.Fprintln(m.out, "Invalid input:")
		for _, f := range names {
			fmt.Fprintf(m.out, "  %s: %s\n", f, fields[f])
		}
	case errors.Is(err, model.ErrNotFound):
		fmt.Fprintf(m.out, "Nothing found (%v)\n", err)
	case errors.Is(err, model.ErrConflict):
		fmt.Fprintf(m.out, "Another record already uses that number, try again (%v)\n", err)
	case errors.Is(err, model.ErrStoreUnavailable):
		fmt.Fprintln(m.out, "The database is unavailable, try again later")
		log.WithError(err).Warn("[Menu] Store unavailable")
	default:
		fmt.Fprintf(m.out, "Error: %v\n", err)
		log.WithError(err).Error("[Menu] Operation failed")
	}
}

func isEndOfInput(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt)
}

func endOfInput(err error) error {
	if isEndOfInput(err) {
		return nil
	}
	return err
}

// ask prints prompt and returns the trimmed answer.
func (m *Menu) ask(prompt string) (string, error) {
	m.in.SetPrompt(prompt)
	line, err := m.in.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
