package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/facetdex/internal/domain/search/order"
	"github.com/kailas-cloud/facetdex/internal/domain/taxonomy"
	sessionuc "github.com/kailas-cloud/facetdex/internal/usecase/session"
)

const replHelp = `commands:
  /q <text>          set the query (empty clears it); plain lines do the same
  /t <category> <tag> toggle a tag
  /c <tag>           cycle a tag's modifier (none, include, exclude)
  /x <tag>           remove a tag
  /clear             remove every tag
  /sort <by>         relevance, alphabetical or type
  /dir [asc|desc]    set or flip the sort direction
  /show              print the current view
  /help              print this help
  /quit              leave`

func replCommand(c *cli.Context) error {
	eng, err := openEngine(c)
	if err != nil {
		return err
	}
	defer eng.Close()

	r := &repl{
		sess:     sessionuc.New(uuid.NewString()),
		searcher: eng.search,
		tax:      eng.tax,
		out:      c.App.Writer,
	}
	return r.run(c.Context, c.App.Reader)
}

type repl struct {
	sess     *sessionuc.Session
	searcher sessionuc.Searcher
	tax      *taxonomy.Taxonomy
	out      io.Writer
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(r.out, "type /help for commands")
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(r.out)
			break
		}
		quit, err := r.exec(ctx, strings.TrimSpace(sc.Text()))
		if err != nil {
			fmt.Fprintln(r.out, "error:", err)
		}
		if quit {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// exec applies one input line to the session and prints the resulting view.
func (r *repl) exec(ctx context.Context, line string) (bool, error) {
	if line == "" {
		return false, nil
	}
	if !strings.HasPrefix(line, "/") {
		if err := r.sess.SetSearch(line); err != nil {
			return false, err
		}
		return false, r.show(ctx)
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		fmt.Fprintln(r.out, replHelp)
		return false, nil
	case "/show":
	case "/q":
		if err := r.sess.SetSearch(arg); err != nil {
			return false, err
		}
	case "/t":
		category, tag, ok := strings.Cut(arg, " ")
		if !ok {
			return false, fmt.Errorf("usage: /t <category> <tag>")
		}
		if err := r.sess.ToggleTag(category, strings.TrimSpace(tag)); err != nil {
			return false, err
		}
	case "/c":
		r.sess.CycleModifier(arg)
	case "/x":
		r.sess.RemoveFilter(arg)
	case "/clear":
		r.sess.ClearFilters()
	case "/sort":
		if err := r.sess.SetSortBy(order.SortBy(arg)); err != nil {
			return false, err
		}
	case "/dir":
		if arg == "" {
			r.sess.ToggleSortDirection()
		} else if err := r.sess.SetSortDirection(order.Direction(arg)); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unknown command %s, type /help", cmd)
	}
	return false, r.show(ctx)
}

func (r *repl) show(ctx context.Context) error {
	st := r.sess.State()
	fmt.Fprintf(r.out, "query=%q sort=%s %s", st.Search, st.SortBy, st.Direction)
	for _, f := range st.Filters {
		fmt.Fprintf(r.out, " [%s:%s:%s]", f.Category, f.Tag, f.Modifier)
	}
	fmt.Fprintln(r.out)

	view, err := r.sess.View(ctx, r.searcher)
	if err != nil {
		return err
	}
	printResults(r.out, view)
	printAvailable(r.out, view.Available, r.tax)
	return nil
}
