package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"curriculum-cli/internal/client"
	"curriculum-cli/internal/curriculum"
	"curriculum-cli/internal/history"
	"curriculum-cli/internal/i18n"
	"curriculum-cli/internal/tui/render"

	"golang.org/x/sync/errgroup"
)

// detailConcurrency 限制 --details 同时进行的请求数。
const detailConcurrency = 4

func runHistory(root rootArgs, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var filter string
	var details bool
	var limit int
	fs.StringVar(&filter, "filter", "", "Fuzzy filter by topic")
	fs.BoolVar(&details, "details", false, "Fetch the PDF of every listed entry")
	fs.IntVar(&limit, "limit", 0, "Show at most this many entries (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rt, err := loadRuntime(root)
	if err != nil {
		return err
	}
	defer rt.Close()
	if err := rt.requireSession(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(rt.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	records, err := rt.client.History(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", client.UserMessage(err, rt.lang), err)
	}
	idx := history.Filter(filter, len(records), func(i int) string { return records[i].Topic })
	if limit > 0 && len(idx) > limit {
		idx = idx[:limit]
	}
	selected := make([]curriculum.RequestRecord, 0, len(idx))
	for _, i := range idx {
		selected = append(selected, records[i])
	}
	if len(selected) == 0 {
		_, err := fmt.Fprintln(out, i18n.Text(rt.lang, i18n.MsgNoHistory))
		return err
	}

	var pdfs []curriculum.PDF
	if details {
		pdfs, err = fetchDetails(ctx, rt.client, selected)
		if err != nil {
			return fmt.Errorf("%s: %w", client.UserMessage(err, rt.lang), err)
		}
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i, rec := range selected {
		when := ""
		if !rec.CreatedAt.IsZero() {
			when = rec.CreatedAt.UTC().Format("2006-01-02 15:04")
		}
		row := []string{rec.ID, when, rec.Topic}
		if details {
			row = append(row, pdfs[i].Title, pdfs[i].URL)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// fetchDetails 并发获取详情，结果顺序与 records 一致；任一失败即取消其余请求。
func fetchDetails(ctx context.Context, cl *client.Client, records []curriculum.RequestRecord) ([]curriculum.PDF, error) {
	pdfs := make([]curriculum.PDF, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailConcurrency)
	for i, rec := range records {
		g.Go(func() error {
			d, err := cl.Detail(gctx, rec.ID)
			if err != nil {
				return err
			}
			pdfs[i] = d.PDF
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pdfs, nil
}

func runDetail(root rootArgs, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("detail", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var plain bool
	var style string
	fs.BoolVar(&plain, "plain", false, "Print title and URL without markdown rendering")
	fs.StringVar(&style, "style", "", "glamour style (dark, light, notty; default auto)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: curriculum-cli detail <id>")
	}

	rt, err := loadRuntime(root)
	if err != nil {
		return err
	}
	defer rt.Close()
	if err := rt.requireSession(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(rt.cfg.TimeoutSeconds)*time.Second)
	defer cancel()
	d, err := rt.client.Detail(ctx, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("%s: %w", client.UserMessage(err, rt.lang), err)
	}
	if plain {
		_, err := fmt.Fprintf(out, "%s\n%s\n", d.PDF.Title, d.PDF.URL)
		return err
	}
	text, err := render.Markdown(render.DetailMarkdown(d), 80, style)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, text)
	return err
}
