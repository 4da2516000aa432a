package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/Gunvolt24/techshop/internal/app"
	"github.com/Gunvolt24/techshop/internal/catalog"
	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/urfave/cli/v2"
)

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "browse the product catalog",
		Subcommands: []*cli.Command{
			{
				Name:  "browse",
				Usage: "one catalog page with search, sort and filters",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Value: 1},
					&cli.IntFlag{Name: "per-page", Usage: "page size (default 12)"},
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}},
					&cli.StringFlag{Name: "sort", Usage: "rating_asc|rating_desc|price_asc|price_desc"},
					&cli.StringSliceFlag{Name: "category"},
					&cli.StringFlag{Name: "price-min"},
					&cli.StringFlag{Name: "price-max"},
					&cli.BoolFlag{Name: "discount", Usage: "only discounted goods"},
				},
				Action: runWithServices(browseAction),
			},
			{
				Name:      "product",
				Usage:     "product card",
				ArgsUsage: "<id>",
				Action:    runWithServices(productAction),
			},
			{
				Name:   "categories",
				Usage:  "known main categories",
				Action: runWithServices(categoriesAction),
			},
			{
				Name:      "suggest",
				Usage:     "search autocomplete",
				ArgsUsage: "<text>",
				Action:    runWithServices(suggestAction),
			},
		},
	}
}

// browseParams — флаги в параметрах строки запроса каталога.
func browseParams(c *cli.Context) url.Values {
	v := url.Values{}
	v.Set(catalog.ParamPage, strconv.Itoa(c.Int("page")))
	if n := c.Int("per-page"); n != 0 {
		v.Set(catalog.ParamPerPage, strconv.Itoa(n))
	}
	v.Set(catalog.ParamQuery, c.String("query"))
	v.Set(catalog.ParamSortOrder, c.String("sort"))
	if cats := c.StringSlice("category"); len(cats) > 0 {
		v.Set(catalog.ParamCategory, strings.Join(cats, ","))
	}
	v.Set(catalog.ParamPriceMin, c.String("price-min"))
	v.Set(catalog.ParamPriceMax, c.String("price-max"))
	if c.Bool("discount") {
		v.Set(catalog.ParamHasDiscount, "true")
	}
	return v
}

func browseAction(c *cli.Context, svc *app.Services) error {
	state, err := catalog.ParseQueryState(browseParams(c), 0)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	page, err := svc.Catalog.Browse(c.Context, state)
	if err != nil {
		return err
	}
	return render(c, page, func(w io.Writer) error {
		if err := printTable(w, "ID\tNAME\tPRICE\tDISCOUNT\tRATING\tCATEGORY", productRows(page.Goods)); err != nil {
			return err
		}
		more := ""
		if page.HasMore {
			more = fmt.Sprintf(", next: --page %d", page.Page+1)
		}
		_, err := fmt.Fprintf(w, "page %d%s\n", page.Page, more)
		return err
	})
}

func productRows(goods []domain.ProductView) []string {
	rows := make([]string, 0, len(goods))
	for _, g := range goods {
		discount := "-"
		if g.DiscountPercent > 0 {
			discount = fmt.Sprintf("-%d%%", g.DiscountPercent)
		}
		rows = append(rows, fmt.Sprintf("%d\t%s\t%s\t%s\t%s\t%s",
			g.ID, g.Name, g.Price.String(), discount, g.Stars, g.MainCategory))
	}
	return rows
}

func productAction(c *cli.Context, svc *app.Services) error {
	id, err := argID(c, 0, "product id")
	if err != nil {
		return err
	}
	p, err := svc.Catalog.Product(c.Context, id)
	if err != nil {
		return err
	}
	return render(c, p, func(w io.Writer) error {
		return printTable(w, "ID\tNAME\tPRICE\tDISCOUNT\tRATING\tCATEGORY", productRows([]domain.ProductView{*p}))
	})
}

func categoriesAction(c *cli.Context, svc *app.Services) error {
	cats, err := svc.Catalog.Categories(c.Context)
	if err != nil {
		return err
	}
	return render(c, cats, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, strings.Join(cats, "\n"))
		return err
	})
}

func suggestAction(c *cli.Context, svc *app.Services) error {
	text := strings.Join(c.Args().Slice(), " ")
	out, err := svc.Catalog.Suggest(c.Context, profileOf(c), text)
	if errors.Is(err, catalog.ErrStaleSuggestions) {
		return nil
	}
	if err != nil {
		return err
	}
	return render(c, out, func(w io.Writer) error {
		for _, s := range out {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
		}
		return nil
	})
}
