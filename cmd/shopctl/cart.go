package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Gunvolt24/techshop/internal/app"
	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/urfave/cli/v2"
)

func deliveryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "date", Usage: "delivery date, DD.MM.YYYY or YYYY-MM-DD"},
		&cli.StringFlag{Name: "interval", Usage: "delivery interval, e.g. 08:00-12:00"},
	}
}

func contactFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name"},
		&cli.StringFlag{Name: "phone"},
		&cli.StringFlag{Name: "email"},
		&cli.StringFlag{Name: "address"},
		&cli.StringFlag{Name: "comment"},
		&cli.BoolFlag{Name: "subscribe"},
	}
}

func cartCommand() *cli.Command {
	return &cli.Command{
		Name:  "cart",
		Usage: "cart of the --profile owner",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "cart lines at current prices",
				Action: runWithServices(showCartAction),
			},
			{
				Name:      "add",
				Usage:     "add one unit of a product",
				ArgsUsage: "<product id>",
				Action:    runWithServices(addCartAction),
			},
			{
				Name:      "adjust",
				Usage:     "change quantity by delta; zero or less removes the line",
				ArgsUsage: "<product id> <delta>",
				Action:    runWithServices(adjustCartAction),
			},
			{
				Name:      "remove",
				ArgsUsage: "<product id>",
				Action:    runWithServices(removeCartAction),
			},
			{
				Name:   "clear",
				Action: runWithServices(clearCartAction),
			},
			{
				Name:   "quote",
				Usage:  "goods total plus delivery cost",
				Flags:  deliveryFlags(),
				Action: runWithServices(quoteAction),
			},
			{
				Name:   "checkout",
				Usage:  "place an order from the cart",
				Flags:  append(contactFlags(), deliveryFlags()...),
				Action: runWithServices(checkoutAction),
			},
		},
	}
}

func showCartAction(c *cli.Context, svc *app.Services) error {
	view, err := svc.Cart.View(c.Context, profileOf(c))
	if err != nil {
		return err
	}
	return printCart(c, view)
}

func printCart(c *cli.Context, view *domain.CartView) error {
	return render(c, view, func(w io.Writer) error {
		rows := make([]string, 0, len(view.Lines))
		for _, l := range view.Lines {
			rows = append(rows, fmt.Sprintf("%d\t%s\t%d\t%s\t%s",
				l.ProductID, l.Name, l.Quantity, l.UnitPrice.String(), l.LineTotal.String()))
		}
		if err := printTable(w, "ID\tNAME\tQTY\tPRICE\tTOTAL", rows); err != nil {
			return err
		}
		if len(view.Unresolved) > 0 {
			if _, err := fmt.Fprintf(w, "unavailable: %v\n", view.Unresolved); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "items: %d, subtotal: %s\n", view.ItemCount, view.Subtotal.String())
		return err
	})
}

// afterChange — корзина после изменения, показанная как show.
func afterChange(c *cli.Context, svc *app.Services, err error) error {
	if err != nil {
		return err
	}
	return showCartAction(c, svc)
}

func addCartAction(c *cli.Context, svc *app.Services) error {
	id, err := argID(c, 0, "product id")
	if err != nil {
		return err
	}
	_, err = svc.Cart.Add(c.Context, profileOf(c), id)
	return afterChange(c, svc, err)
}

func adjustCartAction(c *cli.Context, svc *app.Services) error {
	id, err := argID(c, 0, "product id")
	if err != nil {
		return err
	}
	raw := strings.TrimSpace(c.Args().Get(1))
	delta, err := strconv.Atoi(raw)
	if err != nil || delta == 0 {
		return cli.Exit("invalid delta: "+raw, 2)
	}
	_, err = svc.Cart.Adjust(c.Context, profileOf(c), id, delta)
	return afterChange(c, svc, err)
}

func removeCartAction(c *cli.Context, svc *app.Services) error {
	id, err := argID(c, 0, "product id")
	if err != nil {
		return err
	}
	_, err = svc.Cart.Remove(c.Context, profileOf(c), id)
	return afterChange(c, svc, err)
}

func clearCartAction(c *cli.Context, svc *app.Services) error {
	return svc.Cart.Clear(c.Context, profileOf(c))
}

// deliveryOf — дата и интервал доставки из флагов; пустая дата допустима.
func deliveryOf(c *cli.Context) (domain.CalendarDate, string, error) {
	var date domain.CalendarDate
	if raw := strings.TrimSpace(c.String("date")); raw != "" {
		d, err := domain.ParseAnyDate(raw)
		if err != nil {
			return domain.CalendarDate{}, "", cli.Exit(err.Error(), 2)
		}
		date = d
	}
	return date, strings.TrimSpace(c.String("interval")), nil
}

func quoteAction(c *cli.Context, svc *app.Services) error {
	date, interval, err := deliveryOf(c)
	if err != nil {
		return err
	}
	q, err := svc.Cart.Quote(c.Context, profileOf(c), date, interval)
	if err != nil {
		return err
	}
	return render(c, q, func(w io.Writer) error {
		return printTable(w, "GOODS\tDELIVERY\tTOTAL", []string{
			fmt.Sprintf("%s\t%s\t%s", q.GoodsTotal.String(), q.DeliveryCost.String(), q.Total.String()),
		})
	})
}

// checkoutForm — форма оформления из флагов.
func checkoutForm(c *cli.Context) (domain.CheckoutForm, error) {
	date, interval, err := deliveryOf(c)
	if err != nil {
		return domain.CheckoutForm{}, err
	}
	return domain.CheckoutForm{
		FullName:         strings.TrimSpace(c.String("name")),
		Phone:            strings.TrimSpace(c.String("phone")),
		Email:            strings.TrimSpace(c.String("email")),
		DeliveryAddress:  strings.TrimSpace(c.String("address")),
		DeliveryDate:     date,
		DeliveryInterval: interval,
		Comment:          c.String("comment"),
		Subscribe:        c.Bool("subscribe"),
	}, nil
}

func checkoutAction(c *cli.Context, svc *app.Services) error {
	form, err := checkoutForm(c)
	if err != nil {
		return err
	}
	res, err := svc.Cart.Checkout(c.Context, profileOf(c), form)
	if err != nil {
		return err
	}
	return render(c, res, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "order #%d placed, total %s (goods %s, delivery %s)\n",
			res.Order.ID, res.Snapshot.Total.String(), res.Snapshot.GoodsTotal.String(), res.Snapshot.DeliveryCost.String())
		return err
	})
}
