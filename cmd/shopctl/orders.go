package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Gunvolt24/techshop/internal/app"
	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/urfave/cli/v2"
)

func ordersCommand() *cli.Command {
	return &cli.Command{
		Name:  "orders",
		Usage: "order console",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "orders with totals, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 50},
					&cli.IntFlag{Name: "offset"},
				},
				Action: runWithServices(listOrdersAction),
			},
			{
				Name:      "get",
				ArgsUsage: "<order id>",
				Action:    runWithServices(getOrderAction),
			},
			{
				Name:   "create",
				Usage:  "create an order directly, bypassing the cart",
				Flags:  append(append(contactFlags(), deliveryFlags()...), goodsFlag()),
				Action: runWithServices(createOrderAction),
			},
			{
				Name:      "update",
				Usage:     "change only the given fields",
				ArgsUsage: "<order id>",
				Flags:     append(append(contactFlags(), deliveryFlags()...), goodsFlag()),
				Action:    runWithServices(updateOrderAction),
			},
			{
				Name:      "delete",
				ArgsUsage: "<order id>",
				Action:    runWithServices(deleteOrderAction),
			},
		},
	}
}

func goodsFlag() cli.Flag {
	return &cli.Int64SliceFlag{Name: "goods", Usage: "product ids, repeat or comma-separate"}
}

func orderRows(orders []domain.OrderView) []string {
	rows := make([]string, 0, len(orders))
	for _, o := range orders {
		names := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			names = append(names, it.Name)
		}
		rows = append(rows, fmt.Sprintf("%d\t%s\t%s %s\t%s\t%s (%s)",
			o.ID, o.FullName, o.DeliveryDate.String(), o.DeliveryInterval,
			strings.Join(names, ", "), o.Total.String(), o.TotalSource))
	}
	return rows
}

const orderHeader = "ID\tNAME\tDELIVERY\tGOODS\tTOTAL"

func listOrdersAction(c *cli.Context, svc *app.Services) error {
	limit, offset := c.Int("limit"), c.Int("offset")
	if limit <= 0 || offset < 0 {
		return cli.Exit("limit must be positive and offset non-negative", 2)
	}
	all, err := svc.Orders.List(c.Context)
	if err != nil {
		return err
	}
	window := all[min(offset, len(all)):min(offset+limit, len(all))]
	return render(c, window, func(w io.Writer) error {
		if err := printTable(w, orderHeader, orderRows(window)); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "shown %d of %d\n", len(window), len(all))
		return err
	})
}

func getOrderAction(c *cli.Context, svc *app.Services) error {
	id, err := argID(c, 0, "order id")
	if err != nil {
		return err
	}
	o, err := svc.Orders.Get(c.Context, id)
	if err != nil {
		return err
	}
	return printOrder(c, o)
}

func printOrder(c *cli.Context, o *domain.OrderView) error {
	return render(c, o, func(w io.Writer) error {
		return printTable(w, orderHeader, orderRows([]domain.OrderView{*o}))
	})
}

func createOrderAction(c *cli.Context, svc *app.Services) error {
	form, err := checkoutForm(c)
	if err != nil {
		return err
	}
	o, err := svc.Orders.Create(c.Context, form.Draft(c.Int64Slice("goods")))
	if err != nil {
		return err
	}
	return printOrder(c, o)
}

// orderPatch — патч только из явно заданных флагов.
func orderPatch(c *cli.Context) (domain.OrderPatch, error) {
	var p domain.OrderPatch
	str := func(name string) *string {
		if !c.IsSet(name) {
			return nil
		}
		v := strings.TrimSpace(c.String(name))
		return &v
	}
	p.FullName = str("name")
	p.Phone = str("phone")
	p.Email = str("email")
	p.DeliveryAddress = str("address")
	p.DeliveryInterval = str("interval")
	p.Comment = str("comment")
	if c.IsSet("date") {
		d, err := domain.ParseAnyDate(c.String("date"))
		if err != nil {
			return domain.OrderPatch{}, cli.Exit(err.Error(), 2)
		}
		p.DeliveryDate = &d
	}
	if c.IsSet("goods") {
		p.GoodIDs = c.Int64Slice("goods")
	}
	return p, nil
}

func updateOrderAction(c *cli.Context, svc *app.Services) error {
	id, err := argID(c, 0, "order id")
	if err != nil {
		return err
	}
	patch, err := orderPatch(c)
	if err != nil {
		return err
	}
	o, err := svc.Orders.Update(c.Context, id, patch)
	if err != nil {
		return err
	}
	return printOrder(c, o)
}

func deleteOrderAction(c *cli.Context, svc *app.Services) error {
	id, err := argID(c, 0, "order id")
	if err != nil {
		return err
	}
	if err := svc.Orders.Delete(c.Context, id); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "order #%d deleted\n", id)
	return err
}
