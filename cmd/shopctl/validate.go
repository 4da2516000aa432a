package main

import (
	"fmt"

	"github.com/Gunvolt24/techshop/pkg/validate"
	"github.com/urfave/cli/v2"
)

// validateCommand — проверка файла черновиков заказов без обращения к API.
// Валидные черновики печатаются в stdout, итог — в stderr.
func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "validate order drafts from a .json or .jsonl file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Value: "-", Usage: "input path, - for stdin"},
			&cli.StringFlag{Name: "format", Value: string(validate.FormatAuto), Usage: "auto|json|jsonl"},
		},
		Action: func(c *cli.Context) error {
			format, err := validate.ParseFormat(c.String("format"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			summary, err := validate.ValidateFile(c.Context, validate.NewOrderValidator(), c.String("in"), format, c.App.Writer)
			if err != nil {
				return cli.Exit(fmt.Sprintf("validation: %v (%s)", err, summary), 1)
			}
			fmt.Fprintf(c.App.ErrWriter, "validation ok (%s)\n", summary)
			return nil
		},
	}
}
