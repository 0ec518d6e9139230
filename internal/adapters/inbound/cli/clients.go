package cli

import (
	"fmt"

	"github.com/minvoice/minvoice/internal/adapters/outbound/clients"
	"github.com/minvoice/minvoice/internal/adapters/outbound/tui"
	"github.com/minvoice/minvoice/internal/application"
	"github.com/minvoice/minvoice/internal/domain"
	"github.com/spf13/cobra"
)

func newClientsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Manage the client directory",
		Long:  "List or add the saved clients offered at the start of an interactive session.",
	}
	cmd.PersistentFlags().StringVar(&file, "file", clients.DefaultFile, "Client directory file")

	cmd.AddCommand(newClientsListCmd(&file))
	cmd.AddCommand(newClientsAddCmd(&file))
	return cmd
}

func newClientsListCmd(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := application.NewClientService(clients.New(*file), newLogger(cmd))
			dir, err := svc.List()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderClientList(dir))
			return nil
		},
	}
}

func newClientsAddCmd(file *string) *cobra.Command {
	var c domain.Client

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a client",
		Long:  "Append a client to the directory. When --prefix is omitted it is derived from the name.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := clients.New(*file)
			added, err := application.NewClientService(store, newLogger(cmd)).Add(c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) to %s\n", added.Name, added.InvoicePrefix, store.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&c.Name, "name", "", "Client name")
	cmd.Flags().StringVar(&c.InvoicePrefix, "prefix", "", "Invoice number prefix")
	cmd.Flags().StringVar(&c.Address, "address", "", `Postal address (use \n for new lines)`)
	cmd.Flags().StringVar(&c.Phone, "phone", "", "Phone number")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("address")

	return cmd
}
