package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/cardsvc-io/cardctl/pkg/cardapi"
	"github.com/charmbracelet/huh"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// Static errors for err113 compliance.
var (
	ErrLookupFieldsRequired = errors.New("cin, last name, postal code, and region are required (or use --interactive)")
)

// NewStatusCommand creates the public status lookup command.
func NewStatusCommand() *cobra.Command {
	var (
		firstName   string
		lastName    string
		cin         string
		postalCode  string
		region      string
		interactive bool
		wait        bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Look up the status of a card request",
		Long: `Look up the status of a pending card request by its identifying fields.

No login is required. All identifying fields must match the request exactly;
a partial match is reported as not found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				err := runLookupForm(&firstName, &lastName, &cin, &postalCode, &region)
				if err != nil {
					return err
				}
			}

			if lastName == "" || cin == "" || postalCode == "" || region == "" {
				return ErrLookupFieldsRequired
			}

			client, err := buildClient()
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()

			status, err := client.Public().Lookup(ctx, &cardapi.StatusLookupRequest{
				FirstName:  firstName,
				LastName:   lastName,
				CIN:        cin,
				PostalCode: postalCode,
				Region:     region,
			})
			if err != nil {
				// An unknown CIN is an answer, not a failure.
				if cardapi.IsNotFound(err) {
					fmt.Println(messages().Message(language(), &cardapi.APIError{Code: cardapi.ErrorCodeNotFound}))

					return nil
				}

				return presentError(err, wait)
			}

			return renderCardStatus(status)
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "first name on the request")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name on the request")
	cmd.Flags().StringVar(&cin, "cin", "", "national identity number")
	cmd.Flags().StringVar(&postalCode, "postal-code", "", "postal code on the request")
	cmd.Flags().StringVar(&region, "region", "", "region of the issuing establishment")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "fill the lookup fields interactively")
	cmd.Flags().BoolVar(&wait, "wait", false, "on rate limiting, count down the suggested wait before exiting")

	return cmd
}

// runLookupForm collects the lookup fields through an interactive form.
func runLookupForm(firstName, lastName, cin, postalCode, region *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("First name").Value(firstName),
			huh.NewInput().Title("Last name").Value(lastName).Validate(required("last name")),
			huh.NewInput().Title("National ID (CIN)").Value(cin).Validate(required("CIN")),
			huh.NewInput().Title("Postal code").Value(postalCode).Validate(required("postal code")),
			huh.NewInput().Title("Region").Value(region).Validate(required("region")),
		),
	).WithTheme(formTheme())

	if err := form.Run(); err != nil {
		return fmt.Errorf("lookup form: %w", err)
	}

	return nil
}

// required validates that a form field is not empty.
func required(name string) func(string) error {
	return func(value string) error {
		if value == "" {
			return fmt.Errorf("%s is required", name) //nolint:err113 // form-local validation message
		}

		return nil
	}
}

// renderCardStatus prints the lookup result in the selected output format.
func renderCardStatus(status *cardapi.CardStatus) error {
	format := outputFormat()
	if format != OutputFormatTable {
		return renderStructured(status, format)
	}

	fmt.Println(titleStyle.Render("Card request status"))
	fmt.Println()

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Field", "Value")

	_ = table.Append("Status", statusBadge(status.Status))

	pickup := status.PickupEstablishment
	if pickup == "" {
		pickup = NotAvailable
	}

	address := status.PickupAddress
	if address == "" {
		address = NotAvailable
	}

	_ = table.Append("Pickup establishment", pickup)
	_ = table.Append("Pickup address", address)
	_ = table.Append("Last updated", status.UpdatedAt.Format("2006-01-02 15:04"))

	_ = table.Render()

	if status.Status == cardapi.StatusReady {
		fmt.Println()
		fmt.Println(mutedStyle.Render("Bring your receipt and a proof of identity to the pickup establishment."))
	}

	return nil
}
