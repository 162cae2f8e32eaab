package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"

	"github.com/noelruault/lazylinode/internal/linode"
	uiContacts "github.com/noelruault/lazylinode/internal/ui/contacts"
	uiCredentials "github.com/noelruault/lazylinode/internal/ui/credentials"
	uiServices "github.com/noelruault/lazylinode/internal/ui/services"
	uiSettings "github.com/noelruault/lazylinode/internal/ui/settings"
	uiShared "github.com/noelruault/lazylinode/internal/ui/shared"
)

func newManagedCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "managed",
		Short: "Work with Managed Services resources",
	}
	cmd.AddCommand(newServicesCmd(opts))
	cmd.AddCommand(newCredentialsCmd(opts))
	cmd.AddCommand(newSettingsCmd(opts))
	cmd.AddCommand(newContactsCmd(opts))
	return cmd
}

// titles lists the column titles of a UI table.
func titles(columns []table.Column) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.Title
	}
	return out
}

// headers is titles prefixed by ID.
func headers(columns []table.Column) []string {
	return append([]string{"ID"}, titles(columns)...)
}

// rowsOf formats records with a UI row renderer. When id is non-nil each
// row is prefixed by the record's ID.
func rowsOf[T any](records []T, id func(T) string, row func(uiShared.Row[T]) table.Row) [][]string {
	out := make([][]string, len(records))
	for i, r := range records {
		cells := []string(row(uiShared.Row[T]{Index: i, Record: r}))
		if id != nil {
			cells = append([]string{id(r)}, cells...)
		}
		out[i] = cells
	}
	return out
}

func newServicesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "services",
		Aliases: []string{"monitors"},
		Short:   "Manage service monitors",
	}

	var filter linode.Filter
	var status, serviceType string
	list := &cobra.Command{
		Use:   "list",
		Short: "List service monitors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Status = linode.ServiceStatus(status)
			filter.ServiceType = linode.ServiceType(serviceType)
			svcs, err := linode.ListAll(cmd.Context(), opts.cfg.PageSize, func(ctx context.Context, p *linode.ListParams) (*linode.Page[linode.ManagedServiceMonitor], error) {
				return opts.client.ListServices(ctx, p, &filter)
			})
			if err != nil {
				return err
			}
			return printList(cmd.OutOrStdout(), opts.output, headers(uiServices.Columns()),
				rowsOf(svcs, func(s linode.ManagedServiceMonitor) string { return strconv.Itoa(s.ID) }, uiServices.Row), svcs)
		},
	}
	list.Flags().StringVar(&filter.Label, "label", "", "only monitors with this label")
	list.Flags().StringVar(&status, "status", "", "only monitors in this status (ok, pending, problem, disabled)")
	list.Flags().StringVar(&serviceType, "type", "", "only monitors of this type (url, tcp)")
	list.Flags().StringVar(&filter.OrderBy, "order-by", "", "field to order by")
	list.Flags().StringVar(&filter.Order, "order", "", `sort direction ("asc" or "desc")`)

	action := func(name, short string) *cobra.Command {
		return &cobra.Command{
			Use:   name + " ID",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				svc, err := uiServices.PerformAction(cmd.Context(), opts.client, name, id)
				if err != nil {
					return err
				}
				if svc == nil {
					_, err = fmt.Fprintf(cmd.OutOrStdout(), "Monitor %d deleted.\n", id)
					return err
				}
				return printRecord(cmd.OutOrStdout(), opts.output, serviceFields(*svc), svc)
			},
		}
	}

	var payload linode.ManagedServicePayload
	var createType string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a service monitor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload.ServiceType = linode.ServiceType(createType)
			svc, err := opts.client.CreateServiceMonitor(cmd.Context(), payload)
			if err != nil {
				return err
			}
			return printRecord(cmd.OutOrStdout(), opts.output, serviceFields(*svc), svc)
		},
	}
	create.Flags().StringVar(&payload.Label, "label", "", "monitor label")
	create.Flags().StringVar(&createType, "type", string(linode.ServiceTypeURL), "service type (url, tcp)")
	create.Flags().StringVar(&payload.Address, "address", "", "URL or host:port to check")
	create.Flags().IntVar(&payload.Timeout, "timeout-seconds", 30, "seconds before the check fails")
	create.Flags().StringVar(&payload.Body, "body", "", "string the response must contain (url monitors)")
	create.Flags().StringVar(&payload.Notes, "notes", "", "notes for the support team")
	create.Flags().StringVar(&payload.ConsultationGroup, "group", "", "contact group to consult")
	create.Flags().IntSliceVar(&payload.Credentials, "credential", nil, "credential IDs the monitor may use")

	cmd.AddCommand(list,
		action("enable", "Enable a service monitor"),
		action("disable", "Disable a service monitor"),
		action("delete", "Delete a service monitor"),
		create,
	)
	return cmd
}

func serviceFields(s linode.ManagedServiceMonitor) [][]string {
	return [][]string{
		{"id", strconv.Itoa(s.ID)},
		{"label", s.Label},
		{"status", string(s.Status)},
		{"service_type", string(s.ServiceType)},
		{"address", s.Address},
		{"timeout", strconv.Itoa(s.Timeout)},
		{"consultation_group", uiShared.OrDash(s.ConsultationGroup)},
	}
}

func newCredentialsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage stored credentials",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := uiCredentials.LoadCredentials(cmd.Context(), opts.client, opts.cfg.PageSize)
			if err != nil {
				return err
			}
			return printList(cmd.OutOrStdout(), opts.output, titles(uiCredentials.Columns()),
				rowsOf(creds, nil, uiCredentials.Row), creds)
		},
	}

	revoke := &cobra.Command{
		Use:   "revoke ID",
		Short: "Revoke a credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := opts.client.RevokeCredential(cmd.Context(), id); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Credential %d revoked.\n", id)
			return err
		},
	}

	var payload linode.CredentialPayload
	create := &cobra.Command{
		Use:   "create",
		Short: "Store a new credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := opts.client.CreateCredential(cmd.Context(), payload)
			if err != nil {
				return err
			}
			return printRecord(cmd.OutOrStdout(), opts.output, [][]string{
				{"id", strconv.Itoa(cred.ID)},
				{"label", cred.Label},
			}, cred)
		},
	}
	create.Flags().StringVar(&payload.Label, "label", "", "credential label")
	create.Flags().StringVar(&payload.Username, "username", "", "username")
	create.Flags().StringVar(&payload.Password, "password", "", "password or key")

	cmd.AddCommand(list, revoke, create)
	return cmd
}

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage per-Linode Managed settings",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the Managed settings of every Linode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := uiSettings.LoadSettings(cmd.Context(), opts.client, opts.cfg.PageSize)
			if err != nil {
				return err
			}
			return printList(cmd.OutOrStdout(), opts.output, headers(uiSettings.Columns()),
				rowsOf(settings, func(s linode.ManagedLinodeSetting) string { return strconv.Itoa(s.ID) }, uiSettings.Row), settings)
		},
	}

	var access bool
	var user, ip string
	var port int
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update the SSH settings of a Linode",
		Long:  "Update the SSH settings of a Linode. Only the flags given are sent.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var ssh linode.SSHSettingPayload
			flags := cmd.Flags()
			if flags.Changed("ssh-access") {
				ssh.Access = &access
			}
			if flags.Changed("ssh-user") {
				ssh.User = &user
			}
			if flags.Changed("ssh-ip") {
				ssh.IP = &ip
			}
			if flags.Changed("ssh-port") {
				ssh.Port = &port
			}
			s, err := opts.client.UpdateLinodeSettings(cmd.Context(), id, linode.LinodeSettingsPayload{SSH: ssh})
			if err != nil {
				return err
			}
			return printRecord(cmd.OutOrStdout(), opts.output, [][]string{
				{"id", strconv.Itoa(s.ID)},
				{"label", s.Label},
				{"ssh.access", uiSettings.AccessLabel(s.SSH.Access)},
				{"ssh.user", s.SSH.User},
				{"ssh.ip", s.SSH.IP},
				{"ssh.port", strconv.Itoa(s.SSH.Port)},
			}, s)
		},
	}
	update.Flags().BoolVar(&access, "ssh-access", false, "allow support staff SSH access")
	update.Flags().StringVar(&user, "ssh-user", "", "SSH user")
	update.Flags().StringVar(&ip, "ssh-ip", "", `SSH address ("any" for any public address)`)
	update.Flags().IntVar(&port, "ssh-port", 22, "SSH port")

	cmd.AddCommand(list, update)
	return cmd
}

// contactFlags are the flags shared by contact create and update.
type contactFlags struct {
	name, email, primary, secondary, group string
}

func (f *contactFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "contact name")
	cmd.Flags().StringVar(&f.email, "email", "", "contact e-mail")
	cmd.Flags().StringVar(&f.primary, "phone-primary", "", "primary phone number")
	cmd.Flags().StringVar(&f.secondary, "phone-secondary", "", "secondary phone number")
	cmd.Flags().StringVar(&f.group, "group", "", "contact group")
}

// apply overlays the flags that were set on base.
func (f *contactFlags) apply(cmd *cobra.Command, base linode.ManagedContact) linode.ContactPayload {
	flags := cmd.Flags()
	if flags.Changed("name") {
		base.Name = f.name
	}
	if flags.Changed("email") {
		base.Email = f.email
	}
	if flags.Changed("phone-primary") {
		base.Phone.Primary = f.primary
	}
	if flags.Changed("phone-secondary") {
		base.Phone.Secondary = f.secondary
	}
	if flags.Changed("group") {
		base.Group = f.group
	}
	p := linode.ContactPayload{Name: base.Name, Email: base.Email, Group: base.Group}
	if base.Phone.Primary != "" || base.Phone.Secondary != "" {
		phone := base.Phone
		p.Phone = &phone
	}
	return p
}

func contactFields(c linode.ManagedContact) [][]string {
	return [][]string{
		{"id", strconv.Itoa(c.ID)},
		{"name", c.Name},
		{"email", c.Email},
		{"phone.primary", uiShared.OrDash(c.Phone.Primary)},
		{"phone.secondary", uiShared.OrDash(c.Phone.Secondary)},
		{"group", uiShared.OrDash(c.Group)},
	}
}

func newContactsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage Managed Services contacts",
	}

	var group string
	list := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := &linode.Filter{Group: group}
			contacts, err := linode.ListAll(cmd.Context(), opts.cfg.PageSize, func(ctx context.Context, p *linode.ListParams) (*linode.Page[linode.ManagedContact], error) {
				return opts.client.ListContacts(ctx, p, filter)
			})
			if err != nil {
				return err
			}
			return printList(cmd.OutOrStdout(), opts.output, headers(uiContacts.Columns()),
				rowsOf(contacts, func(c linode.ManagedContact) string { return strconv.Itoa(c.ID) }, uiContacts.Row), contacts)
		},
	}
	list.Flags().StringVar(&group, "group", "", "only contacts in this group")

	var createFlags contactFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			contact, err := opts.client.CreateContact(cmd.Context(), createFlags.apply(cmd, linode.ManagedContact{}))
			if err != nil {
				return err
			}
			return printRecord(cmd.OutOrStdout(), opts.output, contactFields(*contact), contact)
		},
	}
	createFlags.register(create)

	var updateFlags contactFlags
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update a contact",
		Long:  "Update a contact. Fields whose flags are not given keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			all, err := uiContacts.LoadContacts(cmd.Context(), opts.client, opts.cfg.PageSize)
			if err != nil {
				return err
			}
			current, ok := uiContacts.Find(all, id)
			if !ok {
				return fmt.Errorf("contact %d not found", id)
			}
			contact, err := opts.client.UpdateContact(cmd.Context(), id, updateFlags.apply(cmd, current))
			if err != nil {
				return err
			}
			return printRecord(cmd.OutOrStdout(), opts.output, contactFields(*contact), contact)
		},
	}
	updateFlags.register(update)

	cmd.AddCommand(list, create, update)
	return cmd
}
