package linode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ServiceType is the kind of check a service monitor runs.
type ServiceType string

const (
	ServiceTypeURL ServiceType = "url"
	ServiceTypeTCP ServiceType = "tcp"
)

// ServiceStatus is the server-side state of a service monitor.
type ServiceStatus string

const (
	ServiceStatusDisabled ServiceStatus = "disabled"
	ServiceStatusPending  ServiceStatus = "pending"
	ServiceStatusOK       ServiceStatus = "ok"
	ServiceStatusProblem  ServiceStatus = "problem"
)

// ManagedServiceMonitor is a service the platform watches on the account's behalf.
type ManagedServiceMonitor struct {
	ID                int           `json:"id"`
	Label             string        `json:"label"`
	ServiceType       ServiceType   `json:"service_type"`
	Address           string        `json:"address"`
	Timeout           int           `json:"timeout"`
	Body              string        `json:"body"`
	Notes             string        `json:"notes"`
	ConsultationGroup string        `json:"consultation_group"`
	Region            string        `json:"region"`
	Credentials       []int         `json:"credentials"`
	Status            ServiceStatus `json:"status"`
	Created           string        `json:"created"`
	Updated           string        `json:"updated"`
}

// ManagedCredential is a stored secret used by monitors to reach customer systems.
type ManagedCredential struct {
	ID            int    `json:"id"`
	Label         string `json:"label"`
	LastDecrypted string `json:"last_decrypted"`
}

// ManagedSSHSetting describes how support staff reach a Linode over SSH.
type ManagedSSHSetting struct {
	Access bool   `json:"access"`
	User   string `json:"user"`
	IP     string `json:"ip"`
	Port   int    `json:"port"`
}

// ManagedLinodeSetting holds the Managed settings of one Linode.
type ManagedLinodeSetting struct {
	ID    int               `json:"id"`
	Label string            `json:"label"`
	Group string            `json:"group"`
	SSH   ManagedSSHSetting `json:"ssh"`
}

// ManagedContactPhone holds a contact's phone numbers.
type ManagedContactPhone struct {
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
}

// ManagedContact is a person notified about Managed Service incidents.
type ManagedContact struct {
	ID      int                 `json:"id"`
	Name    string              `json:"name"`
	Email   string              `json:"email"`
	Phone   ManagedContactPhone `json:"phone"`
	Group   string              `json:"group"`
	Updated string              `json:"updated"`
}

// ManagedServicePayload is the body of CreateServiceMonitor.
type ManagedServicePayload struct {
	Label             string      `json:"label"`
	ServiceType       ServiceType `json:"service_type"`
	Address           string      `json:"address"`
	Timeout           int         `json:"timeout"`
	Notes             string      `json:"notes,omitempty"`
	Body              string      `json:"body,omitempty"`
	ConsultationGroup string      `json:"consultation_group,omitempty"`
	Credentials       []int       `json:"credentials,omitempty"`
}

// CredentialPayload is the body of CreateCredential.
type CredentialPayload struct {
	Label    string `json:"label"`
	Password string `json:"password,omitempty"`
	Username string `json:"username,omitempty"`
}

// ContactPayload is the body of CreateContact and UpdateContact.
type ContactPayload struct {
	Name  string               `json:"name"`
	Email string               `json:"email"`
	Phone *ManagedContactPhone `json:"phone,omitempty"`
	Group string               `json:"group,omitempty"`
	// ClearEmpty sends empty phone numbers and group as null instead of
	// leaving them out, so an update removes the stored values.
	ClearEmpty bool `json:"-"`
}

var jsonNull = json.RawMessage("null")

func (p ContactPayload) MarshalJSON() ([]byte, error) {
	body := struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone any    `json:"phone,omitempty"`
		Group any    `json:"group,omitempty"`
	}{Name: p.Name, Email: p.Email}

	if p.Phone != nil {
		body.Phone = p.Phone
	}
	if p.Group != "" {
		body.Group = p.Group
	}
	if !p.ClearEmpty {
		return json.Marshal(body)
	}

	switch {
	case p.Phone == nil || (p.Phone.Primary == "" && p.Phone.Secondary == ""):
		body.Phone = jsonNull
	default:
		body.Phone = map[string]any{
			"primary":   stringOrNull(p.Phone.Primary),
			"secondary": stringOrNull(p.Phone.Secondary),
		}
	}
	if p.Group == "" {
		body.Group = jsonNull
	}
	return json.Marshal(body)
}

func stringOrNull(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// SSHSettingPayload is a partial SSH setting; nil fields are left unchanged.
type SSHSettingPayload struct {
	Access *bool   `json:"access,omitempty"`
	User   *string `json:"user,omitempty"`
	IP     *string `json:"ip,omitempty"`
	Port   *int    `json:"port,omitempty"`
}

// LinodeSettingsPayload is the body of UpdateLinodeSettings.
type LinodeSettingsPayload struct {
	SSH SSHSettingPayload `json:"ssh"`
}

// ListServices returns a page of Managed Services on the account.
func (c *Client) ListServices(ctx context.Context, params *ListParams, filter *Filter) (*Page[ManagedServiceMonitor], error) {
	return call[Page[ManagedServiceMonitor]](ctx, c,
		WithMethod(http.MethodGet),
		WithParams(params),
		WithFilter(filter),
		WithURL("/managed/services"),
	)
}

// DisableServiceMonitor temporarily disables monitoring of a Managed Service.
func (c *Client) DisableServiceMonitor(ctx context.Context, serviceID int) (*ManagedServiceMonitor, error) {
	return call[ManagedServiceMonitor](ctx, c,
		WithMethod(http.MethodPost),
		WithURL(fmt.Sprintf("/managed/services/%d/disable", serviceID)),
	)
}

// EnableServiceMonitor enables monitoring of a Managed Service that is currently disabled.
func (c *Client) EnableServiceMonitor(ctx context.Context, serviceID int) (*ManagedServiceMonitor, error) {
	return call[ManagedServiceMonitor](ctx, c,
		WithMethod(http.MethodPost),
		WithURL(fmt.Sprintf("/managed/services/%d/enable", serviceID)),
	)
}

// DeleteServiceMonitor disables a Managed Service and removes it from the account.
func (c *Client) DeleteServiceMonitor(ctx context.Context, serviceID int) error {
	return c.Do(ctx, nil,
		WithMethod(http.MethodDelete),
		WithURL(fmt.Sprintf("/managed/services/%d", serviceID)),
	)
}

// ListLinodeSettings returns a page of Managed settings, one entry per Linode.
func (c *Client) ListLinodeSettings(ctx context.Context, params *ListParams, filter *Filter) (*Page[ManagedLinodeSetting], error) {
	return call[Page[ManagedLinodeSetting]](ctx, c,
		WithMethod(http.MethodGet),
		WithParams(params),
		WithFilter(filter),
		WithURL("/managed/linode-settings"),
	)
}

// CreateServiceMonitor creates a Managed Service monitor.
func (c *Client) CreateServiceMonitor(ctx context.Context, data ManagedServicePayload) (*ManagedServiceMonitor, error) {
	return call[ManagedServiceMonitor](ctx, c,
		WithMethod(http.MethodPost),
		WithURL("/managed/services"),
		WithData(data, ServiceMonitorSchema),
	)
}

// ListCredentials returns a page of Managed Credentials.
func (c *Client) ListCredentials(ctx context.Context, params *ListParams, filter *Filter) (*Page[ManagedCredential], error) {
	return call[Page[ManagedCredential]](ctx, c,
		WithMethod(http.MethodGet),
		WithParams(params),
		WithFilter(filter),
		WithURL("/managed/credentials"),
	)
}

// RevokeCredential disables a Managed Credential and removes it from the account.
func (c *Client) RevokeCredential(ctx context.Context, credentialID int) error {
	return c.Do(ctx, nil,
		WithMethod(http.MethodPost),
		WithURL(fmt.Sprintf("/managed/credentials/%d/revoke", credentialID)),
	)
}

// CreateCredential creates a Managed Credential.
func (c *Client) CreateCredential(ctx context.Context, data CredentialPayload) (*ManagedCredential, error) {
	return call[ManagedCredential](ctx, c,
		WithMethod(http.MethodPost),
		WithURL("/managed/credentials"),
		WithData(data, CredentialSchema),
	)
}

// UpdateLinodeSettings updates a single Linode's Managed settings.
func (c *Client) UpdateLinodeSettings(ctx context.Context, linodeID int, data LinodeSettingsPayload) (*ManagedLinodeSetting, error) {
	return call[ManagedLinodeSetting](ctx, c,
		WithURL(fmt.Sprintf("/managed/linode-settings/%d", linodeID)),
		WithMethod(http.MethodPut),
		WithData(data, LinodeSettingsSchema),
	)
}

// ListContacts returns a page of Managed Contacts.
func (c *Client) ListContacts(ctx context.Context, params *ListParams, filter *Filter) (*Page[ManagedContact], error) {
	return call[Page[ManagedContact]](ctx, c,
		WithMethod(http.MethodGet),
		WithParams(params),
		WithFilter(filter),
		WithURL("/managed/contacts"),
	)
}

// CreateContact creates a Managed Contact.
func (c *Client) CreateContact(ctx context.Context, data ContactPayload) (*ManagedContact, error) {
	return call[ManagedContact](ctx, c,
		WithMethod(http.MethodPost),
		WithURL("/managed/contacts"),
		WithData(data, ContactSchema),
	)
}

// UpdateContact updates a Managed Contact.
func (c *Client) UpdateContact(ctx context.Context, contactID int, data ContactPayload) (*ManagedContact, error) {
	return call[ManagedContact](ctx, c,
		WithMethod(http.MethodPut),
		WithURL(fmt.Sprintf("/managed/contacts/%d", contactID)),
		WithData(data, ContactSchema),
	)
}
