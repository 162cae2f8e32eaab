package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/noelruault/lazylinode/internal/linode"
	uiContacts "github.com/noelruault/lazylinode/internal/ui/contacts"
	uiCredentials "github.com/noelruault/lazylinode/internal/ui/credentials"
	uiImages "github.com/noelruault/lazylinode/internal/ui/images"
	uiServices "github.com/noelruault/lazylinode/internal/ui/services"
	uiSettings "github.com/noelruault/lazylinode/internal/ui/settings"
)

type contactsLoadedMsg struct {
	contacts []linode.ManagedContact
	err      error
}

type servicesLoadedMsg struct {
	services []linode.ManagedServiceMonitor
	err      error
}

type credentialsLoadedMsg struct {
	credentials []linode.ManagedCredential
	err         error
}

type settingsLoadedMsg struct {
	settings []linode.ManagedLinodeSetting
	err      error
}

type imagesLoadedMsg struct {
	images []linode.Image
	err    error
}

// dashboardLoadedMsg carries the results of the concurrent first load.
type dashboardLoadedMsg struct {
	contacts    contactsLoadedMsg
	services    servicesLoadedMsg
	credentials credentialsLoadedMsg
	settings    settingsLoadedMsg
}

type contactSubmittedMsg struct {
	contact *linode.ManagedContact
	err     error
}

// contactUpsertMsg is emitted by the list view's UpdateOrAdd callback.
type contactUpsertMsg struct {
	contact linode.ManagedContact
}

// openDrawerMsg is emitted by the list view's OpenDrawer callback.
type openDrawerMsg struct {
	id int
}

type serviceActionCompletedMsg struct {
	action  string
	id      int
	service *linode.ManagedServiceMonitor
	err     error
}

type credentialRevokedMsg struct {
	id  int
	err error
}

type settingsUpdatedMsg struct {
	settings *linode.ManagedLinodeSetting
	err      error
}

func (m model) loadContacts() tea.Msg {
	return m.fetchContacts()
}

func (m model) fetchContacts() contactsLoadedMsg {
	contacts, err := uiContacts.LoadContacts(m.ctx, m.client, m.config.PageSize)
	return contactsLoadedMsg{contacts: contacts, err: err}
}

func (m model) loadServices() tea.Msg {
	return m.fetchServices()
}

func (m model) fetchServices() servicesLoadedMsg {
	services, err := uiServices.LoadServices(m.ctx, m.client, m.config.PageSize)
	return servicesLoadedMsg{services: services, err: err}
}

func (m model) loadCredentials() tea.Msg {
	return m.fetchCredentials()
}

func (m model) fetchCredentials() credentialsLoadedMsg {
	credentials, err := uiCredentials.LoadCredentials(m.ctx, m.client, m.config.PageSize)
	return credentialsLoadedMsg{credentials: credentials, err: err}
}

func (m model) loadSettings() tea.Msg {
	return m.fetchSettings()
}

func (m model) fetchSettings() settingsLoadedMsg {
	settings, err := uiSettings.LoadSettings(m.ctx, m.client, m.config.PageSize)
	return settingsLoadedMsg{settings: settings, err: err}
}

func (m model) loadImages() tea.Msg {
	return m.fetchImages()
}

func (m model) fetchImages() imagesLoadedMsg {
	images, err := uiImages.LoadImages(m.ctx, m.client, m.config.PageSize)
	return imagesLoadedMsg{images: images, err: err}
}

// loadDashboard fetches every Managed list concurrently. A failing list
// does not cancel the others; each result keeps its own error.
func (m model) loadDashboard() tea.Msg {
	return m.fetchDashboard()
}

func (m model) fetchDashboard() dashboardLoadedMsg {
	var msg dashboardLoadedMsg
	var g errgroup.Group
	g.SetLimit(4)
	g.Go(func() error {
		msg.contacts = m.fetchContacts()
		return nil
	})
	g.Go(func() error {
		msg.services = m.fetchServices()
		return nil
	})
	g.Go(func() error {
		msg.credentials = m.fetchCredentials()
		return nil
	})
	g.Go(func() error {
		msg.settings = m.fetchSettings()
		return nil
	})
	_ = g.Wait()
	return msg
}

func (m model) submitContact(id int, payload linode.ContactPayload) tea.Cmd {
	return func() tea.Msg {
		var contact *linode.ManagedContact
		var err error
		if id == 0 {
			contact, err = m.client.CreateContact(m.ctx, payload)
		} else {
			contact, err = m.client.UpdateContact(m.ctx, id, payload)
		}
		return contactSubmittedMsg{contact: contact, err: err}
	}
}

func (m model) performServiceAction(action string, id int) tea.Cmd {
	return func() tea.Msg {
		svc, err := uiServices.PerformAction(m.ctx, m.client, action, id)
		return serviceActionCompletedMsg{action: action, id: id, service: svc, err: err}
	}
}

func (m model) revokeCredential(id int) tea.Cmd {
	return func() tea.Msg {
		return credentialRevokedMsg{id: id, err: m.client.RevokeCredential(m.ctx, id)}
	}
}

func (m model) toggleSSHAccess(s linode.ManagedLinodeSetting) tea.Cmd {
	return func() tea.Msg {
		updated, err := uiSettings.ToggleSSHAccess(m.ctx, m.client, s)
		return settingsUpdatedMsg{settings: updated, err: err}
	}
}

// contactCallbacks are handed to the contact list view.
func contactCallbacks() (func(linode.ManagedContact) tea.Cmd, func(int) tea.Cmd) {
	updateOrAdd := func(c linode.ManagedContact) tea.Cmd {
		return func() tea.Msg { return contactUpsertMsg{contact: c} }
	}
	openDrawer := func(id int) tea.Cmd {
		return func() tea.Msg { return openDrawerMsg{id: id} }
	}
	return updateOrAdd, openDrawer
}
