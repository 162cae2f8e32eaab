package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/skratchdot/open-golang/open"

	"github.com/noelruault/lazylinode/internal/config"
	"github.com/noelruault/lazylinode/internal/linode"
	"github.com/noelruault/lazylinode/internal/logging"
	uiContacts "github.com/noelruault/lazylinode/internal/ui/contacts"
	uiCredentials "github.com/noelruault/lazylinode/internal/ui/credentials"
	uiImages "github.com/noelruault/lazylinode/internal/ui/images"
	uiServices "github.com/noelruault/lazylinode/internal/ui/services"
	uiSettings "github.com/noelruault/lazylinode/internal/ui/settings"
)

type screen int

const (
	contactsScreen screen = iota
	servicesScreen
	credentialsScreen
	settingsScreen
	imagesScreen
	helpScreen
)

// listScreens are the screens tab cycles through, in order.
var listScreens = []screen{contactsScreen, servicesScreen, credentialsScreen, settingsScreen, imagesScreen}

func (s screen) String() string {
	switch s {
	case contactsScreen:
		return "Contacts"
	case servicesScreen:
		return "Monitors"
	case credentialsScreen:
		return "Credentials"
	case settingsScreen:
		return "Linode Settings"
	case imagesScreen:
		return "Images"
	case helpScreen:
		return "Help"
	}
	return "Unknown"
}

// Replaced in tests.
var (
	openURL  = open.Run
	copyText = clipboard.WriteAll
	timeNow  = time.Now
)

type model struct {
	ctx            context.Context
	currentScreen  screen
	previousScreen screen
	width          int
	height         int
	client         *linode.Client
	config         *config.Config
	contacts       uiContacts.State
	services       uiServices.State
	credentials    uiCredentials.State
	settings       uiSettings.State
	images         uiImages.State
	statusMessage  string
}

func initialModel(ctx context.Context, cfg *config.Config, client *linode.Client) model {
	m := model{
		ctx:           ctx,
		currentScreen: contactsScreen,
		client:        client,
		config:        cfg,
		contacts:      uiContacts.NewState(),
		services:      uiServices.NewState(),
		credentials:   uiCredentials.NewState(),
		settings:      uiSettings.NewState(),
		images:        uiImages.NewState(),
	}
	m.contacts.Loading = true
	m.services.Loading = true
	m.credentials.Loading = true
	m.settings.Loading = true
	m.images.Loading = true
	m.syncTables()
	return m
}

func runTUI(ctx context.Context, cfg *config.Config, client *linode.Client) error {
	logging.Infof("starting TUI against %s", cfg.APIRoot)
	p := tea.NewProgram(initialModel(ctx, cfg, client), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.loadDashboard, m.loadImages)
}

// syncTables feeds the current state to every list view.
func (m *model) syncTables() {
	updateOrAdd, openDrawer := contactCallbacks()
	m.contacts.Table.SetProps(m.contacts.Props(updateOrAdd, openDrawer))
	m.services.Table.SetProps(m.services.Props(nil, nil))
	m.credentials.Table.SetProps(m.credentials.Props(nil, nil))
	m.settings.Table.SetProps(m.settings.Props(nil, nil))
	m.images.Table.SetProps(m.images.Props(nil, nil))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := msg.Height - 14
		m.contacts.Table.SetHeight(h)
		m.services.Table.SetHeight(h)
		m.credentials.Table.SetHeight(h)
		m.settings.Table.SetHeight(h)
		m.images.Table.SetHeight(h)
		return m, nil

	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)

	case dashboardLoadedMsg:
		m.applyContacts(msg.contacts)
		m.applyServices(msg.services)
		m.applyCredentials(msg.credentials)
		m.applySettings(msg.settings)

	case contactsLoadedMsg:
		m.applyContacts(msg)

	case servicesLoadedMsg:
		m.applyServices(msg)

	case credentialsLoadedMsg:
		m.applyCredentials(msg)

	case settingsLoadedMsg:
		m.applySettings(msg)

	case imagesLoadedMsg:
		m.images.Loading = false
		if msg.err != nil {
			logging.Errorf("failed to load images: %v", msg.err)
			m.images.Errors = linode.AsAPIErrors(msg.err)
			break
		}
		m.images.Errors = nil
		m.images.SetImages(msg.images)
		m.images.LastUpdated = timeNow()

	case openDrawerMsg:
		contact, ok := uiContacts.Find(m.contacts.Contacts, msg.id)
		if !ok {
			m.statusMessage = fmt.Sprintf("Contact %d not found", msg.id)
			break
		}
		cmd = m.contacts.Drawer.Open(&contact)

	case contactSubmittedMsg:
		d := m.contacts.Drawer
		d.Submitting = false
		if msg.err != nil {
			logging.Warnf("contact rejected: %v", msg.err)
			d.Errors = linode.AsAPIErrors(msg.err)
			break
		}
		d.Close()
		m.statusMessage = fmt.Sprintf("Saved contact %s", msg.contact.Name)
		updateOrAdd, _ := contactCallbacks()
		cmd = updateOrAdd(*msg.contact)

	case contactUpsertMsg:
		m.contacts.Contacts = uiContacts.UpdateOrAdd(m.contacts.Contacts, msg.contact)

	case serviceActionCompletedMsg:
		if msg.err != nil {
			m.statusMessage = fmt.Sprintf("Failed to %s monitor: %s", msg.action, linode.ErrorStringOrDefault(linode.AsAPIErrors(msg.err)))
			break
		}
		if msg.service == nil {
			m.services.Services = uiServices.Remove(m.services.Services, msg.id)
			m.statusMessage = fmt.Sprintf("Deleted monitor %d", msg.id)
		} else {
			m.services.Services = uiServices.UpdateOrAdd(m.services.Services, *msg.service)
			m.statusMessage = fmt.Sprintf("Monitor %s is %s", msg.service.Label, msg.service.Status)
		}

	case credentialRevokedMsg:
		if msg.err != nil {
			m.statusMessage = "Failed to revoke credential: " + linode.ErrorStringOrDefault(linode.AsAPIErrors(msg.err))
			break
		}
		m.credentials.Credentials = uiCredentials.Remove(m.credentials.Credentials, msg.id)
		m.statusMessage = fmt.Sprintf("Revoked credential %d", msg.id)

	case settingsUpdatedMsg:
		if msg.err != nil {
			m.statusMessage = "Failed to update settings: " + linode.ErrorStringOrDefault(linode.AsAPIErrors(msg.err))
			break
		}
		m.settings.Settings = uiSettings.UpdateOrAdd(m.settings.Settings, *msg.settings)
		m.statusMessage = fmt.Sprintf("SSH access %s for %s", uiSettings.AccessLabel(msg.settings.SSH.Access), msg.settings.Label)

	default:
		if m.contacts.Drawer.IsOpen {
			cmd = m.contacts.Drawer.Update(msg)
		}
	}

	m.syncTables()
	return m, cmd
}

func (m *model) applyContacts(msg contactsLoadedMsg) {
	m.contacts.Loading = false
	if msg.err != nil {
		logging.Errorf("failed to load contacts: %v", msg.err)
		m.contacts.Errors = linode.AsAPIErrors(msg.err)
		return
	}
	m.contacts.Errors = nil
	m.contacts.Contacts = msg.contacts
	m.contacts.LastUpdated = timeNow()
}

func (m *model) applyServices(msg servicesLoadedMsg) {
	m.services.Loading = false
	if msg.err != nil {
		logging.Errorf("failed to load monitors: %v", msg.err)
		m.services.Errors = linode.AsAPIErrors(msg.err)
		return
	}
	m.services.Errors = nil
	m.services.Services = msg.services
	m.services.LastUpdated = timeNow()
}

func (m *model) applyCredentials(msg credentialsLoadedMsg) {
	m.credentials.Loading = false
	if msg.err != nil {
		logging.Errorf("failed to load credentials: %v", msg.err)
		m.credentials.Errors = linode.AsAPIErrors(msg.err)
		return
	}
	m.credentials.Errors = nil
	m.credentials.Credentials = msg.credentials
	m.credentials.LastUpdated = timeNow()
}

func (m *model) applySettings(msg settingsLoadedMsg) {
	m.settings.Loading = false
	if msg.err != nil {
		logging.Errorf("failed to load linode settings: %v", msg.err)
		m.settings.Errors = linode.AsAPIErrors(msg.err)
		return
	}
	m.settings.Errors = nil
	m.settings.Settings = msg.settings
	m.settings.LastUpdated = timeNow()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Modal states take every key.
	if m.contacts.Drawer.IsOpen {
		return m.handleDrawerKey(msg)
	}
	if m.services.ShowingConfirmation {
		return m.handleServiceConfirmation(msg)
	}
	if m.credentials.ShowingConfirmation {
		return m.handleCredentialConfirmation(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.cycleScreen(1)
		return m, nil
	case "shift+tab":
		m.cycleScreen(-1)
		return m, nil
	case "?":
		if m.currentScreen == helpScreen {
			m.currentScreen = m.previousScreen
		} else {
			m.previousScreen = m.currentScreen
			m.currentScreen = helpScreen
		}
		return m, nil
	case "esc":
		if m.currentScreen == helpScreen {
			m.currentScreen = m.previousScreen
		}
		m.statusMessage = ""
		return m, nil
	case "r":
		cmd := m.refresh()
		return m, cmd
	case "o":
		m.openInBrowser()
		return m, nil
	case "y":
		m.copySelectedID()
		return m, nil
	}

	switch m.currentScreen {
	case contactsScreen:
		switch msg.String() {
		case "n":
			return m, m.contacts.Drawer.Open(nil)
		case "enter":
			if row, ok := m.contacts.Table.Selected(); ok {
				return m, row.OpenDrawer(row.Record.ID)
			}
			return m, nil
		}
		return m, m.contacts.Table.Update(msg)

	case servicesScreen:
		row, ok := m.services.Table.Selected()
		switch msg.String() {
		case "e", "d":
			if !ok {
				return m, nil
			}
			action := "enable"
			if msg.String() == "d" {
				action = "disable"
			}
			m.statusMessage = fmt.Sprintf("%sing monitor %s...", strings.TrimSuffix(action, "e"), row.Record.Label)
			return m, m.performServiceAction(action, row.Record.ID)
		case "x":
			if ok {
				m.services.ShowingConfirmation = true
				m.services.ConfirmAction = "delete"
				m.services.ConfirmServiceID = row.Record.ID
			}
			return m, nil
		}
		return m, m.services.Table.Update(msg)

	case credentialsScreen:
		if msg.String() == "x" {
			if row, ok := m.credentials.Table.Selected(); ok {
				m.credentials.ShowingConfirmation = true
				m.credentials.ConfirmCredentialID = row.Record.ID
			}
			return m, nil
		}
		return m, m.credentials.Table.Update(msg)

	case settingsScreen:
		if msg.String() == "a" {
			if row, ok := m.settings.Table.Selected(); ok {
				return m, m.toggleSSHAccess(row.Record)
			}
			return m, nil
		}
		return m, m.settings.Table.Update(msg)

	case imagesScreen:
		switch msg.String() {
		case "v":
			m.images.CycleVisibility()
			return m, nil
		case "s":
			m.images.ToggleHideKube()
			return m, nil
		}
		return m, m.images.Table.Update(msg)
	}
	return m, nil
}

func (m model) handleDrawerKey(msg tea.KeyMsg) (model, tea.Cmd) {
	d := m.contacts.Drawer
	switch msg.String() {
	case "esc":
		d.Close()
		return m, nil
	case "enter":
		if d.Submitting {
			return m, nil
		}
		d.Submitting = true
		d.Errors = nil
		return m, m.submitContact(d.EditingID, d.Payload())
	}
	return m, d.Update(msg)
}

func (m model) handleServiceConfirmation(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id, action := m.services.ConfirmServiceID, m.services.ConfirmAction
		m.services.ShowingConfirmation = false
		return m, m.performServiceAction(action, id)
	case "n", "N", "esc":
		m.services.ShowingConfirmation = false
		m.statusMessage = "Cancelled"
	}
	return m, nil
}

func (m model) handleCredentialConfirmation(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.credentials.ConfirmCredentialID
		m.credentials.ShowingConfirmation = false
		return m, m.revokeCredential(id)
	case "n", "N", "esc":
		m.credentials.ShowingConfirmation = false
		m.statusMessage = "Cancelled"
	}
	return m, nil
}

func (m *model) cycleScreen(step int) {
	idx := 0
	for i, s := range listScreens {
		if s == m.currentScreen {
			idx = i
			break
		}
	}
	idx = (idx + step + len(listScreens)) % len(listScreens)
	m.currentScreen = listScreens[idx]
	m.statusMessage = ""
}

// refresh reloads the list on the current screen. Records stay visible
// while the reload runs.
func (m *model) refresh() tea.Cmd {
	switch m.currentScreen {
	case contactsScreen:
		m.contacts.Loading = true
		return m.loadContacts
	case servicesScreen:
		m.services.Loading = true
		return m.loadServices
	case credentialsScreen:
		m.credentials.Loading = true
		return m.loadCredentials
	case settingsScreen:
		m.settings.Loading = true
		return m.loadSettings
	case imagesScreen:
		m.images.Loading = true
		return m.loadImages
	}
	return nil
}

// selectedID returns the identifier of the row under the cursor.
func (m model) selectedID() (string, bool) {
	switch m.currentScreen {
	case contactsScreen:
		if row, ok := m.contacts.Table.Selected(); ok {
			return strconv.Itoa(row.Record.ID), true
		}
	case servicesScreen:
		if row, ok := m.services.Table.Selected(); ok {
			return strconv.Itoa(row.Record.ID), true
		}
	case credentialsScreen:
		if row, ok := m.credentials.Table.Selected(); ok {
			return strconv.Itoa(row.Record.ID), true
		}
	case settingsScreen:
		if row, ok := m.settings.Table.Selected(); ok {
			return strconv.Itoa(row.Record.ID), true
		}
	case imagesScreen:
		if row, ok := m.images.Table.Selected(); ok {
			return row.Record.ID, true
		}
	}
	return "", false
}

// cloudManagerURL is the web console page for the current screen.
func (m model) cloudManagerURL() string {
	base := strings.TrimRight(m.config.CloudManagerURL, "/")
	switch m.currentScreen {
	case contactsScreen:
		return base + "/managed/contacts"
	case servicesScreen:
		return base + "/managed/monitors"
	case credentialsScreen:
		return base + "/managed/credentials"
	case settingsScreen:
		if id, ok := m.selectedID(); ok {
			return base + "/linodes/" + id
		}
		return base + "/managed/linodes"
	case imagesScreen:
		return base + "/images"
	}
	return base
}

func (m *model) openInBrowser() {
	url := m.cloudManagerURL()
	if err := openURL(url); err != nil {
		logging.Warnf("failed to open %s: %v", url, err)
		m.statusMessage = fmt.Sprintf("Could not open browser: %v", err)
		return
	}
	m.statusMessage = "Opened " + url
}

func (m *model) copySelectedID() {
	id, ok := m.selectedID()
	if !ok {
		return
	}
	if err := copyText(id); err != nil {
		logging.Warnf("clipboard unavailable: %v", err)
		m.statusMessage = fmt.Sprintf("Could not copy: %v", err)
		return
	}
	m.statusMessage = "Copied to clipboard: " + id
}
