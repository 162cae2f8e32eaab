package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	uiContacts "github.com/noelruault/lazylinode/internal/ui/contacts"
	uiCredentials "github.com/noelruault/lazylinode/internal/ui/credentials"
	uiImages "github.com/noelruault/lazylinode/internal/ui/images"
	uiServices "github.com/noelruault/lazylinode/internal/ui/services"
	uiSettings "github.com/noelruault/lazylinode/internal/ui/settings"
	uiShared "github.com/noelruault/lazylinode/internal/ui/shared"
)

var (
	keyHintKeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true)
	keyHintActionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	activeTabStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("51")).Bold(true).Padding(0, 1)
	tabStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dialogStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("1")).Padding(1, 2)
)

func (m model) View() string {
	var s strings.Builder
	s.WriteString(m.renderHeader() + "\n")

	contentStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2)
	if m.width > 2 {
		contentStyle = contentStyle.Width(m.width - 2)
	}
	if m.height > 8 {
		contentStyle = contentStyle.MaxHeight(m.height - 6)
	}

	var content string
	switch {
	case m.contacts.Drawer.IsOpen:
		content = m.contacts.Drawer.View()
	case m.services.ShowingConfirmation:
		content = dialogStyle.Render(uiServices.RenderConfirmation(m.services))
	case m.credentials.ShowingConfirmation:
		content = dialogStyle.Render(uiCredentials.RenderConfirmation(m.credentials))
	default:
		content = m.renderScreen()
	}
	s.WriteString(contentStyle.Render(content) + "\n")

	if m.statusMessage != "" {
		s.WriteString(statusStyle.Render(m.statusMessage))
	}
	return s.String()
}

func (m model) renderScreen() string {
	switch m.currentScreen {
	case contactsScreen:
		return uiContacts.RenderList(m.contacts)
	case servicesScreen:
		return uiServices.RenderList(m.services)
	case credentialsScreen:
		return uiCredentials.RenderList(m.credentials)
	case settingsScreen:
		return uiSettings.RenderList(m.settings)
	case imagesScreen:
		return uiImages.RenderList(m.images)
	case helpScreen:
		return m.renderHelp()
	}
	return ""
}

func (m model) renderHeader() string {
	var left strings.Builder
	left.WriteString(uiShared.LabelStyle.Render("API:     ") + uiShared.ValueStyle.Render(m.config.APIRoot) + "\n")
	auth := "token"
	if m.client == nil || !m.client.HasToken() {
		auth = "none (public data only)"
	}
	left.WriteString(uiShared.LabelStyle.Render("Auth:    ") + uiShared.ValueStyle.Render(auth) + "\n")
	left.WriteString(uiShared.LabelStyle.Render("View:    ") + uiShared.ValueStyle.Render(m.currentScreen.String()))

	hints := m.keyHints()
	var right strings.Builder
	for i, h := range hints {
		right.WriteString(keyHintKeyStyle.Render("<"+h[0]+">") + " " + keyHintActionStyle.Render(h[1]))
		if i%2 == 1 {
			right.WriteString("\n")
		} else {
			right.WriteString("   ")
		}
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(60).Render(left.String()),
		right.String(),
	)

	tabs := make([]string, 0, len(listScreens))
	for _, sc := range listScreens {
		style := tabStyle
		if sc == m.currentScreen {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(sc.String()))
	}
	return top + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// keyHints are the [key, action] pairs shown for the current screen.
func (m model) keyHints() [][2]string {
	hints := [][2]string{{"tab", "next view"}, {"r", "refresh"}, {"o", "open in browser"}, {"y", "copy id"}}
	switch m.currentScreen {
	case contactsScreen:
		hints = append(hints, [2]string{"n", "new contact"}, [2]string{"enter", "edit"})
	case servicesScreen:
		hints = append(hints, [2]string{"e", "enable"}, [2]string{"d", "disable"}, [2]string{"x", "delete"})
	case credentialsScreen:
		hints = append(hints, [2]string{"x", "revoke"})
	case settingsScreen:
		hints = append(hints, [2]string{"a", "toggle ssh access"})
	case imagesScreen:
		hints = append(hints, [2]string{"v", "visibility"}, [2]string{"s", "hide system kube"})
	}
	return append(hints, [2]string{"?", "help"}, [2]string{"q", "quit"})
}

func (m model) renderHelp() string {
	rows := [][2]string{
		{"tab / shift+tab", "switch between lists"},
		{"up / down, j / k", "move the selection"},
		{"ctrl+d / ctrl+u", "half page down or up (d is disable on monitors)"},
		{"r", "reload the current list"},
		{"o", "open the current list in Cloud Manager"},
		{"y", "copy the selected ID to the clipboard"},
		{"n", "contacts: add a contact"},
		{"enter", "contacts: edit the selected contact"},
		{"e / d", "monitors: enable or disable"},
		{"x", "monitors: delete, credentials: revoke"},
		{"a", "linode settings: toggle SSH access"},
		{"v", "images: cycle all / public / private"},
		{"s", "images: hide system Kubernetes images"},
		{"esc", "close dialogs and help"},
		{"q / ctrl+c", "quit"},
	}
	var b strings.Builder
	b.WriteString(uiShared.TitleStyle.Render("Keys") + "\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %s %s\n", keyHintKeyStyle.Render(fmt.Sprintf("%-16s", r[0])), r[1]))
	}
	return b.String()
}
