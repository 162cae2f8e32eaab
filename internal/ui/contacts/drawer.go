package contacts

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/noelruault/lazylinode/internal/linode"
	"github.com/noelruault/lazylinode/internal/ui/shared"
)

// Form fields, in tab order.
const (
	FieldName = iota
	FieldEmail
	FieldPhonePrimary
	FieldPhoneSecondary
	FieldGroup
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "E-mail", "Primary Phone", "Secondary Phone", "Group"}

var drawerStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("6")).
	Padding(1, 2)

// Drawer is the create/edit form for a contact.
type Drawer struct {
	IsOpen bool
	// EditingID is the contact being edited, or 0 when creating.
	EditingID  int
	Submitting bool
	Errors     linode.APIErrors

	inputs [fieldCount]textinput.Model
	focus  int
}

// NewDrawer returns a closed drawer.
func NewDrawer() *Drawer {
	d := &Drawer{}
	limits := [fieldCount]int{64, 128, 32, 32, 50}
	for i := range d.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = limits[i]
		in.Width = 40
		d.inputs[i] = in
	}
	return d
}

// Open shows the drawer, pre-filled from contact when editing.
func (d *Drawer) Open(contact *linode.ManagedContact) tea.Cmd {
	d.IsOpen = true
	d.Submitting = false
	d.Errors = nil
	d.EditingID = 0
	for i := range d.inputs {
		d.inputs[i].SetValue("")
	}
	if contact != nil {
		d.EditingID = contact.ID
		d.inputs[FieldName].SetValue(contact.Name)
		d.inputs[FieldEmail].SetValue(contact.Email)
		d.inputs[FieldPhonePrimary].SetValue(contact.Phone.Primary)
		d.inputs[FieldPhoneSecondary].SetValue(contact.Phone.Secondary)
		d.inputs[FieldGroup].SetValue(contact.Group)
	}
	return d.setFocus(FieldName)
}

// Close hides the drawer.
func (d *Drawer) Close() {
	d.IsOpen = false
	d.Submitting = false
	for i := range d.inputs {
		d.inputs[i].Blur()
	}
}

// Payload builds the request body from the form. When editing, fields
// left empty are sent as null so they are cleared on the contact.
func (d *Drawer) Payload() linode.ContactPayload {
	value := func(i int) string { return strings.TrimSpace(d.inputs[i].Value()) }
	p := linode.ContactPayload{
		Name:       value(FieldName),
		Email:      value(FieldEmail),
		Group:      value(FieldGroup),
		ClearEmpty: d.EditingID != 0,
	}
	if primary, secondary := value(FieldPhonePrimary), value(FieldPhoneSecondary); primary != "" || secondary != "" {
		p.Phone = &linode.ManagedContactPhone{Primary: primary, Secondary: secondary}
	}
	return p
}

// SetValue fills one form field.
func (d *Drawer) SetValue(field int, v string) {
	if field >= 0 && field < fieldCount {
		d.inputs[field].SetValue(v)
	}
}

func (d *Drawer) setFocus(i int) tea.Cmd {
	d.inputs[d.focus].Blur()
	d.focus = (i + fieldCount) % fieldCount
	return d.inputs[d.focus].Focus()
}

// Update moves focus on tab/shift+tab and forwards other input to the
// focused field.
func (d *Drawer) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return d.setFocus(d.focus + 1)
		case "shift+tab", "up":
			return d.setFocus(d.focus - 1)
		}
	}
	var cmd tea.Cmd
	d.inputs[d.focus], cmd = d.inputs[d.focus].Update(msg)
	return cmd
}

// View renders the drawer.
func (d *Drawer) View() string {
	title := "Add Contact"
	if d.EditingID != 0 {
		title = "Edit Contact"
	}
	var b strings.Builder
	b.WriteString(shared.TitleStyle.Render(title) + "\n\n")
	for i, in := range d.inputs {
		label := fieldLabels[i]
		if i == d.focus {
			label = "> " + label
		} else {
			label = "  " + label
		}
		b.WriteString(shared.LabelStyle.Render(lipgloss.NewStyle().Width(18).Render(label)) + in.View() + "\n")
	}
	if d.Submitting {
		b.WriteString("\n" + shared.LoadingStyle.Render("Saving..."))
	} else if d.Errors != nil {
		b.WriteString("\n" + shared.ErrorStyle.Render(linode.ErrorStringOrDefault(d.Errors)))
	}
	b.WriteString("\n" + shared.HintStyle.Render("tab next field • enter save • esc cancel"))
	return drawerStyle.Render(b.String())
}
